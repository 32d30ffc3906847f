package models

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleVendor Role = "vendor"
	RoleAdmin  Role = "admin"
)

type User struct {
	ID        uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string   `gorm:"unique;not null" json:"email"`
	Phone     string   `gorm:"unique;not null" json:"phone"`
	Name      string   `json:"name"`
	Role      Role     `gorm:"type:VARCHAR(20);default:'client'" json:"role"`
	CompanyID *uint    `json:"company_id"` // set for vendors only
	Company   *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
