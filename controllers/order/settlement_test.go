package orderControllers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Company{}, &models.Category{}, &models.Product{},
		&models.Review{}, &models.Order{}, &models.OrderItem{},
		&models.Transaction{}, &models.Notification{},
	))
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string) models.Company {
	t.Helper()
	company := models.Company{Name: name, SubscriptionPlan: models.PlanPremium}
	require.NoError(t, db.Create(&company).Error)
	return company
}

func seedUser(t *testing.T, db *gorm.DB, name string, role models.Role, companyID *uint) models.User {
	t.Helper()
	user := models.User{
		Email:     name + "@example.com",
		Phone:     fmt.Sprintf("+20%d%s", len(name), name),
		Name:      name,
		Role:      role,
		CompanyID: companyID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, company models.Company, vendor models.User, name, price, discount string, stock int) models.Product {
	t.Helper()
	priceDec, err := decimal.NewFromString(price)
	require.NoError(t, err)
	discountDec, err := decimal.NewFromString(discount)
	require.NoError(t, err)

	product := models.Product{
		CompanyID: company.ID,
		VendorID:  vendor.ID,
		Name:      name,
		Slug:      name,
		Price:     priceDec,
		Stock:     stock,
		Discount:  discountDec,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

// requireTotalsConsistent checks the settlement invariants against the
// order's live lines.
func requireTotalsConsistent(t *testing.T, db *gorm.DB, orderID uint) models.Order {
	t.Helper()
	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, orderID).Error)

	itemsTotal, discountTotal := decimal.Zero, decimal.Zero
	for _, it := range order.Items {
		itemsTotal = itemsTotal.Add(it.Price)
		discountTotal = discountTotal.Add(it.DiscountAmount)
	}

	assert.True(t, order.ItemsTotal.Equal(itemsTotal),
		"items_total %s != sum of line prices %s", order.ItemsTotal, itemsTotal)
	assert.True(t, order.DiscountAmount.Equal(discountTotal),
		"discount_amount %s != sum of line discounts %s", order.DiscountAmount, discountTotal)
	assert.True(t, order.TotalAfterDiscount.Equal(itemsTotal.Sub(discountTotal)))
	assert.True(t, order.TotalAmount.Equal(order.TotalAfterDiscount.Add(order.ShippingCost)))
	return order
}

func TestCreateOrderComputesTotals(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "lamp", "50", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "12 Tahrir St", []OrderLineInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.True(t, order.ItemsTotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.DiscountAmount.Equal(decimal.Zero))
	assert.True(t, order.TotalAfterDiscount.Equal(decimal.NewFromInt(100)))
	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(20)), "Cairo ships at 20")
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(120)))
	require.NotNil(t, order.Latitude)
	require.NotNil(t, order.Longitude)
	assert.True(t, order.Latitude.Equal(decimal.NewFromFloat(30.0444)))

	requireTotalsConsistent(t, db, order.ID)
}

func TestCreateOrderAppliesPercentageDiscount(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "rug", "200", "10", 5)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	require.Len(t, order.Items, 1)
	line := order.Items[0]
	assert.True(t, line.Price.Equal(decimal.NewFromInt(200)))
	assert.True(t, line.DiscountAmount.Equal(decimal.NewFromInt(20)))
	assert.True(t, line.TotalAfterDiscount.Equal(decimal.NewFromInt(180)))

	assert.True(t, order.TotalAfterDiscount.Equal(decimal.NewFromInt(180)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(200)), "180 + Cairo shipping 20")
}

func TestCreateOrderRejectsEmptyOrder(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	customer := seedUser(t, db, "customer", models.RoleClient, nil)

	_, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", nil)
	require.ErrorIs(t, err, ErrEmptyOrder)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count, "nothing may be persisted for a rejected order")
}

func TestCreateOrderRejectsForeignCompanyProduct(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	other := seedCompany(t, db, "Globex")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &other.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	foreign := seedProduct(t, db, other, vendor, "vase", "30", "0", 8)

	_, err := CreateOrder(db, customer.ID, company.ID, "Giza", "", []OrderLineInput{
		{ProductID: foreign.ID, Quantity: 1},
	})
	require.ErrorIs(t, err, ErrProductCompanyMismatch)
	assert.Contains(t, err.Error(), "vase")

	// The whole transaction rolled back: no order, no stock movement.
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, foreign.ID).Error)
	assert.Equal(t, 8, reloaded.Stock)
}

func TestCreateOrderRejectsInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "chair", "75", "0", 1)

	_, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 1, reloaded.Stock, "failed order must not move stock")
}

func TestStockDecrementedExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "table", "40", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 3},
	})
	require.NoError(t, err)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 7, reloaded.Stock)

	// Raising the quantity re-prices the line but never touches stock again.
	item, err := AddOrUpdateLine(db, customer.ID, models.RoleClient, nil, order.ID, product.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(200)))

	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 7, reloaded.Stock, "line edits must not move stock")

	requireTotalsConsistent(t, db, order.ID)
}

func TestLineSnapshotFollowsCurrentProductPriceOnEdit(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "desk", "100", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	// The vendor re-prices the product afterwards. The existing line keeps
	// its frozen snapshot until the line itself is edited.
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).
		Update("price", decimal.NewFromInt(150)).Error)

	settled := requireTotalsConsistent(t, db, order.ID)
	assert.True(t, settled.Items[0].Price.Equal(decimal.NewFromInt(100)), "snapshot must not drift")

	// Editing the line re-freezes from the current product price.
	item, err := AddOrUpdateLine(db, customer.ID, models.RoleClient, nil, order.ID, product.ID, 1)
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(150)))
	requireTotalsConsistent(t, db, order.ID)
}

func TestDeleteLineRecomputesWithoutRestock(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	keep := seedProduct(t, db, company, vendor, "sofa", "300", "0", 4)
	drop := seedProduct(t, db, company, vendor, "stool", "25", "0", 6)

	order, err := CreateOrder(db, customer.ID, company.ID, "Giza", "", []OrderLineInput{
		{ProductID: keep.ID, Quantity: 1},
		{ProductID: drop.ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, order.ItemsTotal.Equal(decimal.NewFromInt(350)))

	var line models.OrderItem
	require.NoError(t, db.Where("order_id = ? AND product_id = ?", order.ID, drop.ID).First(&line).Error)
	require.NoError(t, DeleteLine(db, customer.ID, models.RoleClient, nil, line.ID))

	settled := requireTotalsConsistent(t, db, order.ID)
	assert.True(t, settled.ItemsTotal.Equal(decimal.NewFromInt(300)))
	require.Len(t, settled.Items, 1)

	// Stock taken at creation stays taken.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, drop.ID).Error)
	assert.Equal(t, 4, reloaded.Stock)
}

func TestUnknownGovernorateGetsDefaultShipping(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "shelf", "10", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Atlantis", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(50)))
	assert.Nil(t, order.Latitude)
	assert.Nil(t, order.Longitude)
}

func TestUpdateOrderGovernorateReprices(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "mirror", "60", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(80)))

	aswan := "Aswan"
	updated, err := UpdateOrder(db, order.ID, &aswan, nil, nil)
	require.NoError(t, err)
	assert.True(t, updated.ShippingCost.Equal(decimal.NewFromInt(60)))
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(120)))
	requireTotalsConsistent(t, db, order.ID)
}

func TestAddLineToForeignOrderRejected(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	owner := seedUser(t, db, "owner", models.RoleClient, nil)
	intruder := seedUser(t, db, "intruder", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "clock", "15", "0", 10)

	order, err := CreateOrder(db, owner.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = AddOrUpdateLine(db, intruder.ID, models.RoleClient, nil, order.ID, product.ID, 2)
	require.ErrorIs(t, err, ErrOrderNotOwned)
}

func TestVendorOfOrderCompanyMayEditLines(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "bench", "45", "0", 10)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = AddOrUpdateLine(db, vendor.ID, models.RoleVendor, &company.ID, order.ID, product.ID, 2)
	require.NoError(t, err)
	requireTotalsConsistent(t, db, order.ID)
}

func TestCreateOrderRejectsNonPositiveQuantity(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "ladder", "35", "0", 10)

	for _, quantity := range []int{-5, 0} {
		_, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
			{ProductID: product.ID, Quantity: quantity},
		})
		require.ErrorIs(t, err, ErrInvalidQuantity, "quantity %d must be rejected", quantity)
	}

	// A negative quantity must never inflate stock through the decrement.
	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 10, reloaded.Stock)

	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestRaisingLinePastRemainingStockRejected(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "crate", "20", "0", 3)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	// Stock validation runs on edits too, against what is left.
	_, err = AddOrUpdateLine(db, customer.ID, models.RoleClient, nil, order.ID, product.ID, 100)
	require.ErrorIs(t, err, ErrInsufficientStock)

	settled := requireTotalsConsistent(t, db, order.ID)
	require.Len(t, settled.Items, 1)
	assert.Equal(t, 2, settled.Items[0].Quantity, "failed edit must not touch the line")
	assert.True(t, settled.ItemsTotal.Equal(decimal.NewFromInt(40)))
}

func TestConcurrentOrdersCannotOversell(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	first := seedUser(t, db, "first", models.RoleClient, nil)
	second := seedUser(t, db, "second", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "hammock", "80", "0", 1)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, customer := range []models.User{first, second} {
		wg.Add(1)
		go func(customerID uint) {
			defer wg.Done()
			_, err := CreateOrder(db, customerID, company.ID, "Cairo", "", []OrderLineInput{
				{ProductID: product.ID, Quantity: 1},
			})
			results <- err
		}(customer.ID)
	}
	wg.Wait()
	close(results)

	succeeded, rejected := 0, 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrInsufficientStock)
			rejected++
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one order may take the last unit")
	assert.Equal(t, 1, rejected)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 0, reloaded.Stock)
}
