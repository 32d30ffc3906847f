package orderControllers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ahmed50f/new-commerce/middleware"
	"github.com/ahmed50f/new-commerce/models"
)

func performOrderUpdate(t *testing.T, db *gorm.DB, ident *middleware.Identity, orderID uint, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPut, "/orders/"+strconv.Itoa(int(orderID)), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "orderID", Value: strconv.Itoa(int(orderID))}}
	if ident != nil {
		middleware.SetIdentity(c, *ident)
	}

	UpdateOrderHandler(db, zap.NewNop())(c)
	return w
}

func TestUpdateOrderHandlerRequiresIdentity(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "kettle", "25", "0", 5)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	w := performOrderUpdate(t, db, nil, order.ID, `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status, "anonymous callers must not change orders")
}

func TestUpdateOrderHandlerRejectsNonOwner(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	intruder := seedUser(t, db, "intruder", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "teapot", "30", "0", 5)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	ident := middleware.Identity{UserID: intruder.ID, Role: models.RoleClient}
	w := performOrderUpdate(t, db, &ident, order.ID, `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloaded.Status)
}

func TestUpdateOrderHandlerAllowsOwner(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "Acme")
	vendor := seedUser(t, db, "vendor", models.RoleVendor, &company.ID)
	customer := seedUser(t, db, "customer", models.RoleClient, nil)
	product := seedProduct(t, db, company, vendor, "tray", "18", "0", 5)

	order, err := CreateOrder(db, customer.ID, company.ID, "Cairo", "", []OrderLineInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	ident := middleware.Identity{UserID: customer.ID, Role: models.RoleClient}
	w := performOrderUpdate(t, db, &ident, order.ID, `{"status":"cancelled"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Order
	require.NoError(t, db.First(&reloaded, order.ID).Error)
	assert.Equal(t, models.OrderStatusCancelled, reloaded.Status)
}
