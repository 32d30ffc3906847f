package transactionControllers

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	orderControllers "github.com/ahmed50f/new-commerce/controllers/order"
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

// seedPaidOrderSetup builds a customer and a settled pending order worth 120
// (2 x 50 plus Cairo shipping at 20).
func seedPaidOrderSetup(t *testing.T, db *gorm.DB) (models.User, *models.Order) {
	t.Helper()
	company := models.Company{Name: "Acme", SubscriptionPlan: models.PlanPremium}
	require.NoError(t, db.Create(&company).Error)

	vendor := models.User{
		Email: "vendor@example.com", Phone: "+20100", Name: "vendor",
		Role: models.RoleVendor, CompanyID: &company.ID,
	}
	require.NoError(t, db.Create(&vendor).Error)

	customer := models.User{
		Email: "customer@example.com", Phone: "+20111", Name: "customer",
		Role: models.RoleClient,
	}
	require.NoError(t, db.Create(&customer).Error)

	product := models.Product{
		CompanyID: company.ID, VendorID: vendor.ID,
		Name: "lamp", Slug: "lamp",
		Price: decimal.NewFromInt(50), Stock: 10, IsActive: true,
	}
	require.NoError(t, db.Create(&product).Error)

	order, err := orderControllers.CreateOrder(db, customer.ID, company.ID, "Cairo", "",
		[]orderControllers.OrderLineInput{{ProductID: product.ID, Quantity: 2}})
	require.NoError(t, err)
	return customer, order
}

func TestRecordTransactionSnapshotsAmount(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodVisa)
	require.NoError(t, err)
	assert.True(t, txn.Amount.Equal(decimal.NewFromInt(120)))
	assert.Equal(t, models.TransactionPending, txn.Status)
	assert.Len(t, txn.ReferenceID, 12)

	// Re-shipping the order afterwards changes its total but never the
	// recorded amount.
	aswan := "Aswan"
	updated, err := orderControllers.UpdateOrder(db, order.ID, &aswan, nil, nil)
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(decimal.NewFromInt(160)))

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, txn.ID).Error)
	assert.True(t, reloaded.Amount.Equal(decimal.NewFromInt(120)), "amount is a snapshot")
}

func TestRecordTransactionRejectsForeignOrder(t *testing.T) {
	db := newTestDB(t)
	_, order := seedPaidOrderSetup(t, db)

	intruder := models.User{
		Email: "intruder@example.com", Phone: "+20122", Name: "intruder",
		Role: models.RoleClient,
	}
	require.NoError(t, db.Create(&intruder).Error)

	_, err := RecordTransaction(db, intruder.ID, order.ID, models.MethodVisa)
	require.ErrorIs(t, err, orderControllers.ErrOrderNotOwned)
}

func TestReferenceIDsAreUniquePerTransaction(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodWallet)
		require.NoError(t, err)
		require.Len(t, txn.ReferenceID, 12)
		assert.Equal(t, strings.ToUpper(txn.ReferenceID), txn.ReferenceID)
		assert.False(t, seen[txn.ReferenceID], "reference %s issued twice", txn.ReferenceID)
		seen[txn.ReferenceID] = true
	}
}

func TestMapPaymentMethod(t *testing.T) {
	for _, valid := range []string{"visa", "paypal", "fawry", "wallet"} {
		method, err := mapPaymentMethod(valid)
		require.NoError(t, err)
		assert.EqualValues(t, valid, method)
	}
	_, err := mapPaymentMethod("cheque")
	require.Error(t, err)
}

func TestApplyGatewayResultSuccess(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodFawry)
	require.NoError(t, err)

	updated, err := ApplyGatewayResult(db, txn.ID, models.TransactionSuccess)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionSuccess, updated.Status)

	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusPaid, reloadedOrder.Status)

	var note models.Notification
	require.NoError(t, db.Where("user_id = ?", customer.ID).First(&note).Error)
	assert.Equal(t, "Payment Successful", note.Title)
	assert.Contains(t, note.Message, fmt.Sprintf("Order #%d", order.ID))
	assert.False(t, note.Read)
}

func TestApplyGatewayResultFailure(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodPayPal)
	require.NoError(t, err)

	updated, err := ApplyGatewayResult(db, txn.ID, models.TransactionFailed)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionFailed, updated.Status)

	// Order stays pending on a failed payment.
	var reloadedOrder models.Order
	require.NoError(t, db.First(&reloadedOrder, order.ID).Error)
	assert.Equal(t, models.OrderStatusPending, reloadedOrder.Status)

	var note models.Notification
	require.NoError(t, db.Where("user_id = ?", customer.ID).First(&note).Error)
	assert.Equal(t, "Payment Failed", note.Title)
	assert.Contains(t, note.Message, "Please try again")
}

func TestApplyGatewayResultSurfacesPaidTransitionFailure(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodVisa)
	require.NoError(t, err)

	// The order vanishes before the gateway confirms. The success result
	// must not be reported clean when the order cannot be marked paid.
	require.NoError(t, db.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error)
	require.NoError(t, db.Delete(&models.Order{}, order.ID).Error)

	_, err = ApplyGatewayResult(db, txn.ID, models.TransactionSuccess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not be marked paid")
}

func TestApplyGatewayResultRejectsBogusStatus(t *testing.T) {
	db := newTestDB(t)
	customer, order := seedPaidOrderSetup(t, db)

	txn, err := RecordTransaction(db, customer.ID, order.ID, models.MethodVisa)
	require.NoError(t, err)

	_, err = ApplyGatewayResult(db, txn.ID, models.TransactionStatus("refunded"))
	require.Error(t, err)

	var reloaded models.Transaction
	require.NoError(t, db.First(&reloaded, txn.ID).Error)
	assert.Equal(t, models.TransactionPending, reloaded.Status)
}
