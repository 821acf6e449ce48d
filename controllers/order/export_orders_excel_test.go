package orderControllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	cartControllers "github.com/Hackerette0/ecommerce--ly/controllers/cart"
	"github.com/Hackerette0/ecommerce--ly/middleware"
	"github.com/Hackerette0/ecommerce--ly/models"
)

func exportRouter(db *gorm.DB, role models.Role) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/orders/export-excel", func(c *gin.Context) {
		c.Set("user_id", uint(1))
		c.Set("role", role)
		c.Next()
	}, middleware.RequireAdmin, ExportOrdersToExcel(db))
	return r
}

func TestExportOrdersToExcelOneRowPerOrder(t *testing.T) {
	db := setupTestDB(t)
	user := seedCheckout(t, db)
	gw := &fakeGateway{verifyOK: true}

	first, _, err := FinalizeOrder(db, gw, user.ID, FinalizeOrderRequest{
		PaymentProof:    goodProof(),
		ShippingAddress: goodAddress(),
	})
	require.NoError(t, err)

	// second checkout so the sheet has more than one order
	product := models.Product{Name: "night-cream", Price: 899, Stock: 5}
	require.NoError(t, db.Create(&product).Error)
	_, err = cartControllers.AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)
	second, _, err := FinalizeOrder(db, gw, user.ID, FinalizeOrderRequest{
		PaymentProof:    PaymentProof{OrderID: "order_2", PaymentID: "pay_2", Signature: "sig"},
		ShippingAddress: goodAddress(),
	})
	require.NoError(t, err)

	r := exportRouter(db, models.RoleAdmin)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/export-excel", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "orders.xlsx")

	file, err := xlsx.OpenBinary(w.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)
	sheet := file.Sheets[0]
	assert.Equal(t, "Orders", sheet.Name)
	require.Len(t, sheet.Rows, 3, "header plus one row per order")

	header := sheet.Rows[0]
	require.GreaterOrEqual(t, len(header.Cells), 5)
	assert.Equal(t, "ID", header.Cells[0].Value)
	assert.Equal(t, "Username", header.Cells[1].Value)
	assert.Equal(t, "PaymentRef", header.Cells[4].Value)

	// both orders land exactly once, whatever the sort tie-break did
	refs := []string{sheet.Rows[1].Cells[4].Value, sheet.Rows[2].Cells[4].Value}
	assert.ElementsMatch(t, []string{first.PaymentRef, second.PaymentRef}, refs)
	for _, row := range sheet.Rows[1:] {
		assert.Equal(t, "ananya", row.Cells[1].Value)
		assert.Equal(t, string(models.OrderStatusPending), row.Cells[2].Value)
	}
}

func TestExportOrdersToExcelForbiddenForNonAdmin(t *testing.T) {
	db := setupTestDB(t)

	for _, role := range []models.Role{models.RoleBuyer, models.RoleSeller} {
		r := exportRouter(db, role)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/orders/export-excel", nil))
		assert.Equal(t, http.StatusForbidden, w.Code, "role %q", role)
	}
}
