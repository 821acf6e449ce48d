package cartControllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{},
	))
	return db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Username: "priya", Password: "x", Role: models.RoleBuyer}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    price,
		Category: "serum",
		SkinType: "all",
		Stock:    50,
		Image:    "/uploads/products/" + name + ".jpg",
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func TestAddItemMergesByProduct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "niacinamide-serum", 59900)

	_, err := AddItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)
	_, err = AddItem(db, user.ID, product.ID, 3)
	require.NoError(t, err)
	lines, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)

	require.Len(t, lines, 1, "repeated adds must merge into one line")
	assert.Equal(t, 6, lines[0].Quantity)
	assert.Equal(t, product.ID, lines[0].ProductID)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddItemParallelAddsAccumulate(t *testing.T) {
	db := setupTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single pooled connection keeps sqlite's writers from tripping over
	// each other; the upsert still has to fold every add into one row
	sqlDB.SetMaxOpenConns(1)

	user := seedUser(t, db)
	product := seedProduct(t, db, "hyaluronic-serum", 64900)

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := AddItem(db, user.ID, product.ID, 2)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	lines, err := Expand(db, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1, "parallel adds must merge into one line")
	assert.Equal(t, workers*2, lines[0].Quantity, "no add may be lost")
}

func TestAddItemAppendsDistinctProducts(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	serum := seedProduct(t, db, "vitamin-c-serum", 1050)
	cleanser := seedProduct(t, db, "gentle-cleanser", 399)

	_, err := AddItem(db, user.ID, serum.ID, 2)
	require.NoError(t, err)
	lines, err := AddItem(db, user.ID, cleanser.ID, 1)
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "vitamin-c-serum", lines[0].Name)
	assert.EqualValues(t, 1050, lines[0].Price)
	assert.Equal(t, 2, lines[0].Quantity)
	assert.Equal(t, "gentle-cleanser", lines[1].Name)
}

func TestAddItemRejectsBadQuantity(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "toner", 24900)

	for _, quantity := range []int{0, -1, -100} {
		_, err := AddItem(db, user.ID, product.ID, quantity)
		assert.ErrorIs(t, err, httperr.InvalidArgument, "quantity %d", quantity)
	}
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)

	_, err := AddItem(db, user.ID, 9999, 1)
	assert.ErrorIs(t, err, httperr.NotFound)
}

func TestAddItemUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	product := seedProduct(t, db, "sunscreen", 44900)

	_, err := AddItem(db, 4242, product.ID, 1)
	assert.ErrorIs(t, err, httperr.NotFound)
}

func TestExpandJoinsProductDetails(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "bakuchiol-cream", 79900)

	_, err := AddItem(db, user.ID, product.ID, 2)
	require.NoError(t, err)

	lines, err := Expand(db, user.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "bakuchiol-cream", lines[0].Name)
	assert.EqualValues(t, 79900, lines[0].Price)
	assert.Equal(t, "/uploads/products/bakuchiol-cream.jpg", lines[0].Image)
	assert.Equal(t, 50, lines[0].Stock)
}

func TestExpandSkipsDeletedProducts(t *testing.T) {
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "retired-mask", 19900)

	_, err := AddItem(db, user.ID, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, db.Delete(&models.Product{}, product.ID).Error)

	lines, err := Expand(db, user.ID)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestAddToCartHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "clay-mask", 34900)

	r := gin.New()
	r.POST("/cart/add", func(c *gin.Context) {
		c.Set("user_id", user.ID)
		c.Next()
	}, AddToCart(db))

	// quantity omitted defaults to 1
	body, _ := json.Marshal(gin.H{"productId": product.ID})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Cart []Line `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Cart, 1)
	assert.Equal(t, 1, resp.Cart[0].Quantity)

	// missing productId
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewReader([]byte(`{}`)))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// unknown product
	body, _ = json.Marshal(gin.H{"productId": 777})
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/cart/add", bytes.NewReader(body))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
