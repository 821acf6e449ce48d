package cartControllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/middleware"
	"github.com/Hackerette0/ecommerce--ly/models"
)

type AddToCartInput struct {
	ProductID uint `json:"productId"`
	Quantity  *int `json:"quantity"` // defaults to 1 when omitted
}

// Line is a cart line expanded with the product's current details, so the
// client can render name/price/image without a second round trip.
type Line struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Stock     int    `json:"stock"`
	Quantity  int    `json:"quantity"`
}

// AddItem merges quantity into the user's line for the product, or appends a
// new line. The write is a single atomic increment-or-insert upsert, so two
// concurrent adds for the same product cannot lose an update.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) ([]Line, error) {
	if quantity < 1 {
		return nil, httperr.InvalidArgument.WithMessage("Quantity must be a positive integer")
	}

	var user models.User
	if err := db.Select("id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound.WithMessage("User not found")
		}
		return nil, err
	}

	var product models.Product
	if err := db.Select("id").First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.NotFound.WithMessage("Product does not exist")
		}
		return nil, err
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   time.Now(),
	}
	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
			"added_at": item.AddedAt,
		}),
	}).Create(&item).Error
	if err != nil {
		return nil, err
	}

	return Expand(db, userID)
}

// Expand returns the user's cart joined with product details. Lines whose
// product has since been soft-deleted are skipped.
func Expand(db *gorm.DB, userID uint) ([]Line, error) {
	lines := []Line{}
	err := db.Table("cart_items").
		Select("cart_items.product_id, products.name, products.price, products.image, products.stock, cart_items.quantity").
		Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("cart_items.user_id = ?", userID).
		Order("cart_items.added_at").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// POST /cart/add
func AddToCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}

		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}
		if input.ProductID == 0 {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("productId is required"))
			return
		}
		quantity := 1
		if input.Quantity != nil {
			quantity = *input.Quantity
		}

		cart, err := AddItem(db, userID, input.ProductID, quantity)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}
		cart, err := Expand(db, userID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}
