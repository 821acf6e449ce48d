package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// GET /products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		products := []models.Product{}
		query := db.Order("created_at DESC")
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if skinType := c.Query("skinType"); skinType != "" {
			query = query.Where("skin_type = ? OR skin_type = 'all'", skinType)
		}
		if err := query.Find(&products).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid product ID"))
			return
		}
		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Respond(c, httperr.NotFound.WithMessage("Product not found"))
				return
			}
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
