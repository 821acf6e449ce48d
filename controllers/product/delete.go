package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// DELETE /products/:id — soft delete, so order history keeps resolving.
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid product ID"))
			return
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			httperr.Respond(c, result.Error)
			return
		}
		if result.RowsAffected == 0 {
			httperr.Respond(c, httperr.NotFound.WithMessage("Product not found"))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
