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

type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Category    *string `json:"category"`
	SkinType    *string `json:"skin_type"`
	Stock       *int    `json:"stock"`
	Image       *string `json:"image"`
}

// PUT /products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
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

		var input UpdateProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}

		updates := make(map[string]interface{})
		if input.Name != nil {
			updates["name"] = *input.Name
		}
		if input.Description != nil {
			updates["description"] = *input.Description
		}
		if input.Price != nil {
			if *input.Price < 0 {
				httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid price"))
				return
			}
			updates["price"] = *input.Price
		}
		if input.Category != nil {
			updates["category"] = *input.Category
		}
		if input.SkinType != nil {
			updates["skin_type"] = *input.SkinType
		}
		if input.Stock != nil {
			if *input.Stock < 0 {
				httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid stock"))
				return
			}
			updates["stock"] = *input.Stock
		}
		if input.Image != nil {
			updates["image"] = *input.Image
		}

		if len(updates) > 0 {
			if err := db.Model(&product).Updates(updates).Error; err != nil {
				httperr.Respond(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, product)
	}
}
