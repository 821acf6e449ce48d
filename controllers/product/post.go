package productControllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// UploadsDir is where product images land; served back under /uploads.
// Overridable so deployments can point it at a mounted volume.
func UploadsDir() string {
	if dir := os.Getenv("UPLOADS_DIR"); dir != "" {
		return dir
	}
	return "./uploads"
}

// CreateProduct accepts a multipart form: name, price (paise), category,
// skin_type, stock, description, and either an uploaded image file or an
// image_url pointing at an already-hosted image.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		name := strings.TrimSpace(c.PostForm("name"))
		priceStr := c.PostForm("price")
		category := strings.ToLower(strings.TrimSpace(c.PostForm("category")))
		if name == "" || priceStr == "" || category == "" {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("name, price, and category are required"))
			return
		}

		price, err := strconv.ParseInt(priceStr, 10, 64)
		if err != nil || price < 0 {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid price"))
			return
		}

		skinType := strings.ToLower(strings.TrimSpace(c.PostForm("skin_type")))
		if skinType == "" {
			skinType = "all"
		}

		stock := 0
		if stockStr := c.PostForm("stock"); stockStr != "" {
			stock, err = strconv.Atoi(stockStr)
			if err != nil || stock < 0 {
				httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid stock"))
				return
			}
		}

		imageURL := c.PostForm("image_url")
		if file, ferr := c.FormFile("image"); ferr == nil {
			filename := strings.ReplaceAll(file.Filename, " ", "_")
			saveDir := filepath.Join(UploadsDir(), "products")
			if err := os.MkdirAll(saveDir, os.ModePerm); err != nil {
				httperr.Respond(c, fmt.Errorf("failed to create upload folder: %w", err))
				return
			}
			if err := c.SaveUploadedFile(file, filepath.Join(saveDir, filename)); err != nil {
				httperr.Respond(c, fmt.Errorf("failed to save image: %w", err))
				return
			}
			imageURL = fmt.Sprintf("/uploads/products/%s", filename)
		}

		product := models.Product{
			Name:        name,
			Description: c.PostForm("description"),
			Price:       price,
			Category:    category,
			SkinType:    skinType,
			Stock:       stock,
			Image:       imageURL,
		}
		if err := db.Create(&product).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
