package orderControllers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"

	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// GET /orders/export-excel (admin)
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			httperr.Respond(c, err)
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		headers := []string{
			"ID", "Username", "Status", "TotalAmount", "PaymentRef",
			"Items", "City", "State", "PostalCode", "CreatedAt",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()
			row.AddCell().SetValue(int(o.ID))
			row.AddCell().SetValue(o.User.Username)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(int(o.TotalAmount))
			row.AddCell().SetValue(o.PaymentRef)

			itemSummary := ""
			for i, item := range o.Items {
				if i > 0 {
					itemSummary += "; "
				}
				itemSummary += fmt.Sprintf("%s x%d", item.ProductName, item.Quantity)
			}
			row.AddCell().SetValue(itemSummary)

			row.AddCell().SetValue(o.ShippingAddress.City)
			row.AddCell().SetValue(o.ShippingAddress.State)
			row.AddCell().SetValue(o.ShippingAddress.PostalCode)
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			httperr.Respond(c, err)
			return
		}
	}
}
