package orderControllers

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	cartControllers "github.com/Hackerette0/ecommerce--ly/controllers/cart"
	"github.com/Hackerette0/ecommerce--ly/controllers/razorpay"
	"github.com/Hackerette0/ecommerce--ly/httperr"
	"github.com/Hackerette0/ecommerce--ly/middleware"
	"github.com/Hackerette0/ecommerce--ly/models"
)

// amountTolerance absorbs client-side rounding of display totals. One rupee,
// in paise — everything money-valued in this package is paise.
const amountTolerance = 100

// PaymentGateway is the slice of the Razorpay client the order flow needs.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*razorpay.GatewayOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// -------- Request Structs --------

type PaySessionRequest struct {
	Amount int64 `json:"amount"`
}

type PaymentProof struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type FinalizeOrderRequest struct {
	PaymentProof    PaymentProof            `json:"paymentProof"`
	ShippingAddress *models.ShippingAddress `json:"shippingAddress"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// -------- Helpers --------

var (
	phoneRe      = regexp.MustCompile(`^\d{10}$`)
	postalCodeRe = regexp.MustCompile(`^\d{6}$`)
)

// mapOrderStatus does exact membership on the five canonical lowercase
// values; "PENDING" is as invalid as "returned".
func mapOrderStatus(status string) (models.OrderStatus, error) {
	switch status {
	case string(models.OrderStatusPending):
		return models.OrderStatusPending, nil
	case string(models.OrderStatusProcessing):
		return models.OrderStatusProcessing, nil
	case string(models.OrderStatusShipped):
		return models.OrderStatusShipped, nil
	case string(models.OrderStatusDelivered):
		return models.OrderStatusDelivered, nil
	case string(models.OrderStatusCancelled):
		return models.OrderStatusCancelled, nil
	default:
		return "", httperr.InvalidArgument.WithMessage("Invalid order status: " + status)
	}
}

func validateShippingAddress(a *models.ShippingAddress) error {
	if a == nil {
		return httperr.ShippingAddressRequired
	}
	switch {
	case strings.TrimSpace(a.FullName) == "":
		return httperr.ShippingAddressRequired.WithMessage("Recipient name is required")
	case !phoneRe.MatchString(a.Phone):
		return httperr.ShippingAddressRequired.WithMessage("Phone must be a 10-digit number")
	case strings.TrimSpace(a.Line1) == "":
		return httperr.ShippingAddressRequired.WithMessage("Address line 1 is required")
	case strings.TrimSpace(a.City) == "":
		return httperr.ShippingAddressRequired.WithMessage("City is required")
	case strings.TrimSpace(a.State) == "":
		return httperr.ShippingAddressRequired.WithMessage("State is required")
	case !postalCodeRe.MatchString(a.PostalCode):
		return httperr.ShippingAddressRequired.WithMessage("Postal code must be a 6-digit number")
	}
	return nil
}

func cartTotal(lines []cartControllers.Line) int64 {
	var total int64
	for _, line := range lines {
		total += line.Price * int64(line.Quantity)
	}
	return total
}

// -------- Core Logic --------

// CreatePaymentSession recomputes the cart total from current catalog prices
// and opens a gateway session for it. The declared amount only gates against
// a tampered client total; the gateway is always given the recomputed one.
// No local record is created — abandoned sessions never touch order history.
func CreatePaymentSession(ctx context.Context, db *gorm.DB, gw PaymentGateway, userID uint, declaredAmount int64) (*razorpay.GatewayOrder, error) {
	lines, err := cartControllers.Expand(db, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, httperr.EmptyCart.WithMessage("Cart is empty, nothing to pay for")
	}

	total := cartTotal(lines)
	diff := total - declaredAmount
	if diff < -amountTolerance || diff > amountTolerance {
		return nil, httperr.AmountMismatch
	}

	session, err := gw.CreateOrder(ctx, total, "INR", "rcpt_"+uuid.NewString())
	if err != nil {
		if errors.Is(err, razorpay.ErrTimeout) {
			return nil, httperr.GatewayTimeout
		}
		return nil, err
	}
	return session, nil
}

// FinalizeOrder converts a verified payment into a persisted Order and clears
// the cart. The order insert and cart clear run in one transaction, so either
// both land or neither does. The gateway payment id is the idempotency token:
// a retry after a timeout finds the stored order and returns it unchanged.
// The second return value reports whether a new order was created.
func FinalizeOrder(db *gorm.DB, gw PaymentGateway, userID uint, req FinalizeOrderRequest) (*models.Order, bool, error) {
	if err := validateShippingAddress(req.ShippingAddress); err != nil {
		return nil, false, err
	}

	proof := req.PaymentProof
	if !gw.VerifySignature(proof.OrderID, proof.PaymentID, proof.Signature) {
		return nil, false, httperr.PaymentNotVerified
	}

	if existing, err := orderByPaymentRef(db, userID, proof.PaymentID); err != nil {
		return nil, false, err
	} else if existing != nil {
		return existing, false, nil
	}

	var order models.Order
	txErr := db.Transaction(func(tx *gorm.DB) error {
		lines, err := cartControllers.Expand(tx, userID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return httperr.EmptyCart
		}

		var total int64
		var items []models.OrderItem
		for _, line := range lines {
			total += line.Price * int64(line.Quantity)
			items = append(items, models.OrderItem{
				ProductID:    line.ProductID,
				ProductName:  line.Name,
				ProductImage: line.Image,
				Price:        line.Price,
				Quantity:     line.Quantity,
			})
		}

		order = models.Order{
			UserID:          userID,
			Items:           items,
			TotalAmount:     total,
			ShippingAddress: *req.ShippingAddress,
			Status:          models.OrderStatusPending,
			PaymentRef:      proof.PaymentID,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		var apiErr *httperr.Error
		if errors.As(txErr, &apiErr) {
			return nil, false, txErr
		}
		// A concurrent retry may have won the unique payment_ref race.
		if existing, lookupErr := orderByPaymentRef(db, userID, proof.PaymentID); lookupErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, txErr
	}

	broadcastNewOrder(order)
	return &order, true, nil
}

// orderByPaymentRef returns the already-finalized order for a payment id, or
// nil when this is the first finalize for it.
func orderByPaymentRef(db *gorm.DB, userID uint, paymentID string) (*models.Order, error) {
	var existing models.Order
	err := db.Preload("Items").Where("payment_ref = ?", paymentID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if existing.UserID != userID {
		// A payment proof replayed by a different account is not theirs.
		return nil, httperr.PaymentNotVerified
	}
	return &existing, nil
}

// -------- Handlers --------

// POST /orders/pay
func PaySessionHandler(db *gorm.DB, gw PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}
		var req PaySessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}

		session, err := CreatePaymentSession(c.Request.Context(), db, gw, userID, req.Amount)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

// POST /orders
func FinalizeOrderHandler(db *gorm.DB, gw PaymentGateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}
		var req FinalizeOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid input: "+err.Error()))
			return
		}

		order, created, err := FinalizeOrder(db, gw, userID, req)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		c.JSON(status, order)
	}
}

// GET /orders
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.CallerID(c)
		if !ok {
			httperr.Respond(c, httperr.Unauthorized)
			return
		}
		orders := []models.Order{}
		if err := db.
			Where("user_id = ?", userID).
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/all (admin)
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders := []models.Order{}
		if err := db.
			Preload("User").
			Preload("Items").
			Order("created_at DESC").
			Find(&orders).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// PUT /orders/:orderID/status (admin)
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("Invalid order id"))
			return
		}
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.Respond(c, httperr.InvalidArgument.WithMessage("status is required"))
			return
		}
		newStatus, err := mapOrderStatus(req.Status)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				httperr.Respond(c, httperr.NotFound.WithMessage("Order not found"))
				return
			}
			httperr.Respond(c, err)
			return
		}

		if err := db.Model(&order).Update("status", newStatus).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}
