package devserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront-client/internal/domain"
)

func (d deps) placeOrderHandler(c *gin.Context) {
	var payload domain.OrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}
	if len(payload.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order has no items"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order := &domain.Order{
		ID:              uuid.NewString(),
		Status:          domain.OrderStatusPending,
		Items:           payload.Items,
		TotalAmount:     payload.TotalAmount,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		DeliveryDate:    payload.DeliveryDate,
		DeliveryTime:    payload.DeliveryTime,
		CreatedAt:       nowUTC(),
	}
	d.state.addOrder(order)
	c.JSON(http.StatusCreated, order)
}

func (d deps) getOrderHandler(c *gin.Context) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order, ok := d.state.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (d deps) listOrdersHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()
	c.JSON(http.StatusOK, d.state.page(page, size))
}

func (d deps) cancelOrderHandler(c *gin.Context) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order, ok := d.state.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	switch order.Status {
	case domain.OrderStatusPending, domain.OrderStatusWaitingForPayment:
		order.Status = domain.OrderStatusCancelled
		c.JSON(http.StatusOK, order)
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "order can no longer be cancelled"})
	}
}

// createPaymentHandler attaches an initiated gateway session to the order and
// parks it in WAITING_FOR_PAYMENT.
func (d deps) createPaymentHandler(c *gin.Context) {
	var session domain.PaymentSession
	if err := c.ShouldBindJSON(&session); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment session"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order, ok := d.state.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	order.PollURL = session.PollURL
	order.RedirectURL = session.RedirectURL
	order.Status = domain.OrderStatusWaitingForPayment
	c.JSON(http.StatusOK, order)
}

// updatePaymentHandler reconciles the order with a gateway status: paid
// confirms, anything else leaves the order waiting.
func (d deps) updatePaymentHandler(c *gin.Context) {
	var status domain.GatewayStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid gateway status"})
		return
	}

	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order, ok := d.state.orders[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if status.Paid {
		order.Status = domain.OrderStatusConfirmed
	}
	c.JSON(http.StatusOK, order)
}
