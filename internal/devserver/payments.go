package devserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-client/internal/domain"
)

// initiateWebHandler opens a fake web payment session. Web sessions carry a
// redirect URL the way the real gateway does.
func (d deps) initiateWebHandler(c *gin.Context) {
	d.initiate(c, true)
}

// initiateMobileHandler opens a fake mobile-money collection; no redirect.
func (d deps) initiateMobileHandler(c *gin.Context) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment request"})
		return
	}
	if strings.TrimSpace(req.PhoneNumber) == "" || req.MobileMoneyMethod == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phoneNumber and mobileMoneyMethod required"})
		return
	}
	d.openSession(c, req, false)
}

func (d deps) initiate(c *gin.Context, withRedirect bool) {
	var req domain.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment request"})
		return
	}
	d.openSession(c, req, withRedirect)
}

func (d deps) openSession(c *gin.Context, req domain.PaymentRequest, withRedirect bool) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	order, ok := d.state.orders[req.OrderID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	base := "http://" + c.Request.Host
	rec := d.state.newPayment(order.ID, order.TotalAmount, withRedirect, base)
	session := domain.PaymentSession{
		OrderID:     order.ID,
		Reference:   rec.reference,
		Status:      "Created",
		Amount:      rec.amount,
		PollURL:     base + "/payments/poll?ref=" + rec.reference,
		RedirectURL: rec.redirect,
	}
	c.JSON(http.StatusOK, session)
}

type pollBody struct {
	URL string `json:"url" binding:"required"`
}

// checkPaymentHandler reports the current status without advancing the fake
// payment clock.
func (d deps) checkPaymentHandler(c *gin.Context) {
	rec, ok := d.lookupByPollURL(c)
	if !ok {
		return
	}
	d.state.mu.Lock()
	defer d.state.mu.Unlock()
	c.JSON(http.StatusOK, d.state.statusOf(rec))
}

// pollPaymentHandler advances the fake clock; after payAfterPolls polls the
// payment flips to paid.
func (d deps) pollPaymentHandler(c *gin.Context) {
	rec, ok := d.lookupByPollURL(c)
	if !ok {
		return
	}
	d.state.mu.Lock()
	defer d.state.mu.Unlock()
	c.JSON(http.StatusOK, d.state.pollOnce(rec))
}

// redirectHandler simulates the user completing the hosted payment page.
func (d deps) redirectHandler(c *gin.Context) {
	d.state.mu.Lock()
	defer d.state.mu.Unlock()

	rec, ok := d.state.payments[c.Param("reference")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	rec.paid = true
	c.JSON(http.StatusOK, gin.H{"status": "Paid", "reference": rec.reference})
}

func (d deps) lookupByPollURL(c *gin.Context) (*paymentRecord, bool) {
	var body pollBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url required"})
		return nil, false
	}
	ref := body.URL
	if idx := strings.Index(ref, "ref="); idx >= 0 {
		ref = ref[idx+len("ref="):]
	}
	if amp := strings.Index(ref, "&"); amp >= 0 {
		ref = ref[:amp]
	}

	d.state.mu.Lock()
	rec, ok := d.state.payments[ref]
	d.state.mu.Unlock()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return nil, false
	}
	return rec, true
}
