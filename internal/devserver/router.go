package devserver

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type deps struct {
	state          *state
	jwtSecret      string
	accessTokenTTL time.Duration
}

func newDeps(opts Options) deps {
	st := newState()
	if opts.PayAfterPolls > 0 {
		st.payAfterPolls = opts.PayAfterPolls
	}
	secret := opts.JWTSecret
	if secret == "" {
		secret = "dev-secret"
	}
	ttl := opts.AccessTokenTTL
	if ttl <= 0 {
		ttl = 20 * time.Minute
	}
	return deps{state: st, jwtSecret: secret, accessTokenTTL: ttl}
}

// buildRouter wires the backend and gateway routes.
func buildRouter(logger *log.Logger, d deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	if logger != nil {
		router.Use(gin.LoggerWithWriter(logger.Writer()))
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)

	router.POST("/auth/login", d.loginHandler)
	router.POST("/auth/register", d.registerHandler)
	router.POST("/auth/refresh", d.refreshHandler)

	authed := router.Group("/", d.authGuard())
	authed.GET("/auth/profile", d.profileHandler)
	authed.POST("/auth/addresses", d.addAddressHandler)
	authed.PUT("/auth/addresses/:id", d.updateAddressHandler)
	authed.DELETE("/auth/addresses/:id", d.deleteAddressHandler)

	authed.POST("/orders", d.placeOrderHandler)
	authed.GET("/orders", d.listOrdersHandler)
	authed.GET("/orders/:id", d.getOrderHandler)
	authed.PUT("/orders/:id/cancel", d.cancelOrderHandler)
	authed.PUT("/orders/:id/payment", d.createPaymentHandler)
	authed.PUT("/orders/:id/payment/update", d.updatePaymentHandler)

	// The fake gateway is open: the real one sits outside our auth domain.
	router.POST("/payments/web", d.initiateWebHandler)
	router.POST("/payments/mobile", d.initiateMobileHandler)
	router.POST("/payments/check", d.checkPaymentHandler)
	router.POST("/payments/poll", d.pollPaymentHandler)
	router.GET("/gateway/redirect/:reference", d.redirectHandler)

	return router
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
