package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"paygram/internal/handler"
	"paygram/pkg/monitor"

	_ "paygram/docs/swagger"
)

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	User        *handler.UserHandler
	Transaction *handler.TransactionHandler
	Request     *handler.PaymentRequestHandler
	Feed        *handler.FeedHandler
	Balance     *handler.BalanceHandler
	Notify      *handler.NotifyHandler
}

// NewHTTPRouter builds the Gin engine with all routes and middleware.
func NewHTTPRouter(h Handlers) *gin.Engine {
	monitor.Init()

	r := gin.Default()
	r.Use(monitor.PrometheusMiddleware())

	r.GET("/health", handler.HealthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		users := api.Group("/users")
		{
			users.POST("/claim", h.User.Claim)
			users.GET("/search", h.User.Search)
			users.GET("/external/:id", h.User.GetByExternalID)
			users.GET("/:username", h.User.Get)
			users.PATCH("/:username/profile", h.User.UpdateProfile)
		}

		txs := api.Group("/transactions")
		{
			txs.POST("", h.Transaction.Create)
			txs.POST("/send", h.Transaction.Send)
			txs.POST("/:id/submit", h.Transaction.Submit)
			txs.GET("/address/:address", h.Transaction.ListForAddress)
			txs.GET("/:id", h.Transaction.Get)
			txs.POST("/:id/reactions", h.Transaction.React)
			txs.GET("/:id/reactions", h.Transaction.Reactions)
		}

		reqs := api.Group("/requests")
		{
			reqs.POST("", h.Request.Create)
			reqs.POST("/split", h.Request.Split)
			reqs.GET("/incoming/:username", h.Request.Incoming)
			reqs.GET("/outgoing/:username", h.Request.Outgoing)
			reqs.GET("/:id", h.Request.Get)
			reqs.PATCH("/:id", h.Request.Update)
			reqs.POST("/:id/pay", h.Request.Pay)
		}

		api.GET("/feed", h.Feed.Get)
		api.GET("/balance/:address", h.Balance.Get)
		api.POST("/notify", h.Notify.Send)
	}

	return r
}
