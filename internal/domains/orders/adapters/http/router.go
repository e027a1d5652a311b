package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handlers groups the per-resource APIs mounted on the router.
type Handlers struct {
	Orders             *OrderAPI
	Templates          *TemplateAPI
	TransferProperties *TransferPropertiesAPI
	ProofOfDeliveries  *ProofOfDeliveryAPI
}

// NewRouter builds the gin engine with every fulfillment route registered.
func NewRouter(handlers Handlers) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	orders := api.Group("/orders")
	orders.POST("", handlers.Orders.CreateOrder)
	orders.GET("", handlers.Orders.ListOrders)
	orders.GET("/search", handlers.Orders.SearchOrders)
	orders.GET("/:id", handlers.Orders.GetOrder)
	orders.DELETE("/:id", handlers.Orders.DeleteOrder)
	orders.PUT("/:id/finalize", handlers.Orders.FinalizeOrder)
	orders.GET("/:id/retry", handlers.Orders.RetryOrderTransfer)
	orders.GET("/:id/export", handlers.Orders.ExportOrder)
	orders.GET("/:id/print", handlers.Orders.PrintOrder)
	orders.GET("/:id/proofOfDeliveries", handlers.ProofOfDeliveries.GetProofForOrder)

	templates := api.Group("/orderFileTemplates")
	templates.GET("", handlers.Templates.GetTemplate)
	templates.PUT("", handlers.Templates.SaveTemplate)

	props := api.Group("/transferProperties")
	props.POST("", handlers.TransferProperties.CreateProperties)
	props.GET("/search", handlers.TransferProperties.SearchProperties)
	props.GET("/:id", handlers.TransferProperties.GetProperties)
	props.PUT("/:id", handlers.TransferProperties.UpdateProperties)
	props.DELETE("/:id", handlers.TransferProperties.DeleteProperties)

	pods := api.Group("/proofOfDeliveries")
	pods.POST("", handlers.ProofOfDeliveries.CreateProofOfDelivery)
	pods.GET("/:id", handlers.ProofOfDeliveries.GetProofOfDelivery)
	pods.PUT("/:id", handlers.ProofOfDeliveries.UpdateProofOfDelivery)

	return router
}
