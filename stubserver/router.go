package stubserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"marche/models"
)

// Router builds the gin engine with all storefront routes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := r.Group("/api")

	// Public routes (no authentication required)
	apiGroup.POST("/auth/register", s.register)
	apiGroup.POST("/auth/login", s.login)
	apiGroup.GET("/products", s.listProducts)
	apiGroup.GET("/products/:id", s.getProduct)
	apiGroup.GET("/categories", s.listCategories)
	apiGroup.GET("/vendors", s.listVendors)
	apiGroup.GET("/vendors/:id", s.getVendor)

	// Protected routes (authentication required)
	authed := apiGroup.Group("/")
	authed.Use(s.authRequired())
	{
		authed.GET("/auth/me", s.me)
	}

	// Shopping routes (customer role required)
	shop := apiGroup.Group("/orders")
	shop.Use(s.authRequired(), requireRole(models.RoleCustomer))
	{
		shop.GET("/cart", s.getCart)
		shop.POST("/cart/add", s.addToCart)
		shop.PUT("/cart/:id", s.updateCartItem)
		shop.DELETE("/cart/clear", s.clearCart)
		shop.DELETE("/cart/:id", s.removeFromCart)

		shop.POST("", s.createOrder)
		shop.GET("", s.listOrders)
		shop.GET("/:id", s.getOrder)
		shop.PUT("/:id/cancel", s.cancelOrder)
	}

	return r
}
