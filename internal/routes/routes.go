package routes

import (
	"github.com/adamfashion/storefront-golang/internal/handlers"
	"github.com/adamfashion/storefront-golang/internal/middleware"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware allows the storefront and back-office frontends to talk to
// the API from another origin.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

// SetupRouter builds the gin engine and declares the full route table.
func SetupRouter(h *handlers.Handlers) *gin.Engine {
	router := gin.Default()
	router.Use(CORSMiddleware())

	// The stylist endpoint costs a model call per request.
	stylistLimiter := middleware.NewRateLimiter(1, 5)

	api := router.Group("/api")
	{
		// --- Public Routes ---
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.RegisterUser)
			auth.POST("/login", h.LoginUser)
			auth.GET("/me", middleware.AuthMiddleware(), h.GetMe)
		}
		api.GET("/users/me", middleware.AuthMiddleware(), h.GetMe)

		api.GET("/products", h.GetProducts)
		api.GET("/products/:id", h.GetProductDetail)
		api.GET("/categories", h.GetCategories)
		api.GET("/vouchers", h.GetActiveVouchers)

		// --- Customer Routes (auth required) ---
		cart := api.Group("/cart", middleware.AuthMiddleware())
		{
			cart.GET("", h.GetCart)
			cart.POST("/add", h.AddToCart)
			cart.PUT("/items/:id", h.UpdateCartItem)
			cart.DELETE("/items/:id", h.RemoveCartItem)
		}

		orders := api.Group("/orders", middleware.AuthMiddleware())
		{
			orders.POST("/checkout", h.Checkout)
			orders.GET("", h.GetMyOrders)
			orders.GET("/:id", h.GetOrderDetails)
		}

		api.GET("/chat/messages", middleware.AuthMiddleware(), h.GetMyConversation)

		stylist := api.Group("/stylist", middleware.AuthMiddleware())
		{
			stylist.GET("/sessions", h.GetChatSessions)
			stylist.POST("/sessions", h.CreateChatSession)
			stylist.GET("/sessions/:id", h.GetChatSession)
			stylist.DELETE("/sessions/:id", h.DeleteChatSession)
			stylist.POST("/sessions/:id/messages", stylistLimiter.Limit(), h.SendStylistMessage)
		}

		// --- Admin Routes ---
		admin := api.Group("/admin", middleware.AuthMiddleware(), middleware.AdminMiddleware())
		{
			admin.POST("/products", h.CreateProduct)
			admin.PUT("/products/:id", h.UpdateProduct)
			admin.DELETE("/products/:id", h.DeleteProduct)
			admin.POST("/categories", h.CreateCategory)

			admin.GET("/orders", h.GetAllOrders)
			admin.PUT("/orders/:id/status", h.UpdateOrderStatus)

			admin.GET("/customers", h.GetAllCustomers)

			admin.GET("/discounts", h.GetAllVouchers)
			admin.POST("/discounts", h.CreateVoucher)
			admin.PUT("/discounts/:id", h.UpdateVoucher)
			admin.DELETE("/discounts/:id", h.DeleteVoucher)

			admin.GET("/dashboard/stats", h.GetDashboardStats)
			admin.GET("/dashboard/revenue", h.GetMonthlyRevenue)
			admin.GET("/dashboard/categories", h.GetCategoryRevenue)
			admin.GET("/dashboard/best-sellers", h.GetBestSellers)

			admin.GET("/chat/conversations", h.GetConversations)
			admin.GET("/chat/conversations/:id", h.GetConversationMessages)
			admin.POST("/chat/conversations/:id/reply", h.ReplyToConversation)
			admin.PUT("/chat/conversations/:id/read", h.MarkConversationRead)
		}
	}

	// Live support chat.
	router.GET("/ws/chat", middleware.AuthMiddleware(), h.ChatWebSocket)

	return router
}
