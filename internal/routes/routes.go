package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/handlers"
	"storefront_back_end/internal/middleware"
)

// Deps regroupe ce que le routeur branche; Redis nil désactive le rate limiting
type Deps struct {
	Handlers      *handlers.Handler
	Auth          *middleware.Resolver
	Redis         redis.Cmdable
	RatePerMinute int
	ClientURLs    []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     d.ClientURLs,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.Use(middleware.APIRateLimit(d.Redis, d.RatePerMinute))
	RegisterRoutes(api, d.Handlers, d.Auth)
	return r
}

func RegisterRoutes(api *gin.RouterGroup, h *handlers.Handler, res *middleware.Resolver) {
	authed := res.AuthRequired()
	admin := []gin.HandlerFunc{authed, middleware.RequireAdmin, middleware.AuditAdminActions()}

	// Produits
	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/search", h.SearchProducts)
		products.GET("/categories/all", h.Categories)
		products.GET("/category/:category", h.ProductsByCategory)
		products.GET("/:id", h.GetProduct)
		products.POST("/seed", h.SeedProducts)
		products.DELETE("/clear/all", h.ClearProducts)

		products.POST("", append(admin, h.CreateProduct)...)
		products.PUT("/:id", append(admin, h.UpdateProduct)...)
		products.DELETE("/:id", append(admin, h.DeleteProduct)...)
		products.POST("/:id/images", append(admin, h.UploadProductImage)...)
	}

	// Avis
	reviews := api.Group("/reviews")
	{
		reviews.GET("", h.RecentReviews)
		reviews.GET("/product/:productId", h.ProductReviews)
		reviews.POST("", authed, h.CreateReview)
		reviews.PUT("/:id", authed, h.UpdateReview)
		reviews.DELETE("/:id", authed, middleware.AuditAdminActions(), h.DeleteReview)
	}

	// Commandes
	orders := api.Group("/orders", authed)
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", middleware.RequireAdmin, h.ListOrders)
		orders.GET("/user/:userId", h.UserOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PUT("/:id", h.UpdateOrder)
		orders.DELETE("/:id", middleware.AuditAdminActions(), h.CancelOrder)
		orders.PATCH("/:id/status", middleware.RequireAdmin, middleware.AuditAdminActions(), h.UpdateOrderStatus)
	}

	// Contact
	contact := api.Group("/contact")
	{
		contact.POST("", res.OptionalAuth(), h.SubmitContact)
		contact.GET("", append(admin, h.ListContacts)...)
		contact.PATCH("/:id/status", append(admin, h.UpdateContactStatus)...)
	}

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", res.TokenOnly(), h.Register)
		auth.POST("/verify-token", authed, h.VerifyToken)
		auth.GET("/user/:uid", authed, h.GetUser)
		auth.PUT("/profile", authed, h.UpdateProfile)
	}
}
