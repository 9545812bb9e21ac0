package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rsharma/bazario-backend/config"
	"github.com/rsharma/bazario-backend/internal/app/controller"
	"github.com/rsharma/bazario-backend/internal/app/model"
	"github.com/rsharma/bazario-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	sellerController   *controller.SellerController
	productController  *controller.ProductController
	categoryController *controller.CategoryController
	cartController     *controller.CartController
	wishlistController *controller.WishlistController
	addressController  *controller.AddressController
	reviewController   *controller.ReviewController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	sellerController *controller.SellerController,
	productController *controller.ProductController,
	categoryController *controller.CategoryController,
	cartController *controller.CartController,
	wishlistController *controller.WishlistController,
	addressController *controller.AddressController,
	reviewController *controller.ReviewController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		sellerController:   sellerController,
		productController:  productController,
		categoryController: categoryController,
		cartController:     cartController,
		wishlistController: wishlistController,
		addressController:  addressController,
		reviewController:   reviewController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Bazario API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/send-code", r.authController.SendCode)
			auth.POST("/verify-code", r.authController.VerifyCode)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetProfile)
			auth.PATCH("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
			auth.DELETE("/me", r.authMiddleware.Authenticate(), r.authController.DeleteAccount)
		}

		sellers := v1.Group("/sellers")
		{
			sellers.GET("/:slug", r.sellerController.GetBySlug)

			sellers.POST("/apply", r.authMiddleware.Authenticate(), r.sellerController.Apply)
			sellers.GET("/me", r.authMiddleware.Authenticate(), r.sellerController.GetMyApplication)
			sellers.PATCH("/me", r.authMiddleware.Authenticate(), r.sellerController.UpdateProfile)
			sellers.DELETE("/me", r.authMiddleware.Authenticate(), r.sellerController.Withdraw)
			sellers.POST("/resubmit", r.authMiddleware.Authenticate(), r.sellerController.Resubmit)
			sellers.POST("/restore", r.authMiddleware.Authenticate(), r.sellerController.Restore)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/:id", r.productController.Get)
			products.GET("/slug/:slug", r.productController.GetBySlug)
			products.GET("/:id/reviews", r.reviewController.ListByProduct)

			products.GET("/mine",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleSeller),
				r.productController.ListMine,
			)
			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleSeller),
				r.productController.Create,
			)
			products.PATCH("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleSeller),
				r.productController.Update,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole(model.RoleSeller),
				r.productController.Delete,
			)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.List)
			categories.GET("/:id", r.categoryController.Get)
			categories.GET("/slug/:slug", r.categoryController.GetBySlug)
		}

		cart := v1.Group("/cart")
		cart.Use(r.authMiddleware.Authenticate())
		{
			cart.GET("", r.cartController.GetCart)
			cart.POST("/items", r.cartController.AddItem)
			cart.PATCH("/items/:id", r.cartController.UpdateItem)
			cart.DELETE("/items/:id", r.cartController.RemoveItem)
			cart.DELETE("", r.cartController.ClearCart)
			cart.POST("/checkout", r.cartController.Checkout)
			cart.GET("/history", r.cartController.ListCarts)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(r.authMiddleware.Authenticate())
		{
			wishlist.GET("", r.wishlistController.List)
			wishlist.DELETE("", r.wishlistController.Clear)
			wishlist.GET("/:productId", r.wishlistController.Status)
			wishlist.POST("/:productId", r.wishlistController.Toggle)
			wishlist.DELETE("/:productId", r.wishlistController.Remove)
		}

		addresses := v1.Group("/addresses")
		addresses.Use(r.authMiddleware.Authenticate())
		{
			addresses.GET("", r.addressController.List)
			addresses.POST("", r.addressController.Create)
			addresses.PATCH("/:id", r.addressController.Update)
			addresses.DELETE("/:id", r.addressController.Delete)
			addresses.POST("/:id/default", r.addressController.SetDefault)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(r.authMiddleware.Authenticate())
		{
			reviews.POST("", r.reviewController.Create)
			reviews.PATCH("/:id", r.reviewController.Update)
			reviews.DELETE("/:id", r.reviewController.Delete)
		}

		uploads := v1.Group("/uploads")
		uploads.Use(r.authMiddleware.Authenticate())
		{
			uploads.POST("/presigned-url", r.uploadController.GeneratePresignedURL)
			uploads.DELETE("", r.uploadController.DeleteUpload)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole(model.RoleAdmin))
		{
			admin.GET("/users", r.authController.ListUsers)
			admin.PATCH("/users/:id/status", r.authController.UpdateUserStatus)
			admin.DELETE("/users/:id", r.authController.AdminDeleteUser)
			admin.POST("/users/:id/restore", r.authController.AdminRestoreUser)

			admin.GET("/sellers", r.sellerController.List)
			admin.PATCH("/sellers/:id/status", r.sellerController.UpdateStatus)
			admin.DELETE("/sellers/:id", r.sellerController.AdminDelete)
			admin.POST("/sellers/:id/restore", r.sellerController.AdminRestore)

			admin.GET("/products", r.productController.AdminList)
			admin.DELETE("/products/:id", r.productController.AdminDelete)

			admin.POST("/categories", r.categoryController.Create)
			admin.PATCH("/categories/:id", r.categoryController.Update)
			admin.DELETE("/categories/:id", r.categoryController.Delete)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
