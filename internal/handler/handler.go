package handler

import (
	"database/sql"
	"net/http"

	"catalog_api/internal/auth"
	"catalog_api/internal/middleware"
	"catalog_api/internal/observability"
	"catalog_api/internal/product"
	"catalog_api/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupHandler initializes all dependencies and routes
func SetupHandler(db *sql.DB, tokens *auth.TokenService, metrics *observability.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	// Initialize repositories
	userRepo := user.NewUserRepository(metrics)
	productRepo := product.NewProductRepository(metrics)

	// Initialize services
	userService := user.NewUserService(userRepo, db)
	productService := product.NewProductService(productRepo, db)

	// Initialize controllers
	userController := user.NewUserController(userService, tokens)
	productController := product.NewProductController(productService)

	r := NewRouter(metrics, gatherer)
	setupRoutes(r, userController, productController, middleware.AuthMiddleware(tokens, metrics))

	return r
}

// NewRouter builds the engine with the global middleware and the
// unauthenticated service endpoints.
func NewRouter(metrics *observability.Metrics, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	if metrics != nil {
		r.Use(middleware.PrometheusMiddleware(metrics))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

// setupRoutes configures all application routes
func setupRoutes(r *gin.Engine, userCtrl *user.UserController, productCtrl *product.ProductController, authGate gin.HandlerFunc) {
	v1 := r.Group("/v1")

	// Public routes - Authentication
	v1.POST("/register", userCtrl.Register)
	v1.POST("/login", userCtrl.Login)

	// Protected routes
	api := v1.Group("")
	api.Use(authGate)
	{
		api.POST("/expire", userCtrl.ExpireToken)

		// User endpoints
		api.GET("/users", userCtrl.GetAllUsers)
		api.GET("/users/:id", userCtrl.GetUser)
		api.PUT("/users/update", userCtrl.UpdateUser)
		api.DELETE("/users/delete/:id", userCtrl.DeleteUser)

		// Product endpoints
		api.GET("/products", productCtrl.Index)
		api.POST("/products", productCtrl.Store)
		api.GET("/products/:id", productCtrl.Show)
		api.PUT("/products/:id", productCtrl.Update)
		api.DELETE("/products/:id", productCtrl.Destroy)
	}
}
