package api

import (
	"time"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/auth"
	"kiosk-service/internal/entity"
)

type Handlers struct {
	Product     *ProductHandler
	Category    *CategoryHandler
	Cart        *CartHandler
	Wallet      *WalletHandler
	Transaction *TransactionHandler
	Report      *ReportHandler
	User        *UserHandler
}

// RegisterRoutes mounts every endpoint under /api. bearer authenticates the request; SuperUser-only
// routes additionally pass through the role guard.
func RegisterRoutes(e *echo.Echo, h Handlers, bearer echo.MiddlewareFunc) {
	requireSuperUser := auth.RequireRole(entity.RoleSuperUser)
	superUser := []echo.MiddlewareFunc{bearer, requireSuperUser}

	root := e.Group("/api")

	root.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "kiosk-service",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	product := root.Group("/product")
	product.GET("", h.Product.ListProducts)
	product.GET("/activeProducts", h.Product.ListActiveProducts)
	product.GET("/byCategory", h.Product.ListByCategory)
	product.GET("/warmup-cache", h.Product.WarmupCache, superUser...)
	product.GET("/:id", h.Product.GetProduct)
	product.POST("/addProduct", h.Product.CreateProduct, superUser...)
	product.PUT("/:id", h.Product.UpdateProduct, superUser...)
	product.DELETE("/:id", h.Product.DeleteProduct, superUser...)
	product.PUT("/:id/toggle-active", h.Product.ToggleActive, superUser...)
	product.POST("/reserve/:id", h.Product.ReserveStock, superUser...)
	product.POST("/release/:id", h.Product.ReleaseStock, superUser...)

	category := root.Group("/productcategory")
	category.GET("", h.Category.ListCategories)
	category.GET("/:id", h.Category.GetCategory)
	category.POST("", h.Category.CreateCategory, superUser...)
	category.PUT("/:id", h.Category.UpdateCategory, superUser...)
	category.DELETE("/:id", h.Category.DeleteCategory, superUser...)

	cart := root.Group("/cart", bearer)
	cart.POST("/create", h.Cart.CreateCart)
	cart.POST("/addProduct", h.Cart.AddProduct)
	cart.PUT("/update-product-quantity", h.Cart.UpdateQuantity)
	cart.DELETE("/remove-product", h.Cart.RemoveProduct)
	cart.GET("/active/:userId", h.Cart.GetActiveCart)
	cart.GET("/:id", h.Cart.GetCart)

	wallet := root.Group("/wallet", bearer)
	wallet.POST("/add", h.Wallet.TopUp)
	wallet.GET("/:userId", h.Wallet.GetBalance)

	transaction := root.Group("/transaction", bearer)
	transaction.POST("/checkout", h.Transaction.Checkout)
	transaction.GET("/all", h.Transaction.ListTransactions, requireSuperUser)
	transaction.GET("/export", h.Transaction.Export, requireSuperUser)
	transaction.GET("/user/:userId", h.Transaction.ListUserTransactions)
	transaction.GET("/:id", h.Transaction.GetTransaction)

	reports := root.Group("/reports", superUser...)
	reports.GET("/summary", h.Report.Summary)

	user := root.Group("/user")
	user.POST("/register", h.User.Register)
	user.POST("/login", h.User.Login)
	user.POST("/validate", h.User.Validate)
	user.GET("/roles", h.User.ListRoles)
	user.GET("", h.User.ListUsers, superUser...)
	user.GET("/:id", h.User.GetUser, bearer)
	user.PUT("/:id", h.User.UpdateUser, bearer)
	user.DELETE("/:id", h.User.DeleteUser, superUser...)
}
