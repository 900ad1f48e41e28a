package service

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/repository"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListActiveProducts(ctx context.Context) ([]entity.Product, error)
	ListProductsByCategoryName(ctx context.Context, name string) ([]entity.Product, error)
	GetProductByID(ctx context.Context, id int64) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	SetProductActive(ctx context.Context, id int64, active bool) error
	DeleteProduct(ctx context.Context, id int64) error
	ReserveStock(ctx context.Context, id int64, quantity int) error
	ReleaseStock(ctx context.Context, id int64, quantity int) error
}

type CategoryStore interface {
	ListCategories(ctx context.Context) ([]entity.ProductCategory, error)
	GetCategoryByID(ctx context.Context, id int64) (*entity.ProductCategory, error)
	NameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error)
	UpdateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type ProductCache interface {
	Get(ctx context.Context, id int64) (*entity.Product, error)
	Set(ctx context.Context, product *entity.Product) error
	Evict(ctx context.Context, ids ...int64) error
}

type UserStore interface {
	GetUserByID(ctx context.Context, id int64) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	ListUsers(ctx context.Context) ([]entity.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	DeactivateUser(ctx context.Context, id int64) error
	ListRoles(ctx context.Context) ([]entity.UserRole, error)
	GetRoleByName(ctx context.Context, name string) (*entity.UserRole, error)
}

type WalletStore interface {
	GetWallet(ctx context.Context, userID int64) (*entity.Wallet, error)
	TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

type CartStore interface {
	GetCartByID(ctx context.Context, id int64) (*entity.Cart, error)
	GetOpenCartByUser(ctx context.Context, userID int64) (*entity.Cart, error)
	CreateCart(ctx context.Context, userID int64) (*entity.Cart, error)
	ListCartLines(ctx context.Context, cartID int64) ([]entity.CartProduct, error)
	GetCartLine(ctx context.Context, cartID, productID int64) (*entity.CartProduct, error)
	InsertCartLine(ctx context.Context, cartID, productID int64, quantity int) (*entity.CartProduct, error)
	UpdateCartLineQuantity(ctx context.Context, cartID, productID int64, quantity int) error
	DeleteCartLine(ctx context.Context, cartID, productID int64) error
}

type TransactionStore interface {
	CommitCheckout(ctx context.Context, commit repository.CheckoutCommit) (int64, decimal.Decimal, error)
	ListTransactions(ctx context.Context) ([]entity.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID int64) ([]entity.Transaction, error)
	GetTransactionByID(ctx context.Context, id int64) (*entity.Transaction, error)
}

type ReportStore interface {
	CountProductsInOpenCarts(ctx context.Context) (int, error)
	SalesSince(ctx context.Context, since time.Time) ([]repository.Sale, error)
	MostPopularProducts(ctx context.Context, limit int) ([]entity.PopularProduct, error)
}

type IdempotencyStore interface {
	Claim(ctx context.Context, userID int64, key string) (bool, error)
	Release(ctx context.Context, userID int64, key string) error
}

// EventWriter is satisfied by *kafka.Writer.
type EventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}
