package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/repository"
)

// ---- fakeProductStore implementing ProductStore for tests ----
type fakeProductStore struct {
	ListProductsFn               func(ctx context.Context) ([]entity.Product, error)
	ListActiveProductsFn         func(ctx context.Context) ([]entity.Product, error)
	ListProductsByCategoryNameFn func(ctx context.Context, name string) ([]entity.Product, error)
	GetProductByIDFn             func(ctx context.Context, id int64) (*entity.Product, error)
	CreateProductFn              func(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProductFn              func(ctx context.Context, product *entity.Product) (*entity.Product, error)
	SetProductActiveFn           func(ctx context.Context, id int64, active bool) error
	DeleteProductFn              func(ctx context.Context, id int64) error
	ReserveStockFn               func(ctx context.Context, id int64, quantity int) error
	ReleaseStockFn               func(ctx context.Context, id int64, quantity int) error
}

func (f *fakeProductStore) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return f.ListProductsFn(ctx)
}
func (f *fakeProductStore) ListActiveProducts(ctx context.Context) ([]entity.Product, error) {
	return f.ListActiveProductsFn(ctx)
}
func (f *fakeProductStore) ListProductsByCategoryName(ctx context.Context, name string) ([]entity.Product, error) {
	return f.ListProductsByCategoryNameFn(ctx, name)
}
func (f *fakeProductStore) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	return f.GetProductByIDFn(ctx, id)
}
func (f *fakeProductStore) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	return f.CreateProductFn(ctx, product)
}
func (f *fakeProductStore) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	return f.UpdateProductFn(ctx, product)
}
func (f *fakeProductStore) SetProductActive(ctx context.Context, id int64, active bool) error {
	return f.SetProductActiveFn(ctx, id, active)
}
func (f *fakeProductStore) DeleteProduct(ctx context.Context, id int64) error {
	return f.DeleteProductFn(ctx, id)
}
func (f *fakeProductStore) ReserveStock(ctx context.Context, id int64, quantity int) error {
	return f.ReserveStockFn(ctx, id, quantity)
}
func (f *fakeProductStore) ReleaseStock(ctx context.Context, id int64, quantity int) error {
	return f.ReleaseStockFn(ctx, id, quantity)
}

// ---- fakeCategoryStore ----
type fakeCategoryStore struct {
	ListCategoriesFn  func(ctx context.Context) ([]entity.ProductCategory, error)
	GetCategoryByIDFn func(ctx context.Context, id int64) (*entity.ProductCategory, error)
	NameTakenFn       func(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategoryFn  func(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error)
	UpdateCategoryFn  func(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error)
	DeleteCategoryFn  func(ctx context.Context, id int64) error
}

func (f *fakeCategoryStore) ListCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	return f.ListCategoriesFn(ctx)
}
func (f *fakeCategoryStore) GetCategoryByID(ctx context.Context, id int64) (*entity.ProductCategory, error) {
	return f.GetCategoryByIDFn(ctx, id)
}
func (f *fakeCategoryStore) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	return f.NameTakenFn(ctx, name, excludeID)
}
func (f *fakeCategoryStore) CreateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error) {
	return f.CreateCategoryFn(ctx, category)
}
func (f *fakeCategoryStore) UpdateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error) {
	return f.UpdateCategoryFn(ctx, category)
}
func (f *fakeCategoryStore) DeleteCategory(ctx context.Context, id int64) error {
	return f.DeleteCategoryFn(ctx, id)
}

// ---- fakeUserStore ----
type fakeUserStore struct {
	GetUserByIDFn       func(ctx context.Context, id int64) (*entity.User, error)
	GetUserByUsernameFn func(ctx context.Context, username string) (*entity.User, error)
	ListUsersFn         func(ctx context.Context) ([]entity.User, error)
	UsernameTakenFn     func(ctx context.Context, username string, excludeID int64) (bool, error)
	CreateUserFn        func(ctx context.Context, user *entity.User) (*entity.User, error)
	UpdateUserFn        func(ctx context.Context, user *entity.User) (*entity.User, error)
	DeactivateUserFn    func(ctx context.Context, id int64) error
	ListRolesFn         func(ctx context.Context) ([]entity.UserRole, error)
	GetRoleByNameFn     func(ctx context.Context, name string) (*entity.UserRole, error)
}

func (f *fakeUserStore) GetUserByID(ctx context.Context, id int64) (*entity.User, error) {
	return f.GetUserByIDFn(ctx, id)
}
func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	return f.GetUserByUsernameFn(ctx, username)
}
func (f *fakeUserStore) ListUsers(ctx context.Context) ([]entity.User, error) { return f.ListUsersFn(ctx) }
func (f *fakeUserStore) UsernameTaken(ctx context.Context, username string, excludeID int64) (bool, error) {
	return f.UsernameTakenFn(ctx, username, excludeID)
}
func (f *fakeUserStore) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	return f.CreateUserFn(ctx, user)
}
func (f *fakeUserStore) UpdateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	return f.UpdateUserFn(ctx, user)
}
func (f *fakeUserStore) DeactivateUser(ctx context.Context, id int64) error {
	return f.DeactivateUserFn(ctx, id)
}
func (f *fakeUserStore) ListRoles(ctx context.Context) ([]entity.UserRole, error) {
	return f.ListRolesFn(ctx)
}
func (f *fakeUserStore) GetRoleByName(ctx context.Context, name string) (*entity.UserRole, error) {
	return f.GetRoleByNameFn(ctx, name)
}

// ---- fakeWalletStore ----
type fakeWalletStore struct {
	GetWalletFn func(ctx context.Context, userID int64) (*entity.Wallet, error)
	TopUpFn     func(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
}

func (f *fakeWalletStore) GetWallet(ctx context.Context, userID int64) (*entity.Wallet, error) {
	return f.GetWalletFn(ctx, userID)
}
func (f *fakeWalletStore) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	return f.TopUpFn(ctx, userID, amount)
}

// ---- fakeCartStore ----
type fakeCartStore struct {
	GetCartByIDFn            func(ctx context.Context, id int64) (*entity.Cart, error)
	GetOpenCartByUserFn      func(ctx context.Context, userID int64) (*entity.Cart, error)
	CreateCartFn             func(ctx context.Context, userID int64) (*entity.Cart, error)
	ListCartLinesFn          func(ctx context.Context, cartID int64) ([]entity.CartProduct, error)
	GetCartLineFn            func(ctx context.Context, cartID, productID int64) (*entity.CartProduct, error)
	InsertCartLineFn         func(ctx context.Context, cartID, productID int64, quantity int) (*entity.CartProduct, error)
	UpdateCartLineQuantityFn func(ctx context.Context, cartID, productID int64, quantity int) error
	DeleteCartLineFn         func(ctx context.Context, cartID, productID int64) error
}

func (f *fakeCartStore) GetCartByID(ctx context.Context, id int64) (*entity.Cart, error) {
	return f.GetCartByIDFn(ctx, id)
}
func (f *fakeCartStore) GetOpenCartByUser(ctx context.Context, userID int64) (*entity.Cart, error) {
	return f.GetOpenCartByUserFn(ctx, userID)
}
func (f *fakeCartStore) CreateCart(ctx context.Context, userID int64) (*entity.Cart, error) {
	return f.CreateCartFn(ctx, userID)
}
func (f *fakeCartStore) ListCartLines(ctx context.Context, cartID int64) ([]entity.CartProduct, error) {
	return f.ListCartLinesFn(ctx, cartID)
}
func (f *fakeCartStore) GetCartLine(ctx context.Context, cartID, productID int64) (*entity.CartProduct, error) {
	return f.GetCartLineFn(ctx, cartID, productID)
}
func (f *fakeCartStore) InsertCartLine(ctx context.Context, cartID, productID int64, quantity int) (*entity.CartProduct, error) {
	return f.InsertCartLineFn(ctx, cartID, productID, quantity)
}
func (f *fakeCartStore) UpdateCartLineQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	return f.UpdateCartLineQuantityFn(ctx, cartID, productID, quantity)
}
func (f *fakeCartStore) DeleteCartLine(ctx context.Context, cartID, productID int64) error {
	return f.DeleteCartLineFn(ctx, cartID, productID)
}

// ---- fakeTransactionStore ----
type fakeTransactionStore struct {
	CommitCheckoutFn         func(ctx context.Context, commit repository.CheckoutCommit) (int64, decimal.Decimal, error)
	ListTransactionsFn       func(ctx context.Context) ([]entity.Transaction, error)
	ListTransactionsByUserFn func(ctx context.Context, userID int64) ([]entity.Transaction, error)
	GetTransactionByIDFn     func(ctx context.Context, id int64) (*entity.Transaction, error)
}

func (f *fakeTransactionStore) CommitCheckout(ctx context.Context, commit repository.CheckoutCommit) (int64, decimal.Decimal, error) {
	return f.CommitCheckoutFn(ctx, commit)
}
func (f *fakeTransactionStore) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	return f.ListTransactionsFn(ctx)
}
func (f *fakeTransactionStore) ListTransactionsByUser(ctx context.Context, userID int64) ([]entity.Transaction, error) {
	return f.ListTransactionsByUserFn(ctx, userID)
}
func (f *fakeTransactionStore) GetTransactionByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	return f.GetTransactionByIDFn(ctx, id)
}

// ---- fakeReportStore ----
type fakeReportStore struct {
	CountProductsInOpenCartsFn func(ctx context.Context) (int, error)
	SalesSinceFn               func(ctx context.Context, since time.Time) ([]repository.Sale, error)
	MostPopularProductsFn      func(ctx context.Context, limit int) ([]entity.PopularProduct, error)
}

func (f *fakeReportStore) CountProductsInOpenCarts(ctx context.Context) (int, error) {
	return f.CountProductsInOpenCartsFn(ctx)
}
func (f *fakeReportStore) SalesSince(ctx context.Context, since time.Time) ([]repository.Sale, error) {
	return f.SalesSinceFn(ctx, since)
}
func (f *fakeReportStore) MostPopularProducts(ctx context.Context, limit int) ([]entity.PopularProduct, error) {
	return f.MostPopularProductsFn(ctx, limit)
}

// ---- memCache is an in-memory ProductCache ----
type memCache struct {
	mu      sync.Mutex
	items   map[int64]entity.Product
	evicted []int64
	err     error
}

func newMemCache() *memCache {
	return &memCache{items: map[int64]entity.Product{}}
}

func (c *memCache) Get(ctx context.Context, id int64) (*entity.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.items[id]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return &p, nil
}

func (c *memCache) Set(ctx context.Context, product *entity.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.items[product.ID] = *product
	return nil
}

func (c *memCache) Evict(ctx context.Context, ids ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range ids {
		delete(c.items, id)
	}
	c.evicted = append(c.evicted, ids...)
	return c.err
}

// ---- memIdempotency is an in-memory IdempotencyStore ----
type memIdempotency struct {
	keys map[string]bool
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{keys: map[string]bool{}}
}

func (m *memIdempotency) Claim(ctx context.Context, userID int64, key string) (bool, error) {
	scoped := fmt.Sprintf("%d:%s", userID, key)
	if m.keys[scoped] {
		return false, nil
	}
	m.keys[scoped] = true
	return true, nil
}

func (m *memIdempotency) Release(ctx context.Context, userID int64, key string) error {
	delete(m.keys, fmt.Sprintf("%d:%s", userID, key))
	return nil
}

// ---- fakeWriter records published kafka messages ----
type fakeWriter struct {
	messages []kafka.Message
	err      error
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func intPtr(v int) *int { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }
