package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/repository"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

type ProductService struct {
	productRepo  ProductStore
	categoryRepo CategoryStore
	cache        ProductCache
	imageBaseURL string
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo ProductStore, categoryRepo CategoryStore, cache ProductCache, imageBaseURL string) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		imageBaseURL: imageBaseURL,
	}
}

// ListProducts returns every product, active or not.
func (p *ProductService) ListProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := p.productRepo.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products")
		return nil, err
	}
	return p.withImages(products), nil
}

// ListActiveProducts returns the products a kiosk customer can buy.
func (p *ProductService) ListActiveProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := p.productRepo.ListActiveProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing active products")
		return nil, err
	}
	return p.withImages(products), nil
}

func (p *ProductService) ListProductsByCategory(ctx context.Context, name string) ([]entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("Category name is required.")
	}

	products, err := p.productRepo.ListProductsByCategoryName(ctx, name)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing products for category %s", name)
		return nil, err
	}
	if len(products) == 0 {
		return nil, notFoundf("No products found under category '%s'.", name)
	}
	return p.withImages(products), nil
}

// GetProductByID reads through the redis cache. Cache failures fall back to the database.
func (p *ProductService) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	cached, err := p.cache.Get(ctx, id)
	if err == nil {
		p.resolveImage(cached)
		return cached, nil
	}
	if !errors.Is(err, repository.ErrCacheMiss) {
		logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
	}

	product, err := p.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Product not found.")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}

	if err := p.cache.Set(ctx, product); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", id)
	}

	p.resolveImage(product)
	return product, nil
}

// CreateProduct validates and stores a new product. New products start active.
func (p *ProductService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if err := p.validate(ctx, product); err != nil {
		return nil, err
	}
	product.ID = 0
	product.IsActive = true

	created, err := p.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	p.resolveImage(created)
	return created, nil
}

// UpdateProduct replaces the editable fields of a product. The active flag only changes through ToggleActive.
func (p *ProductService) UpdateProduct(ctx context.Context, id int64, product *entity.Product) (*entity.Product, error) {
	existing, err := p.getFromStore(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.validate(ctx, product); err != nil {
		return nil, err
	}
	product.ID = id
	product.IsActive = existing.IsActive

	updated, err := p.productRepo.UpdateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, err
	}
	p.evict(ctx, id)
	p.resolveImage(updated)
	return updated, nil
}

func (p *ProductService) ToggleActive(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := p.getFromStore(ctx, id)
	if err != nil {
		return nil, err
	}

	product.IsActive = !product.IsActive
	if err := p.productRepo.SetProductActive(ctx, id, product.IsActive); err != nil {
		logger.Error().Err(err).Msgf("Error toggling product %d", id)
		return nil, err
	}
	p.evict(ctx, id)
	p.resolveImage(product)
	return product, nil
}

func (p *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	err := p.productRepo.DeleteProduct(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return notFoundf("Product not found.")
	case errors.Is(err, ErrConflict):
		return newError(ErrConflict, "Product is referenced by a cart and cannot be deleted.")
	case err != nil:
		logger.Error().Err(err).Msgf("Error deleting product %d", id)
		return err
	}
	p.evict(ctx, id)
	return nil
}

// ReserveStock takes quantity out of stock immediately, independent of any cart.
func (p *ProductService) ReserveStock(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return invalidf("Quantity must be greater than 0.")
	}
	if _, err := p.getFromStore(ctx, id); err != nil {
		return err
	}

	if err := p.productRepo.ReserveStock(ctx, id, quantity); err != nil {
		if errors.Is(err, ErrInsufficient) {
			logger.Warn().Msgf("Product %d out of stock", id)
			return newError(ErrInsufficient, "Insufficient stock available.")
		}
		logger.Error().Err(err).Msgf("Error reserving stock for product %d", id)
		return err
	}
	p.evict(ctx, id)
	return nil
}

// ReleaseStock puts quantity back into stock.
func (p *ProductService) ReleaseStock(ctx context.Context, id int64, quantity int) error {
	if quantity <= 0 {
		return invalidf("Quantity must be greater than 0.")
	}
	if _, err := p.getFromStore(ctx, id); err != nil {
		return err
	}

	if err := p.productRepo.ReleaseStock(ctx, id, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error releasing stock for product %d", id)
		return err
	}
	p.evict(ctx, id)
	return nil
}

// WarmupCache loads every product into the cache and returns how many were written.
func (p *ProductService) WarmupCache(ctx context.Context) (int, error) {
	products, err := p.productRepo.ListProducts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing products for cache warmup")
		return 0, err
	}

	warmed := 0
	for i := range products {
		if err := p.cache.Set(ctx, &products[i]); err != nil {
			logger.Error().Err(err).Msgf("Error setting product %d in cache", products[i].ID)
			continue
		}
		warmed++
	}
	return warmed, nil
}

// EvictProducts drops cached snapshots, e.g. after stock changed elsewhere.
func (p *ProductService) EvictProducts(ctx context.Context, ids ...int64) {
	p.evict(ctx, ids...)
}

func (p *ProductService) evict(ctx context.Context, ids ...int64) {
	if err := p.cache.Evict(ctx, ids...); err != nil {
		logger.Error().Err(err).Msgf("Error evicting products %v from cache", ids)
	}
}

func (p *ProductService) getFromStore(ctx context.Context, id int64) (*entity.Product, error) {
	product, err := p.productRepo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Product not found.")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", id)
		return nil, err
	}
	return product, nil
}

func (p *ProductService) validate(ctx context.Context, product *entity.Product) error {
	product.Name = strings.TrimSpace(product.Name)
	product.Description = strings.TrimSpace(product.Description)
	product.Available = strings.TrimSpace(product.Available)

	if n := utf8.RuneCountInString(product.Name); n == 0 || n > 50 {
		return invalidf("Invalid product name.")
	}
	if n := utf8.RuneCountInString(product.Description); n == 0 || n > 200 {
		return invalidf("Invalid description.")
	}
	if !product.UnitPrice.IsPositive() {
		return invalidf("Price must be positive.")
	}
	if n := utf8.RuneCountInString(product.Available); n == 0 || n > 50 {
		return invalidf("Invalid availability.")
	}
	if product.Quantity != nil && *product.Quantity < 0 {
		return invalidf("Quantity cannot be negative.")
	}

	if _, err := p.categoryRepo.GetCategoryByID(ctx, product.CategoryID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidf("The specified category does not exist.")
		}
		return err
	}
	return nil
}

func (p *ProductService) withImages(products []entity.Product) []entity.Product {
	for i := range products {
		p.resolveImage(&products[i])
	}
	return products
}

// resolveImage turns a stored image reference into an absolute URL.
func (p *ProductService) resolveImage(product *entity.Product) {
	if product.Image == "" || strings.HasPrefix(product.Image, "http") {
		return
	}
	product.Image = strings.TrimRight(p.imageBaseURL, "/") + "/" + strings.TrimLeft(product.Image, "/")
}
