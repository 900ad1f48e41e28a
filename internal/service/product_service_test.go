package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/repository"
)

const imageBase = "https://cdn.example.com/kiosk/"

// catalog keeps products in memory behind a fakeProductStore.
func catalog(products ...entity.Product) (*fakeProductStore, map[int64]*entity.Product) {
	byID := map[int64]*entity.Product{}
	for i := range products {
		p := products[i]
		byID[p.ID] = &p
	}
	list := func(keep func(p *entity.Product) bool) []entity.Product {
		out := []entity.Product{}
		for id := int64(1); id <= int64(len(byID)); id++ {
			if p, ok := byID[id]; ok && keep(p) {
				out = append(out, *p)
			}
		}
		return out
	}
	store := &fakeProductStore{
		ListProductsFn: func(ctx context.Context) ([]entity.Product, error) {
			return list(func(p *entity.Product) bool { return true }), nil
		},
		ListActiveProductsFn: func(ctx context.Context) ([]entity.Product, error) {
			return list(func(p *entity.Product) bool { return p.IsActive && !strings.EqualFold(p.Available, "no") }), nil
		},
		GetProductByIDFn: func(ctx context.Context, id int64) (*entity.Product, error) {
			p, ok := byID[id]
			if !ok {
				return nil, repository.ErrNotFound
			}
			cp := *p
			return &cp, nil
		},
		SetProductActiveFn: func(ctx context.Context, id int64, active bool) error {
			byID[id].IsActive = active
			return nil
		},
	}
	return store, byID
}

func categories() *fakeCategoryStore {
	return &fakeCategoryStore{
		GetCategoryByIDFn: func(ctx context.Context, id int64) (*entity.ProductCategory, error) {
			if id != 1 {
				return nil, repository.ErrNotFound
			}
			return &entity.ProductCategory{ID: 1, Name: "Drinks"}, nil
		},
	}
}

func TestToggleActiveHidesProductFromActiveList(t *testing.T) {
	store, _ := catalog(
		entity.Product{ID: 1, Name: "Juice", UnitPrice: money("20"), Available: "yes", Quantity: intPtr(5), CategoryID: 1, IsActive: true},
		entity.Product{ID: 2, Name: "Chips", UnitPrice: money("10"), Available: "No", Quantity: intPtr(5), CategoryID: 1, IsActive: true},
	)
	cache := newMemCache()
	svc := NewProductService(store, categories(), cache, imageBase)
	ctx := context.Background()

	active, err := svc.ListActiveProducts(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, int64(1), active[0].ID)

	toggled, err := svc.ToggleActive(ctx, 1)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)
	assert.Contains(t, cache.evicted, int64(1))

	active, err = svc.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	_, err = svc.ToggleActive(ctx, 1)
	require.NoError(t, err)
	active, err = svc.ListActiveProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestGetProductByIDReadsThroughCache(t *testing.T) {
	calls := 0
	store, _ := catalog(entity.Product{ID: 1, Name: "Juice", Image: "juice.png", CategoryID: 1})
	get := store.GetProductByIDFn
	store.GetProductByIDFn = func(ctx context.Context, id int64) (*entity.Product, error) {
		calls++
		return get(ctx, id)
	}
	cache := newMemCache()
	svc := NewProductService(store, categories(), cache, imageBase)

	first, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	second, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, "https://cdn.example.com/kiosk/juice.png", first.Image)
	assert.Equal(t, first.Image, second.Image)
	assert.Equal(t, "juice.png", cache.items[1].Image)
}

func TestGetProductByIDFallsBackWhenCacheFails(t *testing.T) {
	store, _ := catalog(entity.Product{ID: 1, Name: "Juice", Image: "http://elsewhere/juice.png"})
	cache := newMemCache()
	cache.err = errors.New("redis down")
	svc := NewProductService(store, categories(), cache, imageBase)

	product, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "http://elsewhere/juice.png", product.Image)

	_, err = svc.GetProductByID(context.Background(), 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProductValidation(t *testing.T) {
	var saved *entity.Product
	store := &fakeProductStore{
		CreateProductFn: func(ctx context.Context, product *entity.Product) (*entity.Product, error) {
			product.ID = 10
			saved = product
			return product, nil
		},
	}
	svc := NewProductService(store, categories(), newMemCache(), imageBase)
	valid := func() *entity.Product {
		return &entity.Product{Name: "Water", Description: "Still 500ml", UnitPrice: money("8.50"), Available: "yes", Quantity: intPtr(3), CategoryID: 1}
	}

	tests := []struct {
		name   string
		mutate func(p *entity.Product)
	}{
		{"empty name", func(p *entity.Product) { p.Name = " " }},
		{"long name", func(p *entity.Product) { p.Name = string(make([]byte, 51)) }},
		{"empty description", func(p *entity.Product) { p.Description = "" }},
		{"zero price", func(p *entity.Product) { p.UnitPrice = money("0") }},
		{"negative price", func(p *entity.Product) { p.UnitPrice = money("-1") }},
		{"empty available", func(p *entity.Product) { p.Available = "" }},
		{"negative quantity", func(p *entity.Product) { p.Quantity = intPtr(-1) }},
		{"unknown category", func(p *entity.Product) { p.CategoryID = 42 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid()
			tt.mutate(p)
			_, err := svc.CreateProduct(context.Background(), p)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}

	created, err := svc.CreateProduct(context.Background(), valid())
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)
	assert.True(t, saved.IsActive)
}

func TestDeleteProductReferencedByCart(t *testing.T) {
	store := &fakeProductStore{
		DeleteProductFn: func(ctx context.Context, id int64) error {
			return repository.ErrConflict
		},
	}
	svc := NewProductService(store, categories(), newMemCache(), imageBase)

	err := svc.DeleteProduct(context.Background(), 1)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestReserveAndReleaseStock(t *testing.T) {
	store, _ := catalog(entity.Product{ID: 1, Name: "Juice", Quantity: intPtr(2), Available: "yes"})
	store.ReserveStockFn = func(ctx context.Context, id int64, quantity int) error {
		if quantity > 2 {
			return repository.ErrInsufficientStock
		}
		return nil
	}
	store.ReleaseStockFn = func(ctx context.Context, id int64, quantity int) error { return nil }
	cache := newMemCache()
	svc := NewProductService(store, categories(), cache, imageBase)
	ctx := context.Background()

	assert.ErrorIs(t, svc.ReserveStock(ctx, 1, 0), ErrInvalidInput)
	assert.ErrorIs(t, svc.ReserveStock(ctx, 1, 3), ErrInsufficient)
	assert.ErrorIs(t, svc.ReserveStock(ctx, 9, 1), ErrNotFound)
	require.NoError(t, svc.ReserveStock(ctx, 1, 2))
	require.NoError(t, svc.ReleaseStock(ctx, 1, 2))
	assert.ErrorIs(t, svc.ReleaseStock(ctx, 1, -1), ErrInvalidInput)
	assert.Equal(t, []int64{1, 1}, cache.evicted)
}

func TestListProductsByCategory(t *testing.T) {
	store := &fakeProductStore{
		ListProductsByCategoryNameFn: func(ctx context.Context, name string) ([]entity.Product, error) {
			if name == "drinks" {
				return []entity.Product{{ID: 1, Name: "Juice", Image: "/juice.png"}}, nil
			}
			return []entity.Product{}, nil
		},
	}
	svc := NewProductService(store, categories(), newMemCache(), imageBase)

	products, err := svc.ListProductsByCategory(context.Background(), " drinks ")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/kiosk/juice.png", products[0].Image)

	_, err = svc.ListProductsByCategory(context.Background(), "toys")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListProductsByCategory(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWarmupCache(t *testing.T) {
	store, _ := catalog(entity.Product{ID: 1, Name: "Juice"}, entity.Product{ID: 2, Name: "Chips"})
	cache := newMemCache()
	svc := NewProductService(store, categories(), cache, imageBase)

	n, err := svc.WarmupCache(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, cache.items, 2)
}
