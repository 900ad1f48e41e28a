package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

type CartService struct {
	cartRepo    CartStore
	productRepo ProductStore
	userRepo    UserStore
}

func NewCartService(cartRepo CartStore, productRepo ProductStore, userRepo UserStore) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// CreateCart returns the user's open cart, opening one when there is none.
func (s *CartService) CreateCart(ctx context.Context, caller Caller, userID int64) (*entity.Cart, error) {
	if err := caller.mustAccess(userID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOpenCartByUser(ctx, userID)
	if err == nil {
		return s.withLines(ctx, cart)
	}
	if !errors.Is(err, ErrNotFound) {
		logger.Error().Err(err).Msgf("Error getting open cart for user %d", userID)
		return nil, err
	}

	cart, err = s.cartRepo.CreateCart(ctx, userID)
	if errors.Is(err, ErrConflict) {
		// another request opened the cart first
		cart, err = s.cartRepo.GetOpenCartByUser(ctx, userID)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating cart for user %d", userID)
		return nil, err
	}
	cart.Products = []entity.CartProduct{}
	cart.Total = decimal.Zero
	return cart, nil
}

// AddProduct adds quantity of a product to an open cart, merging with an existing line.
func (s *CartService) AddProduct(ctx context.Context, caller Caller, cartID, productID int64, quantity int) (*entity.CartProduct, error) {
	if quantity <= 0 {
		return nil, invalidf("Quantity must be greater than 0.")
	}

	cart, err := s.getCart(ctx, caller, cartID)
	if err != nil {
		return nil, err
	}
	if !cart.IsOpen() {
		return nil, invalidf("Cart is already checked out.")
	}
	if err := s.requireUser(ctx, cart.UserID); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Product not found.")
		}
		logger.Error().Err(err).Msgf("Error getting product by ID %d", productID)
		return nil, err
	}
	if !product.IsActive {
		return nil, invalidf("Product is not available.")
	}

	existing, err := s.cartRepo.GetCartLine(ctx, cartID, productID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		logger.Error().Err(err).Msgf("Error getting cart line %d/%d", cartID, productID)
		return nil, err
	}

	newQuantity := quantity
	if existing != nil {
		newQuantity += existing.Quantity
	}
	if newQuantity > product.Stock() {
		return nil, newError(ErrInsufficient, "Insufficient stock available.")
	}

	var line *entity.CartProduct
	if existing != nil {
		err = s.cartRepo.UpdateCartLineQuantity(ctx, cartID, productID, newQuantity)
		existing.Quantity = newQuantity
		line = existing
	} else {
		line, err = s.cartRepo.InsertCartLine(ctx, cartID, productID, newQuantity)
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error saving cart line %d/%d", cartID, productID)
		return nil, err
	}

	line.ProductName = product.Name
	line.UnitPrice = product.UnitPrice
	line.Stock = product.Stock()
	line.LineTotal = product.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
	return line, nil
}

// UpdateQuantity sets the quantity of a line in the user's open cart.
func (s *CartService) UpdateQuantity(ctx context.Context, caller Caller, userID, productID int64, quantity int) error {
	if quantity <= 0 {
		return invalidf("Quantity must be greater than 0.")
	}
	cart, err := s.openCartFor(ctx, caller, userID)
	if err != nil {
		return err
	}

	if _, err := s.cartRepo.GetCartLine(ctx, cart.ID, productID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalidf("Product not found in cart.")
		}
		return err
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundf("Product not found.")
		}
		return err
	}
	if product.Stock() < quantity {
		return newError(ErrInsufficient, "Insufficient stock available.")
	}

	if err := s.cartRepo.UpdateCartLineQuantity(ctx, cart.ID, productID, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error updating cart line %d/%d", cart.ID, productID)
		return err
	}
	return nil
}

// RemoveProduct deletes a line from a cart. Stock is untouched since adding never reserved it.
func (s *CartService) RemoveProduct(ctx context.Context, caller Caller, cartID, productID int64) error {
	cart, err := s.getCart(ctx, caller, cartID)
	if err != nil {
		return err
	}
	if !cart.IsOpen() {
		return invalidf("Cart is already checked out.")
	}
	return s.deleteLine(ctx, cart.ID, productID)
}

// RemoveProductForUser deletes a line from the user's open cart.
func (s *CartService) RemoveProductForUser(ctx context.Context, caller Caller, userID, productID int64) error {
	cart, err := s.openCartFor(ctx, caller, userID)
	if err != nil {
		return err
	}
	return s.deleteLine(ctx, cart.ID, productID)
}

func (s *CartService) GetCart(ctx context.Context, caller Caller, cartID int64) (*entity.Cart, error) {
	cart, err := s.getCart(ctx, caller, cartID)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, cart)
}

func (s *CartService) GetActiveCart(ctx context.Context, caller Caller, userID int64) (*entity.Cart, error) {
	cart, err := s.openCartFor(ctx, caller, userID)
	if err != nil {
		return nil, err
	}
	return s.withLines(ctx, cart)
}

func (s *CartService) deleteLine(ctx context.Context, cartID, productID int64) error {
	err := s.cartRepo.DeleteCartLine(ctx, cartID, productID)
	if errors.Is(err, ErrNotFound) {
		return invalidf("Product not found in cart.")
	}
	if err != nil {
		logger.Error().Err(err).Msgf("Error removing cart line %d/%d", cartID, productID)
	}
	return err
}

func (s *CartService) getCart(ctx context.Context, caller Caller, cartID int64) (*entity.Cart, error) {
	cart, err := s.cartRepo.GetCartByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Cart not found.")
		}
		logger.Error().Err(err).Msgf("Error getting cart %d", cartID)
		return nil, err
	}
	if err := caller.mustAccess(cart.UserID); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) openCartFor(ctx context.Context, caller Caller, userID int64) (*entity.Cart, error) {
	if err := caller.mustAccess(userID); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetOpenCartByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("No active cart found.")
		}
		logger.Error().Err(err).Msgf("Error getting open cart for user %d", userID)
		return nil, err
	}
	return cart, nil
}

func (s *CartService) requireUser(ctx context.Context, userID int64) error {
	if _, err := activeUser(ctx, s.userRepo, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFoundf("User not found.")
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", userID)
		return err
	}
	return nil
}

func (s *CartService) withLines(ctx context.Context, cart *entity.Cart) (*entity.Cart, error) {
	lines, err := s.cartRepo.ListCartLines(ctx, cart.ID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing lines of cart %d", cart.ID)
		return nil, err
	}
	cart.Products = lines
	cart.Total = cartTotal(lines)
	return cart, nil
}

func cartTotal(lines []entity.CartProduct) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}
