package app

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tilvera/storefront/internal/clock"
	"github.com/tilvera/storefront/internal/domain"
)

type CatalogRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) error
	GetProduct(ctx context.Context, productID string) (domain.Product, error)
	ListProducts(ctx context.Context, page Page) ([]domain.Product, error)
	CreateCustomer(ctx context.Context, customer domain.Customer) error
	GetCustomer(ctx context.Context, customerID string) (domain.Customer, error)
}

// CatalogService is the admin surface that seeds products and customers.
// It sets the initial stock pool; afterwards stock only moves through the
// ledger primitive.
type CatalogService struct {
	repo  CatalogRepository
	clock clock.Clock
}

func NewCatalogService(repo CatalogRepository, clk clock.Clock) *CatalogService {
	return &CatalogService{
		repo:  repo,
		clock: clk,
	}
}

type CreateProductInput struct {
	Name          string
	Price         decimal.Decimal
	StockQuantity int
	Active        *bool
}

func (s *CatalogService) CreateProduct(ctx context.Context, in CreateProductInput) (domain.Product, error) {
	if in.Name == "" {
		return domain.Product{}, domain.ErrNameRequired
	}
	if !in.Price.IsPositive() {
		return domain.Product{}, domain.ErrInvalidPrice
	}
	if in.StockQuantity < 0 {
		return domain.Product{}, domain.ErrInvalidQuantity
	}

	active := true
	if in.Active != nil {
		active = *in.Active
	}

	product := domain.Product{
		ID:            newID(),
		Name:          in.Name,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Active:        active,
		CreatedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, productID string) (domain.Product, error) {
	return s.repo.GetProduct(ctx, productID)
}

func (s *CatalogService) ListProducts(ctx context.Context, page Page) ([]domain.Product, error) {
	return s.repo.ListProducts(ctx, page.normalize())
}

type CreateCustomerInput struct {
	Name  string
	Email string
}

func (s *CatalogService) CreateCustomer(ctx context.Context, in CreateCustomerInput) (domain.Customer, error) {
	if in.Name == "" {
		return domain.Customer{}, domain.ErrNameRequired
	}
	if in.Email == "" {
		return domain.Customer{}, domain.ErrEmailRequired
	}

	customer := domain.Customer{
		ID:        newID(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.CreateCustomer(ctx, customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (s *CatalogService) GetCustomer(ctx context.Context, customerID string) (domain.Customer, error) {
	return s.repo.GetCustomer(ctx, customerID)
}
