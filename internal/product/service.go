package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog_api/internal/db"
)

var ErrProductNotFound = errors.New("product not found")

type ProductService struct {
	repo ProductRepositoryInterface
	db   *sql.DB
}

type ProductServiceInterface interface {
	CreateProduct(ctx context.Context, product *Product) (*Product, error)
	GetProduct(ctx context.Context, id int64) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	UpdateProduct(ctx context.Context, product *Product) (*Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

func NewProductService(repo ProductRepositoryInterface, db *sql.DB) ProductServiceInterface {
	return &ProductService{
		repo: repo,
		db:   db,
	}
}

func (s *ProductService) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	if err := s.repo.Create(ctx, s.db, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (*Product, error) {
	product, err := s.repo.GetByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]*Product, error) {
	products, err := s.repo.GetAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// UpdateProduct overwrites the product named by product.ID.
func (s *ProductService) UpdateProduct(ctx context.Context, product *Product) (*Product, error) {
	if err := s.repo.Update(ctx, s.db, product); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, s.db, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
