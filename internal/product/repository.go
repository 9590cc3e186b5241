package product

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"catalog_api/internal/db"
	"catalog_api/internal/observability"

	"github.com/sirupsen/logrus"
)

type ProductRepository struct {
	metrics *observability.Metrics
}

type ProductRepositoryInterface interface {
	Create(ctx context.Context, q db.DBTX, product *Product) error
	GetByID(ctx context.Context, q db.DBTX, id int64) (*Product, error)
	GetAll(ctx context.Context, q db.DBTX) ([]*Product, error)
	Update(ctx context.Context, q db.DBTX, product *Product) error
	Delete(ctx context.Context, q db.DBTX, id int64) error
}

func NewProductRepository(metrics *observability.Metrics) ProductRepositoryInterface {
	return &ProductRepository{metrics: metrics}
}

const productColumns = `id, name, description, email, quantity, active, created_at, updated_at`

func scanProduct(row db.Scanner) (*Product, error) {
	p := &Product{}
	var description sql.NullString
	err := row.Scan(
		&p.ID,
		&p.Name,
		&description,
		&p.Email,
		&p.Quantity,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		p.Description = &description.String
	}
	return p, nil
}

// Create inserts product with its client supplied created_at and fills in the
// generated id.
func (r *ProductRepository) Create(ctx context.Context, q db.DBTX, product *Product) error {
	query := `
		INSERT INTO products (
			name, description, email, quantity, active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + productColumns

	start := time.Now()
	created, err := scanProduct(q.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Email,
		product.Quantity,
		product.Active,
		product.CreatedAt,
	))
	r.metrics.ObserveQuery("INSERT", start, err)
	if err != nil {
		logrus.WithError(err).Error("Failed to create product")
		return db.MapError(err)
	}

	*product = *created
	logrus.WithField("product_id", product.ID).Info("Product created successfully")
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, q db.DBTX, id int64) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	start := time.Now()
	product, err := scanProduct(q.QueryRowContext(ctx, query, id))
	r.metrics.ObserveQuery("SELECT", start, db.IgnoreNoRows(err))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		logrus.WithError(err).WithField("product_id", id).Error("Failed to get product by ID")
		return nil, err
	}

	return product, nil
}

func (r *ProductRepository) GetAll(ctx context.Context, q db.DBTX) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id`

	start := time.Now()
	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		r.metrics.ObserveQuery("SELECT", start, err)
		logrus.WithError(err).Error("Failed to list products")
		return nil, err
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.metrics.ObserveQuery("SELECT", start, err)
			return nil, err
		}
		products = append(products, p)
	}

	err = rows.Err()
	r.metrics.ObserveQuery("SELECT", start, err)
	if err != nil {
		return nil, err
	}

	return products, nil
}

// Update overwrites every client field of product.ID.
func (r *ProductRepository) Update(ctx context.Context, q db.DBTX, product *Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, email = $3, quantity = $4,
			active = $5, created_at = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING ` + productColumns

	start := time.Now()
	updated, err := scanProduct(q.QueryRowContext(ctx, query,
		product.Name,
		product.Description,
		product.Email,
		product.Quantity,
		product.Active,
		product.CreatedAt,
		product.ID,
	))
	r.metrics.ObserveQuery("UPDATE", start, db.IgnoreNoRows(err))
	if err != nil {
		err = db.MapError(err)
		if !errors.Is(err, db.ErrNotFound) {
			logrus.WithError(err).WithField("product_id", product.ID).Error("Failed to update product")
		}
		return err
	}

	*product = *updated
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, q db.DBTX, id int64) error {
	query := `DELETE FROM products WHERE id = $1`

	start := time.Now()
	result, err := q.ExecContext(ctx, query, id)
	r.metrics.ObserveQuery("DELETE", start, err)
	if err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("Failed to delete product")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return db.ErrNotFound
	}

	logrus.WithField("product_id", id).Info("Product deleted successfully")
	return nil
}
