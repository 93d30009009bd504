package repositories

import (
	"context"
	"fmt"
	"strings"

	"beadstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the pgx surface repositories depend on. Both *pgxpool.Pool and
// the pgxmock pool satisfy it.
type Database interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type BatchRepository interface {
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error)
	Update(ctx context.Context, batch *models.Batch) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Batch, error)
	ListAll(ctx context.Context) ([]*models.Batch, error)
	AdjustUsed(ctx context.Context, id uuid.UUID, delta float64) error
	AdvancedSearch(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error)
}

type batchRepo struct {
	db Database
}

func NewBatchRepo(db Database) BatchRepository {
	return &batchRepo{db: db}
}

const batchColumns = "id, name, product_type, spec_value, spec_unit, quality, purchase_date, supplier_name, original_quantity, used_quantity, unit_price, price_per_gram, min_stock_alert, created_at, updated_at"

func scanBatch(row pgx.Row) (*models.Batch, error) {
	batch := &models.Batch{}
	err := row.Scan(&batch.ID, &batch.Name, &batch.ProductType, &batch.SpecValue, &batch.SpecUnit, &batch.Quality, &batch.PurchaseDate, &batch.SupplierName, &batch.OriginalQuantity, &batch.UsedQuantity, &batch.UnitPrice, &batch.PricePerGram, &batch.MinStockAlert, &batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return batch, nil
}

func scanBatches(rows pgx.Rows) ([]*models.Batch, error) {
	defer rows.Close()
	var batches []*models.Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

func (r *batchRepo) Create(ctx context.Context, batch *models.Batch) error {
	query := `
		INSERT INTO batches (id, name, product_type, spec_value, spec_unit, quality, purchase_date, supplier_name, original_quantity, used_quantity, unit_price, price_per_gram, min_stock_alert, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, batch.ID, batch.Name, batch.ProductType, batch.SpecValue, batch.SpecUnit, batch.Quality, batch.PurchaseDate, batch.SupplierName, batch.OriginalQuantity, batch.UsedQuantity, batch.UnitPrice, batch.PricePerGram, batch.MinStockAlert)
	return err
}

func (r *batchRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE id = $1
	`
	return scanBatch(r.db.QueryRow(ctx, query, id))
}

func (r *batchRepo) Update(ctx context.Context, batch *models.Batch) error {
	query := `
		UPDATE batches
		SET name = $1, product_type = $2, spec_value = $3, spec_unit = $4, quality = $5, purchase_date = $6, supplier_name = $7, original_quantity = $8, used_quantity = $9, unit_price = $10, price_per_gram = $11, min_stock_alert = $12, updated_at = NOW()
		WHERE id = $13
	`
	_, err := r.db.Exec(ctx, query, batch.Name, batch.ProductType, batch.SpecValue, batch.SpecUnit, batch.Quality, batch.PurchaseDate, batch.SupplierName, batch.OriginalQuantity, batch.UsedQuantity, batch.UnitPrice, batch.PricePerGram, batch.MinStockAlert, batch.ID)
	return err
}

func (r *batchRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM batches WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *batchRepo) List(ctx context.Context, limit, offset int) ([]*models.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	return scanBatches(rows)
}

// ListAll returns every batch without pagination; the inventory tree needs the
// complete set to aggregate correctly.
func (r *batchRepo) ListAll(ctx context.Context) ([]*models.Batch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM batches
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return scanBatches(rows)
}

// AdjustUsed atomically increments used_quantity, capping it inside the
// [0, original_quantity] range at the database so concurrent consumers cannot
// overdraw a batch.
func (r *batchRepo) AdjustUsed(ctx context.Context, id uuid.UUID, delta float64) error {
	query := `
		UPDATE batches
		SET used_quantity = GREATEST(0, LEAST(original_quantity, used_quantity + $1)), updated_at = NOW()
		WHERE id = $2
	`
	tag, err := r.db.Exec(ctx, query, delta, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *batchRepo) AdvancedSearch(ctx context.Context, filter *models.BatchSearchFilter) ([]*models.Batch, error) {
	// Set defaults
	if filter.Limit == 0 {
		filter.Limit = 50
	}
	if filter.SortBy == "" {
		filter.SortBy = "created_at"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}

	queryBase := `
		SELECT ` + batchColumns + `
		FROM batches
		WHERE 1 = 1
	`
	args := []interface{}{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR COALESCE(supplier_name, '') ILIKE $%d)`, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}

	if filter.ProductType != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND product_type = $%d`, conditionCount)
		args = append(args, *filter.ProductType)
	}

	if filter.Quality != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND quality = $%d`, conditionCount)
		args = append(args, *filter.Quality)
	}

	if filter.MinRemaining != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (original_quantity - used_quantity) >= $%d`, conditionCount)
		args = append(args, *filter.MinRemaining)
	}
	if filter.MaxRemaining != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (original_quantity - used_quantity) <= $%d`, conditionCount)
		args = append(args, *filter.MaxRemaining)
	}

	if filter.LowStockOnly {
		queryBase += ` AND (original_quantity - used_quantity) <= min_stock_alert`
	}

	validSortFields := map[string]bool{
		"name": true, "created_at": true, "purchase_date": true, "unit_price": true,
	}
	sortField := "created_at"
	if validSortFields[filter.SortBy] {
		sortField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.Query(ctx, queryBase, args...)
	if err != nil {
		return nil, err
	}
	return scanBatches(rows)
}
