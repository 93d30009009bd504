package repositories

import (
	"context"

	"beadstock/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SupplierRepository interface {
	Create(ctx context.Context, supplier *models.Supplier) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	GetByName(ctx context.Context, name string) (*models.Supplier, error)
	Update(ctx context.Context, supplier *models.Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Supplier, error)
}

type supplierRepo struct {
	db Database
}

func NewSupplierRepo(db Database) SupplierRepository {
	return &supplierRepo{db: db}
}

func scanSupplier(row pgx.Row) (*models.Supplier, error) {
	supplier := &models.Supplier{}
	err := row.Scan(&supplier.ID, &supplier.Name, &supplier.Contact, &supplier.Notes, &supplier.CreatedAt, &supplier.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func (r *supplierRepo) Create(ctx context.Context, supplier *models.Supplier) error {
	query := `
		INSERT INTO suppliers (id, name, contact, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (name) DO NOTHING
	`
	_, err := r.db.Exec(ctx, query, supplier.ID, supplier.Name, supplier.Contact, supplier.Notes)
	return err
}

func (r *supplierRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	query := `
		SELECT id, name, contact, notes, created_at, updated_at
		FROM suppliers
		WHERE id = $1
	`
	return scanSupplier(r.db.QueryRow(ctx, query, id))
}

func (r *supplierRepo) GetByName(ctx context.Context, name string) (*models.Supplier, error) {
	query := `
		SELECT id, name, contact, notes, created_at, updated_at
		FROM suppliers
		WHERE name = $1
	`
	return scanSupplier(r.db.QueryRow(ctx, query, name))
}

func (r *supplierRepo) Update(ctx context.Context, supplier *models.Supplier) error {
	query := `
		UPDATE suppliers
		SET name = $1, contact = $2, notes = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, supplier.Name, supplier.Contact, supplier.Notes, supplier.ID)
	return err
}

func (r *supplierRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM suppliers WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *supplierRepo) List(ctx context.Context, limit, offset int) ([]*models.Supplier, error) {
	query := `
		SELECT id, name, contact, notes, created_at, updated_at
		FROM suppliers
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*models.Supplier
	for rows.Next() {
		supplier, err := scanSupplier(rows)
		if err != nil {
			return nil, err
		}
		suppliers = append(suppliers, supplier)
	}
	return suppliers, rows.Err()
}
