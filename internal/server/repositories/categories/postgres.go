// Package categories provides the PostgreSQL-backed repository for the
// ODS/STG taxonomy table.
package categories

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
)

// PostgresRepository implements category storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Ensure is an atomic insert-if-absent on stg.name. The no-op update on
// conflict makes RETURNING yield the existing row's id, so two concurrent
// registrations under a new name always agree on one category.
func (r *PostgresRepository) Ensure(ctx context.Context, name string) (int64, error) {
	query := `
		INSERT INTO stg (name, companies_quantity)
		VALUES ($1, 0)
		ON CONFLICT (name)
		DO UPDATE SET name = EXCLUDED.name
		RETURNING stg_id
	`
	var id int64
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

// IncrementQuantity bumps the stored companies counter of a category.
// An unknown id yields common.ErrorNotFound.
func (r *PostgresRepository) IncrementQuantity(ctx context.Context, id int64) error {
	query := `UPDATE stg SET companies_quantity = companies_quantity + 1 WHERE stg_id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// List returns every category with its company count computed from the
// companies table rather than the stored counter.
func (r *PostgresRepository) List(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT stg.stg_id, stg.name, COUNT(companies.id)
		FROM stg
		LEFT JOIN companies ON companies.stg_id = stg.stg_id
		GROUP BY stg.stg_id, stg.name
		ORDER BY stg.stg_id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select categories: %w", err)
	}
	defer rows.Close()

	result := make([]models.Category, 0)
	for rows.Next() {
		var item models.Category
		if err := rows.Scan(&item.ID, &item.Name, &item.CompaniesQuantity); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
