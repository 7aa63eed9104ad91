// Package companies provides the PostgreSQL-backed repository for
// registered companies.
package companies

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func partnerFlag(v bool) int {
	if v {
		return 1
	}
	return 0
}

// Create inserts the company and fills in its generated id. A duplicate
// CNPJ yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	query :=
		`INSERT INTO companies (cnpj, name, contact, adress, company_sector, is_partner, stg_id, user_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.CNPJ, c.Name, c.Contact, c.Address, c.Sector, partnerFlag(c.IsPartner), c.CategoryID, c.UserID,
	).Scan(&c.ID)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

// List returns every company joined with its category name and the
// registrant's email. Missing references come back as nil pointers.
func (r *PostgresRepository) List(ctx context.Context) ([]models.CompanyListing, error) {
	query :=
		`SELECT c.id, c.cnpj, c.name, c.contact, c.adress, c.company_sector, c.is_partner,
		        s.name, u.email
		 FROM companies c
		 LEFT JOIN stg s ON s.stg_id = c.stg_id
		 LEFT JOIN users u ON u.id = c.user_id
		 ORDER BY c.id
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select companies: %w", err)
	}
	defer rows.Close()

	result := make([]models.CompanyListing, 0)
	for rows.Next() {
		var item models.CompanyListing
		if err := rows.Scan(
			&item.ID, &item.CNPJ, &item.Name, &item.Contact, &item.Address,
			&item.CompanySector, &item.IsPartner, &item.ODSName, &item.UserEmail,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
