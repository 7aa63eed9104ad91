package companies

import (
	"context"

	"github.com/dmitrijs2005/odsregistry/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, company *models.Company) (*models.Company, error)
	List(ctx context.Context) ([]models.CompanyListing, error)
}
