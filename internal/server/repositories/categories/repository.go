package categories

import (
	"context"

	"github.com/dmitrijs2005/odsregistry/internal/server/models"
)

type Repository interface {
	// Ensure returns the id of the category called name, creating it with a
	// zero counter when it does not exist yet.
	Ensure(ctx context.Context, name string) (int64, error)
	IncrementQuantity(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.Category, error)
}
