package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/categories"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/companies"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Categories(db dbx.DBTX) categories.Repository
	Companies(db dbx.DBTX) companies.Repository
}
