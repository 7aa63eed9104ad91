package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/server/config"
	"github.com/dmitrijs2005/odsregistry/internal/server/events"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/categories"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/companies"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/users"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{DBConnectTimeout: 5 * time.Second}
}

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	getErr    error
	createErr error
	created   []*models.User
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = int64(len(f.created) + 1)
	f.created = append(f.created, u)
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeCategoriesRepo struct {
	ensureID     int64
	ensureErr    error
	ensured      []string
	incrementErr error
	incremented  []int64
	list         []models.Category
	listErr      error
}

func (f *fakeCategoriesRepo) Ensure(ctx context.Context, name string) (int64, error) {
	f.ensured = append(f.ensured, name)
	return f.ensureID, f.ensureErr
}

func (f *fakeCategoriesRepo) IncrementQuantity(ctx context.Context, id int64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.incremented = append(f.incremented, id)
	return nil
}

func (f *fakeCategoriesRepo) List(ctx context.Context) ([]models.Category, error) {
	return f.list, f.listErr
}

type fakeCompaniesRepo struct {
	createErr error
	created   []*models.Company
	list      []models.CompanyListing
	listErr   error
}

func (f *fakeCompaniesRepo) Create(ctx context.Context, c *models.Company) (*models.Company, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = 100 + int64(len(f.created))
	f.created = append(f.created, c)
	return c, nil
}

func (f *fakeCompaniesRepo) List(ctx context.Context) ([]models.CompanyListing, error) {
	return f.list, f.listErr
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	cg *fakeCategoriesRepo
	cp *fakeCompaniesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Categories(db dbx.DBTX) categories.Repository { return m.cg }
func (m *fakeRepoManager) Companies(db dbx.DBTX) companies.Repository   { return m.cp }

type fakePublisher struct {
	err       error
	published []events.CompanyRegistered
}

func (p *fakePublisher) PublishCompanyRegistered(ctx context.Context, ev events.CompanyRegistered) error {
	p.published = append(p.published, ev)
	return p.err
}

func (p *fakePublisher) Close() error { return nil }
