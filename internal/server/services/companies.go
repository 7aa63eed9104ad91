package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/odsregistry/internal/common"
	"github.com/dmitrijs2005/odsregistry/internal/dbx"
	"github.com/dmitrijs2005/odsregistry/internal/logging"
	"github.com/dmitrijs2005/odsregistry/internal/server/config"
	"github.com/dmitrijs2005/odsregistry/internal/server/events"
	"github.com/dmitrijs2005/odsregistry/internal/server/models"
	"github.com/dmitrijs2005/odsregistry/internal/server/repositories/repomanager"
)

// RegisterCompanyInput is the company registration request. Email names
// the registering account; ODS names the category, created on first use.
type RegisterCompanyInput struct {
	Name    string
	Contact string
	Address string
	CNPJ    string
	Sector  string
	Email   string
	ODS     string
}

type CompanyService struct {
	db           *sql.DB
	repomanager  repomanager.RepositoryManager
	publisher    events.Publisher
	log          logging.Logger
	queryTimeout time.Duration
}

func NewCompanyService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, pub events.Publisher, log logging.Logger) *CompanyService {
	if pub == nil {
		pub = events.NopPublisher{}
	}
	if log == nil {
		log = logging.Nop{}
	}
	return &CompanyService{
		db:           db,
		repomanager:  m,
		publisher:    pub,
		log:          log,
		queryTimeout: cfg.DBConnectTimeout,
	}
}

// Register files a company under the named category on behalf of the
// account with the given email.
//
// An unknown account yields common.ErrorNotFound with nothing written.
// The category upsert, the company insert and the counter increment share
// one transaction. A duplicate CNPJ yields common.ErrAlreadyExists.
// After commit a company.registered event is published; publish failures
// are logged and do not fail the registration.
func (s *CompanyService) Register(ctx context.Context, in RegisterCompanyInput) (*models.Company, error) {
	qctx, cancel := boundedContext(ctx, s.queryTimeout)
	defer cancel()

	user, err := s.repomanager.Users(s.db).GetUserByEmail(qctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error searching user: %w", err)
	}

	company := &models.Company{
		CNPJ:    in.CNPJ,
		Name:    in.Name,
		Contact: in.Contact,
		Address: in.Address,
		Sector:  in.Sector,
		UserID:  &user.ID,
	}

	err = dbx.WithTx(qctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		categoryID, err := s.repomanager.Categories(tx).Ensure(ctx, in.ODS)
		if err != nil {
			return fmt.Errorf("error resolving category: %w", err)
		}
		company.CategoryID = &categoryID

		if _, err := s.repomanager.Companies(tx).Create(ctx, company); err != nil {
			return fmt.Errorf("error creating company: %w", err)
		}

		if err := s.repomanager.Categories(tx).IncrementQuantity(ctx, categoryID); err != nil {
			return fmt.Errorf("error updating category counter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := events.CompanyRegistered{
		Event:     events.CompanyRegisteredEvent,
		CompanyID: company.ID,
		CNPJ:      company.CNPJ,
		Name:      company.Name,
		ODS:       in.ODS,
		UserEmail: user.Email,
	}
	if err := s.publisher.PublishCompanyRegistered(context.WithoutCancel(ctx), ev); err != nil {
		s.log.Warn(ctx, "publish company event failed", "cnpj", company.CNPJ, "error", err)
	}

	return company, nil
}

// List returns every company with its category name and registrant email.
func (s *CompanyService) List(ctx context.Context) ([]models.CompanyListing, error) {
	ctx, cancel := boundedContext(ctx, s.queryTimeout)
	defer cancel()

	list, err := s.repomanager.Companies(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing companies: %w", err)
	}
	return list, nil
}

// ListCategories returns every category with its company count.
func (s *CompanyService) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := boundedContext(ctx, s.queryTimeout)
	defer cancel()

	list, err := s.repomanager.Categories(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing categories: %w", err)
	}
	return list, nil
}
