// Package events publishes domain events about registered companies to a
// message broker.
package events

import (
	"context"
	"time"
)

const CompanyRegisteredEvent = "company.registered"

// CompanyRegistered is emitted after a company registration commits.
type CompanyRegistered struct {
	Event      string    `json:"event"`
	CompanyID  int64     `json:"company_id"`
	CNPJ       string    `json:"cnpj"`
	Name       string    `json:"name"`
	ODS        string    `json:"ods"`
	UserEmail  string    `json:"user_email"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	PublishCompanyRegistered(ctx context.Context, ev CompanyRegistered) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishCompanyRegistered(context.Context, CompanyRegistered) error { return nil }
func (NopPublisher) Close() error                                                      { return nil }
