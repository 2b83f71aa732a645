// Package store persists KYC applications with the same flat-file contract as
// the invoice store: append-only rows, in-place overwrite for corrections,
// fixed column order.
package store

import (
	"context"

	"intakeflow/internal/kyc/models"
)

// Columns is the fixed column order of the KYC file, assumed by every reader
// and writer.
var Columns = []string{
	"kyc_id", "customer_id", "submission_date", "status",
	"residential_status", "full_name",
	"residential_address_line1", "residential_address_line2",
	"home_address_line1", "home_address_line2",
	"contact_landline", "contact_office", "contact_mobile",
	"gender", "nationality", "date_of_birth", "place_of_birth",
	"passport_number", "passport_issue_place", "passport_issue_date", "passport_expiry_date",
	"dual_nationality", "dual_passport_number", "dual_passport_issue_date", "dual_passport_expiry_date",
	"emirates_id", "emirates_id_expiry", "visa_uid", "visa_expiry",
	"occupation", "sponsor_business_name", "sponsor_business_address",
	"sponsor_business_landline", "sponsor_business_mobile",
	"annual_income", "investment_purpose", "source_of_funds", "payment_method",
}

// Predicate selects applications for UpdateWhere.
type Predicate func(models.Application) bool

// Apply mutates a selected application in place.
type Apply func(*models.Application)

// Store is the append/lookup/update contract over KYC applications.
type Store interface {
	// ByCustomerID returns the most recently appended application for the
	// assigned customer ID, or sentinel.ErrNotFound.
	ByCustomerID(ctx context.Context, customerID string) (models.Application, error)

	// Append adds a new application without touching existing rows.
	Append(ctx context.Context, app models.Application) error

	// UpdateWhere overwrites all matching applications in place.
	UpdateWhere(ctx context.Context, pred Predicate, apply Apply) (int, error)

	// All returns every application in append order.
	All(ctx context.Context) ([]models.Application, error)
}
