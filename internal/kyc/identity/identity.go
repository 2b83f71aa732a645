// Package identity owns the customer ID format and the duplicate-applicant
// rules shared by the KYC subsystem.
package identity

import (
	"fmt"
	"strconv"
	"strings"

	"intakeflow/internal/kyc/models"
)

// IDPrefix starts every assigned customer ID.
const IDPrefix = "CUST"

// ErrSequenceExhausted is returned when a calendar year runs past 999
// applications. The fixed 3-digit width cannot represent more; failing loudly
// beats silently truncating.
var ErrSequenceExhausted = fmt.Errorf("customer ID sequence exhausted for year")

// NextCustomerID assigns the next sequential ID for the year, format
// CUST<YYYY><NNN>. The sequence restarts at 001 on the first record of each
// new year. Existing IDs from other years or with malformed suffixes are
// ignored.
func NextCustomerID(existing []string, year int) (string, error) {
	prefix := fmt.Sprintf("%s%04d", IDPrefix, year)
	maxSeq := 0
	for _, id := range existing {
		if !strings.HasPrefix(id, prefix) {
			continue
		}
		suffix := id[len(prefix):]
		if len(suffix) != 3 {
			continue
		}
		n, err := strconv.Atoi(suffix)
		if err != nil {
			continue
		}
		if n > maxSeq {
			maxSeq = n
		}
	}
	if maxSeq >= 999 {
		return "", fmt.Errorf("%w %d", ErrSequenceExhausted, year)
	}
	return fmt.Sprintf("%s%03d", prefix, maxSeq+1), nil
}

// NaturalKey identifies an applicant by domain attributes rather than an
// assigned ID: full name and passport number case-insensitively, date of
// birth exactly as its ISO string.
type NaturalKey struct {
	FullName       string
	DateOfBirth    string
	PassportNumber string
}

// KeyOf derives the natural key of an application.
func KeyOf(app models.Application) NaturalKey {
	return NaturalKey{
		FullName:       strings.ToLower(strings.TrimSpace(app.FullName)),
		DateOfBirth:    strings.TrimSpace(app.DateOfBirth),
		PassportNumber: strings.ToLower(strings.TrimSpace(app.PassportNumber)),
	}
}

// FindDuplicate scans stored applications for one sharing the natural key and
// returns its assigned customer ID. The caller rejects the submission and
// surfaces that ID; records are never merged.
func FindDuplicate(existing []models.Application, key NaturalKey) (string, bool) {
	for _, app := range existing {
		if KeyOf(app) == key {
			return app.CustomerID, true
		}
	}
	return "", false
}
