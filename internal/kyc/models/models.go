package models

import "intakeflow/pkg/derrors"

// Status drives compliance-document eligibility: only a Completed application
// may have its PDF rendered.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

var statuses = []Status{StatusPending, StatusCompleted, StatusRejected}

// ParseStatus validates a caller-supplied status.
func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", derrors.Newf(derrors.CodeBadRequest, "unsupported KYC status %q", s)
}

// Application is one compliance record. CustomerID is assigned sequentially
// per calendar year and is immutable once assigned; KYCID is an internal
// record identifier. All dates are ISO strings (2006-01-02) as captured from
// the form.
type Application struct {
	KYCID          string `json:"kyc_id"`
	CustomerID     string `json:"customer_id"`
	SubmissionDate string `json:"submission_date"`
	Status         Status `json:"status"`

	// Personal and contact details.
	ResidentialStatus       string `json:"residential_status"`
	FullName                string `json:"full_name"`
	ResidentialAddressLine1 string `json:"residential_address_line1"`
	ResidentialAddressLine2 string `json:"residential_address_line2"`
	HomeAddressLine1        string `json:"home_address_line1"`
	HomeAddressLine2        string `json:"home_address_line2"`
	ContactLandline         string `json:"contact_landline"`
	ContactOffice           string `json:"contact_office"`
	ContactMobile           string `json:"contact_mobile"`

	// Identity documents.
	Gender                 string `json:"gender"`
	Nationality            string `json:"nationality"`
	DateOfBirth            string `json:"date_of_birth"`
	PlaceOfBirth           string `json:"place_of_birth"`
	PassportNumber         string `json:"passport_number"`
	PassportIssuePlace     string `json:"passport_issue_place"`
	PassportIssueDate      string `json:"passport_issue_date"`
	PassportExpiryDate     string `json:"passport_expiry_date"`
	DualNationality        string `json:"dual_nationality"`
	DualPassportNumber     string `json:"dual_passport_number"`
	DualPassportIssueDate  string `json:"dual_passport_issue_date"`
	DualPassportExpiryDate string `json:"dual_passport_expiry_date"`
	EmiratesID             string `json:"emirates_id"`
	EmiratesIDExpiry       string `json:"emirates_id_expiry"`
	VisaUID                string `json:"visa_uid"`
	VisaExpiry             string `json:"visa_expiry"`

	// Occupation and sponsor.
	Occupation              string `json:"occupation"`
	SponsorBusinessName     string `json:"sponsor_business_name"`
	SponsorBusinessAddress  string `json:"sponsor_business_address"`
	SponsorBusinessLandline string `json:"sponsor_business_landline"`
	SponsorBusinessMobile   string `json:"sponsor_business_mobile"`

	// Financial profile.
	AnnualIncome      int64  `json:"annual_income"`
	InvestmentPurpose string `json:"investment_purpose"`
	SourceOfFunds     string `json:"source_of_funds"`
	PaymentMethod     string `json:"payment_method"`
}
