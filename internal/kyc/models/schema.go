package models

import (
	"slices"
	"strconv"

	"intakeflow/pkg/derrors"
)

// FieldType mirrors the original form widget kinds; the API only uses it to
// decide number parsing, but clients render from it.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextArea FieldType = "textarea"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldNumber   FieldType = "number"
)

// Field describes one form field of the compliance record.
type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Options  []string
}

// Section groups fields the way the original form does.
type Section struct {
	Key    string
	Title  string
	Fields []Field
}

// Option lists for select fields.
var (
	ResidentialStatusOptions = []string{"Resident", "Non-Resident", "Temporary Resident"}
	GenderOptions            = []string{"Male", "Female", "Other"}
	NationalityOptions       = []string{"UAE", "USA", "UK", "India", "Pakistan", "Others"}
	SourceOfFundsOptions     = []string{"Salary", "Business Income", "Investments", "Inheritance", "Savings", "Other"}
	InvestmentPurposeOptions = []string{"Investment", "Personal Use", "Rental Income", "Business", "Other"}
	PaymentMethodOptions     = []string{"Bank Transfer", "Cheque", "Cash", "Credit Card"}
)

// DeclarationText is shown to the applicant and must be accepted on submission.
const DeclarationText = "I hereby confirm that the above information provided is true and authentic " +
	"on the date of this declaration. I shall notify the company in case of any " +
	"changes in the above mentioned information."

// Sections is the authoritative field schema, including the per-field required
// flags the validator enforces.
var Sections = []Section{
	{
		Key:   "customer",
		Title: "Customer",
		Fields: []Field{
			{Name: "residential_status", Label: "Residential Status", Type: FieldSelect, Required: true, Options: ResidentialStatusOptions},
			{Name: "full_name", Label: "Full Name", Type: FieldText, Required: true},
			{Name: "residential_address_line1", Label: "Residential Address Line 1", Type: FieldText, Required: true},
			{Name: "residential_address_line2", Label: "Residential Address Line 2", Type: FieldText},
			{Name: "home_address_line1", Label: "Home Address Line 1", Type: FieldText, Required: true},
			{Name: "home_address_line2", Label: "Home Address Line 2", Type: FieldText},
			{Name: "contact_landline", Label: "Contact Details (Landline)", Type: FieldText},
			{Name: "contact_office", Label: "Contact Details (Office)", Type: FieldText},
			{Name: "contact_mobile", Label: "Contact Details (Mobile)", Type: FieldText, Required: true},
		},
	},
	{
		Key:   "customer_information",
		Title: "Customer Information",
		Fields: []Field{
			{Name: "gender", Label: "Gender", Type: FieldSelect, Required: true, Options: GenderOptions},
			{Name: "nationality", Label: "Nationality", Type: FieldSelect, Required: true, Options: NationalityOptions},
			{Name: "date_of_birth", Label: "Date of Birth", Type: FieldDate, Required: true},
			{Name: "place_of_birth", Label: "Place of Birth", Type: FieldText, Required: true},
			{Name: "passport_number", Label: "Passport Number", Type: FieldText, Required: true},
			{Name: "passport_issue_place", Label: "Passport Issued Place", Type: FieldText, Required: true},
			{Name: "passport_issue_date", Label: "Passport Issue Date", Type: FieldDate, Required: true},
			{Name: "passport_expiry_date", Label: "Passport Expiry Date", Type: FieldDate, Required: true},
			{Name: "dual_nationality", Label: "Dual Nationality (if any)", Type: FieldText},
			{Name: "dual_passport_number", Label: "Dual Passport Number", Type: FieldText},
			{Name: "dual_passport_issue_date", Label: "Dual Passport Issue Date", Type: FieldDate},
			{Name: "dual_passport_expiry_date", Label: "Dual Passport Expiry Date", Type: FieldDate},
			{Name: "emirates_id", Label: "Emirates ID Number", Type: FieldText, Required: true},
			{Name: "emirates_id_expiry", Label: "Emirates ID Expiry Date", Type: FieldDate, Required: true},
			{Name: "visa_uid", Label: "Visa UID Number", Type: FieldText, Required: true},
			{Name: "visa_expiry", Label: "Visa Expiry Date", Type: FieldDate, Required: true},
		},
	},
	{
		Key:   "customer_occupation",
		Title: "Customer Occupation",
		Fields: []Field{
			{Name: "occupation", Label: "Occupation", Type: FieldText, Required: true},
			{Name: "sponsor_business_name", Label: "Name of the Sponsor or Business", Type: FieldText, Required: true},
			{Name: "sponsor_business_address", Label: "Sponsor or Business Address", Type: FieldTextArea, Required: true},
			{Name: "sponsor_business_landline", Label: "Sponsor or Business Contact Details (Land Line)", Type: FieldText, Required: true},
			{Name: "sponsor_business_mobile", Label: "Sponsor or Business Contact Details (Mobile)", Type: FieldText, Required: true},
		},
	},
	{
		Key:   "customer_profile_payment",
		Title: "Customer Profile and Payment",
		Fields: []Field{
			{Name: "annual_income", Label: "Annual Salary or Business Income", Type: FieldNumber, Required: true},
			{Name: "investment_purpose", Label: "Purpose of Investment", Type: FieldSelect, Required: true, Options: InvestmentPurposeOptions},
			{Name: "source_of_funds", Label: "Source of Fund", Type: FieldSelect, Required: true, Options: SourceOfFundsOptions},
			{Name: "payment_method", Label: "Payment Method", Type: FieldSelect, Required: true, Options: PaymentMethodOptions},
		},
	},
}

// Validate checks the application against the field schema, short-circuiting
// on the first failure: required values present, select values in range.
func Validate(app Application) error {
	values := app.Values()
	for _, section := range Sections {
		for _, field := range section.Fields {
			v := values[field.Name]
			if field.Required && (v == "" || (field.Type == FieldNumber && v == "0")) {
				return derrors.Newf(derrors.CodeBadRequest, "%s is required", field.Label)
			}
			if field.Type == FieldSelect && v != "" && !slices.Contains(field.Options, v) {
				return derrors.Newf(derrors.CodeBadRequest, "%s must be one of the configured options", field.Label)
			}
		}
	}
	return nil
}

// Values flattens the application into the form-field namespace. The same
// mapping backs schema validation, free-text search, and the CSV codec.
func (a Application) Values() map[string]string {
	return map[string]string{
		"kyc_id":                    a.KYCID,
		"customer_id":               a.CustomerID,
		"submission_date":           a.SubmissionDate,
		"status":                    string(a.Status),
		"residential_status":        a.ResidentialStatus,
		"full_name":                 a.FullName,
		"residential_address_line1": a.ResidentialAddressLine1,
		"residential_address_line2": a.ResidentialAddressLine2,
		"home_address_line1":        a.HomeAddressLine1,
		"home_address_line2":        a.HomeAddressLine2,
		"contact_landline":          a.ContactLandline,
		"contact_office":            a.ContactOffice,
		"contact_mobile":            a.ContactMobile,
		"gender":                    a.Gender,
		"nationality":               a.Nationality,
		"date_of_birth":             a.DateOfBirth,
		"place_of_birth":            a.PlaceOfBirth,
		"passport_number":           a.PassportNumber,
		"passport_issue_place":      a.PassportIssuePlace,
		"passport_issue_date":       a.PassportIssueDate,
		"passport_expiry_date":      a.PassportExpiryDate,
		"dual_nationality":          a.DualNationality,
		"dual_passport_number":      a.DualPassportNumber,
		"dual_passport_issue_date":  a.DualPassportIssueDate,
		"dual_passport_expiry_date": a.DualPassportExpiryDate,
		"emirates_id":               a.EmiratesID,
		"emirates_id_expiry":        a.EmiratesIDExpiry,
		"visa_uid":                  a.VisaUID,
		"visa_expiry":               a.VisaExpiry,
		"occupation":                a.Occupation,
		"sponsor_business_name":     a.SponsorBusinessName,
		"sponsor_business_address":  a.SponsorBusinessAddress,
		"sponsor_business_landline": a.SponsorBusinessLandline,
		"sponsor_business_mobile":   a.SponsorBusinessMobile,
		"annual_income":             strconv.FormatInt(a.AnnualIncome, 10),
		"investment_purpose":        a.InvestmentPurpose,
		"source_of_funds":           a.SourceOfFunds,
		"payment_method":            a.PaymentMethod,
	}
}

// SetValue writes one form-field value back onto the application; the inverse
// of Values, used by the CSV codec.
func (a *Application) SetValue(name, value string) error {
	switch name {
	case "kyc_id":
		a.KYCID = value
	case "customer_id":
		a.CustomerID = value
	case "submission_date":
		a.SubmissionDate = value
	case "status":
		a.Status = Status(value)
	case "residential_status":
		a.ResidentialStatus = value
	case "full_name":
		a.FullName = value
	case "residential_address_line1":
		a.ResidentialAddressLine1 = value
	case "residential_address_line2":
		a.ResidentialAddressLine2 = value
	case "home_address_line1":
		a.HomeAddressLine1 = value
	case "home_address_line2":
		a.HomeAddressLine2 = value
	case "contact_landline":
		a.ContactLandline = value
	case "contact_office":
		a.ContactOffice = value
	case "contact_mobile":
		a.ContactMobile = value
	case "gender":
		a.Gender = value
	case "nationality":
		a.Nationality = value
	case "date_of_birth":
		a.DateOfBirth = value
	case "place_of_birth":
		a.PlaceOfBirth = value
	case "passport_number":
		a.PassportNumber = value
	case "passport_issue_place":
		a.PassportIssuePlace = value
	case "passport_issue_date":
		a.PassportIssueDate = value
	case "passport_expiry_date":
		a.PassportExpiryDate = value
	case "dual_nationality":
		a.DualNationality = value
	case "dual_passport_number":
		a.DualPassportNumber = value
	case "dual_passport_issue_date":
		a.DualPassportIssueDate = value
	case "dual_passport_expiry_date":
		a.DualPassportExpiryDate = value
	case "emirates_id":
		a.EmiratesID = value
	case "emirates_id_expiry":
		a.EmiratesIDExpiry = value
	case "visa_uid":
		a.VisaUID = value
	case "visa_expiry":
		a.VisaExpiry = value
	case "occupation":
		a.Occupation = value
	case "sponsor_business_name":
		a.SponsorBusinessName = value
	case "sponsor_business_address":
		a.SponsorBusinessAddress = value
	case "sponsor_business_landline":
		a.SponsorBusinessLandline = value
	case "sponsor_business_mobile":
		a.SponsorBusinessMobile = value
	case "annual_income":
		if value == "" {
			a.AnnualIncome = 0
			return nil
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return derrors.Newf(derrors.CodeBadRequest, "invalid annual income %q", value)
		}
		a.AnnualIncome = n
	default:
		return derrors.Newf(derrors.CodeInternal, "unknown KYC field %q", name)
	}
	return nil
}
