package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"intakeflow/internal/audit"
	"intakeflow/internal/kyc/models"
	"intakeflow/internal/kyc/store"
	"intakeflow/pkg/derrors"
)

type stubGenerator struct {
	path string
	err  error
}

func (g *stubGenerator) Generate(_ context.Context, app models.Application) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	if g.path != "" {
		return g.path, nil
	}
	return "/tmp/KYC_" + app.CustomerID + ".pdf", nil
}

type capturingPublisher struct {
	events []audit.Event
}

func (p *capturingPublisher) Publish(_ context.Context, event audit.Event) {
	p.events = append(p.events, event)
}

func fixedClock() time.Time {
	return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
}

func validApplication(name, dob, passport string) models.Application {
	return models.Application{
		ResidentialStatus:       "Resident",
		FullName:                name,
		ResidentialAddressLine1: "Flat 4, Marina Tower",
		HomeAddressLine1:        "12 Rose Street",
		ContactMobile:           "+971501234567",
		Gender:                  "Female",
		Nationality:             "UAE",
		DateOfBirth:             dob,
		PlaceOfBirth:            "Dubai",
		PassportNumber:          passport,
		PassportIssuePlace:      "Dubai",
		PassportIssueDate:       "2020-01-15",
		PassportExpiryDate:      "2030-01-14",
		EmiratesID:              "784-1990-1234567-1",
		EmiratesIDExpiry:        "2028-06-30",
		VisaUID:                 "UID123456",
		VisaExpiry:              "2027-09-01",
		Occupation:              "Engineer",
		SponsorBusinessName:     "Acme Engineering LLC",
		SponsorBusinessAddress:  "Business Bay, Dubai",
		SponsorBusinessLandline: "+97143334444",
		SponsorBusinessMobile:   "+971505556666",
		AnnualIncome:            240000,
		InvestmentPurpose:       "Investment",
		SourceOfFunds:           "Salary",
		PaymentMethod:           "Bank Transfer",
	}
}

func newTestService(t *testing.T) (*Service, *capturingPublisher) {
	t.Helper()
	publisher := &capturingPublisher{}
	svc, err := New(store.NewInMemory(), &stubGenerator{},
		WithClock(fixedClock),
		WithAuditPublisher(publisher),
	)
	require.NoError(t, err)
	return svc, publisher
}

func TestSubmitAssignsSequentialID(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	first, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)
	require.Equal(t, "CUST2026001", first.CustomerID)
	require.Equal(t, models.StatusPending, first.Status)
	require.Equal(t, "2026-03-14", first.SubmissionDate)
	require.NotEmpty(t, first.KYCID)

	second, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("John Roe", "1985-11-20", "Q7654321"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)
	require.Equal(t, "CUST2026002", second.CustomerID)

	require.Len(t, publisher.events, 2)
	require.Equal(t, audit.ActionKYCSubmitted, publisher.events[0].Action)
}

func TestSubmitRequiresDeclaration(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Submit(context.Background(), SubmitInput{
		Application: validApplication("Jane Doe", "1990-05-01", "P1234567"),
	})
	require.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
}

func TestSubmitRejectsMissingRequiredField(t *testing.T) {
	svc, _ := newTestService(t)

	app := validApplication("Jane Doe", "1990-05-01", "P1234567")
	app.PassportNumber = ""
	_, err := svc.Submit(context.Background(), SubmitInput{Application: app, DeclarationAccepted: true})
	require.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
	require.Contains(t, err.Error(), "Passport Number")
}

func TestSubmitRejectsDuplicateApplicant(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)

	// Same natural key, different casing: rejected with the assigned ID.
	_, err = svc.Submit(ctx, SubmitInput{
		Application:         validApplication("JANE DOE", "1990-05-01", "p1234567"),
		DeclarationAccepted: true,
	})
	require.True(t, derrors.HasCode(err, derrors.CodeConflict))
	require.Contains(t, err.Error(), "CUST2026001")
}

func TestSubmitIgnoresClientAssignedIdentity(t *testing.T) {
	svc, _ := newTestService(t)

	app := validApplication("Jane Doe", "1990-05-01", "P1234567")
	app.CustomerID = "CUST2026999"
	app.Status = models.StatusCompleted
	got, err := svc.Submit(context.Background(), SubmitInput{Application: app, DeclarationAccepted: true})
	require.NoError(t, err)
	require.Equal(t, "CUST2026001", got.CustomerID)
	require.Equal(t, models.StatusPending, got.Status)
}

func TestUpdatePreservesIdentityAndStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)

	corrected := validApplication("Jane A. Doe", "1990-05-01", "P1234567")
	corrected.CustomerID = "CUST2026777"
	corrected.Status = models.StatusCompleted

	got, err := svc.Update(ctx, submitted.CustomerID, corrected)
	require.NoError(t, err)
	require.Equal(t, submitted.CustomerID, got.CustomerID)
	require.Equal(t, submitted.KYCID, got.KYCID)
	require.Equal(t, submitted.SubmissionDate, got.SubmissionDate)
	require.Equal(t, models.StatusPending, got.Status)
	require.Equal(t, "Jane A. Doe", got.FullName)
}

func TestUpdateUnknownCustomer(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Update(context.Background(), "CUST2026099", validApplication("Jane Doe", "1990-05-01", "P1234567"))
	require.True(t, derrors.HasCode(err, derrors.CodeNotFound))
}

func TestSearchMatchesAnyFieldCaseInsensitively(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)
	_, err = svc.Submit(ctx, SubmitInput{
		Application:         validApplication("John Roe", "1985-11-20", "Q7654321"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)

	matched, err := svc.Search(ctx, "jane")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "Jane Doe", matched[0].FullName)

	byPassport, err := svc.Search(ctx, "q7654321")
	require.NoError(t, err)
	require.Len(t, byPassport, 1)
	require.Equal(t, "John Roe", byPassport[0].FullName)

	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestSetStatus(t *testing.T) {
	svc, publisher := newTestService(t)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)

	got, err := svc.SetStatus(ctx, submitted.CustomerID, "Completed")
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, got.Status)

	last := publisher.events[len(publisher.events)-1]
	require.Equal(t, audit.ActionKYCStatusChanged, last.Action)
	require.Equal(t, "Completed", last.Detail)

	_, err = svc.SetStatus(ctx, submitted.CustomerID, "Archived")
	require.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
}

func TestGenerateDocumentRequiresCompletedStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	submitted, err := svc.Submit(ctx, SubmitInput{
		Application:         validApplication("Jane Doe", "1990-05-01", "P1234567"),
		DeclarationAccepted: true,
	})
	require.NoError(t, err)

	_, err = svc.GenerateDocument(ctx, submitted.CustomerID)
	require.True(t, derrors.HasCode(err, derrors.CodeConflict))

	_, err = svc.SetStatus(ctx, submitted.CustomerID, "Completed")
	require.NoError(t, err)

	path, err := svc.GenerateDocument(ctx, submitted.CustomerID)
	require.NoError(t, err)
	require.Contains(t, path, submitted.CustomerID)
}
