package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	gomail "github.com/wneessen/go-mail"

	"intakeflow/internal/invoice/models"
	"intakeflow/internal/platform/config"
)

// SMTPNotifier sends the invoice as an email attachment. An address the
// message builder rejects is a soft failure (false, nil); transport errors
// are returned for the workflow to capture.
type SMTPNotifier struct {
	cfg    config.SMTP
	logger *slog.Logger
}

func NewSMTP(cfg config.SMTP, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg, logger: logger}
}

func (n *SMTPNotifier) Send(ctx context.Context, recipient string, st *models.State, attachmentPath string) (bool, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.cfg.From); err != nil {
		return false, fmt.Errorf("sender address %q: %w", n.cfg.From, err)
	}
	if err := msg.To(recipient); err != nil {
		n.logger.WarnContext(ctx, "invalid recipient address", "recipient", recipient, "error", err)
		return false, nil
	}

	msg.Subject("Invoice " + st.Invoice.TransactionID)
	msg.SetBodyString(gomail.TypeTextPlain, invoiceBody(st))
	if attachmentPath != "" {
		msg.AttachFile(attachmentPath)
	}

	client, err := gomail.NewClient(n.cfg.Host,
		gomail.WithPort(n.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(n.cfg.Username),
		gomail.WithPassword(n.cfg.Password),
	)
	if err != nil {
		return false, fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return false, fmt.Errorf("send invoice mail: %w", err)
	}
	return true, nil
}

func invoiceBody(st *models.State) string {
	var b strings.Builder
	name := strings.TrimSpace(st.Customer.FirstName + " " + st.Customer.LastName)
	if name == "" {
		name = "Customer"
	}
	fmt.Fprintf(&b, "Dear %s,\n\n", name)
	fmt.Fprintf(&b, "Please find attached invoice %s for %s %s.\n",
		st.Invoice.TransactionID, st.Invoice.Currency, st.Invoice.BilledAmount.StringFixed(2))
	fmt.Fprintf(&b, "Payment is due by %s.\n\n", st.Invoice.PaymentDueDate.Format("2006-01-02"))
	b.WriteString("Thank you for your business.\n")
	return b.String()
}
