package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"fleetdesk-backend/internal/config"
	"fleetdesk-backend/internal/logger"
)

type sendGridNotifier struct {
	apiKey   string
	host     string
	from     string
	fromName string
	to       string
	log      *slog.Logger
}

// NewNotifier sends digests through SendGrid. Without an API key or a
// recipient the digest is only logged.
func NewNotifier(cfg config.SendGridConfig) Notifier {
	return &sendGridNotifier{
		apiKey:   cfg.APIKey,
		host:     cfg.Host,
		from:     cfg.From,
		fromName: cfg.FromName,
		to:       cfg.To,
		log:      logger.WithService("notifier"),
	}
}

func (n *sendGridNotifier) SendRenewalDigest(ctx context.Context, due []DueRenewal) error {
	if len(due) == 0 {
		n.log.InfoContext(ctx, "No renewals due, digest skipped")
		return nil
	}
	subject := fmt.Sprintf("Renovações próximas: %d cliente(s)", len(due))
	body := renewalDigestBody(due)

	if n.apiKey == "" || n.to == "" {
		n.log.InfoContext(ctx, "SendGrid not configured, digest logged only", "subject", subject, "body", body)
		return nil
	}

	msg := mail.NewSingleEmail(mail.NewEmail(n.fromName, n.from), subject, mail.NewEmail("", n.to), body, "")
	request := sendgrid.GetRequest(n.apiKey, "/v3/mail/send", n.host)
	request.Method = "POST"
	request.Body = mail.GetRequestBody(msg)

	logger.ExternalServiceCall("sendgrid", "mail_send", "to", n.to, "customers", len(due))
	response, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err == nil && response.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	logger.ExternalServiceResult("sendgrid", "mail_send", err, "to", n.to)
	if err != nil {
		return fmt.Errorf("failed to send renewal digest: %w", err)
	}
	return nil
}

func renewalDigestBody(due []DueRenewal) string {
	var b strings.Builder
	b.WriteString("Clientes com devolução próxima:\n\n")
	for _, d := range due {
		when := fmt.Sprintf("em %d dia(s)", d.DaysLeft)
		if d.DaysLeft < 0 {
			when = fmt.Sprintf("atrasado há %d dia(s)", -d.DaysLeft)
		}
		fmt.Fprintf(&b, "- %s (%s): devolução %s, %s [%s]\n",
			d.Customer.Name, d.Customer.LoginID, d.Customer.ReturnDate, when, d.Level)
	}
	return b.String()
}
