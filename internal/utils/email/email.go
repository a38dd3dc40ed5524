package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/finance-forecast/internal/config"
	"github.com/Dan9191/finance-forecast/internal/models"
)

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendForecastDigest sends the monthly forecast of a profile
func (s *Sender) SendForecastDigest(to models.DigestRecipient, period time.Time, items []models.ForecastItem, summary models.ForecastSummary) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to.Email}
	e.Subject = fmt.Sprintf("Forecast %s - %s", period.Format("01/2006"), to.ProfileName)
	e.Text = []byte(digestBody(to, period, items, summary))

	// Send email
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to.Email, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to.Email, e.Subject)
	return nil
}

func digestBody(to models.DigestRecipient, period time.Time, items []models.ForecastItem, summary models.ForecastSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", to.Username)
	fmt.Fprintf(&b, "Here is the forecast of profile %q for %s.\n\n", to.ProfileName, period.Format("01/2006"))
	fmt.Fprintf(&b, "Income:    %s\n", summary.Income.StringFixed(2))
	fmt.Fprintf(&b, "Pending:   %s\n", summary.Pending.StringFixed(2))
	fmt.Fprintf(&b, "Recurring: %s\n", summary.Recurring.StringFixed(2))
	fmt.Fprintf(&b, "Debts:     %s\n", summary.Debt.StringFixed(2))
	fmt.Fprintf(&b, "Net:       %s\n", summary.Net.StringFixed(2))

	if len(items) > 0 {
		b.WriteString("\nSchedule:\n")
		for _, it := range items {
			if it.Type == models.ForecastAppointment {
				fmt.Fprintf(&b, "  %s  %-11s %s\n", it.Date.Format("02/01"), it.Type, it.Description)
				continue
			}
			fmt.Fprintf(&b, "  %s  %-11s %s  %s\n", it.Date.Format("02/01"), it.Type, it.Amount.StringFixed(2), it.Description)
		}
	}

	b.WriteString("\nBest regards,\nFinance Forecast")
	return b.String()
}
