// internal/app/notify_service.go
package app

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	"password_notifier/internal/domain/account"
	"password_notifier/internal/domain/expiry"
	"password_notifier/internal/domain/ledger"
	"password_notifier/internal/domain/mail"

	"github.com/jmhodges/clock"
	"github.com/sirupsen/logrus"
)

// defaultBodyTemplate renders the plain-text notification body. Name and
// DaysLeft come from the directory record and the expiry calculation.
const defaultBodyTemplate = `Dear {{.Name}},

Your password will expire in {{.DaysLeft}} days. Please update it in a timely manner.
`

// Outcome classifies what happened to a single directory record during a
// run. Logging and the run summary are driven off this value; per-record
// failures never abort the run.
type Outcome string

const (
	OutcomeSent       Outcome = "SENT"
	OutcomeNotDue     Outcome = "NOT_DUE"
	OutcomeSuppressed Outcome = "SUPPRESSED"
	OutcomeNoEmail    Outcome = "NO_EMAIL"
	OutcomeSendFailed Outcome = "SEND_FAILED"
	OutcomeBadRecord  Outcome = "BAD_RECORD"
)

// RecordResult is the per-record processing verdict.
type RecordResult struct {
	AccountID string
	Outcome   Outcome
	DaysLeft  int
	Err       error
}

// Summary aggregates one run's results.
type Summary struct {
	Date       string
	Processed  int
	Sent       int
	NotDue     int
	Suppressed int
	NoEmail    int
	SendFailed int
	BadRecords int
}

// Reporter receives the post-run summary, e.g. for an operator chat.
type Reporter interface {
	ReportRun(ctx context.Context, s Summary) error
}

// NotifyService orchestrates one notification run: directory query,
// expiry calculation, ledger eligibility, mail delivery, ledger persist.
type NotifyService struct {
	directory account.Repository
	mailer    mail.Sender
	store     ledger.Store
	calc      expiry.Calculator
	threshold int
	sender    string
	subject   string
	bodyTmpl  *template.Template
	clk       clock.Clock
	logger    *logrus.Logger
}

func NewNotifyService(
	directory account.Repository,
	mailer mail.Sender,
	store ledger.Store,
	calc expiry.Calculator,
	thresholdDays int,
	sender string,
	subject string,
	clk clock.Clock,
	logger *logrus.Logger,
) *NotifyService {
	return &NotifyService{
		directory: directory,
		mailer:    mailer,
		store:     store,
		calc:      calc,
		threshold: thresholdDays,
		sender:    sender,
		subject:   subject,
		bodyTmpl:  template.Must(template.New("notify-body").Parse(defaultBodyTemplate)),
		clk:       clk,
		logger:    logger,
	}
}

// Run executes a single pass over all directory records. Setup failures
// (ledger load, directory search, final ledger save) return an error and
// are fatal to the run; per-record failures are logged, counted and
// skipped. The ledger is persisted exactly once, after the loop.
func (s *NotifyService) Run(ctx context.Context) (Summary, error) {
	entries, err := s.store.Load(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load notification ledger: %w", err)
	}
	led := ledger.New(entries)

	accounts, err := s.directory.Search(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("directory search failed: %w", err)
	}
	s.logger.Infof("Directory search returned %d accounts.", len(accounts))

	now := s.clk.Now().UTC()
	today := now.Format(ledger.DateLayout)
	summary := Summary{Date: today}

	for _, acct := range accounts {
		res := s.processAccount(led, acct, now, today)
		s.logResult(res)
		summary.tally(res)
	}

	if err := s.store.Save(ctx, led.Entries()); err != nil {
		return summary, fmt.Errorf("failed to persist notification ledger: %w", err)
	}

	s.logger.Infof("Run complete: %d processed, %d sent, %d not due, %d suppressed, %d without email, %d send failures, %d bad records.",
		summary.Processed, summary.Sent, summary.NotDue, summary.Suppressed, summary.NoEmail, summary.SendFailed, summary.BadRecords)
	return summary, nil
}

func (s *NotifyService) processAccount(led *ledger.Ledger, acct account.Account, now time.Time, today string) RecordResult {
	id := acct.SAMAccountName
	if id == "" {
		return RecordResult{Outcome: OutcomeBadRecord, Err: fmt.Errorf("record has no sAMAccountName")}
	}

	lastSet, err := expiry.ParseLastSet(acct.PwdLastSet)
	if err != nil {
		return RecordResult{AccountID: id, Outcome: OutcomeBadRecord, Err: err}
	}

	status := s.calc.Status(lastSet, now)
	s.logger.Infof("Password for %s expires in %d days (%s).", id, status.DaysLeft, status.ExpiresAt.Format(ledger.DateLayout))

	if status.DaysLeft > s.threshold {
		return RecordResult{AccountID: id, Outcome: OutcomeNotDue, DaysLeft: status.DaysLeft}
	}

	if acct.Mail == "" {
		return RecordResult{AccountID: id, Outcome: OutcomeNoEmail, DaysLeft: status.DaysLeft}
	}

	if !led.Eligible(id, today) {
		return RecordResult{AccountID: id, Outcome: OutcomeSuppressed, DaysLeft: status.DaysLeft}
	}

	body, err := s.composeBody(acct.DisplayName(), status.DaysLeft)
	if err != nil {
		return RecordResult{AccountID: id, Outcome: OutcomeBadRecord, DaysLeft: status.DaysLeft, Err: err}
	}

	if err := s.mailer.Send(s.sender, acct.Mail, s.subject, body); err != nil {
		// Ledger untouched: the next run retries this account.
		return RecordResult{AccountID: id, Outcome: OutcomeSendFailed, DaysLeft: status.DaysLeft, Err: err}
	}

	led.MarkNotified(id, today)
	return RecordResult{AccountID: id, Outcome: OutcomeSent, DaysLeft: status.DaysLeft}
}

func (s *NotifyService) composeBody(name string, daysLeft int) (string, error) {
	var buf bytes.Buffer
	err := s.bodyTmpl.Execute(&buf, struct {
		Name     string
		DaysLeft int
	}{Name: name, DaysLeft: daysLeft})
	if err != nil {
		return "", fmt.Errorf("error rendering notification body: %w", err)
	}
	return buf.String(), nil
}

func (s *NotifyService) logResult(res RecordResult) {
	switch res.Outcome {
	case OutcomeSent:
		s.logger.Infof("Notification sent to %s (%d days left).", res.AccountID, res.DaysLeft)
	case OutcomeNotDue:
		s.logger.Debugf("Password for %s is not due for notification (%d days left).", res.AccountID, res.DaysLeft)
	case OutcomeSuppressed:
		s.logger.Infof("Already notified %s today, skipping.", res.AccountID)
	case OutcomeNoEmail:
		s.logger.Warnf("Account %s has no email address, skipping.", res.AccountID)
	case OutcomeSendFailed:
		s.logger.Errorf("Failed to send notification to %s: %v", res.AccountID, res.Err)
	case OutcomeBadRecord:
		s.logger.Errorf("Skipping malformed directory record (account %q): %v", res.AccountID, res.Err)
	}
}

func (sum *Summary) tally(res RecordResult) {
	sum.Processed++
	switch res.Outcome {
	case OutcomeSent:
		sum.Sent++
	case OutcomeNotDue:
		sum.NotDue++
	case OutcomeSuppressed:
		sum.Suppressed++
	case OutcomeNoEmail:
		sum.NoEmail++
	case OutcomeSendFailed:
		sum.SendFailed++
	case OutcomeBadRecord:
		sum.BadRecords++
	}
}
