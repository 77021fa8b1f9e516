// internal/infra/telegram/reporter.go
package telegram

import (
	"context"
	"fmt"

	"password_notifier/internal/app"

	"gopkg.in/telebot.v3"
)

// Reporter pushes the post-run summary to an operator chat using
// gopkg.in/telebot.v3. It only ever sends; no handlers, no polling.
type Reporter struct {
	bot    *telebot.Bot
	chatID int64
}

func NewReporter(token string, chatID int64) (*Reporter, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}
	return &Reporter{bot: bot, chatID: chatID}, nil
}

// ReportRun sends a one-message digest of the run.
func (r *Reporter) ReportRun(_ context.Context, s app.Summary) error {
	text := fmt.Sprintf(
		"Password expiry run for %s:\nprocessed %d, sent %d, suppressed %d, not due %d\nno email %d, send failures %d, bad records %d",
		s.Date, s.Processed, s.Sent, s.Suppressed, s.NotDue, s.NoEmail, s.SendFailed, s.BadRecords,
	)
	_, err := r.bot.Send(&telebot.Chat{ID: r.chatID}, text)
	return err
}
