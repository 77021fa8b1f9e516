package mail

// Sender defines an interface for delivering a single plain-text message.
// This decouples the notification logic from the SMTP library; delivery
// reliability (pooling, retries) is the implementation's problem, and a
// returned error simply means this run did not notify the recipient.
type Sender interface {
	Send(from, to, subject, body string) error
}
