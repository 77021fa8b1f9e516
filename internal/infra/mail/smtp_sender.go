// internal/infra/mail/smtp_sender.go
package mail

import (
	"fmt"
	"net"
	"strconv"

	"gopkg.in/gomail.v2"
)

const defaultSMTPPort = 25

// SMTPSender implements the domain mail.Sender interface using
// gopkg.in/gomail.v2. Each Send dials, delivers one message and closes;
// there is no pooling and no retry — a failed send is reported back and
// the next run tries again.
type SMTPSender struct {
	host string
	port int
}

// NewSMTPSender parses addr as "host" or "host:port" (port defaults
// to 25, matching unauthenticated relay setups).
func NewSMTPSender(addr string) (*SMTPSender, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return &SMTPSender{host: addr, port: defaultSMTPPort}, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port in %q: %w", addr, err)
	}
	return &SMTPSender{host: host, port: port}, nil
}

func (s *SMTPSender) Send(from, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.Dialer{Host: s.host, Port: s.port}
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("error sending mail to %s via %s:%d: %w", to, s.host, s.port, err)
	}
	return nil
}
