// Package notify sends failure reports over SMTP. Used by unattended runs
// where nobody is watching the terminal.
package notify

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// Message is a plain-text mail. BCC recipients receive the mail but are not
// listed in the headers.
type Message struct {
	To      []string
	CC      []string
	BCC     []string
	Subject string
	Body    string
}

// Mailer sends mail through an authenticated SMTP relay with STARTTLS.
type Mailer struct {
	// Addr is host:port of the SMTP server, e.g. "smtp.example.com:587".
	Addr     string
	From     string
	Username string
	Password string

	// send is swapped out in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(addr, from, username, password string) *Mailer {
	return &Mailer{
		Addr:     addr,
		From:     from,
		Username: username,
		Password: password,
		send:     smtp.SendMail,
	}
}

// Send delivers the message to all To, CC and BCC recipients.
func (m *Mailer) Send(msg Message) error {
	recipients := make([]string, 0, len(msg.To)+len(msg.CC)+len(msg.BCC))
	recipients = append(recipients, msg.To...)
	recipients = append(recipients, msg.CC...)
	recipients = append(recipients, msg.BCC...)
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients")
	}
	host, _, err := net.SplitHostPort(m.Addr)
	if err != nil {
		return fmt.Errorf("invalid SMTP address %q: %w", m.Addr, err)
	}

	payload := buildMessage(m.From, msg, time.Now())
	auth := smtp.PlainAuth("", m.Username, m.Password, host)
	if err := m.send(m.Addr, auth, m.From, recipients, payload); err != nil {
		return fmt.Errorf("sending mail to %s: %w", strings.Join(recipients, ", "), err)
	}
	return nil
}

func buildMessage(from string, msg Message, at time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(msg.To, ", "))
	if len(msg.CC) > 0 {
		fmt.Fprintf(&b, "Cc: %s\r\n", strings.Join(msg.CC, ", "))
	}
	fmt.Fprintf(&b, "Date: %s\r\n", at.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return []byte(b.String())
}
