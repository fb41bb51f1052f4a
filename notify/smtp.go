package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/pkg/errors"
)

// SMTP sends through a plain-auth SMTP relay (gmail by default).
type SMTP struct {
	Host     string
	Port     string
	From     string
	Password string
	AppName  string
}

func NewSMTP(from, password, appName string) *SMTP {
	return &SMTP{
		Host:     "smtp.gmail.com",
		Port:     "587",
		From:     from,
		Password: password,
		AppName:  appName,
	}
}

func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	body += fmt.Sprintf("From: %s <%s>\r\n", s.AppName, s.From)
	body += fmt.Sprintf("To: %s\r\n", strings.Join(msg.To, ","))
	body += fmt.Sprintf("Subject: %s\r\n\r\n", msg.Subject)
	body += msg.HTML

	auth := smtp.PlainAuth("", s.From, s.Password, s.Host)
	if err := smtp.SendMail(s.Host+":"+s.Port, auth, s.From, msg.To, []byte(body)); err != nil {
		return errors.Wrap(err, "smtp send")
	}
	return nil
}
