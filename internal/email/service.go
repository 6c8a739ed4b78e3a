// Package email sends transactional mail over SMTP.
package email

import (
	"fmt"
	"net/smtp"
)

type Service struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewService(host, port, user, pass, from string) *Service {
	return &Service{host: host, port: port, user: user, pass: pass, from: from}
}

// SendOTP mails a password reset code.
func (s *Service) SendOTP(to string, code int) error {
	subject := "Your password reset code"
	body := fmt.Sprintf(
		"Your one-time password reset code is %06d.\r\n\r\nIt expires in 5 minutes. If you did not request a reset, ignore this email.",
		code,
	)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.user != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}
