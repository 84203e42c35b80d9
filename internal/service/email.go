package service

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"toolcrib-backend/internal/domain"
)

type emailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	return &emailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *emailService) SendLowLifeReport(ctx context.Context, to, name string, tools []domain.Tool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThe following tools are at or below their replacement threshold:\n\n", name)
	for _, t := range tools {
		fmt.Fprintf(&b, "- %s (%s) at %s: %.1f of %.1f hours remaining (threshold %.1f)\n",
			t.Name, t.Category, t.ShopName, t.RemainingLife, t.LifeLimit, t.ThresholdLimit)
	}
	b.WriteString("\nConsider placing replacement orders.\n\nToolcrib\n")

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Low-life tool report: %d tool(s) need attention", len(tools)))
	m.SetBody("text/plain", b.String())

	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send low-life report: %w", err)
	}
	return nil
}
