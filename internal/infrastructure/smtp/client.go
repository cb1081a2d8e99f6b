package smtp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/service"
)

// Client delivers the daily recap email over SMTP
type Client struct {
	cfg  *config.SMTPConfig
	tmpl *template.Template
}

// NewClient creates a new SMTP recap notifier
func NewClient(cfg *config.SMTPConfig) (*Client, error) {
	tmpl, err := template.New("recap").Parse(recapTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse recap template: %w", err)
	}
	return &Client{cfg: cfg, tmpl: tmpl}, nil
}

// SendDailyRecap renders and sends the end-of-day summary
func (c *Client) SendDailyRecap(ctx context.Context, completed, pending []*entity.Habit) error {
	data := map[string]interface{}{
		"Completed": completed,
		"Pending":   pending,
	}

	var buf bytes.Buffer
	if err := c.tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("failed to render recap email: %w", err)
	}

	subject := fmt.Sprintf("Daily Recap - %d done, %d to go", len(completed), len(pending))
	return c.send(c.cfg.ToEmail, subject, buf.String())
}

func (c *Client) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", c.cfg.FromName, c.cfg.FromEmail))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(c.cfg.Host, c.cfg.Port, c.cfg.Username, c.cfg.Password)

	// UseTLS = true means STARTTLS (port 587), false means SSL (port 465)
	if c.cfg.UseTLS {
		d.SSL = false
		d.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
	} else {
		d.SSL = true
		d.TLSConfig = &tls.Config{ServerName: c.cfg.Host}
	}

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

const recapTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Daily Recap</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #4CAF50;">Your Day in Habits</h2>
        {{if .Completed}}
        <h3>Completed today</h3>
        <ul>
        {{range .Completed}}
            <li><strong>{{.Title}}</strong> - streak: {{.Streak}} days</li>
        {{end}}
        </ul>
        {{end}}
        {{if .Pending}}
        <h3>Still waiting</h3>
        <ul>
        {{range .Pending}}
            <li>{{.Title}} ({{.Progress}}/{{.Frequency}})</li>
        {{end}}
        </ul>
        <p>There is still time to check these off before midnight.</p>
        {{else}}
        <p>Everything done. Well played!</p>
        {{end}}
        <hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
        <p style="color: #999; font-size: 12px;">This is an automated email, please do not reply.</p>
    </div>
</body>
</html>
`

var _ service.RecapNotifier = (*Client)(nil)
