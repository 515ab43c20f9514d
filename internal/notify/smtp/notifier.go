// Package smtp dispatches digests over plain SMTP.
package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/fransm/boe-watcher/internal/gazette"
	"github.com/fransm/boe-watcher/internal/notify"
)

// Config captures the external transport settings. Host, credentials, and
// sender identity are deployment concerns, never part of the core contract.
type Config struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Notifier implements gazette.Notifier over net/smtp.
type Notifier struct {
	cfg    Config
	logger *zap.Logger

	// send is swappable for tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// New builds a Notifier.
func New(cfg Config, logger *zap.Logger) (*Notifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{cfg: cfg, logger: logger, send: smtp.SendMail}, nil
}

// Notify formats and sends the digest to every recipient. Empty input is a
// no-op. Errors are surfaced to the caller, which reports them as a soft
// warning rather than a run failure.
func (n *Notifier) Notify(ctx context.Context, recipients []string, newlyInserted []gazette.Announcement) error {
	if len(recipients) == 0 || len(newlyInserted) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}

	msg := buildMessage(n.cfg.From, recipients, notify.Subject(len(newlyInserted)), notify.Body(newlyInserted))

	var auth smtp.Auth
	if n.cfg.Username != "" {
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	if err := n.send(addr, auth, n.cfg.From, recipients, msg); err != nil {
		return fmt.Errorf("send digest via %s: %w", addr, err)
	}
	n.logger.Info("digest dispatched",
		zap.Int("recipients", len(recipients)),
		zap.Int("announcements", len(newlyInserted)),
	)
	return nil
}

func buildMessage(from string, to []string, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(to, ", "))
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
