package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/jd-matcher/internal/utils"
)

// SMTPConfig holds the submission server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SMTPSender submits messages over SMTP, upgrading the connection with STARTTLS.
type SMTPSender struct {
	config     SMTPConfig
	logger     *zap.Logger
	requireTLS bool
	tlsConfig  *tls.Config
	now        func() time.Time
}

var _ Sender = (*SMTPSender)(nil)

func NewSMTPSender(config SMTPConfig, logger *zap.Logger) *SMTPSender {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SMTPSender{
		config:     config,
		logger:     logger.With(zap.String("transport", "smtp"), zap.String("smtp_server", config.addr())),
		requireTLS: true,
		tlsConfig:  &tls.Config{ServerName: config.Host, MinVersion: tls.VersionTLS12},
		now:        time.Now,
	}
}

// Configured reports whether the sender has a password to authenticate with.
func (s *SMTPSender) Configured() bool {
	return s.config.Password != ""
}

// Send delivers msg. Without a password nothing is sent and ErrNotConfigured is returned.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	log := s.logger.With(zap.String("to", msg.To), zap.String("subject", utils.SingleLine(msg.Subject)))

	if !s.Configured() {
		log.Warn("smtp password is not set, email not sent")
		return ErrNotConfigured
	}

	if err := msg.validate(); err != nil {
		log.Error("sending email failed", zap.Error(err))
		return err
	}

	if err := s.send(ctx, msg); err != nil {
		log.Error("sending email failed", zap.Error(err))
		return err
	}

	log.Info("email sent")
	return nil
}

func (s *SMTPSender) send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context cancelled before sending email: %w", err)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", s.config.addr())
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(s.tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	} else if s.requireTLS {
		return fmt.Errorf("server %s does not support STARTTLS", s.config.Host)
	}

	if ok, _ := client.Extension("AUTH"); ok {
		username := s.config.Username
		if username == "" {
			username = msg.From
		}
		auth := smtp.PlainAuth("", username, s.config.Password, s.config.Host)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err = client.Mail(msg.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("failed to set recipient %s: %w", msg.To, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to open data writer: %w", err)
	}
	if _, err = w.Write(s.buildMessage(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	return client.Quit()
}

func (s *SMTPSender) buildMessage(msg Message) []byte {
	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("From: %s\r\n", msg.From))
	builder.WriteString(fmt.Sprintf("To: %s\r\n", msg.To))
	builder.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", utils.SingleLine(msg.Subject))))
	builder.WriteString(fmt.Sprintf("Date: %s\r\n", s.now().Format(time.RFC1123Z)))
	builder.WriteString(fmt.Sprintf("Message-ID: <%s@%s>\r\n", uuid.NewString(), s.config.Host))
	builder.WriteString("MIME-Version: 1.0\r\n")
	builder.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	builder.WriteString("\r\n")
	builder.WriteString(msg.Body)

	return []byte(builder.String())
}
