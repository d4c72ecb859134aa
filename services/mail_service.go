package services

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"

	"organize.it/configs"
	"organize.it/configs/configslog"
	"organize.it/pkg/metrics"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Mail giden tek bir e-posta.
type Mail struct {
	To      []string
	Subject string
	Body    string
	HTML    bool
}

// IMailService giden e-posta için arayüz. Gönderim hataları çağırana döner,
// isteklerin başarısız olup olmayacağına çağıran karar verir.
type IMailService interface {
	Send(ctx context.Context, mail Mail) error
}

// SMTPMailService gomail ile SMTP üzerinden gönderir.
type SMTPMailService struct {
	from   string
	dialer *gomail.Dialer
}

// LogMailService SMTP ayarı yoksa e-postaları sadece loglar.
type LogMailService struct{}

// NewMailService MAIL_SERVER boşsa loglayan, doluysa SMTP gönderen servis döndürür.
func NewMailService(cfg configs.MailConfig) IMailService {
	if cfg.Host == "" {
		configslog.SLog.Warn("MAIL_SERVER tanımlı değil, e-postalar sadece loglanacak")
		return &LogMailService{}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	dialer.SSL = cfg.UseSSL
	dialer.TLSConfig = &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}
	return &SMTPMailService{from: cfg.From, dialer: dialer}
}

func (s *SMTPMailService) Send(ctx context.Context, mail Mail) error {
	if len(mail.To) == 0 {
		return errors.New("alıcısız e-posta gönderilemez")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", mail.To...)
	m.SetHeader("Subject", mail.Subject)
	contentType := "text/plain"
	if mail.HTML {
		contentType = "text/html"
	}
	m.SetBody(contentType, mail.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		metrics.IncEmail("error")
		configslog.Log.Error("E-posta gönderilemedi", zap.Strings("to", mail.To), zap.String("subject", mail.Subject), zap.Error(err))
		return fmt.Errorf("e-posta gönderilemedi: %w", err)
	}
	metrics.IncEmail("sent")
	configslog.Log.Info("E-posta gönderildi", zap.Strings("to", mail.To), zap.String("subject", mail.Subject))
	return nil
}

func (s *LogMailService) Send(ctx context.Context, mail Mail) error {
	if len(mail.To) == 0 {
		return errors.New("alıcısız e-posta gönderilemez")
	}
	metrics.IncEmail("logged")
	configslog.Log.Info("E-posta (sadece log)", zap.Strings("to", mail.To), zap.String("subject", mail.Subject), zap.String("body", mail.Body))
	return nil
}

// SendBestEffort gönderim hatasını loglar ve yutar. Gönderildiyse true.
func SendBestEffort(ctx context.Context, mailer IMailService, mail Mail) bool {
	if mailer == nil {
		return false
	}
	if err := mailer.Send(ctx, mail); err != nil {
		configslog.Log.Warn("E-posta gönderimi atlandı", zap.Strings("to", mail.To), zap.Error(err))
		return false
	}
	return true
}

var (
	_ IMailService = (*SMTPMailService)(nil)
	_ IMailService = (*LogMailService)(nil)
)
