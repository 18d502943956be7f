package service

import (
	"fmt"

	"colpy_backend/internal/config"
	"colpy_backend/pkg/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

// EmailSender 邮件发送接口；调用方一律 go routine 异步发送，失败只记日志
type EmailSender interface {
	SendWelcome(email, name string) error
	SendPasswordReset(email, name, token string) error
	SendSubmissionGraded(email, name, unitTitle string, score int) error
}

type SendgridEmailService struct {
	Cfg *config.EmailConfig
}

func NewEmailService(cfg *config.Config) EmailSender {
	if cfg.Email.SendgridKey == "" {
		return &ConsoleEmailService{}
	}
	return &SendgridEmailService{Cfg: &cfg.Email}
}

func (s *SendgridEmailService) send(toEmail, toName, subject, htmlBody string) error {
	from := mail.NewEmail(s.Cfg.FromName, s.Cfg.FromAddress)
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, "", htmlBody)

	client := sendgrid.NewSendClient(s.Cfg.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *SendgridEmailService) SendWelcome(email, name string) error {
	body := fmt.Sprintf(
		`<div style="font-family: sans-serif; padding: 20px;">
			<h1>Welcome, %s!</h1>
			<p>You have successfully joined the platform. Get ready to master cybersecurity with our elite training modules.</p>
			<p>Go to your <a href="%s/student">Dashboard</a> to start learning.</p>
		</div>`, name, s.Cfg.ClientURL)
	return s.send(email, name, "Welcome to Colpy", body)
}

func (s *SendgridEmailService) SendPasswordReset(email, name, token string) error {
	body := fmt.Sprintf(
		`<div style="font-family: sans-serif; padding: 20px;">
			<h1>Password Reset</h1>
			<p>Hi %s, click the link below to reset your password. The link expires in one hour.</p>
			<p><a href="%s/reset-password/%s">Reset Password</a></p>
			<p>If you did not request this, you can safely ignore this email.</p>
		</div>`, name, s.Cfg.ClientURL, token)
	return s.send(email, name, "Reset your Colpy password", body)
}

func (s *SendgridEmailService) SendSubmissionGraded(email, name, unitTitle string, score int) error {
	body := fmt.Sprintf(
		`<div style="font-family: sans-serif; padding: 20px;">
			<h1>Your work has been graded</h1>
			<p>Hi %s, your submission for <strong>%s</strong> has been reviewed. Score: <strong>%d%%</strong>.</p>
			<p>Open your <a href="%s/student">Dashboard</a> to see the feedback.</p>
		</div>`, name, unitTitle, score, s.Cfg.ClientURL)
	return s.send(email, name, "Submission graded", body)
}

// ConsoleEmailService 本地开发用，未配置 SendGrid key 时打印到日志
type ConsoleEmailService struct{}

func (s *ConsoleEmailService) SendWelcome(email, name string) error {
	logger.Log.Info("email (console)", zap.String("type", "welcome"), zap.String("to", email))
	return nil
}

func (s *ConsoleEmailService) SendPasswordReset(email, name, token string) error {
	logger.Log.Info("email (console)", zap.String("type", "password_reset"), zap.String("to", email), zap.String("token", token))
	return nil
}

func (s *ConsoleEmailService) SendSubmissionGraded(email, name, unitTitle string, score int) error {
	logger.Log.Info("email (console)", zap.String("type", "graded"), zap.String("to", email), zap.Int("score", score))
	return nil
}
