package services

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type EmailService interface {
	SendWelcomeEmail(email, username string) error
	SendPasswordResetEmail(email, resetURL string) error
	SendPaymentReceiptEmail(email, reference, attachmentPath string) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) SendWelcomeEmail(email, username string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Welcome to the Almaroof Initiative portal")

	body := fmt.Sprintf(`
		<h2>Welcome, %s!</h2>
		<p>Your citizen account has been created.</p>
		<p>You can now apply for permits and pay for them online.</p>
		<p>Best regards,<br>The Almaroof Initiative Team</p>
	`, username)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendPasswordResetEmail(email, resetURL string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", "Password reset request")

	body := fmt.Sprintf(`
		<h3>Password reset requested</h3>
		<p>We received a request to reset the password for your account.</p>
		<p><a href="%s">Reset your password</a> (the link expires in one hour).</p>
		<p>If you did not request this change, you can ignore this email.</p>
	`, resetURL)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	return nil
}

func (s *emailService) SendPaymentReceiptEmail(email, reference, attachmentPath string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Payment receipt %s", reference))

	body := fmt.Sprintf(`
		<h3>Payment received</h3>
		<p>Your permit payment with reference <strong>%s</strong> has been confirmed.</p>
		<p>The receipt is attached to this email.</p>
	`, reference)

	m.SetBody("text/html", body)
	if attachmentPath != "" {
		m.Attach(attachmentPath)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}
	return nil
}
