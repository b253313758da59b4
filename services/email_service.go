package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/elevateacademy/portal-api/config"
)

// EmailService sends transactional email via SMTP with STARTTLS.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
	appURL   string
}

// NewEmailService creates a new email service from the loaded environment
func NewEmailService(env *config.EnviornmentVariable) *EmailService {
	port := 587
	if env.SMTP_PORT != "" {
		fmt.Sscanf(env.SMTP_PORT, "%d", &port)
	}

	from := env.SMTP_FROM
	if from == "" {
		from = "noreply@elevateacademy.ng"
	}
	appURL := env.APP_URL
	if appURL == "" {
		appURL = "http://localhost:3000"
	}

	return &EmailService{
		host:     env.SMTP_HOST,
		port:     port,
		username: env.SMTP_USERNAME,
		password: env.SMTP_PASSWORD,
		from:     from,
		appURL:   appURL,
	}
}

// IsConfigured checks if SMTP is properly configured
func (e *EmailService) IsConfigured() bool {
	return e.host != "" && e.username != "" && e.password != ""
}

// Send delivers one HTML email to each recipient. An empty replyTo falls
// back to the support address.
func (e *EmailService) Send(to []string, subject, htmlBody, replyTo string) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}
	if len(to) == 0 {
		return fmt.Errorf("no recipients")
	}
	if replyTo == "" {
		replyTo = "support@elevateacademy.ng"
	}

	for _, recipient := range to {
		if err := e.sendEmail(recipient, subject, htmlBody, replyTo); err != nil {
			return fmt.Errorf("failed to send to %s: %w", recipient, err)
		}
	}
	return nil
}

// SendWelcomeEmail greets a newly registered member.
func (e *EmailService) SendWelcomeEmail(toEmail, fullName string) error {
	subject := "Welcome to Elevate Academy"
	body := e.buildWelcomeEmailBody(fullName)
	return e.Send([]string{toEmail}, subject, body, "")
}

// SendPaymentVerifiedEmail tells a member their membership is active.
func (e *EmailService) SendPaymentVerifiedEmail(toEmail, fullName, memberID string) error {
	subject := "Your Membership is Active - Elevate Academy"
	body := e.buildPaymentVerifiedEmailBody(fullName, memberID)
	return e.Send([]string{toEmail}, subject, body, "")
}

func (e *EmailService) buildWelcomeEmailBody(fullName string) string {
	if fullName == "" {
		fullName = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Welcome to Elevate Academy</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #1a3c6e;
        }
        .logo h1 {
            color: #1a3c6e;
            font-size: 28px;
            margin: 0;
            letter-spacing: -0.5px;
        }
        h2 {
            color: #1a3c6e;
            margin-top: 0;
        }
        .button {
            display: inline-block;
            background-color: #1a3c6e;
            color: #ffffff !important;
            padding: 14px 28px;
            text-decoration: none;
            border-radius: 6px;
            font-weight: 600;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
        .footer a {
            color: #1a3c6e;
            text-decoration: none;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>Elevate Academy</h1>
        </div>

        <h2>Welcome aboard!</h2>

        <p>Hello %s,</p>

        <p>Your Elevate Academy account has been created. Once your membership payment is verified you will get full access to our courses and community.</p>

        <p style="text-align: center;">
            <a href="%s/portal" class="button">Open Your Portal</a>
        </p>

        <div class="footer">
            <p><strong>Elevate Academy</strong></p>
            <p>Practical AI skills for everyone</p>
            <p><a href="mailto:support@elevateacademy.ng">support@elevateacademy.ng</a></p>
        </div>
    </div>
</body>
</html>`, fullName, e.appURL)
}

func (e *EmailService) buildPaymentVerifiedEmailBody(fullName, memberID string) string {
	if fullName == "" {
		fullName = "there"
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Your Membership is Active</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Oxygen, Ubuntu, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 600px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f5f5f5;
        }
        .container {
            background-color: #ffffff;
            border-radius: 8px;
            padding: 40px;
            box-shadow: 0 2px 4px rgba(0, 0, 0, 0.1);
        }
        .logo {
            text-align: center;
            margin-bottom: 30px;
            padding-bottom: 20px;
            border-bottom: 2px solid #1a3c6e;
        }
        .logo h1 {
            color: #1a3c6e;
            font-size: 28px;
            margin: 0;
        }
        h2 {
            color: #1a3c6e;
            margin-top: 0;
        }
        .member-id {
            text-align: center;
            font-size: 22px;
            font-weight: 700;
            letter-spacing: 1px;
            color: #1a3c6e;
            background-color: #f0f4fa;
            border-radius: 6px;
            padding: 16px;
            margin: 20px 0;
        }
        .footer {
            margin-top: 30px;
            padding-top: 20px;
            border-top: 1px solid #eee;
            font-size: 12px;
            color: #666;
            text-align: center;
        }
    </style>
</head>
<body>
    <div class="container">
        <div class="logo">
            <h1>Elevate Academy</h1>
        </div>

        <h2>Payment Verified</h2>

        <p>Hello %s,</p>

        <p>Your payment has been verified and your membership is now active. Your member ID is:</p>

        <div class="member-id">%s</div>

        <p>Keep it handy; you will use it for community events and support requests.</p>

        <div class="footer">
            <p><strong>Elevate Academy</strong></p>
            <p>Practical AI skills for everyone</p>
        </div>
    </div>
</body>
</html>`, fullName, memberID)
}

// sendEmail sends an email using SMTP with TLS
func (e *EmailService) sendEmail(to, subject, htmlBody, replyTo string) error {
	headers := make(map[string]string)
	headers["From"] = fmt.Sprintf("Elevate Academy <%s>", e.from)
	headers["Reply-To"] = replyTo
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(htmlBody)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent to: %s", to)
	return nil
}
