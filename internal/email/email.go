package email

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
)

// Sender delivers transactional mail over SMTP. When SMTP_HOST is unset
// (local dev), messages are logged instead of sent so the checkout flow stays
// testable without credentials.
type Sender struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewSender() *Sender {
	return &Sender{
		host: os.Getenv("SMTP_HOST"),
		port: os.Getenv("SMTP_PORT"),
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: "Adam Fashion Store <no-reply@adamfashion.com>",
	}
}

// Send delivers one message. Callers that must not block on delivery (the
// checkout pipeline) invoke this from a goroutine and discard the error by
// contract; Send itself logs every failure.
func (s *Sender) Send(to, subject, body string) error {
	if s.host == "" {
		log.Println("====================================================")
		log.Printf("--- EMAIL (SMTP not configured, logging only) ---")
		log.Printf("To: %s", to)
		log.Printf("Subject: %s", subject)
		log.Println(body)
		log.Println("====================================================")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n", s.from, to, subject, body)
	addr := s.host + ":" + s.port
	auth := smtp.PlainAuth("", s.user, s.pass, s.host)

	if err := smtp.SendMail(addr, auth, s.user, []string{to}, []byte(msg)); err != nil {
		log.Printf("Failed to send email to %s: %v", to, err)
		return err
	}
	return nil
}

// SendOrderConfirmation emails the order code and total after checkout.
func (s *Sender) SendOrderConfirmation(to, orderCode string, totalAmount float64) error {
	subject := fmt.Sprintf("Order confirmation #%s", orderCode)
	body := fmt.Sprintf(
		"Thank you for your order!\n\nOrder #%s has been received.\nTotal: %.2f\n\nWe will contact you shortly to arrange delivery.\n\nAdam Fashion Team",
		orderCode, totalAmount,
	)
	return s.Send(to, subject, body)
}
