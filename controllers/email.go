package controllers

import (
	"fmt"
	"io"

	"github.com/go-gomail/gomail"
)

// SendEmail sends an email with an optional attachment
func SendEmail(senderEmail, senderPassword, subject, msg, email, attachmentName string, attachmentData []byte) error {
	// Compose email message
	m := gomail.NewMessage()
	m.SetHeader("From", senderEmail)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", msg)

	// Add attachment
	if len(attachmentData) > 0 {
		m.Attach(attachmentName, gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(attachmentData)
			return err
		}))
	}

	// Dial to SMTP server and send email
	d := gomail.NewDialer("smtp.gmail.com", 587, senderEmail, senderPassword)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("error sending email: %v", err)
	}

	return nil
}
