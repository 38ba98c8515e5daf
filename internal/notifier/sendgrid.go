package notifier

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// sendgridNotifier implements Notifier on top of the SendGrid API.
type sendgridNotifier struct {
	client   *sendgrid.Client
	fromName string
	fromAddr string
}

// NewSendGridNotifier creates a Notifier backed by SendGrid.
func NewSendGridNotifier(apiKey, fromName, fromAddr string) Notifier {
	return &sendgridNotifier{
		client:   sendgrid.NewSendClient(apiKey),
		fromName: fromName,
		fromAddr: fromAddr,
	}
}

func (n *sendgridNotifier) ProgramAssigned(ctx context.Context, toEmail, toName, programTitle string) error {
	from := mail.NewEmail(n.fromName, n.fromAddr)
	to := mail.NewEmail(toName, toEmail)
	subject := "A new training program is waiting for you"
	plain := fmt.Sprintf("Hi %s,\n\nYour coach assigned you a new training program: %s.\nOpen the app to see your first week.\n", toName, programTitle)
	message := mail.NewSingleEmail(from, subject, to, plain, "")

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		log.Printf("ERROR: sendgrid send failed for %s: %v", toEmail, err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("WARN: sendgrid responded %d for %s", resp.StatusCode, toEmail)
	}
	return nil
}
