package services

import (
	"context"
	"fmt"
	"html"
	"time"

	models "github.com/phillip/edubridge-go/models"
	utils "github.com/phillip/edubridge-go/utils"
)

const mailTimeout = 15 * time.Second

// notify sends mail in the background. Failures are logged and never reach
// the caller.
func notify(mailer utils.Mailer, to, name, subject, body string) {
	if mailer == nil || to == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mailTimeout)
		defer cancel()
		if err := mailer.SendEmail(ctx, to, name, subject, body); err != nil {
			logf("mail %q to %s failed: %v", subject, to, err)
		}
	}()
}

func welcomeEmail(u models.User) (string, string) {
	subject := "Welcome to EduBridge"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Your EduBridge account has been created with the role <b>%s</b>.</p>
<p>Thank you for joining us.</p>`,
		html.EscapeString(u.FirstName), html.EscapeString(string(u.Role)))
	return subject, body
}

func receiptEmail(donor models.User, c models.Campaign, d models.Donation) (string, string) {
	subject := "Your EduBridge donation receipt"
	body := fmt.Sprintf(`<p>Hi %s,</p>
<p>Thank you for donating <b>%.2f</b> to <b>%s</b>.</p>
<p>Transaction: %s<br>Date: %s</p>`,
		html.EscapeString(donor.FirstName),
		d.Amount,
		html.EscapeString(c.Title),
		html.EscapeString(d.TransactionID),
		d.CreatedAt.Format(time.RFC1123))
	return subject, body
}
