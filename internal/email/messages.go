package email

import "fmt"

// PasswordReset builds the subject and HTML body for a reset email.
func PasswordReset(resetLinkBase, token string) (subject, body string) {
	link := resetLinkBase + "/reset-password?token=" + token
	subject = "Password Reset Request"
	body = fmt.Sprintf(
		`<p>Click the link below to reset your password:</p><p><a href="%s">%s</a></p><p>If you didn't request this, ignore this email.</p>`,
		link, link,
	)
	return subject, body
}

// OverspendingAlert builds the email sent when spending in a category
// exceeds its budget.
func OverspendingAlert(username, category string, spent, limit float64) (subject, body string) {
	subject = fmt.Sprintf("Overspending Alert for %s", category)
	body = fmt.Sprintf(
		`<p>Hi %s,</p><p>You've spent $%.2f in your %q budget, which exceeds your limit of $%.2f.</p><p>Consider adjusting your spending habits or updating your budget.</p>`,
		username, spent, category, limit,
	)
	return subject, body
}
