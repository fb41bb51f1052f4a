package notify

import (
	"fmt"
	"html"
)

const appName = "Eduverse"

func layout(title, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1E3A8A; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1F2937; line-height: 1.6; }
			.info-box { background: #EEF2FF; padding: 15px; border-radius: 4px; border-left: 4px solid #1E3A8A; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>%s</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">This is an automated message from %s.</div>
		</div>
	</body>
	</html>
	`, appName, title, bodyContent, appName)
}

// OTPEmail carries a registration code.
func OTPEmail(email, name, code string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Your verification code is:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>The code expires in 10 minutes.</p>
	`, html.EscapeString(name), code)

	return Message{
		To:      []string{email},
		Subject: "Your verification code",
		HTML:    layout("Verify your e-mail", body),
		Text:    "Your verification code is " + code,
	}
}

// WelcomeEmail is sent once the account is verified.
func WelcomeEmail(email, name string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>%s</strong>! Your account is ready.</p>
	`, html.EscapeString(name), appName)

	return Message{To: []string{email}, Subject: "Welcome to " + appName, HTML: layout("Welcome Onboard!", body)}
}

// EnrollmentEmail confirms a course or module purchase.
func EnrollmentEmail(email, name, itemTitle, paid, pointsLeft string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">
			Points spent: <strong>%s</strong><br>
			Points remaining: <strong>%s</strong>
		</div>
	`, html.EscapeString(name), html.EscapeString(itemTitle), paid, pointsLeft)

	return Message{
		To:      []string{email},
		Subject: "Enrollment confirmed: " + itemTitle,
		HTML:    layout("Enrollment Confirmed", body),
	}
}

// TopUpEmail confirms reward points bought through the gateway.
func TopUpEmail(email, name, points string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p><strong>%s</strong> reward points were added to your wallet.</p>
	`, html.EscapeString(name), points)

	return Message{To: []string{email}, Subject: "Reward points added", HTML: layout("Top-up Confirmed", body)}
}

// PayoutEmail tells a teacher a salary payout was settled.
func PayoutEmail(email, name, amount, reference string) Message {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>A payout of <strong>%s</strong> has been settled from your balance.</p>
		<div class="info-box">Reference: %s</div>
	`, html.EscapeString(name), amount, html.EscapeString(reference))

	return Message{To: []string{email}, Subject: "Payout settled", HTML: layout("Payout Settled", body)}
}
