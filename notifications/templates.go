package notifications

import (
	"fmt"
	"html"
)

// NotificationEmail wraps an in-app notification in a minimal HTML email.
func NotificationEmail(toName, toEmail, title, message string) Email {
	name := toName
	if name == "" {
		name = "there"
	}
	return Email{
		ToName:  toName,
		ToEmail: toEmail,
		Subject: title,
		HTML: fmt.Sprintf("<h1>%s</h1><p>Hi %s,</p><p>%s</p>",
			html.EscapeString(title), html.EscapeString(name), html.EscapeString(message)),
		Text: fmt.Sprintf("Hi %s,\n\n%s\n", name, message),
	}
}
