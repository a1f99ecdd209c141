package email

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/jwalitptl/sso-api/internal/model"
)

type mailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]mailTemplate{
	model.TemplateSecurityReset: {
		subject: "Security password reset requested",
		body: template.Must(template.New(model.TemplateSecurityReset).Parse(
			"A reset of your security password was requested at {{.timestamp}} " +
				"from {{.ip_address}}.\n\n" +
				"Your reset code is: {{.reset_code}}\n\n" +
				"If you did not request this, you can ignore this email.\n")),
	},
	model.TemplateSecurityForgot: {
		subject: "Temporary security password issued",
		body: template.Must(template.New(model.TemplateSecurityForgot).Parse(
			"A temporary security password has been set on your account:\n\n" +
				"    {{.temp_password}}\n\n" +
				"It has already expired, so you will be asked to choose a new " +
				"security password the next time you log in.\n")),
	},
}

// Render produces the subject and body for a queued email template.
func Render(templateCode string, payload map[string]interface{}) (subject, body string, err error) {
	tmpl, ok := templates[templateCode]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", templateCode)
	}

	var buf bytes.Buffer
	if err := tmpl.body.Execute(&buf, payload); err != nil {
		return "", "", fmt.Errorf("failed to render template %q: %w", templateCode, err)
	}
	return tmpl.subject, buf.String(), nil
}
