package services

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/rpupo63/portfolio-api/config"
	"github.com/rpupo63/portfolio-api/models"
)

var templateFuncs = htmltemplate.FuncMap{
	"nl2br": func(s string) htmltemplate.HTML {
		escaped := htmltemplate.HTMLEscapeString(s)
		return htmltemplate.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
	},
	"stamp": func(t time.Time) string {
		return t.UTC().Format("Jan 2, 2006 15:04 MST")
	},
}

var (
	ownerHTML = htmltemplate.Must(htmltemplate.New("owner").Funcs(templateFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #3b82f6; border-bottom: 2px solid #e5e7eb; padding-bottom: 10px;">New contact form submission</h2>
  <div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Name:</strong> {{.Contact.Name}}</p>
    <p><strong>Email:</strong> {{.Contact.Email}}</p>
    <p><strong>Subject:</strong> {{.Contact.Subject}}</p>
    <p><strong>Received:</strong> {{stamp .Contact.CreatedAt}}</p>
  </div>
  <div style="padding: 20px; border: 1px solid #e5e7eb; border-radius: 8px;">
    <p style="line-height: 1.6; color: #4b5563;">{{nl2br .Contact.Message}}</p>
  </div>
  <p style="font-size: 14px; color: #92400e;">Reply to this email to answer {{.Contact.Name}} directly.</p>
</div>`))

	ownerText = texttemplate.Must(texttemplate.New("owner").Parse(`New contact form submission

Name: {{.Contact.Name}}
Email: {{.Contact.Email}}
Subject: {{.Contact.Subject}}

{{.Contact.Message}}
`))

	autoReplyHTML = htmltemplate.Must(htmltemplate.New("autoReply").Funcs(templateFuncs).Parse(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #3b82f6; border-bottom: 2px solid #e5e7eb; padding-bottom: 10px;">Thanks for reaching out!</h2>
  <p>Hi {{.Contact.Name}},</p>
  <p>I've received your message and will get back to you as soon as possible.</p>
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <p><strong>Subject:</strong> {{.Contact.Subject}}</p>
    <p><strong>Sent:</strong> {{stamp .Contact.CreatedAt}}</p>
  </div>
  {{- if or .Owner.GithubURL .Owner.LinkedInURL}}
  <p>In the meantime, feel free to:</p>
  <ul style="color: #4b5563;">
    {{- if .Owner.GithubURL}}<li>browse my projects on <a href="{{.Owner.GithubURL}}">GitHub</a></li>{{end}}
    {{- if .Owner.LinkedInURL}}<li>connect with me on <a href="{{.Owner.LinkedInURL}}">LinkedIn</a></li>{{end}}
  </ul>
  {{- end}}
  <p>Best regards,<br><strong>{{.Owner.Name}}</strong></p>
  <p style="font-size: 12px; color: #6b7280; text-align: center;">This is an automated response. Please do not reply to this email.</p>
</div>`))

	autoReplyText = texttemplate.Must(texttemplate.New("autoReply").Parse(`Hi {{.Contact.Name}},

I've received your message "{{.Contact.Subject}}" and will get back to you as soon as possible.

Best regards,
{{.Owner.Name}}
`))
)

type templateData struct {
	Contact *models.Contact
	Owner   config.OwnerConfig
}

// OwnerNotification is the email sent to the site owner. Replies go to the submitter.
func OwnerNotification(c *models.Contact, owner config.OwnerConfig, to string) (Email, error) {
	data := templateData{Contact: c, Owner: owner}
	html, text, err := render(ownerHTML, ownerText, data)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      []string{to},
		ReplyTo: c.Email,
		Subject: "Portfolio Contact: " + c.Subject,
		HTML:    html,
		Text:    text,
	}, nil
}

// AutoReply is the acknowledgement sent to the submitter
func AutoReply(c *models.Contact, owner config.OwnerConfig) (Email, error) {
	data := templateData{Contact: c, Owner: owner}
	html, text, err := render(autoReplyHTML, autoReplyText, data)
	if err != nil {
		return Email{}, err
	}
	return Email{
		To:      []string{c.Email},
		Subject: "Thank you for contacting me!",
		HTML:    html,
		Text:    text,
	}, nil
}

func render(h *htmltemplate.Template, t *texttemplate.Template, data templateData) (string, string, error) {
	var hb, tb bytes.Buffer
	if err := h.Execute(&hb, data); err != nil {
		return "", "", err
	}
	if err := t.Execute(&tb, data); err != nil {
		return "", "", err
	}
	return strings.TrimSpace(hb.String()), tb.String(), nil
}
