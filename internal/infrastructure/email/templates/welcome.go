package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

type WelcomeEmailProps struct {
	Name     string
	SiteName string
	AppURL   string
}

var welcomeTemplate = template.Must(template.New("welcome").Parse(`
<h1 style="font-size: 22px; margin: 0 0 16px;">Welcome to {{.SiteName}}, {{.Name}}!</h1>
<p style="margin: 0 0 16px;">Your account is ready. Finish onboarding to pick your display name, then start
collecting likes and comments to climb the fan levels.</p>
{{if .AppURL}}<p style="margin: 0 0 16px;">
  <a href="{{.AppURL}}" style="display: inline-block; background: #e11d48; color: #ffffff; padding: 12px 20px; border-radius: 6px; text-decoration: none; font-weight: bold;">Open {{.SiteName}}</a>
</p>{{end}}
<p style="margin: 0; color: #a3a3a3;">See you in the community.</p>`))

// GetWelcomeEmailContent renders the body of the sign-up email.
func GetWelcomeEmailContent(props WelcomeEmailProps) (template.HTML, error) {
	if props.Name == "" {
		props.Name = "there"
	}
	if props.SiteName == "" {
		props.SiteName = "FanHub"
	}

	var buf bytes.Buffer
	if err := welcomeTemplate.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("failed to render welcome email: %w", err)
	}
	return template.HTML(buf.String()), nil
}
