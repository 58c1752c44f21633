// Package templates renders the HTML bodies of transactional emails
package templates

import (
	"bytes"
	"fmt"
	"html/template"
)

type EmailLayoutProps struct {
	Preheader  string
	Content    template.HTML
	FooterText string
	SiteName   string
	SiteURL    string
}

var emailLayoutTemplate = template.Must(template.New("emailLayout").Parse(`<!doctype html>
<html lang="en">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>{{.SiteName}}</title>
  </head>
  <body style="font-family: Helvetica, sans-serif; font-size: 16px; line-height: 1.3; background-color: #0b0b0b; margin: 0; padding: 0;">
    <span style="display: none; max-height: 0; overflow: hidden;">{{.Preheader}}</span>
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="100%" bgcolor="#0b0b0b">
      <tr>
        <td align="center" style="padding: 24px 8px;">
          <table role="presentation" border="0" cellpadding="0" cellspacing="0" width="600" style="max-width: 600px; background: #151515; border: 1px solid #262626; border-radius: 12px;">
            <tr>
              <td style="padding: 24px; color: #f5f5f5;">
                {{.Content}}
              </td>
            </tr>
          </table>
          <p style="color: #8a8a8a; font-size: 13px; text-align: center; margin-top: 24px;">
            {{.FooterText}}<br>
            <a href="{{.SiteURL}}" style="color: #8a8a8a;">{{.SiteName}}</a>
          </p>
        </td>
      </tr>
    </table>
  </body>
</html>`))

// GetEmailLayout wraps content in the shared layout, filling defaults.
func GetEmailLayout(props EmailLayoutProps) (string, error) {
	if props.SiteName == "" {
		props.SiteName = "FanHub"
	}
	if props.FooterText == "" {
		props.FooterText = "You are receiving this because you joined " + props.SiteName + "."
	}

	var buf bytes.Buffer
	if err := emailLayoutTemplate.Execute(&buf, props); err != nil {
		return "", fmt.Errorf("failed to render email layout: %w", err)
	}
	return buf.String(), nil
}
