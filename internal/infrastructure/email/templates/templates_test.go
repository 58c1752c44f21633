package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWelcomeEmailRendersIntoLayout(t *testing.T) {
	content, err := GetWelcomeEmailContent(WelcomeEmailProps{Name: "Ada <script>", AppURL: "https://fanhub.example"})
	require.NoError(t, err)
	assert.Contains(t, string(content), "Welcome to FanHub, Ada &lt;script&gt;!")
	assert.Contains(t, string(content), `href="https://fanhub.example"`)

	html, err := GetEmailLayout(EmailLayoutProps{Content: content, SiteName: "FanHub", Preheader: "hi"})
	require.NoError(t, err)
	assert.Contains(t, html, "<!doctype html>")
	assert.Contains(t, html, "Welcome to FanHub")
}

func TestWelcomeEmailDefaults(t *testing.T) {
	content, err := GetWelcomeEmailContent(WelcomeEmailProps{})
	require.NoError(t, err)
	assert.Contains(t, string(content), "Welcome to FanHub, there!")
	assert.NotContains(t, string(content), "href=")
}
