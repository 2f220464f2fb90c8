package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"

	"github.com/gofiber/template/django/v3"

	"github.com/goliatone/go-storefront"
)

//go:embed templates
var templatesFS embed.FS

// Renderer turns a storefront.Mail into HTML and plain text bodies
type Renderer struct {
	html *django.Engine
	text *django.Engine
}

// NewRenderer loads the embedded action email templates
func NewRenderer() (*Renderer, error) {
	html := django.NewPathForwardingFileSystem(http.FS(templatesFS), "/templates", ".html")
	if err := html.Load(); err != nil {
		return nil, fmt.Errorf("failed to load html templates: %w", err)
	}

	text := django.NewPathForwardingFileSystem(http.FS(templatesFS), "/templates", ".txt")
	if err := text.Load(); err != nil {
		return nil, fmt.Errorf("failed to load text templates: %w", err)
	}

	return &Renderer{html: html, text: text}, nil
}

// Render returns the html and text bodies of mail
func (r *Renderer) Render(mail storefront.Mail) (string, string, error) {
	binding := map[string]any{
		"subject":        mail.Subject,
		"name":           mail.RecipientName,
		"link":           mail.Link,
		"call_to_action": mail.CallToAction,
	}

	var html bytes.Buffer
	if err := r.html.Render(&html, "action", binding); err != nil {
		return "", "", fmt.Errorf("failed to render html body: %w", err)
	}

	var text bytes.Buffer
	if err := r.text.Render(&text, "action", binding); err != nil {
		return "", "", fmt.Errorf("failed to render text body: %w", err)
	}

	return html.String(), text.String(), nil
}
