// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
	"net/url"
	"strings"
)

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

type buttonTemplateData struct {
	BackgroundColor string
	URL             string
	TextColor       string
	Text            string
}

type paragraphTemplateData struct {
	Text template.HTML
}

var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <div style="text-align: center; margin: 30px 0;">
      <a href="{{.URL}}" target="_blank" style="background-color: {{.BackgroundColor}}; color: {{.TextColor}}; padding: 12px 25px; text-decoration: none; border-radius: 5px; font-weight: bold; display: inline-block; border: 1px solid {{.BackgroundColor}};">{{.Text}}</a>
    </div>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(`<p style="margin: 0 0 20px 0;">{{.Text}}</p>`))

	quoteTemplate = template.Must(template.New("emailQuote").Parse(`
    <div style="background-color: #f9f9f9; border: 1px solid #eeeeee; border-left: 4px solid #000000; padding: 15px 20px; margin: 25px 0; color: #000000; font-style: italic;">{{.Text}}</div>`))
)

func GetButton(props ButtonProps) string {
	backgroundColor := props.BackgroundColor
	if backgroundColor == "" {
		backgroundColor = "#000000"
	}

	textColor := props.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}

	sanitizedURL := sanitizeEmailURL(props.URL)
	if sanitizedURL == "" {
		log.Printf("Invalid or unsafe URL in email button: %s", props.URL)
		sanitizedURL = "#"
	}

	templateData := buttonTemplateData{
		BackgroundColor: sanitizeColor(backgroundColor),
		URL:             sanitizedURL,
		TextColor:       sanitizeColor(textColor),
		Text:            props.Text,
	}

	var buf bytes.Buffer
	if err := buttonTemplate.Execute(&buf, templateData); err != nil {
		log.Printf("Error executing email button template: %v", err)
		return `<div style="color: red;">Button template error</div>`
	}
	return buf.String()
}

// GetParagraph renders escaped text as a paragraph.
func GetParagraph(text string) string {
	return render(paragraphTemplate, escapeMultiline(text))
}

// GetQuote renders free text as a highlighted block. Newlines become <br>
// after the text itself is escaped.
func GetQuote(text string) string {
	return render(quoteTemplate, escapeMultiline(text))
}

func render(tmpl *template.Template, content template.HTML) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, paragraphTemplateData{Text: content}); err != nil {
		log.Printf("Error executing email template %s: %v", tmpl.Name(), err)
		return `<div style="color: red;">Template error</div>`
	}
	return buf.String()
}

func escapeMultiline(text string) template.HTML {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br>"))
}

// sanitizeEmailURL validates and sanitizes URLs for email use
func sanitizeEmailURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		log.Printf("Invalid email URL: %s, error: %v", rawURL, err)
		return ""
	}

	// Only allow http, https, and mailto schemes
	scheme := strings.ToLower(parsedURL.Scheme)
	if scheme != "http" && scheme != "https" && scheme != "mailto" {
		log.Printf("Blocked unsafe URL scheme in email: %s", scheme)
		return ""
	}
	return parsedURL.String()
}

// sanitizeColor accepts #rgb and #rrggbb, anything else becomes black.
func sanitizeColor(color string) string {
	color = strings.TrimSpace(color)
	if !strings.HasPrefix(color, "#") {
		return "#000000"
	}

	hex := color[1:]
	if len(hex) != 3 && len(hex) != 6 {
		return "#000000"
	}
	for _, char := range hex {
		if !((char >= '0' && char <= '9') || (char >= 'a' && char <= 'f') || (char >= 'A' && char <= 'F')) {
			return "#000000"
		}
	}
	return color
}
