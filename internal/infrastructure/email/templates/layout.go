package templates

import (
	"bytes"
	"html/template"
	"log"
	"time"
)

type EmailLayoutProps struct {
	Title        string
	OwnerName    string
	ContactEmail string
	PortfolioURL string
	Content      string
	Year         int
}

type emailTemplateData struct {
	Title        string
	OwnerName    string
	ContactEmail string
	PortfolioURL string
	Content      template.HTML
	Year         int
}

var emailLayoutTemplate = template.Must(template.New("emailLayout").Parse(`
<!doctype html>
<html lang="en">
  <head>
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="Content-Type" content="text/html; charset=UTF-8">
    <title>{{.Title}}</title>
  </head>
  <body style="font-family: Arial, 'Helvetica Neue', Helvetica, sans-serif; font-size: 16px; line-height: 1.6; color: #000000; background-color: #ffffff; margin: 0; padding: 20px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border: 1px solid #cccccc;">
      <div style="background-color: #000000; color: #ffffff; padding: 25px 30px; text-align: center;">
        <h1 style="margin: 0; font-size: 26px; font-weight: bold;">{{.Title}}</h1>
      </div>
      <div style="padding: 30px 30px 20px 30px; color: #000000;">
        {{.Content}}
      </div>
      <div style="background-color: #000000; color: #ffffff; padding: 20px 25px; text-align: center; font-size: 13px;">
        {{if .ContactEmail}}<p style="margin: 0 0 10px 0;">Contact: <a href="mailto:{{.ContactEmail}}" style="color: #ffffff; text-decoration: underline;">{{.ContactEmail}}</a></p>{{end}}
        <p style="font-size: 11px; color: #aaaaaa; margin: 0 0 10px 0;">
          This email was sent in response to an inquiry submitted via the contact form on <a href="{{.PortfolioURL}}" style="color: #ffffff; text-decoration: underline;">My Portfolio</a>.
        </p>
        <p style="font-size: 11px; color: #aaaaaa; margin: 0;">&copy; {{.Year}} {{.OwnerName}}. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>`))

func GetEmailLayout(props EmailLayoutProps) string {
	year := props.Year
	if year == 0 {
		year = time.Now().Year()
	}

	portfolioURL := sanitizeEmailURL(props.PortfolioURL)
	if portfolioURL == "" {
		portfolioURL = "#"
	}

	templateData := emailTemplateData{
		Title:        props.Title,
		OwnerName:    props.OwnerName,
		ContactEmail: props.ContactEmail,
		PortfolioURL: portfolioURL,
		Content:      template.HTML(props.Content),
		Year:         year,
	}

	var buf bytes.Buffer
	if err := emailLayoutTemplate.Execute(&buf, templateData); err != nil {
		log.Printf("Error executing email layout template: %v", err)
		return "<html><body>Template execution error</body></html>"
	}
	return buf.String()
}
