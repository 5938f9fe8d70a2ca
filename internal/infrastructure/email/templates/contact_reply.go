package templates

import (
	"fmt"
	"strings"
)

type ContactReplyProps struct {
	RecipientName string
	ReplyText     string
	OwnerName     string
	PortfolioURL  string
}

// GetContactReplyContent renders the body of a reply to a contact form
// submission. The result is meant to be wrapped by GetEmailLayout.
func GetContactReplyContent(props ContactReplyProps) string {
	var b strings.Builder
	b.WriteString(GetParagraph(fmt.Sprintf("Hi %s,", props.RecipientName)))
	b.WriteString(GetParagraph("Thank you for your message regarding my portfolio. Please find my reply below:"))
	b.WriteString(GetQuote(props.ReplyText))
	b.WriteString(GetParagraph("If you have any additional questions, please feel free to ask."))
	b.WriteString(GetButton(ButtonProps{
		Text: "Visit My Portfolio",
		URL:  props.PortfolioURL,
	}))
	b.WriteString(GetParagraph("Best regards,"))
	b.WriteString(GetParagraph(props.OwnerName))
	return b.String()
}
