package mailbox

import (
	"encoding/base64"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"google.golang.org/api/gmail/v1"
)

// extractBody pulls a readable text body out of a Gmail message. Plain text
// and HTML parts are collected from the payload tree; HTML wins when both
// are present and is converted to markdown so links survive.
func extractBody(msg *gmail.Message) string {
	if msg.Payload == nil {
		return ""
	}

	var plainText, htmlText string

	if msg.Payload.Body != nil && msg.Payload.Body.Data != "" {
		decoded, err := decodeBody(msg.Payload.Body.Data)
		if err == nil {
			if msg.Payload.MimeType == "text/html" {
				htmlText = decoded
			} else {
				plainText = decoded
			}
		}
	}

	if len(msg.Payload.Parts) > 0 {
		plainFromParts, htmlFromParts := extractFromParts(msg.Payload.Parts)
		if plainFromParts != "" {
			plainText = plainFromParts
		}
		if htmlFromParts != "" {
			htmlText = htmlFromParts
		}
	}

	if htmlText != "" {
		return htmlToText(htmlText)
	}
	return plainText
}

// extractFromParts walks the part tree and returns the first plain text and
// HTML bodies it finds.
func extractFromParts(parts []*gmail.MessagePart) (plainText, htmlText string) {
	for _, part := range parts {
		if part.Body != nil && part.Body.Data != "" {
			decoded, err := decodeBody(part.Body.Data)
			if err != nil {
				continue
			}

			switch part.MimeType {
			case "text/plain":
				if plainText == "" {
					plainText = decoded
				}
			case "text/html":
				if htmlText == "" {
					htmlText = decoded
				}
			}
		}

		if len(part.Parts) > 0 {
			nestedPlain, nestedHTML := extractFromParts(part.Parts)
			if plainText == "" && nestedPlain != "" {
				plainText = nestedPlain
			}
			if htmlText == "" && nestedHTML != "" {
				htmlText = nestedHTML
			}
		}
	}
	return plainText, htmlText
}

// decodeBody decodes base64url content, falling back to standard base64.
func decodeBody(data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(data)
		if err != nil {
			return "", err
		}
	}
	return string(decoded), nil
}

func htmlToText(htmlContent string) string {
	markdown, err := htmltomarkdown.ConvertString(htmlContent)
	if err != nil {
		return htmlContent
	}
	return strings.TrimSpace(markdown)
}
