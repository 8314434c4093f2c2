package llm

import (
	_ "embed"
	"strings"
)

var (
	//go:embed prompts/chat.txt
	chatPrompt string
	//go:embed prompts/report.txt
	reportPrompt string
)

// MaxDocumentChars bounds how much document text is placed in a prompt.
const MaxDocumentChars = 24000

// ChatSystemPrompt renders the system prompt for a document conversation.
func ChatSystemPrompt(documentName, documentText string) string {
	return render(chatPrompt, documentName, documentText, "")
}

// ReportSystemPrompt renders the system prompt for report generation.
func ReportSystemPrompt(documentName, documentText, title string) string {
	return render(reportPrompt, documentName, documentText, title)
}

func render(template, documentName, documentText, title string) string {
	text := strings.TrimSpace(documentText)
	if text == "" {
		text = "(no text could be extracted from this document)"
	}
	if runes := []rune(text); len(runes) > MaxDocumentChars {
		text = string(runes[:MaxDocumentChars]) + "\n[truncated]"
	}
	return strings.NewReplacer(
		"{{DOCUMENT_NAME}}", documentName,
		"{{DOCUMENT_TEXT}}", text,
		"{{TITLE}}", title,
	).Replace(template)
}
