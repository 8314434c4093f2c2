package openai

import (
	"strings"

	"docpin/internal/llm"
)

// maxHistory bounds how many prior turns are replayed to the model.
const maxHistory = 20

const fixJSONPrompt = "Your previous answer was not a valid JSON object. Return the same report as one valid JSON object only."

// BuildReplyMessages builds the chat messages for a document question.
func BuildReplyMessages(input llm.ReplyInput) []chatMessage {
	history := input.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	out := make([]chatMessage, 0, len(history)+2)
	out = append(out, chatMessage{Role: "system", Content: llm.ChatSystemPrompt(input.DocumentName, input.DocumentText)})
	for _, turn := range history {
		role := "assistant"
		if turn.FromUser {
			role = "user"
		}
		out = append(out, chatMessage{Role: role, Content: turn.Content})
	}
	out = append(out, chatMessage{Role: "user", Content: strings.TrimSpace(input.Question)})
	return out
}

// BuildReportMessages builds the chat messages for report generation.
func BuildReportMessages(input llm.ReportInput) []chatMessage {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Document report"
	}
	return []chatMessage{
		{Role: "system", Content: llm.ReportSystemPrompt(input.DocumentName, input.DocumentText, title)},
		{Role: "user", Content: "Write the report now."},
	}
}
