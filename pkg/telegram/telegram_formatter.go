package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"workflow-runchart/internal/entity"
)

const maxMessageLen = 4090

// FormatFailedRunsForTelegram formats newly recorded runs that did not succeed into
// Markdown messages, splitting them so each stays under the Telegram length limit.
func FormatFailedRunsForTelegram(workflow string, items []entity.HistoryItem) []string {
	if len(items) == 0 {
		return nil
	}

	workflow = escape(workflow)

	var messages []string
	var current strings.Builder
	part := 1

	startNewPart := func() {
		current.Reset()
		if part == 1 {
			current.WriteString(fmt.Sprintf("⚠️ *%d failed run(s)* in %s ⚠️\n\n", len(items), workflow))
		} else {
			current.WriteString(fmt.Sprintf("---*Failed runs part %d* in %s---\n\n", part, workflow))
		}
	}
	startNewPart()

	for _, item := range items {
		var entry strings.Builder
		entry.WriteString(fmt.Sprintf("🔴 *Run #%d* `%s`\n", item.RunNumber, item.Conclusion))
		entry.WriteString(fmt.Sprintf("🕒 %s\n", escape(item.StartedAt)))
		entry.WriteString(fmt.Sprintf("🏷 %s (%s)\n", escape(item.Version), escape(item.Event)))
		entry.WriteString(fmt.Sprintf("⏱ %s\n\n", escape(item.Duration)))

		if current.Len()+entry.Len() > maxMessageLen {
			messages = append(messages, current.String())
			part++
			startNewPart()
		}
		current.WriteString(entry.String())
	}

	return append(messages, current.String())
}

// escape protects free text from the legacy Markdown parser used by the client.
func escape(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}
