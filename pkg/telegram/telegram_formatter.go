package telegram

import (
	"strings"
	"unicode/utf8"
)

// MaxMessageLength is Telegram's limit for one text message.
const MaxMessageLength = 4096

// SplitText cuts text into pieces of at most limit runes, breaking at newlines when it
// can and mid-line only when a single line is too long.
func SplitText(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var (
		parts  []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			parts = append(parts, strings.TrimRight(cur.String(), "\n"))
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.SplitAfter(text, "\n") {
		for utf8.RuneCountInString(line) > limit {
			flush()
			runes := []rune(line)
			parts = append(parts, string(runes[:limit]))
			line = string(runes[limit:])
		}
		n := utf8.RuneCountInString(line)
		if curLen+n > limit {
			flush()
		}
		cur.WriteString(line)
		curLen += n
	}
	flush()
	return parts
}

// PackBlocks joins blocks with a blank line into as few messages as fit under limit.
// Blocks are never split; one longer than limit becomes a message of its own.
func PackBlocks(blocks []string, limit int) []string {
	const sep = "\n\n"

	var (
		messages []string
		cur      string
	)
	for _, block := range blocks {
		if block == "" {
			continue
		}
		switch {
		case cur == "":
			cur = block
		case utf8.RuneCountInString(cur)+len(sep)+utf8.RuneCountInString(block) <= limit:
			cur += sep + block
		default:
			messages = append(messages, cur)
			cur = block
		}
	}
	if cur != "" {
		messages = append(messages, cur)
	}
	return messages
}
