// Package detect guesses the source platform of an export from its
// filename. Detection is a convenience default and always overridable.
package detect

import (
	"path/filepath"
	"strings"
)

// Source maps a filename to a source platform using the naming
// conventions of each platform's export tool. Returns ("", false)
// when nothing matches.
func Source(name string) (string, bool) {
	base := strings.ToLower(filepath.Base(name))
	switch {
	case base == "result.json":
		// Telegram Desktop always exports to result.json.
		return "telegram", true
	case strings.HasSuffix(base, "_chat.txt"):
		return "whatsapp", true
	case strings.Contains(base, "whatsapp"):
		return "whatsapp", true
	case strings.HasPrefix(base, "message_") && strings.HasSuffix(base, ".json"):
		// Instagram data downloads split chats into message_1.json etc.
		return "instagram", true
	case strings.Contains(base, "instagram"):
		return "instagram", true
	case strings.Contains(base, "discord"):
		return "discord", true
	case strings.Contains(base, "telegram"):
		return "telegram", true
	}
	return "", false
}
