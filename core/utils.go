package core

import "strings"

// CleanString trims surrounding whitespace; pass true to also lowercase,
// as done for identity fields (usernames, emails, categories).
func CleanString(s string, lower ...bool) string {
	cleaned := strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}
