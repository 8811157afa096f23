package search

import "strings"

// Highlight truncates content to maxLen runes, appending "..." when cut.
func Highlight(content string, maxLen int) string {
	runes := []rune(content)
	if maxLen <= 0 || len(runes) <= maxLen {
		return content
	}
	return string(runes[:maxLen]) + "..."
}

// Mark wraps every case-insensitive occurrence of query in text with pre and post.
// Matching folds case rune by rune, so it only marks occurrences of the same rune length.
func Mark(text, query, pre, post string) string {
	if query == "" {
		return text
	}
	tr := []rune(text)
	needle := []rune(Fold(query))
	if len(needle) == 0 || len(needle) > len(tr) {
		return text
	}
	var sb strings.Builder
	for i := 0; i < len(tr); {
		if i+len(needle) <= len(tr) && Fold(string(tr[i:i+len(needle)])) == string(needle) {
			sb.WriteString(pre)
			sb.WriteString(string(tr[i : i+len(needle)]))
			sb.WriteString(post)
			i += len(needle)
			continue
		}
		sb.WriteRune(tr[i])
		i++
	}
	return sb.String()
}
