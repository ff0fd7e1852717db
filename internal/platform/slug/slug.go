package slug

import (
	"strings"
	"unicode"
)

// Filename turns a label into a file name component. Letters and digits of any
// script are kept so subjects such as 數學 survive unchanged.
func Filename(input string) string {
	var sb strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(input) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			lastDash = false
			continue
		}
		if !lastDash && sb.Len() > 0 {
			sb.WriteByte('-')
			lastDash = true
		}
	}
	s := strings.Trim(sb.String(), "-")
	if s == "" {
		return "untitled"
	}
	return s
}
