package markdown

import "strings"

// Block is a generated region delimited by HTML comment markers, so a document
// can be re-exported without duplicating the generated part.
type Block struct {
	Start string
	End   string
}

func (b Block) Replace(body, generated string) string {
	return ReplaceManagedBlock(body, b.Start, b.End, generated)
}

// Extract returns the current content of the block, if present.
func (b Block) Extract(body string) (string, bool) {
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	if start < 0 || end <= start {
		return "", false
	}
	inner := body[start+len(b.Start) : end]
	return strings.Trim(inner, "\n"), true
}

func ReplaceManagedBlock(body, startMarker, endMarker, generated string) string {
	start := strings.Index(body, startMarker)
	end := strings.Index(body, endMarker)
	block := startMarker + "\n" + generated + "\n" + endMarker

	if start >= 0 && end > start {
		end += len(endMarker)
		return body[:start] + block + body[end:]
	}

	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
