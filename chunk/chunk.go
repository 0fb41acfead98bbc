// Package chunk splits document text into overlapping windows for
// embedding and retrieval.
package chunk

import "strings"

const (
	DefaultSize    = 1000
	DefaultOverlap = 200
)

// Split slides a fixed-size window of `size` runes across text, with
// `overlap` runes shared between consecutive windows. Windows are
// trimmed of surrounding whitespace and empty windows are dropped.
// The final partial window is still emitted. Empty text yields no
// chunks.
func Split(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)

	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}

		start = end - overlap
	}

	return chunks
}
