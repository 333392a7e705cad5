package service

import "strings"

// chunkSeparators are tried in order when looking for a split point near
// the end of a window.
var chunkSeparators = []string{"\n\n", "\n", ". ", " "}

// SplitText cuts text into chunks of at most size runes with overlap runes
// carried over between consecutive chunks. Splits prefer paragraph, line,
// sentence then word boundaries before falling back to a hard cut. The
// output is deterministic for a given input.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= size {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		return []string{trimmed}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			end = len(runes)
		} else if boundary := findBoundary(runes[start:end]); boundary > 0 {
			end = start + boundary
		}

		chunk := strings.TrimSpace(string(runes[start:end]))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}

		next := end - overlap
		// Guard against stalling when a boundary lands inside the overlap.
		if next <= start {
			next = start + 1
		}
		start = next
	}
	return chunks
}

// findBoundary returns the rune offset just past the last separator in the
// window, or 0 when no separator gives a useful split.
func findBoundary(window []rune) int {
	s := string(window)
	for _, sep := range chunkSeparators {
		if idx := strings.LastIndex(s, sep); idx > 0 {
			return len([]rune(s[:idx+len(sep)]))
		}
	}
	return 0
}
