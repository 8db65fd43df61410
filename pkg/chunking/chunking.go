// Package chunking splits document text into ordered, bounded-size windows
// so each window fits within a single reasoning request.
package chunking

import "unicode/utf8"

// Chunk is a contiguous slice of the source text. Index is the chunk's
// position in the document and drives merge order downstream.
type Chunk struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Len returns the chunk length in characters.
func (c Chunk) Len() int {
	return utf8.RuneCountInString(c.Text)
}

// Split divides text into contiguous, non-overlapping windows of maxSize
// characters. Only the last window may be shorter. Concatenating the
// returned chunks reproduces text exactly. Empty text yields a single empty
// chunk, and a non-positive maxSize disables splitting.
func Split(text string, maxSize int) []Chunk {
	if maxSize <= 0 || utf8.RuneCountInString(text) <= maxSize {
		return []Chunk{{Index: 0, Text: text}}
	}

	// ASCII-only text can be windowed on byte offsets directly.
	if len(text) == utf8.RuneCountInString(text) {
		return splitBytes(text, maxSize)
	}

	return splitRunes(text, maxSize)
}

// Count reports how many chunks Split would produce without allocating them.
func Count(text string, maxSize int) int {
	n := utf8.RuneCountInString(text)
	if maxSize <= 0 || n <= maxSize {
		return 1
	}
	return (n + maxSize - 1) / maxSize
}

func splitBytes(text string, maxSize int) []Chunk {
	chunks := make([]Chunk, 0, (len(text)+maxSize-1)/maxSize)
	for start := 0; start < len(text); start += maxSize {
		end := min(start+maxSize, len(text))
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  text[start:end],
		})
	}
	return chunks
}

func splitRunes(text string, maxSize int) []Chunk {
	chunks := make([]Chunk, 0, Count(text, maxSize))

	start, runes := 0, 0
	for offset := range text {
		if runes == maxSize {
			chunks = append(chunks, Chunk{Index: len(chunks), Text: text[start:offset]})
			start, runes = offset, 0
		}
		runes++
	}

	chunks = append(chunks, Chunk{Index: len(chunks), Text: text[start:]})
	return chunks
}
