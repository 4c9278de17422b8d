package report

import "strings"

// ChunkLimit is the maximum size of one delivered summary message in runes.
const ChunkLimit = 3500

// Chunk splits text into pieces of at most limit runes. Paragraphs
// (separated by blank lines) are kept together when they fit; longer
// paragraphs are cut at the limit.
func Chunk(text string, limit int) []string {
	if text == "" {
		return nil
	}
	if runeLen(text) <= limit {
		return []string{text}
	}

	var chunks []string
	buf := ""
	for _, para := range strings.Split(text, "\n\n") {
		candidate := para
		if buf != "" {
			candidate = buf + "\n\n" + para
		}
		if runeLen(candidate) <= limit {
			buf = candidate
			continue
		}
		if buf != "" {
			chunks = append(chunks, buf)
			buf = ""
		}
		if runeLen(para) <= limit {
			buf = para
			continue
		}
		runes := []rune(para)
		for i := 0; i < len(runes); i += limit {
			end := min(i+limit, len(runes))
			chunks = append(chunks, string(runes[i:end]))
		}
	}
	if buf != "" {
		chunks = append(chunks, buf)
	}
	return chunks
}

// Messages returns the summary split for delivery with Header on the first
// chunk.
func Messages(summary string) []string {
	chunks := Chunk(summary, ChunkLimit)
	if len(chunks) > 0 {
		chunks[0] = Header + "\n\n" + chunks[0]
	}
	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}
