// Package tts is the narration pipeline: chunking, audio resolution through
// the cache/remote/device waterfall, and ordered playback with prefetch.
package tts

import (
	"regexp"
	"strings"
)

// Sentence-terminal punctuation, optionally followed by a closing quote,
// stays with its chunk; a trailing fragment without a terminator becomes the
// final chunk.
var chunkRe = regexp.MustCompile(`[^.!?]+[.!?]+["']?|[^.!?]+$`)

// Split breaks narration text into sentence-bounded chunks. Order is the
// playback order. Whitespace-only chunks are dropped.
func Split(text string) []string {
	matches := chunkRe.FindAllString(text, -1)
	if matches == nil {
		matches = []string{text}
	}

	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		if c := strings.TrimSpace(m); c != "" {
			chunks = append(chunks, c)
		}
	}
	return chunks
}
