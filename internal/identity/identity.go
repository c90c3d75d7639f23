// Package identity derives the stable cache keys shared by every user session.
package identity

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"
)

// ArticleID returns a deterministic id for an article, derived from its
// category and canonical link. The same (category, link) pair always maps to
// the same id, so re-fetches collapse onto the same cache row and keep the
// translations and audio tied to it.
//
// When the link is missing or a placeholder, a time-based id is returned
// instead. That fallback is not deterministic and exists only so a malformed
// item still gets a key.
func ArticleID(category, link string) string {
	if link == "" || link == "#" {
		return fmt.Sprintf("art-%d", time.Now().UnixNano())
	}
	h := hash32(category + "-" + link)
	n := int64(h)
	if n < 0 {
		n = -n
	}
	return fmt.Sprintf("art-%d", n)
}

// TextHash keys the shared audio cache by the exact chunk text. Identical
// sentences across articles and languages land on the same row.
func TextHash(text string) string {
	if text == "" {
		return "0"
	}
	h := hash32(text)
	return strconv.FormatInt(int64(h), 36) + strconv.Itoa(len(utf16.Encode([]rune(text))))
}

// hash32 is the 32-bit rolling hash the existing shared database was keyed
// with. It runs over UTF-16 code units and wraps on int32, so keys stay
// byte-compatible with rows written by older clients.
func hash32(s string) int32 {
	var h int32
	for _, u := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(u)
	}
	return h
}
