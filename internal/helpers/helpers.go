// Package helpers holds small display/formatting utilities shared by
// services and handlers.
package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonWordRe    = regexp.MustCompile(`[^\w-]+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
	dashRunRe    = regexp.MustCompile(`--+`)
	msgIDRe      = regexp.MustCompile(`\[msg_id:(\d+)\]`)
)

// Slugify builds a URL slug from a title. Vietnamese diacritics are
// decomposed (NFD) and stripped so "Sự Kiện Tết" becomes "su-kien-tet".
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripMarks, text)
	if err != nil {
		s = text
	}
	s = strings.ToLower(strings.TrimSpace(s))
	// đ is a standalone letter, not a base plus combining mark, so NFD
	// leaves it alone.
	s = strings.ReplaceAll(s, "đ", "d")
	s = whitespaceRe.ReplaceAllString(s, "-")
	s = nonWordRe.ReplaceAllString(s, "")
	s = dashRunRe.ReplaceAllString(s, "-")
	return s
}

// OrderCode returns the short code shown to customers, e.g. "DH-1A2B3C".
func OrderCode(id string) string {
	return shortCode("DH", id)
}

// ContactCode returns the short code for a contact ticket, e.g. "LH-1A2B3C".
func ContactCode(id string) string {
	return shortCode("LH", id)
}

func shortCode(prefix, id string) string {
	if id == "" {
		return prefix + "-UNKNOWN"
	}
	short := id
	if len(short) > 6 {
		short = short[len(short)-6:]
	}
	return prefix + "-" + strings.ToUpper(short)
}

// ExtractMessageID pulls a Discord message reference of the form
// "[msg_id:123]" out of an order's notes. Returns "" when absent.
func ExtractMessageID(notes string) string {
	m := msgIDRe.FindStringSubmatch(notes)
	if m == nil {
		return ""
	}
	return m[1]
}

// AppendMessageID tags notes with a Discord message reference, replacing
// any previous tag.
func AppendMessageID(notes, messageID string) string {
	cleaned := strings.TrimSpace(msgIDRe.ReplaceAllString(notes, ""))
	if cleaned == "" {
		return "[msg_id:" + messageID + "]"
	}
	return cleaned + " [msg_id:" + messageID + "]"
}
