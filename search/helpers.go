package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var ftsSpecial = strings.NewReplacer(
	"\"", "",
	"*", "",
	"(", "",
	")", "",
	"+", "",
	"-", " ",
	"^", "",
	":", "",
	"?", "",
	"[", "",
	"]", "",
	"{", "",
	"}", "",
	"!", "",
	".", "",
	",", "",
	";", "",
)

// sanitizeFTSQuery strips FTS5 operators from a free-text query and turns
// it into an OR of the full phrase and its significant words.
func sanitizeFTSQuery(query string) string {
	words := strings.Fields(ftsSpecial.Replace(query))
	if len(words) == 0 {
		return ""
	}

	var parts []string
	if len(words) > 1 {
		parts = append(parts, "\""+strings.Join(words, " ")+"\"")
	}
	for _, w := range words {
		if len([]rune(w)) > 2 && !isStopWord(w) {
			parts = append(parts, w)
		}
	}

	if len(parts) == 0 {
		return strings.Join(words, " OR ")
	}
	return strings.Join(parts, " OR ")
}

// fold lowercases s and strips diacritics so "Übung" and "ubung" compare
// equal, matching the FTS tokenizer's remove_diacritics setting.
func fold(s string) string {
	var b strings.Builder
	for _, r := range norm.NFKD.String(s) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// tokens splits folded text into words of letters and digits.
func tokens(s string) []string {
	return strings.FieldsFunc(fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

var stopWords = map[string]bool{
	// English
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "was": true,
	"one": true, "our": true, "has": true, "how": true, "its": true,
	"what": true, "which": true, "with": true, "this": true, "that": true,
	"from": true, "have": true, "does": true, "when": true, "where": true,
	// German
	"der": true, "die": true, "das": true, "den": true, "dem": true,
	"des": true, "ein": true, "eine": true, "einen": true, "einem": true,
	"einer": true, "und": true, "oder": true, "ist": true, "sind": true,
	"mit": true, "von": true, "fur": true, "auf": true, "bei": true,
	"wird": true, "werden": true, "welche": true, "welcher": true,
	"welches": true, "wie": true, "wer": true, "nicht": true,
	"sich": true, "zum": true, "zur": true, "aus": true, "nach": true,
}

func isStopWord(w string) bool {
	return stopWords[fold(w)]
}
