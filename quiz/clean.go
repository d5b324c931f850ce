package quiz

import "strings"

var lineBreaks = strings.NewReplacer("\r\n", "", "\t", "", "\n", "")

// Clean trims surrounding whitespace and removes every tab and line break
// left inside. Other interior whitespace is kept. Clean is idempotent.
func Clean(s string) string {
	return lineBreaks.Replace(strings.TrimSpace(s))
}
