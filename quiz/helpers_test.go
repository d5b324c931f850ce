package quiz

import (
	"fmt"
	"strings"
)

// answerRun renders n answers labelled A, B, ... with answer number
// correct (1-based) ticked. correct 0 ticks none.
func answerRun(n, correct int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i == correct {
			b.WriteString(MarkerCorrect)
		} else {
			b.WriteString(MarkerIncorrect)
		}
		fmt.Fprintf(&b, " %c", 'A'+i-1)
	}
	return b.String()
}

// questionText renders one question as it appears in assembled text.
func questionText(number int, text, intro string, n, correct int) string {
	return fmt.Sprintf("\n%d\t\t%s(1,00 P.)%s%s", number, text, intro, answerRun(n, correct))
}
