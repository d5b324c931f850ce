package search

import (
	"strings"
)

// snippetMaxLen is the approximate maximum character length for a snippet.
const snippetMaxLen = 300

// extractSnippet returns the line of a question (its text or one of its
// answers) that shares the most significant words with the query, joined
// with the adjacent line when it also matches and fits. Returns "" when no
// line overlaps the query.
func extractSnippet(text, answers string, queryWords map[string]bool) string {
	if len(queryWords) == 0 {
		return ""
	}

	lines := snippetLines(text, answers)
	if len(lines) == 0 {
		return ""
	}

	scores := make([]int, len(lines))
	best := 0
	for i, l := range lines {
		for w := range significantWords(l) {
			if queryWords[w] {
				scores[i]++
			}
		}
		if scores[i] > scores[best] {
			best = i
		}
	}
	if scores[best] == 0 {
		return ""
	}

	result := lines[best]
	if len(result) >= snippetMaxLen {
		return truncateSnippet(result)
	}

	adj, adjScore := -1, 0
	for _, delta := range []int{1, -1} {
		i := best + delta
		if i >= 0 && i < len(lines) && scores[i] > adjScore {
			adj, adjScore = i, scores[i]
		}
	}
	if adj >= 0 {
		combined := result + " / " + lines[adj]
		if adj < best {
			combined = lines[adj] + " / " + result
		}
		if len(combined) <= snippetMaxLen {
			result = combined
		}
	}
	return result
}

// significantWords returns the set of folded words of three or more
// characters, excluding stop words.
func significantWords(text string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range tokens(text) {
		if len([]rune(w)) >= 3 && !stopWords[w] {
			words[w] = true
		}
	}
	return words
}

// snippetLines lists the question text followed by each answer line.
func snippetLines(text, answers string) []string {
	var lines []string
	if t := strings.TrimSpace(text); t != "" {
		lines = append(lines, t)
	}
	for _, a := range strings.Split(answers, "\n") {
		if a = strings.TrimSpace(a); a != "" {
			lines = append(lines, a)
		}
	}
	return lines
}

func truncateSnippet(s string) string {
	cut := strings.LastIndex(s[:snippetMaxLen], " ")
	if cut <= 0 {
		cut = snippetMaxLen
	}
	return s[:cut] + "..."
}
