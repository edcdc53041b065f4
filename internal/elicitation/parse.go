package elicitation

import "strings"

// Pair is one `Name: Description` line split at its first colon.
type Pair struct {
	Name        string
	Description string
}

// ParseEntries splits each line containing a colon at the first colon.
// Lines without a colon, or with nothing before it, are dropped.
func ParseEntries(text string) []Pair {
	var pairs []Pair
	for _, line := range splitLines(text) {
		name, desc, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		pairs = append(pairs, Pair{Name: name, Description: strings.TrimSpace(desc)})
	}
	return pairs
}

// ParseRequirementLines keeps every line that contains a colon, whole.
func ParseRequirementLines(text string) []string {
	var lines []string
	for _, line := range splitLines(text) {
		trimmed := strings.TrimSpace(line)
		if !strings.Contains(trimmed, ":") {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}
