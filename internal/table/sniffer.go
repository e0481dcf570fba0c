package table

import (
	"bufio"
	"bytes"
	"strings"
)

// candidate separators, in the order offered by the UI selector.
var candidateSeparators = []rune{',', ';', '\t', '|'}

// SniffSeparator inspects up to maxLines lines of content and picks the
// candidate separator that splits the most lines into a consistent field
// count greater than one. Returns false when no candidate produces a
// delimited shape, in which case the caller falls back to comma.
func SniffSeparator(content []byte, maxLines int) (rune, bool) {
	lines := sampleLines(content, maxLines)
	if len(lines) == 0 {
		return 0, false
	}

	bestSep := rune(0)
	bestScore := 0
	for _, sep := range candidateSeparators {
		score := consistencyScore(lines, sep)
		if score > bestScore {
			bestScore = score
			bestSep = sep
		}
	}

	if bestScore == 0 {
		return 0, false
	}
	return bestSep, true
}

// consistencyScore counts the lines whose field count matches the first
// line's, provided the separator actually splits the lines.
func consistencyScore(lines []string, sep rune) int {
	expected := len(strings.Split(lines[0], string(sep)))
	if expected < 2 {
		return 0
	}

	score := 0
	for _, line := range lines {
		if len(strings.Split(line, string(sep))) == expected {
			score++
		}
	}
	return score
}

func sampleLines(content []byte, maxLines int) []string {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() && len(lines) < maxLines {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
