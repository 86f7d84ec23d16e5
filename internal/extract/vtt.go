package extract

import (
	"bufio"
	"io"
	"strings"
)

// ParseVTT reads a WebVTT subtitle stream and returns its caption text as a
// single space-joined string. Timing lines, cue identifiers, NOTE/STYLE
// blocks, and inline markup are dropped.
func ParseVTT(r io.Reader) string {
	var texts []string
	inBlockComment := false

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			inBlockComment = false
			continue
		case inBlockComment:
			continue
		case strings.HasPrefix(line, "WEBVTT"):
			continue
		case strings.HasPrefix(line, "NOTE") || strings.HasPrefix(line, "STYLE") || strings.HasPrefix(line, "REGION"):
			inBlockComment = true
			continue
		case strings.Contains(line, "-->"):
			continue
		case isCueIdentifier(line):
			continue
		}

		if text := stripTags(line); text != "" {
			texts = append(texts, text)
		}
	}

	return strings.Join(texts, " ")
}

// isCueIdentifier reports whether the line is a bare numeric cue index.
func isCueIdentifier(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// stripTags removes inline cue markup such as <c> spans and timestamps.
func stripTags(line string) string {
	var b strings.Builder
	inTag := false
	for _, r := range line {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
