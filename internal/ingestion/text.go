package ingestion

import (
	"regexp"
	"strings"
)

var (
	spaceRun     = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes line endings and inline whitespace, keeps bullet markers and
// markdown headings at the start of their lines, and collapses runs of blank lines to one.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	out := blankLineRun.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(out)
}

func cleanLine(line string) string {
	line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
	for _, bullet := range []string{"• ", "· ", "* "} {
		if strings.HasPrefix(line, bullet) {
			return "- " + strings.TrimPrefix(line, bullet)
		}
	}
	return line
}

// CleanDescription accepts a job description in plain text or HTML and returns clean text.
func CleanDescription(raw string) (string, error) {
	if !LooksLikeHTML(raw) {
		return CleanText(raw), nil
	}
	text, err := HTMLToText(raw)
	if err != nil {
		return "", err
	}
	return CleanText(text), nil
}
