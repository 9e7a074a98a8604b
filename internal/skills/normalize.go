package skills

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// aliases maps common skill name variants to canonical names
var aliases = map[string]string{
	"golang":           "Go",
	"go lang":          "Go",
	"javascript":       "JavaScript",
	"js":               "JavaScript",
	"typescript":       "TypeScript",
	"ts":               "TypeScript",
	"k8s":              "Kubernetes",
	"kubernetes":       "Kubernetes",
	"react.js":         "React",
	"reactjs":          "React",
	"node.js":          "Node.js",
	"nodejs":           "Node.js",
	"postgres":         "PostgreSQL",
	"postgresql":       "PostgreSQL",
	"ml":               "Machine Learning",
	"machine learning": "Machine Learning",
	"tf":               "TensorFlow",
	"tensorflow":       "TensorFlow",
}

// Normalize returns the canonical display form of a skill name.
func Normalize(name string) string {
	trimmed := strings.Join(strings.Fields(name), " ")
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)
	if canonical, ok := aliases[lower]; ok {
		return canonical
	}

	// Single lowercase word: capitalize first letter
	if trimmed == lower && !strings.Contains(trimmed, " ") {
		r, size := utf8.DecodeRuneInString(trimmed)
		return string(unicode.ToUpper(r)) + trimmed[size:]
	}

	return trimmed
}

// Key is the comparison key for a skill name: normalized and lower-cased.
func Key(name string) string {
	return strings.ToLower(Normalize(name))
}
