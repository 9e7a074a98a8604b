package redaction

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/blind-hire/internal/types"
)

// Mask replaces every scrubbed literal. It holds no letters or digits, so it can never
// reintroduce a sensitive term.
const Mask = "•••"

const (
	minLocalPartRunes = 2
	minTokenRunes     = 3
)

// SensitiveTerms lists the literals that must not appear in an anonymized view: every
// non-empty identity field, institution and employer as given, plus the email local part
// and name tokens of three or more characters.
func SensitiveTerms(rec *types.CandidateRecord) []string {
	if rec == nil {
		return nil
	}
	id := rec.Identity
	literals := []string{id.FullName, id.Email, id.Phone, id.Location, id.Institution}
	for _, e := range rec.Education {
		literals = append(literals, e.Institution)
	}
	for _, e := range rec.Experience {
		literals = append(literals, e.Employer)
	}

	seen := make(map[string]bool)
	var terms []string
	add := func(term string, minRunes int, needAlnum bool) {
		term = strings.TrimSpace(strings.ToValidUTF8(term, ""))
		if term == "" || utf8.RuneCountInString(term) < minRunes || (needAlnum && !hasAlnum(term)) {
			return
		}
		k := strings.ToLower(term)
		if seen[k] {
			return
		}
		seen[k] = true
		terms = append(terms, term)
	}

	for _, l := range literals {
		add(l, 1, false)
	}
	if at := strings.IndexByte(id.Email, '@'); at > 0 {
		add(id.Email[:at], minLocalPartRunes, true)
	}
	for _, tok := range nameTokens(id.FullName) {
		add(tok, minTokenRunes, true)
	}

	// Longest first so a full name wins over its parts in the alternation.
	sort.SliceStable(terms, func(i, j int) bool {
		return utf8.RuneCountInString(terms[i]) > utf8.RuneCountInString(terms[j])
	})
	return terms
}

// Scrubber removes a fixed set of terms from text, case-insensitively.
type Scrubber struct {
	mask  *regexp.Regexp // terms with a letter or digit, replaced by Mask
	strip *regexp.Regexp // terms without one, deleted outright
}

// NewScrubber compiles terms into matchers. An empty list yields a no-op scrubber.
func NewScrubber(terms []string) *Scrubber {
	var masked, stripped []string
	for _, t := range terms {
		t = strings.ToValidUTF8(t, "")
		switch {
		case t == "":
		case hasAlnum(t):
			masked = append(masked, t)
		default:
			stripped = append(stripped, t)
		}
	}
	return &Scrubber{mask: alternation(masked), strip: alternation(stripped)}
}

// Scrub masks every occurrence of the scrubber's terms in text. Replacing can splice
// together text that forms a new match, so it repeats until the text is clean. A mask
// pass removes at least one letter or digit and a strip pass shortens the text without
// adding any, which bounds the loop.
func (s *Scrubber) Scrub(text string) string {
	for {
		changed := false
		if s.mask != nil && s.mask.MatchString(text) {
			text = s.mask.ReplaceAllLiteralString(text, Mask)
			changed = true
		}
		if s.strip != nil && s.strip.MatchString(text) {
			text = s.strip.ReplaceAllLiteralString(text, "")
			changed = true
		}
		if !changed {
			return text
		}
	}
}

func alternation(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		quoted = append(quoted, regexp.QuoteMeta(t))
	}
	return regexp.MustCompile("(?i)(?:" + strings.Join(quoted, "|") + ")")
}

func nameTokens(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '-'
	})
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
