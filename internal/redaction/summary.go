package redaction

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/blind-hire/internal/types"
)

// Degree levels, lowest to highest.
const (
	DegreeNone      = "none"
	DegreeOther     = "other"
	DegreeAssociate = "associate"
	DegreeBachelor  = "bachelor"
	DegreeMaster    = "master"
	DegreePhD       = "phd"
)

var degreeRank = map[string]int{
	DegreeNone:      0,
	DegreeOther:     1,
	DegreeAssociate: 2,
	DegreeBachelor:  3,
	DegreeMaster:    4,
	DegreePhD:       5,
}

var degreeLabel = map[string]string{
	DegreeNone:      "Not specified",
	DegreeOther:     "Other qualification",
	DegreeAssociate: "Associate degree",
	DegreeBachelor:  "Bachelor's degree",
	DegreeMaster:    "Master's degree",
	DegreePhD:       "Doctorate",
}

// NormalizeDegree maps a free-form degree name to one of the Degree* levels.
func NormalizeDegree(degree string) string {
	d := strings.ToLower(strings.TrimSpace(degree))
	switch {
	case d == "":
		return DegreeNone
	case strings.Contains(d, "phd") || strings.Contains(d, "ph.d") || strings.Contains(d, "doctor"):
		return DegreePhD
	case strings.Contains(d, "master") || strings.HasPrefix(d, "msc") || strings.HasPrefix(d, "m.sc") ||
		strings.HasPrefix(d, "mba") || strings.HasPrefix(d, "ms ") || d == "ms" || strings.HasPrefix(d, "m.s."):
		return DegreeMaster
	case strings.Contains(d, "bachelor") || strings.HasPrefix(d, "bsc") || strings.HasPrefix(d, "b.sc") ||
		strings.HasPrefix(d, "bs ") || d == "bs" || strings.HasPrefix(d, "b.s.") || strings.HasPrefix(d, "ba ") || d == "ba":
		return DegreeBachelor
	case strings.Contains(d, "associate"):
		return DegreeAssociate
	default:
		return DegreeOther
	}
}

// EducationLevel returns a label for the highest degree held. Institution and field are
// never part of the result.
func EducationLevel(education []types.Education) string {
	best := DegreeNone
	for _, e := range education {
		if lvl := NormalizeDegree(e.Degree); degreeRank[lvl] > degreeRank[best] {
			best = lvl
		}
	}
	return degreeLabel[best]
}

// seniorityKeywords ranks titles by the most senior keyword they contain. Titles without a
// keyword sit at rankMid.
var seniorityKeywords = map[string]int{
	"intern":    0,
	"trainee":   0,
	"junior":    1,
	"jr":        1,
	"graduate":  1,
	"senior":    3,
	"sr":        3,
	"lead":      4,
	"staff":     4,
	"principal": 5,
	"architect": 5,
	"head":      6,
	"director":  6,
	"vp":        6,
	"chief":     6,
}

const rankMid = 2

// Seniority scores a job title; higher is more senior.
func Seniority(title string) int {
	rank := -1
	for _, w := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '/' || r == '-' || r == '(' || r == ')'
	}) {
		if r, ok := seniorityKeywords[w]; ok && r > rank {
			rank = r
		}
	}
	if rank < 0 {
		return rankMid
	}
	return rank
}

// ExperienceSummary describes total experience and the most senior title held, without
// employer names. Ties on seniority go to the longer role, then the earlier entry.
func ExperienceSummary(experience []types.Experience) string {
	if len(experience) == 0 {
		return "No prior experience listed"
	}

	total := 0
	best := -1
	for i, e := range experience {
		if e.DurationMonths > 0 {
			total += e.DurationMonths
		}
		if best < 0 {
			best = i
			continue
		}
		cur, top := Seniority(e.Title), Seniority(experience[best].Title)
		if cur > top || (cur == top && e.DurationMonths > experience[best].DurationMonths) {
			best = i
		}
	}

	title := strings.TrimSpace(experience[best].Title)
	if title == "" {
		return formatDuration(total) + " of experience"
	}
	return fmt.Sprintf("%s of experience; most senior role: %s", formatDuration(total), title)
}

func formatDuration(months int) string {
	switch {
	case months <= 0:
		return "Less than a month"
	case months == 1:
		return "1 month"
	case months < 12:
		return fmt.Sprintf("%d months", months)
	}
	// One decimal, rounded half up in tenths of a year.
	tenths := (months*10 + 6) / 12
	years := strconv.Itoa(tenths / 10)
	if tenths%10 != 0 {
		years += "." + strconv.Itoa(tenths%10)
	}
	if years == "1" {
		return "1 year"
	}
	return years + " years"
}
