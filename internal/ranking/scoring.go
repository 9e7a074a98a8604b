// Package ranking scores candidates against weighted job skill requirements.
package ranking

import (
	"sort"

	"github.com/jonathan/blind-hire/internal/skills"
	"github.com/jonathan/blind-hire/internal/types"
)

// Score returns the weighted match percentage (0..100) of candidateSkills against
// requiredSkills. Each required skill the candidate holds contributes
// weight*min(proficiency,100)/100; the sum is normalized by the total required weight
// and rounded half away from zero. Skills are compared by skills.Key, so ordering of
// either list never affects the result.
func Score(candidateSkills, requiredSkills []types.Skill) (int, error) {
	if len(requiredSkills) == 0 {
		return 0, &types.InvalidJobDefinitionError{Message: "job has no required skills"}
	}

	proficiency := skills.Index(candidateSkills)

	// Integer arithmetic: percentage = sum(w*p) / sum(w)
	var num, den int64
	for _, req := range requiredSkills {
		w := int64(clamp(req.Value))
		den += w
		if p, ok := proficiency[skills.Key(req.Name)]; ok {
			num += w * int64(clamp(p))
		}
	}

	if den == 0 {
		return 0, &types.InvalidJobDefinitionError{Message: "required skill weights sum to zero"}
	}

	return int((2*num + den) / (2 * den)), nil
}

// ScoreJob scores a candidate record against a job posting.
func ScoreJob(candidate *types.CandidateRecord, job *types.JobPosting) (int, error) {
	score, err := Score(candidate.Skills, job.RequiredSkills)
	if err != nil {
		if jobErr, ok := err.(*types.InvalidJobDefinitionError); ok {
			jobErr.JobID = job.ID
		}
		return 0, err
	}
	return score, nil
}

// Breakdown lists which required skills a candidate holds and which are missing.
// Both lists are ordered by required weight (descending), then name.
type Breakdown struct {
	Matched []string
	Missing []string
}

// Explain computes the matched/missing breakdown for a candidate.
func Explain(candidateSkills, requiredSkills []types.Skill) Breakdown {
	held := skills.Index(candidateSkills)

	reqs := append([]types.Skill(nil), requiredSkills...)
	sort.SliceStable(reqs, func(i, j int) bool {
		if reqs[i].Value != reqs[j].Value {
			return reqs[i].Value > reqs[j].Value
		}
		return skills.Key(reqs[i].Name) < skills.Key(reqs[j].Name)
	})

	b := Breakdown{Matched: []string{}, Missing: []string{}}
	for _, req := range reqs {
		if _, ok := held[skills.Key(req.Name)]; ok {
			b.Matched = append(b.Matched, req.Name)
		} else {
			b.Missing = append(b.Missing, req.Name)
		}
	}
	return b
}

func clamp(v int) int {
	if v < types.MinSkillValue {
		return types.MinSkillValue
	}
	if v > types.MaxSkillValue {
		return types.MaxSkillValue
	}
	return v
}
