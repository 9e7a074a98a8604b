package ranking

import (
	"math/rand"
	"testing"

	"github.com/jonathan/blind-hire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_SingleSkill(t *testing.T) {
	required := []types.Skill{{Name: "A", Value: 100}}

	score, err := Score([]types.Skill{{Name: "A", Value: 50}}, required)
	require.NoError(t, err)
	assert.Equal(t, 50, score)

	score, err = Score([]types.Skill{{Name: "B", Value: 90}}, required)
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestScore_EmptyRequirements(t *testing.T) {
	_, err := Score([]types.Skill{{Name: "A", Value: 50}}, nil)
	var jobErr *types.InvalidJobDefinitionError
	require.ErrorAs(t, err, &jobErr)
}

func TestScore_ZeroWeights(t *testing.T) {
	_, err := Score([]types.Skill{{Name: "A", Value: 50}}, []types.Skill{{Name: "A", Value: 0}})
	var jobErr *types.InvalidJobDefinitionError
	require.ErrorAs(t, err, &jobErr)
}

func TestScore_NoCandidateSkills(t *testing.T) {
	score, err := Score(nil, []types.Skill{{Name: "A", Value: 30}})
	require.NoError(t, err)
	assert.Equal(t, 0, score)
}

func TestScore_WeightedAverage(t *testing.T) {
	required := []types.Skill{
		{Name: "Python", Value: 90},
		{Name: "ML", Value: 95},
		{Name: "TensorFlow", Value: 70},
	}
	candidate := []types.Skill{
		{Name: "Python", Value: 85},
		{Name: "ML", Value: 78},
	}

	// round((90*85 + 95*78 + 70*0) / 255) = round(59.06) = 59
	score, err := Score(candidate, required)
	require.NoError(t, err)
	assert.Equal(t, 59, score)
}

func TestScore_Rounding(t *testing.T) {
	tests := []struct {
		name      string
		candidate []types.Skill
		required  []types.Skill
		want      int
	}{
		{
			name:      "exact half rounds up",
			candidate: []types.Skill{{Name: "A", Value: 1}},
			required:  []types.Skill{{Name: "A", Value: 50}, {Name: "B", Value: 50}},
			want:      1, // 0.5
		},
		{
			name:      "below half rounds down",
			candidate: []types.Skill{{Name: "A", Value: 100}},
			required:  []types.Skill{{Name: "A", Value: 1}, {Name: "B", Value: 2}},
			want:      33,
		},
		{
			name:      "above half rounds up",
			candidate: []types.Skill{{Name: "A", Value: 100}},
			required:  []types.Skill{{Name: "A", Value: 2}, {Name: "B", Value: 1}},
			want:      67,
		},
		{
			name:      "full match",
			candidate: []types.Skill{{Name: "A", Value: 100}, {Name: "B", Value: 100}},
			required:  []types.Skill{{Name: "A", Value: 10}, {Name: "B", Value: 90}},
			want:      100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, err := Score(tt.candidate, tt.required)
			require.NoError(t, err)
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScore_CaseInsensitiveAndAliases(t *testing.T) {
	score, err := Score(
		[]types.Skill{{Name: "golang", Value: 80}, {Name: "machine learning", Value: 60}},
		[]types.Skill{{Name: "Go", Value: 50}, {Name: "ML", Value: 50}},
	)
	require.NoError(t, err)
	assert.Equal(t, 70, score)
}

func TestScore_OrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		names := []string{"Python", "SQL", "Go", "Rust", "ML", "TensorFlow", "Communication", "Docker"}
		var candidate, required []types.Skill
		for _, n := range names {
			if rng.Intn(2) == 0 {
				candidate = append(candidate, types.Skill{Name: n, Value: rng.Intn(101)})
			}
			if rng.Intn(2) == 0 {
				required = append(required, types.Skill{Name: n, Value: 1 + rng.Intn(100)})
			}
		}
		if len(required) == 0 {
			required = append(required, types.Skill{Name: "Python", Value: 40})
		}

		want, err := Score(candidate, required)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, want, 0)
		assert.LessOrEqual(t, want, 100)

		for perm := 0; perm < 5; perm++ {
			c := append([]types.Skill(nil), candidate...)
			r := append([]types.Skill(nil), required...)
			rng.Shuffle(len(c), func(i, j int) { c[i], c[j] = c[j], c[i] })
			rng.Shuffle(len(r), func(i, j int) { r[i], r[j] = r[j], r[i] })

			got, err := Score(c, r)
			require.NoError(t, err)
			require.Equal(t, want, got, "trial %d permutation %d", trial, perm)
		}
	}
}

func TestScoreJob_SetsJobID(t *testing.T) {
	_, err := ScoreJob(&types.CandidateRecord{}, &types.JobPosting{ID: "job-9"})
	var jobErr *types.InvalidJobDefinitionError
	require.ErrorAs(t, err, &jobErr)
	assert.Equal(t, "job-9", jobErr.JobID)
}

func TestExplain(t *testing.T) {
	b := Explain(
		[]types.Skill{{Name: "python", Value: 85}},
		[]types.Skill{{Name: "TensorFlow", Value: 70}, {Name: "Python", Value: 90}, {Name: "ML", Value: 95}},
	)
	assert.Equal(t, []string{"Python"}, b.Matched)
	assert.Equal(t, []string{"ML", "TensorFlow"}, b.Missing)
}
