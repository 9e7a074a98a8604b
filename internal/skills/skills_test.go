package skills

import (
	"testing"

	"github.com/jonathan/blind-hire/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		wantErr bool
	}{
		{"lower bound", 0, false},
		{"upper bound", 100, false},
		{"middle", 57, false},
		{"below range", -1, true},
		{"above range", 101, true},
		{"far above", 1 << 20, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New("Python", tt.value)
			if tt.wantErr {
				var vErr *types.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Contains(t, vErr.Message, "out of range")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.value, s.Value)
			assert.GreaterOrEqual(t, s.Value, types.MinSkillValue)
			assert.LessOrEqual(t, s.Value, types.MaxSkillValue)
		})
	}
}

func TestNew_AllValuesInRangeSucceed(t *testing.T) {
	for v := -50; v <= 150; v++ {
		_, err := New("Go", v)
		if v >= 0 && v <= 100 {
			assert.NoError(t, err, "value %d", v)
		} else {
			assert.Error(t, err, "value %d", v)
		}
	}
}

func TestNew_BlankName(t *testing.T) {
	_, err := New("   ", 50)
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestValidate_RejectsDuplicatesCaseInsensitive(t *testing.T) {
	err := Validate([]types.Skill{
		{Name: "Python", Value: 80},
		{Name: "python", Value: 60},
	}, "skills")

	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "skills[1]", vErr.Field)
	assert.Contains(t, vErr.Message, "duplicate")
}

func TestValidate_RejectsAliasDuplicates(t *testing.T) {
	err := Validate([]types.Skill{
		{Name: "Go", Value: 80},
		{Name: "golang", Value: 60},
	}, "skills")
	assert.Error(t, err)
}

func TestValidate_OutOfRange(t *testing.T) {
	err := Validate([]types.Skill{{Name: "SQL", Value: 120}}, "required_skills")
	var vErr *types.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "required_skills[0]", vErr.Field)
}

func TestAdd(t *testing.T) {
	list, err := Add(nil, types.Skill{Name: "SQL", Value: 82})
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = Add(list, types.Skill{Name: " sql ", Value: 10})
	require.Error(t, err)
	assert.Len(t, list, 1, "rejected insertion must not change the list")
}

func TestClean_TrimsNames(t *testing.T) {
	out, err := Clean([]types.Skill{{Name: "  Data Analysis ", Value: 90}}, "skills")
	require.NoError(t, err)
	assert.Equal(t, "Data Analysis", out[0].Name)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"golang", "Go"},
		{"K8S", "Kubernetes"},
		{"  machine   learning ", "Machine Learning"},
		{"ML", "Machine Learning"},
		{"python", "Python"},
		{"SQL", "SQL"},
		{"data analysis", "data analysis"},
		{"élan", "Élan"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestIndex(t *testing.T) {
	idx := Index([]types.Skill{{Name: "ML", Value: 78}, {Name: "Python", Value: 85}})
	assert.Equal(t, 78, idx[Key("Machine Learning")])
	assert.Equal(t, 85, idx["python"])
}
