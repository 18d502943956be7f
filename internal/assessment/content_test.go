package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContentFullStructure(t *testing.T) {
	raw := []byte(`{
		"duration": 45,
		"section_a": {"questions": [{"id": "q1", "question": "Pick one", "options": ["a", "b", "c"], "answer": 2}]},
		"section_b": {"questions": [{"id": "q2", "question": "True?", "answer": false}]},
		"section_c": {"questions": [{"id": "q3", "question": "Explain"}]}
	}`)

	c, err := ParseContent(raw)
	require.NoError(t, err)
	assert.Equal(t, 45, c.Duration)
	require.NotNil(t, c.SectionA)
	assert.Equal(t, 2, c.SectionA.Questions[0].Answer)
	require.NotNil(t, c.SectionB)
	assert.False(t, c.SectionB.Questions[0].Answer)
	require.NotNil(t, c.SectionC)
	assert.Equal(t, "q3", c.SectionC.Questions[0].ID)
}

func TestParseContentInvalidJSON(t *testing.T) {
	_, err := ParseContent([]byte("not json"))
	assert.Error(t, err)
}

func TestValidateAcceptsMinimalContent(t *testing.T) {
	c := &Content{SectionB: &BoolSection{Questions: []BoolQuestion{{ID: "q1"}}}}
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsEmptyContent(t *testing.T) {
	assert.Error(t, (&Content{}).Validate())
	assert.Error(t, (&Content{SectionA: &ChoiceSection{}}).Validate())
}

func TestValidateRejectsMissingID(t *testing.T) {
	c := &Content{SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
		{Options: []string{"a"}, Answer: 0},
	}}}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsDuplicateIDWithinSection(t *testing.T) {
	c := &Content{SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
		{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
		{ID: "q1", Options: []string{"a", "b"}, Answer: 1},
	}}}
	assert.Error(t, c.Validate())
}

// 不同 section 允许同名 id：作答按 section 分组，不会串
func TestValidateAllowsSameIDAcrossSections(t *testing.T) {
	c := &Content{
		SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
			{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
		}},
		SectionB: &BoolSection{Questions: []BoolQuestion{{ID: "q1"}}},
	}
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsAnswerOutOfRange(t *testing.T) {
	c := &Content{SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
		{ID: "q1", Options: []string{"a", "b"}, Answer: 2},
	}}}
	assert.Error(t, c.Validate())

	c.SectionA.Questions[0].Answer = -1
	assert.Error(t, c.Validate())
}

func TestValidateRejectsChoiceWithoutOptions(t *testing.T) {
	c := &Content{SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
		{ID: "q1", Answer: 0},
	}}}
	assert.Error(t, c.Validate())
}

func TestParseAnswers(t *testing.T) {
	raw := []byte(`{
		"section_a": {"q1": 1},
		"section_b": {"q2": true},
		"section_c": {"q3": "because"}
	}`)

	a, err := ParseAnswers(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, a.SectionA["q1"])
	assert.True(t, a.SectionB["q2"])
	assert.Equal(t, "because", a.SectionC["q3"])
}
