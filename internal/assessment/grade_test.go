package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func choiceContent(questions ...ChoiceQuestion) *Content {
	return &Content{SectionA: &ChoiceSection{Questions: questions}}
}

func TestGradeAllCorrect(t *testing.T) {
	content := &Content{
		SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
			{ID: "q1", Options: []string{"a", "b"}, Answer: 1},
			{ID: "q2", Options: []string{"a", "b", "c"}, Answer: 0},
		}},
		SectionB: &BoolSection{Questions: []BoolQuestion{
			{ID: "q3", Answer: true},
			{ID: "q4", Answer: false},
		}},
	}
	ans := &Answers{
		SectionA: map[string]int{"q1": 1, "q2": 0},
		SectionB: map[string]bool{"q3": true, "q4": false},
	}

	res := Grade(content, ans)
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 100, *res.AutoScore)
	assert.False(t, res.NeedsManual)
}

func TestGradePartialScoreRounds(t *testing.T) {
	content := choiceContent(
		ChoiceQuestion{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
		ChoiceQuestion{ID: "q2", Options: []string{"a", "b"}, Answer: 0},
		ChoiceQuestion{ID: "q3", Options: []string{"a", "b"}, Answer: 0},
	)
	ans := &Answers{SectionA: map[string]int{"q1": 0, "q2": 0, "q3": 1}}

	// 2/3 = 66.67 -> 67
	res := Grade(content, ans)
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 67, *res.AutoScore)
}

func TestGradeMissingAnswerCountsWrong(t *testing.T) {
	content := choiceContent(
		ChoiceQuestion{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
		ChoiceQuestion{ID: "q2", Options: []string{"a", "b"}, Answer: 1},
	)
	ans := &Answers{SectionA: map[string]int{"q1": 0}}

	res := Grade(content, ans)
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 50, *res.AutoScore)
}

// 缺答不能撞上下标 0 的正确答案：map 零值陷阱
func TestGradeMissingAnswerDoesNotMatchZeroIndex(t *testing.T) {
	content := choiceContent(
		ChoiceQuestion{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
	)

	res := Grade(content, &Answers{SectionA: map[string]int{}})
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 0, *res.AutoScore)

	// 判断题同理：缺答不等于回答 false
	boolContent := &Content{SectionB: &BoolSection{Questions: []BoolQuestion{
		{ID: "q1", Answer: false},
	}}}
	res = Grade(boolContent, &Answers{})
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 0, *res.AutoScore)
}

func TestGradeNilAnswers(t *testing.T) {
	content := choiceContent(
		ChoiceQuestion{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
	)

	res := Grade(content, nil)
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 0, *res.AutoScore)
}

func TestGradeSectionCForcesManualReview(t *testing.T) {
	content := &Content{
		SectionA: &ChoiceSection{Questions: []ChoiceQuestion{
			{ID: "q1", Options: []string{"a", "b"}, Answer: 0},
		}},
		SectionC: &TextSection{Questions: []TextQuestion{
			{ID: "q5", Question: "Explain XSS"},
		}},
	}
	ans := &Answers{
		SectionA: map[string]int{"q1": 0},
		SectionC: map[string]string{"q5": "..."},
	}

	res := Grade(content, ans)
	assert.True(t, res.NeedsManual)
	// 客观题部分仍然有机评分数
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 100, *res.AutoScore)
}

func TestGradeOnlySectionC(t *testing.T) {
	content := &Content{
		SectionC: &TextSection{Questions: []TextQuestion{{ID: "q1"}}},
	}

	res := Grade(content, &Answers{SectionC: map[string]string{"q1": "answer"}})
	assert.True(t, res.NeedsManual)
	assert.Nil(t, res.AutoScore)
}

// 没有任何题目的内容：满分直接通过
func TestGradeEmptyContentDefaultsToFull(t *testing.T) {
	res := Grade(&Content{}, &Answers{})
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 100, *res.AutoScore)
	assert.False(t, res.NeedsManual)
}

func TestGradeRawMalformedContentFailsSafe(t *testing.T) {
	res := GradeRaw([]byte("{not json"), &Answers{})
	assert.True(t, res.NeedsManual)
	assert.Nil(t, res.AutoScore)
}

func TestGradeRawValidContent(t *testing.T) {
	raw := []byte(`{
		"duration": 30,
		"section_a": {"questions": [{"id": "q1", "options": ["a", "b"], "answer": 1}]},
		"section_b": {"questions": [{"id": "q2", "answer": true}]}
	}`)
	ans := &Answers{
		SectionA: map[string]int{"q1": 1},
		SectionB: map[string]bool{"q2": false},
	}

	res := GradeRaw(raw, ans)
	require.NotNil(t, res.AutoScore)
	assert.Equal(t, 50, *res.AutoScore)
	assert.False(t, res.NeedsManual)
}
