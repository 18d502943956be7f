package assessment

import (
	"encoding/json"
	"errors"
	"fmt"
)

// 测验内容的线上格式（Unit.content）：
//
//	{
//	  "duration": 30,
//	  "section_a": {"questions": [{"id": "q1", "question": "...", "options": [...], "answer": 0}]},
//	  "section_b": {"questions": [{"id": "q3", "question": "...", "answer": true}]},
//	  "section_c": {"questions": [{"id": "q5", "question": "..."}]}
//	}
//
// section_a 为单选题（answer 为选项下标），section_b 为判断题，
// section_c 为简答题（无标准答案，进入人工评分）。

type ChoiceQuestion struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

type BoolQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   bool   `json:"answer"`
}

type TextQuestion struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

type ChoiceSection struct {
	Questions []ChoiceQuestion `json:"questions"`
}

type BoolSection struct {
	Questions []BoolQuestion `json:"questions"`
}

type TextSection struct {
	Questions []TextQuestion `json:"questions"`
}

type Content struct {
	// Duration 限时（分钟），0 表示不限时
	Duration int            `json:"duration,omitempty"`
	SectionA *ChoiceSection `json:"section_a,omitempty"`
	SectionB *BoolSection   `json:"section_b,omitempty"`
	SectionC *TextSection   `json:"section_c,omitempty"`
}

// Answers 学生作答，按 section 分组，键为题目 id
type Answers struct {
	SectionA map[string]int    `json:"section_a"`
	SectionB map[string]bool   `json:"section_b"`
	SectionC map[string]string `json:"section_c"`
}

func ParseContent(raw []byte) (*Content, error) {
	var c Content
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func ParseAnswers(raw []byte) (*Answers, error) {
	var a Answers
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Validate 在录入时校验题目结构：各 section 内 id 唯一、三个 section 的
// 并集非空、单选题答案下标在选项范围内。评分路径不调用该函数，解析失败
// 在那里降级为人工评分而不是报错。
func (c *Content) Validate() error {
	total := 0
	seen := make(map[string]bool)

	if c.SectionA != nil {
		for _, q := range c.SectionA.Questions {
			if q.ID == "" {
				return errors.New("section_a: question id is required")
			}
			if seen["a:"+q.ID] {
				return fmt.Errorf("section_a: duplicate question id %q", q.ID)
			}
			seen["a:"+q.ID] = true
			if len(q.Options) == 0 {
				return fmt.Errorf("section_a: question %q has no options", q.ID)
			}
			if q.Answer < 0 || q.Answer >= len(q.Options) {
				return fmt.Errorf("section_a: question %q answer index out of range", q.ID)
			}
			total++
		}
	}

	if c.SectionB != nil {
		for _, q := range c.SectionB.Questions {
			if q.ID == "" {
				return errors.New("section_b: question id is required")
			}
			if seen["b:"+q.ID] {
				return fmt.Errorf("section_b: duplicate question id %q", q.ID)
			}
			seen["b:"+q.ID] = true
			total++
		}
	}

	if c.SectionC != nil {
		for _, q := range c.SectionC.Questions {
			if q.ID == "" {
				return errors.New("section_c: question id is required")
			}
			if seen["c:"+q.ID] {
				return fmt.Errorf("section_c: duplicate question id %q", q.ID)
			}
			seen["c:"+q.ID] = true
			total++
		}
	}

	if total == 0 {
		return errors.New("assessment must contain at least one question")
	}
	return nil
}
