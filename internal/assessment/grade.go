package assessment

import "math"

// Result 自动评分结果。AutoScore 为空表示没有可机评的得分
// （无客观题、或内容解析失败转人工）。
type Result struct {
	AutoScore   *int
	NeedsManual bool
}

// Grade 对照标准答案给客观题打分。section_a 比对选项下标，section_b
// 比对布尔值，缺答计错。含 section_c 题目时无条件标记人工评分。
// 纯函数，不触库。
func Grade(content *Content, ans *Answers) Result {
	if ans == nil {
		ans = &Answers{}
	}

	totalGradable := 0
	correctGradable := 0

	if content.SectionA != nil {
		for _, q := range content.SectionA.Questions {
			totalGradable++
			if v, ok := ans.SectionA[q.ID]; ok && v == q.Answer {
				correctGradable++
			}
		}
	}

	if content.SectionB != nil {
		for _, q := range content.SectionB.Questions {
			totalGradable++
			if v, ok := ans.SectionB[q.ID]; ok && v == q.Answer {
				correctGradable++
			}
		}
	}

	res := Result{}
	if content.SectionC != nil && len(content.SectionC.Questions) > 0 {
		res.NeedsManual = true
	}

	if totalGradable > 0 {
		score := int(math.Round(float64(correctGradable) / float64(totalGradable) * 100))
		res.AutoScore = &score
	} else if !res.NeedsManual {
		// 无客观题也无主观题：视为满分通过
		score := 100
		res.AutoScore = &score
	}

	return res
}

// GradeRaw 从存储的原始 JSON 评分。内容解析失败不向上抛错，
// 降级为人工评分，保住学生的作答。
func GradeRaw(raw []byte, ans *Answers) Result {
	content, err := ParseContent(raw)
	if err != nil {
		return Result{NeedsManual: true}
	}
	return Grade(content, ans)
}
