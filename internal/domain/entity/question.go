package entity

// Question is one benchmark item as shown to the agent.
type Question struct {
	TaskID   string `json:"task_id"`
	Question string `json:"question"`
	FileName string `json:"file_name"`
	Level    int    `json:"level"`
}

func (q Question) HasFile() bool {
	return q.FileName != ""
}

// LabeledQuestion pairs a question with its ground-truth answer.
type LabeledQuestion struct {
	Question    Question
	GroundTruth string
}
