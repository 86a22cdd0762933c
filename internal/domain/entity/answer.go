package entity

type AnswerRecord struct {
	TaskID      string `json:"task_id"`
	Question    string `json:"question"`
	AgentAnswer string `json:"agent_answer"`
	GroundTruth string `json:"ground_truth"`
	IsCorrect   bool   `json:"is_correct"`
	Error       string `json:"error,omitempty"`
}

type RunSummary struct {
	RunID    string  `json:"run_id"`
	Total    int     `json:"total"`
	Answered int     `json:"answered"`
	Correct  int     `json:"correct"`
	Errored  int     `json:"errored"`
	Accuracy float64 `json:"accuracy"`
}

// Add folds one record into the summary.
func (s *RunSummary) Add(r AnswerRecord, answered bool) {
	s.Total++
	if answered {
		s.Answered++
	}
	if r.Error != "" {
		s.Errored++
	}
	if r.IsCorrect {
		s.Correct++
	}
	s.Accuracy = float64(s.Correct) / float64(s.Total)
}
