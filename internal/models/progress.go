package models

import "time"

// NoSelection marks a progress record written for a question that was never
// answered (quiz auto-submit scores it as incorrect).
const NoSelection = -1

// ProgressRecord is the single durable answer record for a question. A new
// answer overwrites the prior one; no history is retained.
type ProgressRecord struct {
	FileID         string    `json:"file_id"`
	QuestionID     string    `json:"question_id"`
	Correct        bool      `json:"correct"`
	SelectedOption int       `json:"selected_option"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (p ProgressRecord) Key() QuestionKey {
	return QuestionKey{FileID: p.FileID, QuestionID: p.QuestionID}
}

// FavoriteRecord marks a question as favorited; presence is the flag.
type FavoriteRecord struct {
	FileID     string    `json:"file_id"`
	QuestionID string    `json:"question_id"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f FavoriteRecord) Key() QuestionKey {
	return QuestionKey{FileID: f.FileID, QuestionID: f.QuestionID}
}

// ProgressFilter narrows progress listings.
type ProgressFilter struct {
	FileID      string
	CorrectOnly bool
	WrongOnly   bool
	Limit       int
	Offset      int
}
