package models

// Default labels applied to missing taxonomy fields at ingestion time.
const (
	DefaultTerm    = "Uncategorized"
	DefaultSubject = "General"
	DefaultLesson  = "General"
	DefaultChapter = "General"
)

// Question is a multiple-choice question loaded from a question file,
// decorated with its source file and the derived study state.
type Question struct {
	FileID        string   `json:"file_id"`
	ID            string   `json:"id"`
	Term          string   `json:"term"`
	Subject       string   `json:"subject"`
	Lesson        string   `json:"lesson"`
	Chapter       string   `json:"chapter"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option_id"`
	Explanation   string   `json:"explanation,omitempty"`

	// Derived fields, recomputed on every load from the progress and
	// favorite caches. Never merged.
	Solved   bool `json:"solved"`
	Correct  bool `json:"correct"`
	Favorite bool `json:"favorite"`
}

// QuestionKey identifies a question across files. Progress and favorites are
// keyed by (fileId, questionId) so colliding numeric ids in different files
// stay distinct.
type QuestionKey struct {
	FileID     string `json:"file_id"`
	QuestionID string `json:"question_id"`
}

func (q Question) Key() QuestionKey {
	return QuestionKey{FileID: q.FileID, QuestionID: q.ID}
}

func (k QuestionKey) String() string {
	return k.FileID + "/" + k.QuestionID
}
