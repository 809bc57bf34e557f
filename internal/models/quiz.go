package models

// Quiz session states.
const (
	QuizConfiguring = "configuring"
	QuizActive      = "active"
	QuizSubmitting  = "submitting"
	QuizScored      = "scored"
	QuizReviewing   = "reviewing"
)

// QuizScope names the question subset a session samples from: a tree path plus
// an optional group label one level below it. An empty scope means all loaded
// questions.
type QuizScope struct {
	Path  []string `json:"path"`
	Group string   `json:"group,omitempty"`
	View  string   `json:"view,omitempty"`
}

// QuizConfig is the user-facing session configuration.
type QuizConfig struct {
	Count            int `json:"count"`
	TimeLimitMinutes int `json:"time_limit_minutes"`
}

// QuizOutcome is the scored result for one sampled question.
type QuizOutcome struct {
	Question       Question `json:"question"`
	SelectedOption int      `json:"selected_option"`
	Answered       bool     `json:"answered"`
	Correct        bool     `json:"correct"`
}

// QuizResult is the final score of a submitted session.
type QuizResult struct {
	Total       int           `json:"total"`
	Correct     int           `json:"correct"`
	AccuracyPct int           `json:"accuracy_pct"`
	Outcomes    []QuizOutcome `json:"outcomes"`
}

// QuizSnapshot is a point-in-time view of a session, safe to render.
type QuizSnapshot struct {
	ID              string      `json:"id"`
	State           string      `json:"state"`
	Candidates      int         `json:"candidates"`
	Total           int         `json:"total"`
	CurrentIndex    int         `json:"current_index"`
	Current         *Question   `json:"current,omitempty"`
	IsLastQuestion  bool        `json:"is_last_question"`
	Answered        int         `json:"answered"`
	TimeRemaining   int         `json:"time_remaining_seconds"`
	Result          *QuizResult `json:"result,omitempty"`
}
