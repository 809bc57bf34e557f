package hierarchy

import "github.com/medoo24/quizbank/internal/models"

// Level is one of the four fixed taxonomy levels, ordered root-first.
type Level int

const (
	LevelTerm Level = iota
	LevelSubject
	LevelLesson
	LevelChapter
)

// Levels is the fixed taxonomy, in fold order. Grouping, tree construction,
// and quiz scope resolution all walk this array instead of branching on depth.
var Levels = [4]Level{LevelTerm, LevelSubject, LevelLesson, LevelChapter}

func (l Level) String() string {
	switch l {
	case LevelTerm:
		return "term"
	case LevelSubject:
		return "subject"
	case LevelLesson:
		return "lesson"
	case LevelChapter:
		return "chapter"
	default:
		return "unknown"
	}
}

// Default returns the placeholder label for a missing value at this level.
func (l Level) Default() string {
	if l == LevelTerm {
		return models.DefaultTerm
	}
	return models.DefaultSubject
}

// Value returns the question's label at this level.
func (l Level) Value(q models.Question) string {
	switch l {
	case LevelTerm:
		return q.Term
	case LevelSubject:
		return q.Subject
	case LevelLesson:
		return q.Lesson
	default:
		return q.Chapter
	}
}

// ApplyDefaults fills missing taxonomy fields once, at ingestion. Grouping
// correctness depends on this running before any fold.
func ApplyDefaults(q *models.Question) {
	if q.Term == "" {
		q.Term = models.DefaultTerm
	}
	if q.Subject == "" {
		q.Subject = models.DefaultSubject
	}
	if q.Lesson == "" {
		q.Lesson = models.DefaultLesson
	}
	if q.Chapter == "" {
		q.Chapter = models.DefaultChapter
	}
}
