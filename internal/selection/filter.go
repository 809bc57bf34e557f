package selection

import (
	"strings"

	"github.com/medoo24/quizbank/internal/errors"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/models"
)

// View is a predicate over solved/correct/favorite status.
type View string

const (
	ViewSolve     View = "solve"     // unsolved only
	ViewReview    View = "review"    // everything
	ViewHistory   View = "history"   // solved only
	ViewMistakes  View = "mistakes"  // solved and incorrect
	ViewFavorites View = "favorites" // favorite flag set
)

// ParseView parses a view name; empty defaults to review.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return ViewReview, nil
	case ViewSolve:
		return ViewSolve, nil
	case ViewReview:
		return ViewReview, nil
	case ViewHistory:
		return ViewHistory, nil
	case ViewMistakes:
		return ViewMistakes, nil
	case ViewFavorites:
		return ViewFavorites, nil
	default:
		return "", errors.NewValidationError("view", "must be one of solve, review, history, mistakes, favorites")
	}
}

// Matches applies the view predicate to one question.
func (v View) Matches(q models.Question) bool {
	switch v {
	case ViewSolve:
		return !q.Solved
	case ViewHistory:
		return q.Solved
	case ViewMistakes:
		return q.Solved && !q.Correct
	case ViewFavorites:
		return q.Favorite
	default: // review
		return true
	}
}

// Group is a labeled run of questions, ordered as filtered.
type Group struct {
	Label     string            `json:"label"`
	Questions []models.Question `json:"questions"`
}

// flatLabel is the single group label used when the path already reaches
// below chapter depth.
const flatLabel = "Questions"

// GroupLabel picks the grouping key for a question at the given path depth:
// the taxonomy level one below the current selection, or a single flat group
// once the path is deeper than the taxonomy.
func GroupLabel(q models.Question, depth int) string {
	if depth < 0 {
		depth = 0
	}
	if depth >= len(hierarchy.Levels) {
		return flatLabel
	}
	return hierarchy.Levels[depth].Value(q)
}

// Apply filters candidates by view then free-text search, and groups the
// result by the taxonomy level one below the path depth. Groups appear in
// first-seen order of the filtered sequence; relative question order is
// preserved.
func Apply(candidates []models.Question, depth int, view View, search string) []Group {
	needle := strings.ToLower(strings.TrimSpace(search))

	byLabel := map[string]int{}
	groups := []Group{}
	for _, q := range candidates {
		if !view.Matches(q) {
			continue
		}
		if needle != "" && !matchesSearch(q, needle) {
			continue
		}
		label := GroupLabel(q, depth)
		i, ok := byLabel[label]
		if !ok {
			i = len(groups)
			byLabel[label] = i
			groups = append(groups, Group{Label: label})
		}
		groups[i].Questions = append(groups[i].Questions, q)
	}
	return groups
}

// matchesSearch reports a case-insensitive substring match against the
// question text, its explanation, or any option.
func matchesSearch(q models.Question, needle string) bool {
	if strings.Contains(strings.ToLower(q.Text), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Explanation), needle) {
		return true
	}
	for _, opt := range q.Options {
		if strings.Contains(strings.ToLower(opt), needle) {
			return true
		}
	}
	return false
}
