package hierarchy_test

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medoo24/quizbank/internal/bank"
	"github.com/medoo24/quizbank/internal/hierarchy"
	"github.com/medoo24/quizbank/internal/models"
)

type rawQ struct {
	ID            string   `json:"id"`
	Term          string   `json:"term,omitempty"`
	Subject       string   `json:"subject,omitempty"`
	Lesson        string   `json:"lesson,omitempty"`
	Chapter       string   `json:"chapter,omitempty"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correct_option_id"`
}

func fileOf(t *testing.T, filename string, qs ...rawQ) bank.FileSet {
	t.Helper()
	raw, err := json.Marshal(qs)
	require.NoError(t, err)
	return bank.FileSet{Filename: filename, Raw: raw}
}

func questionOf(id, term, subject, lesson, chapter string) rawQ {
	return rawQ{
		ID:       id,
		Term:     term,
		Subject:  subject,
		Lesson:   lesson,
		Chapter:  chapter,
		Question: "text of " + id,
		Options:  []string{"a", "b", "c"},
	}
}

func ingest(t *testing.T, e *hierarchy.Engine, files []bank.FileSet,
	progress map[models.QuestionKey]models.ProgressRecord,
	favorites map[models.QuestionKey]struct{}) hierarchy.IngestResult {
	t.Helper()
	return e.Ingest(context.Background(), e.BeginIngest(), files, progress, favorites)
}

func TestIngest_BuildsTreeWithDefaults(t *testing.T) {
	e := hierarchy.New()
	files := []bank.FileSet{
		fileOf(t, "f1.json",
			questionOf("1", "2024-1", "Anatomy", "Limbs", "Shoulder"),
			questionOf("2", "2024-1", "Anatomy", "Limbs", "Elbow"),
			questionOf("3", "", "", "", ""),
		),
	}

	result := ingest(t, e, files, nil, nil)
	require.False(t, result.Superseded)
	assert.Equal(t, 3, result.Loaded)
	assert.Empty(t, result.Skipped)
	assert.Equal(t, 3, e.Count())

	q, ok := e.Get(models.QuestionKey{FileID: "f1.json", QuestionID: "3"})
	require.True(t, ok)
	assert.Equal(t, models.DefaultTerm, q.Term)
	assert.Equal(t, models.DefaultSubject, q.Subject)
	assert.Equal(t, models.DefaultLesson, q.Lesson)
	assert.Equal(t, models.DefaultChapter, q.Chapter)

	tree := e.Tree()
	require.Len(t, tree, 2)
	assert.Equal(t, "2024-1", tree[0].Name, "terms appear in first-seen order")
	assert.Equal(t, models.DefaultTerm, tree[1].Name)
}

func TestIngest_SkipsMalformedFilesAndKeepsRest(t *testing.T) {
	e := hierarchy.New()
	files := []bank.FileSet{
		fileOf(t, "good.json", questionOf("1", "T", "S", "L", "C")),
		{Filename: "bad.json", Raw: []byte(`"nope"`)},
	}

	result := ingest(t, e, files, nil, nil)
	assert.Equal(t, 1, result.Loaded)
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, "bad.json", result.Skipped[0].Filename)
	assert.Equal(t, 1, e.Count())
}

func TestIngest_DuplicateKeysKeepFirst(t *testing.T) {
	e := hierarchy.New()
	first := questionOf("dup", "T", "S", "L", "C")
	second := questionOf("dup", "T", "S", "L", "C2")
	files := []bank.FileSet{fileOf(t, "f.json", first, second)}

	result := ingest(t, e, files, nil, nil)
	assert.Equal(t, 1, result.Loaded)

	q, ok := e.Get(models.QuestionKey{FileID: "f.json", QuestionID: "dup"})
	require.True(t, ok)
	assert.Equal(t, "C", q.Chapter)
}

func TestIngest_AppliesSnapshots(t *testing.T) {
	e := hierarchy.New()
	files := []bank.FileSet{fileOf(t, "f.json",
		questionOf("1", "T", "S", "L", "C"),
		questionOf("2", "T", "S", "L", "C"),
		questionOf("3", "T", "S", "L", "C"),
	)}

	k1 := models.QuestionKey{FileID: "f.json", QuestionID: "1"}
	k2 := models.QuestionKey{FileID: "f.json", QuestionID: "2"}
	progress := map[models.QuestionKey]models.ProgressRecord{
		k1: {FileID: k1.FileID, QuestionID: k1.QuestionID, Correct: true},
		k2: {FileID: k2.FileID, QuestionID: k2.QuestionID, Correct: false},
	}
	favorites := map[models.QuestionKey]struct{}{k2: {}}

	ingest(t, e, files, progress, favorites)

	stats := e.Stats()
	assert.Equal(t, models.Stats{Total: 3, Solved: 2, Correct: 1}, stats)
	assert.True(t, e.IsFavorite(k2))
	assert.Equal(t, 1, e.FavoriteCount())
}

func TestIngest_SupersededTicketIsDiscarded(t *testing.T) {
	e := hierarchy.New()

	older := e.BeginIngest()
	newer := e.BeginIngest()

	newerFiles := []bank.FileSet{fileOf(t, "new.json", questionOf("1", "T", "S", "L", "C"))}
	olderFiles := []bank.FileSet{fileOf(t, "old.json",
		questionOf("1", "T", "S", "L", "C"),
		questionOf("2", "T", "S", "L", "C"),
	)}

	result := e.Ingest(context.Background(), newer, newerFiles, nil, nil)
	require.False(t, result.Superseded)

	stale := e.Ingest(context.Background(), older, olderFiles, nil, nil)
	assert.True(t, stale.Superseded)

	assert.Equal(t, 1, e.Count(), "stale rebuild must not replace the committed one")
	_, ok := e.Get(models.QuestionKey{FileID: "old.json", QuestionID: "2"})
	assert.False(t, ok)
}

func TestQuery_PathSemantics(t *testing.T) {
	e := hierarchy.New()
	files := []bank.FileSet{fileOf(t, "f.json",
		questionOf("1", "T1", "S1", "L1", "C1"),
		questionOf("2", "T1", "S1", "L1", "C2"),
		questionOf("3", "T1", "S2", "L1", "C1"),
		questionOf("4", "T2", "S1", "L1", "C1"),
	)}
	ingest(t, e, files, nil, nil)

	assert.Len(t, e.Query(nil), 4, "empty path yields everything")
	assert.Len(t, e.Query([]string{"T1"}), 3)
	assert.Len(t, e.Query([]string{"T1", "S1"}), 2)
	assert.Len(t, e.Query([]string{"T1", "S1", "L1", "C2"}), 1)
	assert.Empty(t, e.Query([]string{"T1", "missing"}), "missing key at any level yields empty")
	assert.Empty(t, e.Query([]string{"nope"}))
}

func TestUpdateStatus_RollsUpThroughAncestors(t *testing.T) {
	e := hierarchy.New()
	files := []bank.FileSet{fileOf(t, "f.json",
		questionOf("1", "T", "S", "L", "C"),
		questionOf("2", "T", "S", "L", "C"),
	)}
	ingest(t, e, files, nil, nil)

	key := models.QuestionKey{FileID: "f.json", QuestionID: "1"}
	e.UpdateStatus(key, true)

	assert.Equal(t, models.Stats{Total: 2, Solved: 1, Correct: 1}, e.Stats())

	tree := e.Tree()
	require.Len(t, tree, 1)
	term := tree[0]
	assert.Equal(t, models.Stats{Total: 2, Solved: 1, Correct: 1}, term.Stats)
	chapter := term.Children[0].Children[0].Children[0]
	assert.Equal(t, models.Stats{Total: 2, Solved: 1, Correct: 1}, chapter.Stats)

	// Re-answering wrong flips correctness but stays solved.
	e.UpdateStatus(key, false)
	assert.Equal(t, models.Stats{Total: 2, Solved: 1, Correct: 0}, e.Stats())
}

func TestUpdateStatus_UnknownKeyIsNoOp(t *testing.T) {
	e := hierarchy.New()
	ingest(t, e, []bank.FileSet{fileOf(t, "f.json", questionOf("1", "T", "S", "L", "C"))}, nil, nil)

	e.UpdateStatus(models.QuestionKey{FileID: "ghost.json", QuestionID: "1"}, true)
	assert.Equal(t, models.Stats{Total: 1}, e.Stats())
}

func TestToggleFavorite_DoubleToggleRestoresState(t *testing.T) {
	e := hierarchy.New()
	ingest(t, e, []bank.FileSet{fileOf(t, "f.json", questionOf("1", "T", "S", "L", "C"))}, nil, nil)

	key := models.QuestionKey{FileID: "f.json", QuestionID: "1"}

	on, found := e.ToggleFavorite(key)
	require.True(t, found)
	assert.True(t, on)
	assert.True(t, e.IsFavorite(key))

	off, found := e.ToggleFavorite(key)
	require.True(t, found)
	assert.False(t, off)
	assert.False(t, e.IsFavorite(key))

	_, found = e.ToggleFavorite(models.QuestionKey{FileID: "nope", QuestionID: "1"})
	assert.False(t, found)
}

// Node totals must always equal the sum of their children's, and solved and
// correct counters can never exceed total. Checked over randomized taxonomies
// and status updates.
func TestTreeInvariants_RandomizedTaxonomies(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 20; trial++ {
		e := hierarchy.New()

		var qs []rawQ
		n := 5 + rng.Intn(40)
		for i := 0; i < n; i++ {
			qs = append(qs, questionOf(
				fmt.Sprintf("q%d", i),
				fmt.Sprintf("T%d", rng.Intn(3)),
				fmt.Sprintf("S%d", rng.Intn(3)),
				fmt.Sprintf("L%d", rng.Intn(2)),
				fmt.Sprintf("C%d", rng.Intn(4)),
			))
		}
		ingest(t, e, []bank.FileSet{fileOf(t, "r.json", qs...)}, nil, nil)

		for i := 0; i < n/2; i++ {
			key := models.QuestionKey{FileID: "r.json", QuestionID: fmt.Sprintf("q%d", rng.Intn(n))}
			e.UpdateStatus(key, rng.Intn(2) == 0)
		}

		total := models.Stats{}
		for _, term := range e.Tree() {
			checkNode(t, term)
			total = total.Add(term.Stats)
		}
		assert.Equal(t, e.Stats(), total)
		assert.Equal(t, n, total.Total)
	}
}

func checkNode(t *testing.T, n models.TreeNode) {
	t.Helper()
	assert.LessOrEqual(t, n.Stats.Solved, n.Stats.Total)
	assert.LessOrEqual(t, n.Stats.Correct, n.Stats.Solved)

	if len(n.Children) == 0 {
		counted := models.Stats{}
		for _, q := range n.Questions {
			counted.Total++
			if q.Solved {
				counted.Solved++
			}
			if q.Solved && q.Correct {
				counted.Correct++
			}
		}
		assert.Equal(t, counted, n.Stats, "chapter stats must match its questions")
		return
	}

	sum := models.Stats{}
	for _, c := range n.Children {
		checkNode(t, c)
		sum = sum.Add(c.Stats)
	}
	assert.Equal(t, sum, n.Stats, "branch stats must equal the sum of children")
}

func TestReingest_RoundTripsDerivedState(t *testing.T) {
	e := hierarchy.New()
	var qs []rawQ
	for i := 0; i < 10; i++ {
		qs = append(qs, questionOf(fmt.Sprintf("q%d", i), "T", "S", "L", "C"))
	}
	files := []bank.FileSet{fileOf(t, "f.json", qs...)}
	ingest(t, e, files, nil, nil)

	// Solve six, four of them correctly.
	progress := map[models.QuestionKey]models.ProgressRecord{}
	for i := 0; i < 6; i++ {
		key := models.QuestionKey{FileID: "f.json", QuestionID: fmt.Sprintf("q%d", i)}
		correct := i < 4
		e.UpdateStatus(key, correct)
		progress[key] = models.ProgressRecord{FileID: key.FileID, QuestionID: key.QuestionID, Correct: correct}
	}
	require.Equal(t, models.Stats{Total: 10, Solved: 6, Correct: 4}, e.Stats())

	// A fresh ingest from the same snapshots reproduces the same roll-up.
	ingest(t, e, files, progress, nil)
	assert.Equal(t, models.Stats{Total: 10, Solved: 6, Correct: 4}, e.Stats())
}
