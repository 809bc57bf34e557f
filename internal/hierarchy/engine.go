package hierarchy

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/medoo24/quizbank/internal/bank"
	"github.com/medoo24/quizbank/internal/logger"
	"github.com/medoo24/quizbank/internal/models"
)

// node is one aggregation-tree node. Chapters hold arena indices; branches
// hold named children in first-seen order.
type node struct {
	level     Level
	name      string
	children  map[string]*node
	order     []string
	questions []int
	stats     models.Stats
}

func newNode(level Level, name string) *node {
	return &node{
		level:    level,
		name:     name,
		children: map[string]*node{},
	}
}

func (n *node) child(level Level, name string) *node {
	c, ok := n.children[name]
	if !ok {
		c = newNode(level, name)
		n.children[name] = c
		n.order = append(n.order, name)
	}
	return c
}

// SkippedFile records a per-file ingestion failure.
type SkippedFile struct {
	Filename string `json:"filename"`
	Err      error  `json:"-"`
	Reason   string `json:"reason"`
}

// IngestResult summarizes one ingestion pass.
type IngestResult struct {
	Ticket     uint64        `json:"-"`
	Files      int           `json:"files"`
	Loaded     int           `json:"loaded"`
	Skipped    []SkippedFile `json:"skipped,omitempty"`
	Superseded bool          `json:"superseded,omitempty"`
}

// Engine owns the flat question arena and the taxonomy tree built over it.
// The arena is the single owned store: tree nodes reference questions by
// index, so a status or favorite update mutates exactly one record.
type Engine struct {
	mu        sync.RWMutex
	root      *node
	arena     []models.Question
	index     map[models.QuestionKey]int
	favorites map[models.QuestionKey]struct{}

	tickets   atomic.Uint64
	committed uint64
}

// New creates an empty engine.
func New() *Engine {
	return &Engine{
		root:      newNode(-1, ""),
		index:     map[models.QuestionKey]int{},
		favorites: map[models.QuestionKey]struct{}{},
	}
}

// BeginIngest reserves an ingestion ticket. Tickets order concurrent
// ingestions: a commit with a ticket older than the last committed one is
// discarded, so a newer reload always wins.
func (e *Engine) BeginIngest() uint64 {
	return e.tickets.Add(1)
}

// Ingest rebuilds the arena and tree from the given file sets and snapshots.
// Each file's payload must be a question array or a {questions: [...]}
// wrapper; files failing that shape check are skipped and reported, and
// ingestion proceeds with the rest. Derived solved/correct/favorite fields are
// recomputed from the snapshots, never merged.
func (e *Engine) Ingest(ctx context.Context, ticket uint64, files []bank.FileSet,
	progress map[models.QuestionKey]models.ProgressRecord,
	favorites map[models.QuestionKey]struct{}) IngestResult {

	log := logger.FromContext(ctx).WithPrefix("hierarchy")
	result := IngestResult{Ticket: ticket, Files: len(files)}

	root := newNode(-1, "")
	var arena []models.Question
	index := map[models.QuestionKey]int{}
	favSet := map[models.QuestionKey]struct{}{}

	for _, f := range files {
		questions, err := bank.ParseFile(ctx, f.Filename, f.Raw)
		if err != nil {
			log.Warn("skipping file %s: %v", f.Filename, err)
			result.Skipped = append(result.Skipped, SkippedFile{
				Filename: f.Filename,
				Err:      err,
				Reason:   err.Error(),
			})
			continue
		}

		for _, q := range questions {
			ApplyDefaults(&q)
			key := q.Key()
			if _, dup := index[key]; dup {
				log.Warn("duplicate question id %s in %s, keeping first", q.ID, q.FileID)
				continue
			}
			if rec, ok := progress[key]; ok {
				q.Solved = true
				q.Correct = rec.Correct
			}
			if _, ok := favorites[key]; ok {
				q.Favorite = true
				favSet[key] = struct{}{}
			}

			idx := len(arena)
			arena = append(arena, q)
			index[key] = idx

			cur := root
			for _, level := range Levels {
				cur = cur.child(level, level.Value(q))
			}
			cur.questions = append(cur.questions, idx)
		}
	}

	recomputeStats(root, arena)
	result.Loaded = len(arena)

	e.mu.Lock()
	defer e.mu.Unlock()
	if ticket <= e.committed {
		log.Info("ingestion ticket %d superseded by %d, discarding result", ticket, e.committed)
		result.Superseded = true
		return result
	}
	e.root = root
	e.arena = arena
	e.index = index
	e.favorites = favSet
	e.committed = ticket

	log.Info("ingested %d questions from %d files (%d skipped)",
		result.Loaded, result.Files, len(result.Skipped))
	return result
}

// recomputeStats walks the tree post-order and rebuilds every node's roll-up.
// A chapter's stats are counts over its question list; a branch's stats are
// the element-wise sum of its children's.
func recomputeStats(n *node, arena []models.Question) models.Stats {
	stats := models.Stats{}
	if n.level == LevelChapter {
		for _, idx := range n.questions {
			q := arena[idx]
			stats.Total++
			if q.Solved {
				stats.Solved++
			}
			if q.Solved && q.Correct {
				stats.Correct++
			}
		}
		n.stats = stats
		return stats
	}
	for _, name := range n.order {
		stats = stats.Add(recomputeStats(n.children[name], arena))
	}
	n.stats = stats
	return stats
}

// Query returns the questions under the given taxonomy path. An empty path
// returns the full flat index; a path missing at any level returns an empty
// slice. Branch results concatenate descendant chapters in traversal order,
// which is stable for a fixed tree state.
func (e *Engine) Query(path []string) []models.Question {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if len(path) == 0 {
		out := make([]models.Question, len(e.arena))
		copy(out, e.arena)
		return out
	}

	cur := e.root
	for _, key := range path {
		next, ok := cur.children[key]
		if !ok {
			return []models.Question{}
		}
		cur = next
	}

	var indices []int
	collect(cur, &indices)
	out := make([]models.Question, 0, len(indices))
	for _, idx := range indices {
		out = append(out, e.arena[idx])
	}
	return out
}

func collect(n *node, indices *[]int) {
	if n.level == LevelChapter {
		*indices = append(*indices, n.questions...)
		return
	}
	for _, name := range n.order {
		collect(n.children[name], indices)
	}
}

// Get returns the question for a key, if loaded.
func (e *Engine) Get(key models.QuestionKey) (models.Question, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.index[key]
	if !ok {
		return models.Question{}, false
	}
	return e.arena[idx], true
}

// UpdateStatus marks a question solved with the given correctness and
// recomputes the roll-up stats. Unknown keys are a silent no-op: a stale UI
// event referencing an unloaded question is expected during async flows.
func (e *Engine) UpdateStatus(key models.QuestionKey, correct bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.index[key]
	if !ok {
		return
	}
	e.arena[idx].Solved = true
	e.arena[idx].Correct = correct
	recomputeStats(e.root, e.arena)
}

// ToggleFavorite flips a question's favorite flag and mirrors it into the
// in-memory favorite set. Returns the new state and whether the key was
// found. Favorites never affect stats, so no recompute happens.
func (e *Engine) ToggleFavorite(key models.QuestionKey) (bool, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.index[key]
	if !ok {
		return false, false
	}
	e.arena[idx].Favorite = !e.arena[idx].Favorite
	if e.arena[idx].Favorite {
		e.favorites[key] = struct{}{}
	} else {
		delete(e.favorites, key)
	}
	return e.arena[idx].Favorite, true
}

// IsFavorite reports whether the key is in the favorite set.
func (e *Engine) IsFavorite(key models.QuestionKey) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.favorites[key]
	return ok
}

// Count returns the number of loaded questions.
func (e *Engine) Count() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.arena)
}

// FavoriteCount returns the number of favorited loaded questions.
func (e *Engine) FavoriteCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.favorites)
}

// TermCount returns the number of top-level terms.
func (e *Engine) TermCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.root.order)
}

// Stats returns the whole-tree roll-up.
func (e *Engine) Stats() models.Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.root.stats
}

// Tree returns a rendering snapshot of the aggregation tree. Chapter nodes
// carry their questions; branches carry ordered children.
func (e *Engine) Tree() []models.TreeNode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]models.TreeNode, 0, len(e.root.order))
	for _, name := range e.root.order {
		out = append(out, e.snapshot(e.root.children[name]))
	}
	return out
}

func (e *Engine) snapshot(n *node) models.TreeNode {
	tn := models.TreeNode{
		Type:  n.level.String(),
		Name:  n.name,
		Stats: n.stats,
	}
	if n.level == LevelChapter {
		tn.Questions = make([]models.Question, 0, len(n.questions))
		for _, idx := range n.questions {
			tn.Questions = append(tn.Questions, e.arena[idx])
		}
		return tn
	}
	tn.Children = make([]models.TreeNode, 0, len(n.order))
	for _, name := range n.order {
		tn.Children = append(tn.Children, e.snapshot(n.children[name]))
	}
	return tn
}
