package models

// Stats is the per-node roll-up of question counts. A branch node's stats are
// always the element-wise sum of its children's stats.
type Stats struct {
	Total   int `json:"total"`
	Solved  int `json:"solved"`
	Correct int `json:"correct"`
}

// Add returns the element-wise sum of two stats.
func (s Stats) Add(other Stats) Stats {
	return Stats{
		Total:   s.Total + other.Total,
		Solved:  s.Solved + other.Solved,
		Correct: s.Correct + other.Correct,
	}
}

// TreeNode is a rendering snapshot of one aggregation-tree node. Children are
// ordered first-seen, matching ingestion order.
type TreeNode struct {
	Type      string     `json:"type"` // term, subject, lesson, chapter
	Name      string     `json:"name"`
	Stats     Stats      `json:"stats"`
	Children  []TreeNode `json:"children,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// Dashboard summarizes the loaded question set for the overview surface.
type Dashboard struct {
	Files     int   `json:"files"`
	Stats     Stats `json:"stats"`
	Favorites int   `json:"favorites"`
	Terms     int   `json:"terms"`
}
