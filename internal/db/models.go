package db

// Render represents a row in the renders table: one drawn diagram
type Render struct {
	ID        string `json:"id"` // UUID
	Title     string `json:"title"`
	CreatedAt int64  `json:"created_at"` // Unix millis
	NodeCount int    `json:"node_count"`
	EdgeCount int    `json:"edge_count"`
}

// Node represents a row in the nodes table: a table and its layout position
type Node struct {
	RenderID string  `json:"render_id"`
	ID       string  `json:"id"`
	Position int     `json:"position"` // declaration order
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Edge represents a row in the edges table: a foreign-key reference
type Edge struct {
	RenderID string `json:"render_id"`
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
	Position int    `json:"position"`
}
