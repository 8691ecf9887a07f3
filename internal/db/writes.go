package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Diagram is everything needed to store one render.
type Diagram struct {
	Title string
	Nodes []Node // RenderID and Position are assigned on write
	Edges []Edge
}

// WriteDiagram stores a diagram under a fresh render ID in a single
// transaction and returns the render row.
func (d *DB) WriteDiagram(ctx context.Context, diagram Diagram) (*Render, error) {
	r := &Render{
		ID:        uuid.NewString(),
		Title:     diagram.Title,
		CreatedAt: time.Now().UnixMilli(),
		NodeCount: len(diagram.Nodes),
		EdgeCount: len(diagram.Edges),
	}

	tx, err := d.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO renders (id, title, created_at, node_count, edge_count) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Title, r.CreatedAt, r.NodeCount, r.EdgeCount,
	); err != nil {
		return nil, fmt.Errorf("inserting render: %w", err)
	}

	nodeStmt, err := tx.PrepareContext(ctx, `INSERT INTO nodes (render_id, id, position, x, y) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing node insert: %w", err)
	}
	defer nodeStmt.Close()
	for i, n := range diagram.Nodes {
		if _, err := nodeStmt.ExecContext(ctx, r.ID, n.ID, i, n.X, n.Y); err != nil {
			return nil, fmt.Errorf("inserting node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `INSERT INTO edges (render_id, source_id, target_id, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return nil, fmt.Errorf("preparing edge insert: %w", err)
	}
	defer edgeStmt.Close()
	for i, e := range diagram.Edges {
		if _, err := edgeStmt.ExecContext(ctx, r.ID, e.SourceID, e.TargetID, i); err != nil {
			return nil, fmt.Errorf("inserting edge %s -> %s: %w", e.SourceID, e.TargetID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing diagram: %w", err)
	}
	return r, nil
}

// Renders returns all stored renders, newest first
func (d *DB) Renders() ([]Render, error) {
	rows, err := d.conn.Query(`
		SELECT id, title, created_at, node_count, edge_count
		FROM renders ORDER BY created_at DESC, rowid DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var renders []Render
	for rows.Next() {
		var r Render
		if err := rows.Scan(&r.ID, &r.Title, &r.CreatedAt, &r.NodeCount, &r.EdgeCount); err != nil {
			return nil, err
		}
		renders = append(renders, r)
	}
	return renders, rows.Err()
}

// LatestRender returns the most recent render, or nil if the artifact is empty
func (d *DB) LatestRender() (*Render, error) {
	var r Render
	err := d.conn.QueryRow(`
		SELECT id, title, created_at, node_count, edge_count
		FROM renders ORDER BY created_at DESC, rowid DESC LIMIT 1
	`).Scan(&r.ID, &r.Title, &r.CreatedAt, &r.NodeCount, &r.EdgeCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
