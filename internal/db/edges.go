package db

// scanEdge scans a row into an Edge. The row must have all 4 columns in standard order.
func scanEdge(scanner interface{ Scan(dest ...any) error }) (Edge, error) {
	var e Edge
	err := scanner.Scan(&e.RenderID, &e.SourceID, &e.TargetID, &e.Position)
	return e, err
}

// AllEdges returns the edges of a render in declaration order
func (d *DB) AllEdges(renderID string) ([]Edge, error) {
	rows, err := d.conn.Query(`
		SELECT render_id, source_id, target_id, position
		FROM edges WHERE render_id = ? ORDER BY position
	`, renderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// GetEdgesForNode returns all edges of a render where the node is source OR target.
func (d *DB) GetEdgesForNode(renderID, nodeID string) ([]Edge, error) {
	rows, err := d.conn.Query(`
		SELECT render_id, source_id, target_id, position
		FROM edges WHERE render_id = ? AND (source_id = ? OR target_id = ?)
		ORDER BY position
	`, renderID, nodeID, nodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		e, err := scanEdge(rows)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
