package db

// scanNode scans a row into a Node. The row must have all 5 columns in standard order.
func scanNode(scanner interface{ Scan(dest ...any) error }) (Node, error) {
	var n Node
	err := scanner.Scan(&n.RenderID, &n.ID, &n.Position, &n.X, &n.Y)
	return n, err
}

// AllNodes returns the nodes of a render in declaration order
func (d *DB) AllNodes(renderID string) ([]Node, error) {
	rows, err := d.conn.Query(`
		SELECT render_id, id, position, x, y
		FROM nodes WHERE render_id = ? ORDER BY position
	`, renderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		n, err := scanNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// GetNode returns a single node of a render, or an error if not found
func (d *DB) GetNode(renderID, id string) (*Node, error) {
	row := d.conn.QueryRow(`
		SELECT render_id, id, position, x, y
		FROM nodes WHERE render_id = ? AND id = ?
	`, renderID, id)

	n, err := scanNode(row)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
