// Copyright crimson206, 2026. All rights reserved.

package index

import (
	"context"
	"fmt"
	"strings"
)

// QueryOptions holds parameters for index queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and outputs.
	Query string

	// NotebookID filters by source notebook.
	NotebookID string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.NotebookID == ""
}

// QueryResult is one indexed entry with its provenance.
type QueryResult struct {
	ID         string `json:"id" yaml:"id"`
	NotebookID string `json:"notebook_id" yaml:"notebook_id"`
	Position   int    `json:"position" yaml:"position"`
	Title      string `json:"title" yaml:"title"`
	Output     string `json:"output" yaml:"output"`
}

// Retrieve queries the index with optional full-text search and a
// notebook filter. Full-text queries rank by relevance; structured-only
// queries sort by notebook and position.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]QueryResult, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT e.id, e.notebook_id, e.position, e.title, e.output
			FROM entries_fts
			JOIN entries e ON e.rowid = entries_fts.rowid
			WHERE entries_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT e.id, e.notebook_id, e.position, e.title, e.output
			FROM entries e
			WHERE 1=1`)
	}

	if opts.NotebookID != "" {
		qb.WriteString(` AND e.notebook_id = ?`)
		args = append(args, opts.NotebookID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY entries_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY e.notebook_id, e.position`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []QueryResult
	for rows.Next() {
		var r QueryResult
		if err := rows.Scan(&r.ID, &r.NotebookID, &r.Position, &r.Title, &r.Output); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating results: %w", err)
	}

	return results, nil
}
