package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// SaveJobDescription stores an uploaded job description and fills in its id
// and creation time.
func (db *DB) SaveJobDescription(ctx context.Context, jd *types.JobDescription) error {
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (user_id, content, source_url, keywords, requirements)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		jd.UserID, jd.Content, jd.SourceURL, StringArray(jd.Keywords), StringArray(jd.Requirements),
	).Scan(&jd.ID, &jd.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save job description: %w", err)
	}
	return nil
}

// ListJobDescriptions returns the user's job descriptions, newest first.
func (db *DB) ListJobDescriptions(ctx context.Context, userID uuid.UUID) ([]types.JobDescription, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, content, source_url, keywords, requirements, created_at
		 FROM job_descriptions WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	defer rows.Close()

	out := []types.JobDescription{}
	for rows.Next() {
		var jd types.JobDescription
		var keywords, requirements StringArray
		if err := rows.Scan(&jd.ID, &jd.UserID, &jd.Content, &jd.SourceURL, &keywords, &requirements, &jd.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job description: %w", err)
		}
		jd.Keywords, jd.Requirements = keywords, requirements
		out = append(out, jd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list job descriptions: %w", err)
	}
	return out, nil
}
