package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// DefaultGenerationLimit caps ListGenerations when no limit is given.
const DefaultGenerationLimit = 20

// SaveGeneration stores the audit record of a successful generation.
func (db *DB) SaveGeneration(ctx context.Context, record *types.GenerationRecord) error {
	original, err := json.Marshal(record.OriginalData)
	if err != nil {
		return fmt.Errorf("failed to marshal original data: %w", err)
	}
	generated, err := json.Marshal(record.GeneratedContent)
	if err != nil {
		return fmt.Errorf("failed to marshal generated content: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_generations (id, user_id, original_data, job_description, generated_content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		record.ID, record.UserID, original, record.JobDescription, generated, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save generation: %w", err)
	}
	return nil
}

// ListGenerations returns the user's generations, newest first.
func (db *DB) ListGenerations(ctx context.Context, userID uuid.UUID, limit int) ([]types.GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultGenerationLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, original_data, job_description, generated_content, created_at
		 FROM resume_generations WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	defer rows.Close()

	records := []types.GenerationRecord{}
	for rows.Next() {
		var r types.GenerationRecord
		var original, generated []byte
		if err := rows.Scan(&r.ID, &r.UserID, &original, &r.JobDescription, &generated, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan generation: %w", err)
		}
		if err := json.Unmarshal(original, &r.OriginalData); err != nil {
			return nil, fmt.Errorf("failed to decode generation %s: %w", r.ID, err)
		}
		if err := json.Unmarshal(generated, &r.GeneratedContent); err != nil {
			return nil, fmt.Errorf("failed to decode generation %s: %w", r.ID, err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list generations: %w", err)
	}
	return records, nil
}
