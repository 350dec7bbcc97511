package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/resume-builder/internal/types"
)

// Saved resumes are always addressed by (user, id); a row owned by someone
// else behaves exactly like a missing one.

// ListResumes returns the user's resumes, most recently updated first.
func (db *DB) ListResumes(ctx context.Context, userID uuid.UUID) ([]types.ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, created_at, updated_at
		 FROM resumes WHERE user_id = $1
		 ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	summaries := []types.ResumeSummary{}
	for rows.Next() {
		var s types.ResumeSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	return summaries, nil
}

// CreateResume stores a new resume for the user.
func (db *DB) CreateResume(ctx context.Context, userID uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	saved := types.SavedResume{UserID: userID, Title: title, Data: data}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id, title, data)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		userID, title, payload,
	).Scan(&saved.ID, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create resume: %w", err)
	}
	return &saved, nil
}

// GetResume returns the resume, or nil when the user has no such resume.
func (db *DB) GetResume(ctx context.Context, userID, id uuid.UUID) (*types.SavedResume, error) {
	var saved types.SavedResume
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, title, data, created_at, updated_at
		 FROM resumes WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&saved.ID, &saved.UserID, &saved.Title, &payload, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	if err := json.Unmarshal(payload, &saved.Data); err != nil {
		return nil, fmt.Errorf("failed to decode resume %s: %w", id, err)
	}
	return &saved, nil
}

// UpdateResume replaces the title and data. It returns nil when the user has
// no such resume.
func (db *DB) UpdateResume(ctx context.Context, userID, id uuid.UUID, title string, data types.ResumeDraft) (*types.SavedResume, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume: %w", err)
	}

	saved := types.SavedResume{ID: id, UserID: userID, Title: title, Data: data}
	err = db.pool.QueryRow(ctx,
		`UPDATE resumes SET title = $1, data = $2, updated_at = NOW()
		 WHERE id = $3 AND user_id = $4
		 RETURNING created_at, updated_at`,
		title, payload, id, userID,
	).Scan(&saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update resume: %w", err)
	}
	return &saved, nil
}

// DeleteResume removes the resume and reports whether it existed.
func (db *DB) DeleteResume(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM resumes WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete resume: %w", err)
	}
	return result.RowsAffected() > 0, nil
}
