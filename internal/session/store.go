// Package session provides PostgreSQL persistence for practice sessions,
// per-answer feedback, and competency progress over time.
package session

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/interview-coach/internal/types"
)

//go:embed schema.sql
var schemaSQL string

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate applies the embedded schema. All statements are idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Session is one practice session record.
type Session struct {
	ID       uuid.UUID      `json:"id"`
	JobTitle string         `json:"job_title"`
	Industry types.Industry `json:"industry"`
}

// CreateSession creates a practice session and returns its ID.
func (s *Store) CreateSession(ctx context.Context, jobTitle string, industry types.Industry) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx,
		`INSERT INTO practice_sessions (job_title, industry)
		 VALUES ($1, $2)
		 RETURNING id`,
		jobTitle, string(industry),
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create session: %w", err)
	}
	return id, nil
}

// GetSession retrieves a session by ID, or nil when it does not exist.
func (s *Store) GetSession(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	var session Session
	err := s.pool.QueryRow(ctx,
		`SELECT id, job_title, industry FROM practice_sessions WHERE id = $1`,
		sessionID,
	).Scan(&session.ID, &session.JobTitle, &session.Industry)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &session, nil
}

// SaveFeedback stores one answer's complete synthesized feedback plus its
// per-competency scores, replacing any earlier evaluation of the same
// answer in the session.
func (s *Store) SaveFeedback(ctx context.Context, sessionID uuid.UUID, feedback *types.SynthesizedFeedback) error {
	payload, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO answer_feedback (session_id, answer_id, combined_score, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, answer_id)
		 DO UPDATE SET combined_score = $3, payload = $4, failure_code = NULL, created_at = NOW()`,
		sessionID, feedback.AnswerID, feedback.CombinedScore, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save feedback for answer %s: %w", feedback.AnswerID, err)
	}

	_, err = tx.Exec(ctx,
		`DELETE FROM competency_scores WHERE session_id = $1 AND answer_id = $2`,
		sessionID, feedback.AnswerID,
	)
	if err != nil {
		return fmt.Errorf("failed to clear competency scores: %w", err)
	}

	for _, score := range feedback.Content.CompetencyScores {
		_, err = tx.Exec(ctx,
			`INSERT INTO competency_scores (session_id, answer_id, competency, score)
			 VALUES ($1, $2, $3, $4)`,
			sessionID, feedback.AnswerID, string(score.Competency), score.Score,
		)
		if err != nil {
			return fmt.Errorf("failed to save competency score %s: %w", score.Competency, err)
		}
	}

	return tx.Commit(ctx)
}

// SavePartial records an answer whose evaluation only produced a
// single-dimension report, keyed by the branch failure code.
func (s *Store) SavePartial(ctx context.Context, sessionID uuid.UUID, answerID, failureCode string, surviving any) error {
	payload, err := json.Marshal(surviving)
	if err != nil {
		return fmt.Errorf("failed to marshal partial report: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO answer_feedback (session_id, answer_id, failure_code, payload)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id, answer_id)
		 DO UPDATE SET combined_score = NULL, failure_code = $3, payload = $4, created_at = NOW()`,
		sessionID, answerID, failureCode, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save partial result for answer %s: %w", answerID, err)
	}
	return nil
}

// StoredFeedback is one persisted answer evaluation.
type StoredFeedback struct {
	AnswerID      string          `json:"answer_id"`
	CombinedScore *float64        `json:"combined_score,omitempty"`
	FailureCode   *string         `json:"failure_code,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

// ListFeedback returns a session's stored evaluations, oldest first.
func (s *Store) ListFeedback(ctx context.Context, sessionID uuid.UUID) ([]StoredFeedback, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT answer_id, combined_score, failure_code, payload
		 FROM answer_feedback WHERE session_id = $1 ORDER BY created_at ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback: %w", err)
	}
	defer rows.Close()

	var feedback []StoredFeedback
	for rows.Next() {
		var f StoredFeedback
		if err := rows.Scan(&f.AnswerID, &f.CombinedScore, &f.FailureCode, &f.Payload); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		feedback = append(feedback, f)
	}
	return feedback, rows.Err()
}

// CompetencyProgress aggregates one competency's scores across a session.
type CompetencyProgress struct {
	Competency   types.CompetencyTag `json:"competency"`
	AverageScore float64             `json:"average_score"`
	Answers      int                 `json:"answers"`
}

// GetProgress returns per-competency averages for a session, in canonical
// competency order. Partial evaluations without a content report do not
// contribute scores.
func (s *Store) GetProgress(ctx context.Context, sessionID uuid.UUID) ([]CompetencyProgress, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT competency, AVG(score), COUNT(*)
		 FROM competency_scores WHERE session_id = $1
		 GROUP BY competency`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate progress: %w", err)
	}
	defer rows.Close()

	byCompetency := make(map[types.CompetencyTag]CompetencyProgress)
	for rows.Next() {
		var p CompetencyProgress
		if err := rows.Scan(&p.Competency, &p.AverageScore, &p.Answers); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		byCompetency[p.Competency] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var progress []CompetencyProgress
	for _, tag := range types.CoreCompetencies {
		if p, ok := byCompetency[tag]; ok {
			progress = append(progress, p)
		}
	}
	return progress, nil
}
