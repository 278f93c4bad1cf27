package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fwojciec/ndpa"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ ndpa.ScoreService = (*ScoreService)(nil)

// ScoreService implements ndpa.ScoreService using SQLite.
type ScoreService struct {
	db *DB
}

// NewScoreService creates a new ScoreService.
func NewScoreService(db *DB) *ScoreService {
	return &ScoreService{db: db}
}

// CreateScore stores a new score with a generated ID and timestamp.
func (s *ScoreService) CreateScore(ctx context.Context, score *ndpa.Score) error {
	if err := score.Validate(); err != nil {
		return err
	}

	score.ID = uuid.New().String()
	score.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO scores (id, run_id, scorer_id, agent_id, document_checksum, input, output, value, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, score.ID, score.RunID, score.ScorerID, score.AgentID, score.DocumentChecksum,
		score.Input, score.Output, score.Value, score.Reason, score.CreatedAt.Format(timestampFormat))

	return err
}

// FindScores retrieves scores matching the filter, newest first.
func (s *ScoreService) FindScores(ctx context.Context, filter ndpa.ScoreFilter) ([]*ndpa.Score, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, run_id, scorer_id, agent_id, document_checksum, input, output, value, reason, created_at FROM scores WHERE 1=1")

	if filter.ScorerID != nil {
		query.WriteString(" AND scorer_id = ?")
		args = append(args, *filter.ScorerID)
	}
	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scores []*ndpa.Score
	for rows.Next() {
		var score ndpa.Score
		var createdAt string

		if err := rows.Scan(&score.ID, &score.RunID, &score.ScorerID, &score.AgentID, &score.DocumentChecksum,
			&score.Input, &score.Output, &score.Value, &score.Reason, &createdAt); err != nil {
			return nil, err
		}

		if score.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
			return nil, err
		}

		scores = append(scores, &score)
	}

	return scores, rows.Err()
}
