package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// RubricRepository handles exam configuration (scoring rubric) data access.
// The core only ever reads rubrics; authoring belongs to admin tooling.
type RubricRepository struct {
	pool *pgxpool.Pool
}

// NewRubricRepository creates a new RubricRepository.
func NewRubricRepository(pool *pgxpool.Pool) *RubricRepository {
	return &RubricRepository{pool: pool}
}

// GetByPaperID retrieves the rubric attached to a paper.
func (r *RubricRepository) GetByPaperID(ctx context.Context, paperID uuid.UUID) (*model.RubricConfig, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT c.id, c.config_name, c.duration_minutes, c.total_score, c.pass_score,
		        c.choice_score, c.multi_score, c.judgment_score, c.allowed_categories, c.created_at
		 FROM exam_configs c
		 JOIN papers p ON p.config_id = c.id
		 WHERE p.id = $1`, paperID,
	))
}

func (r *RubricRepository) scanOne(row interface{ Scan(dest ...any) error }) (*model.RubricConfig, error) {
	c := &model.RubricConfig{}
	err := row.Scan(
		&c.ID, &c.ConfigName, &c.DurationMinutes, &c.TotalScore, &c.PassScore,
		&c.ChoiceScore, &c.MultiScore, &c.JudgmentScore, &c.AllowedCategories, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
