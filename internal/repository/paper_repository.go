package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// PaperWithRubric pairs a paper with its scoring configuration.
type PaperWithRubric struct {
	Paper  model.Paper
	Rubric model.RubricConfig
}

// PaperRepository handles exam paper data access.
type PaperRepository struct {
	pool *pgxpool.Pool
}

// NewPaperRepository creates a new PaperRepository.
func NewPaperRepository(pool *pgxpool.Pool) *PaperRepository {
	return &PaperRepository{pool: pool}
}

// GetByID retrieves a paper by primary key.
func (r *PaperRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Paper, error) {
	p := &model.Paper{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, config_id, status, created_at
		 FROM papers
		 WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.ConfigID, &p.Status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished retrieves all published papers together with their rubrics,
// ordered by creation time. Category filtering happens in the service layer
// because allowed categories are stored as a comma-delimited set.
func (r *PaperRepository) ListPublished(ctx context.Context) ([]PaperWithRubric, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.config_id, p.status, p.created_at,
		        c.id, c.config_name, c.duration_minutes, c.total_score, c.pass_score,
		        c.choice_score, c.multi_score, c.judgment_score, c.allowed_categories, c.created_at
		 FROM papers p
		 JOIN exam_configs c ON p.config_id = c.id
		 WHERE p.status = $1
		 ORDER BY p.created_at DESC`, model.PaperStatusPublished,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PaperWithRubric
	for rows.Next() {
		var pr PaperWithRubric
		if err := rows.Scan(
			&pr.Paper.ID, &pr.Paper.Name, &pr.Paper.ConfigID, &pr.Paper.Status, &pr.Paper.CreatedAt,
			&pr.Rubric.ID, &pr.Rubric.ConfigName, &pr.Rubric.DurationMinutes, &pr.Rubric.TotalScore, &pr.Rubric.PassScore,
			&pr.Rubric.ChoiceScore, &pr.Rubric.MultiScore, &pr.Rubric.JudgmentScore, &pr.Rubric.AllowedCategories, &pr.Rubric.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// GetQuestionIDs returns the paper's ordered question ID list.
func (r *PaperRepository) GetQuestionIDs(ctx context.Context, paperID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT question_id
		 FROM paper_questions
		 WHERE paper_id = $1
		 ORDER BY order_num ASC`, paperID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountQuestions returns how many questions a paper carries.
func (r *PaperRepository) CountQuestions(ctx context.Context, paperID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM paper_questions WHERE paper_id = $1`, paperID,
	).Scan(&n)
	return n, err
}
