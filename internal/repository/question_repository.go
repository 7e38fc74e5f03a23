package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/medexam/medexam-backend/internal/model"
)

// QuestionRepository handles question-bank data access (read-only to the
// scoring core).
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// GetByIDs retrieves the given questions as a map keyed by ID. IDs that no
// longer exist are simply absent from the map; callers decide how to treat
// the gap.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*model.Question, error) {
	out := make(map[uuid.UUID]*model.Question, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, question_type, content, options, correct_answer
		 FROM questions
		 WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		q := &model.Question{}
		if err := rows.Scan(&q.ID, &q.QuestionType, &q.Content, &q.Options, &q.CorrectAnswer); err != nil {
			return nil, err
		}
		out[q.ID] = q
	}
	return out, rows.Err()
}

// ListForPaper retrieves a paper's questions in presentation order, without
// correct answers.
func (r *QuestionRepository) ListForPaper(ctx context.Context, paperID uuid.UUID) ([]model.QuestionForStudent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT q.id, q.question_type, q.content, q.options, pq.order_num
		 FROM questions q
		 JOIN paper_questions pq ON pq.question_id = q.id
		 WHERE pq.paper_id = $1
		 ORDER BY pq.order_num ASC`, paperID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.QuestionForStudent
	for rows.Next() {
		var q model.QuestionForStudent
		if err := rows.Scan(&q.ID, &q.QuestionType, &q.Content, &q.Options, &q.OrderNum); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}
