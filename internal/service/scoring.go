package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/medexam/medexam-backend/internal/model"
)

// gradeAnswers scores a submitted answer set against the question bank and
// rubric. Comparison is exact string equality against the canonical correct
// answer: the canonical form already encodes multi-selects as a sorted,
// comma-joined index list, so the submission must use the same encoding.
// A question missing from the bank is scored wrong, not rejected — failing
// the whole submission for one stale reference would forfeit every correctly
// answered question. Each question is graded at most once: repeating a
// question ID in the submission must not multiply its weight, so only the
// first occurrence counts.
func gradeAnswers(sessionID uuid.UUID, answers []model.SubmittedAnswer, questions map[uuid.UUID]*model.Question, rubric *model.RubricConfig) (graded []model.ExamAnswer, achieved, correctCount int) {
	graded = make([]model.ExamAnswer, 0, len(answers))
	seen := make(map[uuid.UUID]struct{}, len(answers))

	for _, a := range answers {
		if _, dup := seen[a.QuestionID]; dup {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		rec := model.ExamAnswer{
			SessionID:  sessionID,
			QuestionID: a.QuestionID,
			UserAnswer: a.Answer,
		}

		if q, ok := questions[a.QuestionID]; ok {
			rec.CorrectAnswer = q.CorrectAnswer
			if a.Answer == q.CorrectAnswer {
				rec.IsCorrect = true
				rec.Score = rubric.WeightFor(q.QuestionType)
				achieved += rec.Score
				correctCount++
			}
		}

		graded = append(graded, rec)
	}

	return graded, achieved, correctCount
}

// durationMinutes returns the attempt duration rounded to whole minutes.
func durationMinutes(startedAt, finishedAt time.Time) int {
	return int(finishedAt.Sub(startedAt).Round(time.Minute) / time.Minute)
}
