package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medexam/medexam-backend/internal/model"
)

func intPtr(v int) *int { return &v }

func TestWeightForDefaults(t *testing.T) {
	rubric := &model.RubricConfig{}

	cases := []struct {
		qType model.QuestionType
		want  int
	}{
		{model.QuestionTypeChoice, model.DefaultChoiceScore},
		{model.QuestionTypeMulti, model.DefaultMultiScore},
		{model.QuestionTypeJudgment, model.DefaultJudgmentScore},
	}
	for _, tc := range cases {
		if got := rubric.WeightFor(tc.qType); got != tc.want {
			t.Errorf("WeightFor(%s) = %d, want %d", tc.qType, got, tc.want)
		}
	}
}

func TestWeightForExplicitOverrides(t *testing.T) {
	rubric := &model.RubricConfig{
		ChoiceScore:   intPtr(5),
		MultiScore:    intPtr(10),
		JudgmentScore: intPtr(3),
	}

	if got := rubric.WeightFor(model.QuestionTypeChoice); got != 5 {
		t.Errorf("choice weight = %d, want 5", got)
	}
	if got := rubric.WeightFor(model.QuestionTypeMulti); got != 10 {
		t.Errorf("multi weight = %d, want 10", got)
	}
	if got := rubric.WeightFor(model.QuestionTypeJudgment); got != 3 {
		t.Errorf("judgment weight = %d, want 3", got)
	}
}

func TestGradeAnswers(t *testing.T) {
	sessionID := uuid.New()

	qChoice := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeChoice, CorrectAnswer: "2"}
	qMulti := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeMulti, CorrectAnswer: "0,2"}
	qJudgment := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeJudgment, CorrectAnswer: "true"}

	questions := map[uuid.UUID]*model.Question{
		qChoice.ID:   qChoice,
		qMulti.ID:    qMulti,
		qJudgment.ID: qJudgment,
	}
	rubric := &model.RubricConfig{}

	// Choice correct (+2), multi wrong, judgment correct (+1).
	answers := []model.SubmittedAnswer{
		{QuestionID: qChoice.ID, Answer: "2"},
		{QuestionID: qMulti.ID, Answer: "0,1"},
		{QuestionID: qJudgment.ID, Answer: "true"},
	}

	graded, achieved, correctCount := gradeAnswers(sessionID, answers, questions, rubric)

	if achieved != 3 {
		t.Errorf("achieved = %d, want 3", achieved)
	}
	if correctCount != 2 {
		t.Errorf("correctCount = %d, want 2", correctCount)
	}
	if len(graded) != 3 {
		t.Fatalf("graded len = %d, want 3", len(graded))
	}

	if !graded[0].IsCorrect || graded[0].Score != model.DefaultChoiceScore {
		t.Errorf("choice answer: is_correct=%v score=%d", graded[0].IsCorrect, graded[0].Score)
	}
	if graded[1].IsCorrect || graded[1].Score != 0 {
		t.Errorf("wrong multi answer: is_correct=%v score=%d", graded[1].IsCorrect, graded[1].Score)
	}
	if graded[1].CorrectAnswer != "0,2" {
		t.Errorf("correct answer not recorded: %q", graded[1].CorrectAnswer)
	}
	if graded[0].SessionID != sessionID {
		t.Errorf("session ID not stamped on graded answer")
	}
}

// Repeating a question ID must not multiply its weight: only the first
// occurrence is graded, so a correct answer submitted three times still
// scores once.
func TestGradeAnswersDuplicateQuestion(t *testing.T) {
	q := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeMulti, CorrectAnswer: "0,3"}
	questions := map[uuid.UUID]*model.Question{q.ID: q}

	graded, achieved, correctCount := gradeAnswers(uuid.New(), []model.SubmittedAnswer{
		{QuestionID: q.ID, Answer: "0,3"},
		{QuestionID: q.ID, Answer: "0,3"},
		{QuestionID: q.ID, Answer: "0,3"},
	}, questions, &model.RubricConfig{})

	if len(graded) != 1 {
		t.Fatalf("graded len = %d, want 1", len(graded))
	}
	if achieved != model.DefaultMultiScore {
		t.Errorf("achieved = %d, want %d", achieved, model.DefaultMultiScore)
	}
	if correctCount != 1 {
		t.Errorf("correctCount = %d, want 1", correctCount)
	}
}

// A duplicate of a wrong first answer must not grant a second chance either:
// the first occurrence wins, later ones are dropped.
func TestGradeAnswersDuplicateFirstOccurrenceWins(t *testing.T) {
	q := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeChoice, CorrectAnswer: "1"}
	questions := map[uuid.UUID]*model.Question{q.ID: q}

	graded, achieved, _ := gradeAnswers(uuid.New(), []model.SubmittedAnswer{
		{QuestionID: q.ID, Answer: "0"},
		{QuestionID: q.ID, Answer: "1"},
	}, questions, &model.RubricConfig{})

	if len(graded) != 1 {
		t.Fatalf("graded len = %d, want 1", len(graded))
	}
	if graded[0].UserAnswer != "0" || graded[0].IsCorrect || achieved != 0 {
		t.Errorf("first occurrence must win: %+v achieved=%d", graded[0], achieved)
	}
}

// Comparison is exact string equality: a multi-select submitted in a
// different index order than the canonical form does not match.
func TestGradeAnswersOrderSensitive(t *testing.T) {
	q := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeMulti, CorrectAnswer: "0,1"}
	questions := map[uuid.UUID]*model.Question{q.ID: q}

	graded, achieved, _ := gradeAnswers(uuid.New(), []model.SubmittedAnswer{
		{QuestionID: q.ID, Answer: "1,0"},
	}, questions, &model.RubricConfig{})

	if achieved != 0 {
		t.Errorf("achieved = %d, want 0", achieved)
	}
	if graded[0].IsCorrect {
		t.Error("reordered multi answer must not match")
	}
}

// A question ID absent from the bank scores zero without failing the
// submission.
func TestGradeAnswersUnknownQuestion(t *testing.T) {
	known := &model.Question{ID: uuid.New(), QuestionType: model.QuestionTypeChoice, CorrectAnswer: "1"}
	questions := map[uuid.UUID]*model.Question{known.ID: known}

	graded, achieved, correctCount := gradeAnswers(uuid.New(), []model.SubmittedAnswer{
		{QuestionID: uuid.New(), Answer: "1"},
		{QuestionID: known.ID, Answer: "1"},
	}, questions, &model.RubricConfig{})

	if len(graded) != 2 {
		t.Fatalf("graded len = %d, want 2", len(graded))
	}
	if graded[0].IsCorrect || graded[0].Score != 0 || graded[0].CorrectAnswer != "" {
		t.Errorf("unknown question must be scored wrong: %+v", graded[0])
	}
	if achieved != model.DefaultChoiceScore || correctCount != 1 {
		t.Errorf("achieved=%d correctCount=%d, want %d and 1", achieved, correctCount, model.DefaultChoiceScore)
	}
}

func TestGradeAnswersEmptySubmission(t *testing.T) {
	graded, achieved, correctCount := gradeAnswers(uuid.New(), nil, map[uuid.UUID]*model.Question{}, &model.RubricConfig{})
	if len(graded) != 0 || achieved != 0 || correctCount != 0 {
		t.Errorf("empty submission: graded=%d achieved=%d correct=%d", len(graded), achieved, correctCount)
	}
}

func TestDurationMinutes(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		finished time.Time
		want     int
	}{
		{"exact hour", start.Add(60 * time.Minute), 60},
		{"rounds down", start.Add(42*time.Minute + 20*time.Second), 42},
		{"rounds up", start.Add(42*time.Minute + 40*time.Second), 43},
		{"sub-minute", start.Add(10 * time.Second), 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := durationMinutes(start, tc.finished); got != tc.want {
				t.Errorf("durationMinutes = %d, want %d", got, tc.want)
			}
		})
	}
}
