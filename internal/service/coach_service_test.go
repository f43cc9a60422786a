package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLLM struct {
	enabled bool
	advice  string
	err     error
	prompts []string
}

func (f *fakeLLM) Enabled() bool { return f.enabled }

func (f *fakeLLM) GenerateAdvice(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.advice, f.err
}

func TestCoachSendsMissedItems(t *testing.T) {
	f := newExamFixture(t)
	llm := &fakeLLM{enabled: true, advice: "Review comma rules."}
	coach := NewStudyCoachService(f.attemptRepo, llm)

	attemptID := f.startAttempt()
	_, err := coach.Coach(f.ctx, f.student.ID, attemptID)
	assert.Equal(t, CodeValidation, CodeOf(err), "attempt must be completed first")

	answers := f.correctAnswers(attemptID)
	answers[1] = "B"
	_, err = f.submissions.SubmitAttempt(f.ctx, f.student.ID, attemptID, dto.SubmitAttemptRequest{Answers: answers})
	require.NoError(t, err)

	got, err := coach.Coach(f.ctx, f.student.ID, attemptID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.MissedItems)
	assert.Equal(t, "Review comma rules.", got.Advice)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "ACT attempt and missed 1 of 5 items")
	assert.Contains(t, llm.prompts[0], "- grammar: 1")
	assert.Contains(t, llm.prompts[0], "Student answered B, correct answer A.")

	_, err = coach.Coach(f.ctx, f.other.ID, attemptID)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
}

func TestCoachPerfectAttemptSkipsModel(t *testing.T) {
	f := newExamFixture(t)
	llm := &fakeLLM{enabled: true}
	coach := NewStudyCoachService(f.attemptRepo, llm)

	attemptID := f.startAttempt()
	_, err := f.submissions.SubmitAttempt(f.ctx, f.student.ID, attemptID, dto.SubmitAttemptRequest{Answers: f.correctAnswers(attemptID)})
	require.NoError(t, err)

	got, err := coach.Coach(f.ctx, f.student.ID, attemptID)
	require.NoError(t, err)
	assert.Zero(t, got.MissedItems)
	assert.NotEmpty(t, got.Advice)
	assert.Empty(t, llm.prompts)
}

func TestCoachUnavailable(t *testing.T) {
	f := newExamFixture(t)

	_, err := NewStudyCoachService(f.attemptRepo, &fakeLLM{}).Coach(f.ctx, f.student.ID, 1)
	assert.Equal(t, CodeCoachUnavailable, CodeOf(err))

	attemptID := f.startAttempt()
	_, err = f.submissions.SubmitAttempt(f.ctx, f.student.ID, attemptID, dto.SubmitAttemptRequest{})
	require.NoError(t, err)
	failing := &fakeLLM{enabled: true, err: errors.New("quota exceeded")}
	_, err = NewStudyCoachService(f.attemptRepo, failing).Coach(f.ctx, f.student.ID, attemptID)
	assert.Equal(t, CodeCoachUnavailable, CodeOf(err))
}
