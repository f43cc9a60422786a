package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SubmissionService grades a started attempt and completes it exactly once.
type SubmissionService interface {
	// CheckSubmittable reports why userID may not submit the attempt, before any
	// answers are read. SubmitAttempt repeats the same checks.
	CheckSubmittable(ctx context.Context, userID, attemptID uint) error
	SubmitAttempt(ctx context.Context, userID, attemptID uint, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResultDTO, error)
}

type submissionService struct {
	attemptRepo    repository.AttemptRepository
	scoreConverter ScoreConverterService
	db             *gorm.DB
	now            func() time.Time
}

func NewSubmissionService(
	attemptRepo repository.AttemptRepository,
	scoreConverter ScoreConverterService,
	db *gorm.DB,
) SubmissionService {
	return &submissionService{
		attemptRepo:    attemptRepo,
		scoreConverter: scoreConverter,
		db:             db,
		now:            time.Now,
	}
}

func (s *submissionService) CheckSubmittable(ctx context.Context, userID, attemptID uint) error {
	attempt, err := s.attemptRepo.FindByID(ctx, attemptID)
	if err != nil {
		return dbError(err, "attempt not found")
	}
	return checkSubmittable(attempt, userID)
}

// checkSubmittable needs the attempt's Course loaded.
func checkSubmittable(attempt *model.Attempt, userID uint) error {
	if attempt.UserID != userID {
		log.Warn().Uint("attemptID", attempt.ID).Uint("userID", userID).Msg("SubmitAttempt: attempt belongs to another user")
		return newError(CodeUnauthorized, "attempt belongs to another user", nil)
	}
	if attempt.IsCompleted() {
		return newError(CodeAlreadyCompleted, "attempt already completed", nil)
	}
	if attempt.Course == nil || !attempt.Course.IsTestPrep() {
		return newError(CodeInvalidCourseType, "course does not support sectioned exams", nil)
	}
	return nil
}

func (s *submissionService) SubmitAttempt(ctx context.Context, userID, attemptID uint, req dto.SubmitAttemptRequest) (*dto.SubmitAttemptResultDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		return nil, dbError(err, "attempt not found")
	}
	if err := checkSubmittable(attempt, userID); err != nil {
		return nil, err
	}

	grades := GradeItems(attempt.Items, req.Answers)

	sectionScaled := make([]*int, len(attempt.Sections))
	for i := range attempt.Sections {
		sec := &attempt.Sections[i]
		raw := grades.Tally(sec.ID).Raw
		sec.RawScore = &raw
		if attempt.TestID == nil {
			continue
		}
		scaled, err := s.scoreConverter.SectionScaled(ctx, *attempt.TestID, sec.SectionID, raw)
		if err != nil {
			log.Error().Err(err).Uint("attemptID", attemptID).Uint("sectionID", sec.SectionID).Msg("SubmitAttempt: section scale lookup failed")
			return nil, newError(CodeDatabase, "failed to convert section score", err)
		}
		sec.ScaledScore = scaled
		sectionScaled[i] = scaled
	}

	var test *model.Test
	if attempt.Course.Test != nil && attempt.TestID != nil {
		test = attempt.Course.Test
	}
	composite, err := s.scoreConverter.Composite(ctx, test, grades.TotalRaw, sectionScaled)
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt: composite lookup failed")
		return nil, newError(CodeDatabase, "failed to convert composite score", err)
	}

	completedAt := s.now().UTC()
	scores := repository.AttemptScores{
		RawScore:      grades.TotalRaw,
		ScaledScore:   composite.Scaled,
		ReportedScore: composite.Reported,
		Method:        string(composite.Method),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.attemptRepo.WithTx(tx)
		for _, g := range grades.Items {
			if err := repo.GradeItem(ctx, g.ItemID, g.Response, g.Correct); err != nil {
				return fmt.Errorf("grade item %d: %w", g.ItemNo, err)
			}
		}
		for _, sec := range attempt.Sections {
			if err := repo.UpdateSectionScores(ctx, sec.ID, *sec.RawScore, sec.ScaledScore); err != nil {
				return fmt.Errorf("update section %d scores: %w", sec.ID, err)
			}
		}
		if err := repo.Complete(ctx, attempt.ID, scores, completedAt); err != nil {
			return err
		}
		return repo.CreateOutcome(ctx, &model.AttemptOutcome{
			AttemptID:     attempt.ID,
			UserID:        attempt.UserID,
			CourseID:      attempt.CourseID,
			Kind:          attempt.Kind,
			RawScore:      scores.RawScore,
			ScaledScore:   scores.ScaledScore,
			ReportedScore: scores.ReportedScore,
		})
	})
	if err != nil {
		if errors.Is(err, repository.ErrAttemptAlreadyCompleted) {
			log.Warn().Uint("attemptID", attemptID).Msg("SubmitAttempt: lost completion race")
			return nil, newError(CodeAlreadyCompleted, "attempt already completed", err)
		}
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("SubmitAttempt: transaction failed")
		return nil, newError(CodeDatabase, "failed to save graded attempt", err)
	}

	for i, g := range grades.Items {
		correct := g.Correct
		attempt.Items[i].Response = g.Response
		attempt.Items[i].Correct = &correct
	}
	attempt.Status = model.AttemptStatusCompleted
	attempt.CompletedAt = &completedAt
	attempt.RawScore = &scores.RawScore
	attempt.ScaledScore = scores.ScaledScore
	attempt.ReportedScore = &scores.ReportedScore
	attempt.ScoreMethod = scores.Method

	log.Info().
		Uint("attemptID", attempt.ID).
		Int("raw", scores.RawScore).
		Int("reported", scores.ReportedScore).
		Str("method", scores.Method).
		Msg("Attempt graded")

	return &dto.SubmitAttemptResultDTO{
		AttemptID:   attempt.ID,
		ScoreReport: *buildScoreReport(attempt),
	}, nil
}
