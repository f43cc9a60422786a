package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AttemptService interface {
	// CreateAttempt assembles a new attempt from the course's active blueprint.
	// Nothing is written unless every rule could be satisfied.
	CreateAttempt(ctx context.Context, userID uint, locale string, req dto.CreateAttemptRequest) (*dto.AttemptCreatedDTO, error)
	GetAttempt(ctx context.Context, userID, attemptID uint) (*dto.AttemptDetailDTO, error)
	ListMyAttempts(ctx context.Context, userID uint, courseID *uint) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	userRepo      repository.UserRepository
	courseRepo    repository.CourseRepository
	testRepo      repository.TestRepository
	blueprintRepo repository.BlueprintRepository
	questionRepo  repository.QuestionRepository
	attemptRepo   repository.AttemptRepository
	assembler     *Assembler
	db            *gorm.DB
	now           func() time.Time
}

func NewAttemptService(
	userRepo repository.UserRepository,
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	blueprintRepo repository.BlueprintRepository,
	questionRepo repository.QuestionRepository,
	attemptRepo repository.AttemptRepository,
	assembler *Assembler,
	db *gorm.DB,
) AttemptService {
	return &attemptService{
		userRepo:      userRepo,
		courseRepo:    courseRepo,
		testRepo:      testRepo,
		blueprintRepo: blueprintRepo,
		questionRepo:  questionRepo,
		attemptRepo:   attemptRepo,
		assembler:     assembler,
		db:            db,
		now:           time.Now,
	}
}

func (s *attemptService) CreateAttempt(ctx context.Context, userID uint, locale string, req dto.CreateAttemptRequest) (*dto.AttemptCreatedDTO, error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeUnauthenticated, "user not found", err)
		}
		return nil, dbError(err, "user not found")
	}

	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("course %d not found", req.CourseID))
	}
	if !course.IsTestPrep() {
		return nil, newError(CodeInvalidCourseType, "course does not support sectioned exams", nil)
	}

	blueprint, err := s.blueprintRepo.FindActiveByCourse(ctx, course.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newError(CodeNoBlueprint, "course has no active blueprint", err)
		}
		return nil, dbError(err, "")
	}

	var sections []model.TestSection
	if course.TestID != nil {
		sections, err = s.testRepo.FindSections(ctx, *course.TestID)
		if err != nil {
			log.Error().Err(err).Uint("courseID", course.ID).Uint("testID", *course.TestID).Msg("CreateAttempt: failed to load test sections")
			return nil, newError(CodeSectionsError, "failed to load test sections", err)
		}
	}

	plan, err := s.assembler.Assemble(ctx, course.ID, course.BaseLocale, blueprint.Rules, sections)
	if err != nil {
		log.Error().Err(err).Uint("courseID", course.ID).Uint("blueprintID", blueprint.ID).Msg("CreateAttempt: assembly failed")
		return nil, err
	}

	kind := req.AttemptKind
	if kind == "" {
		kind = model.AttemptKindPractice
	}
	attempt := &model.Attempt{
		UserID:      userID,
		CourseID:    course.ID,
		BlueprintID: blueprint.ID,
		TestID:      course.TestID,
		Kind:        kind,
		Locale:      locale,
		Status:      model.AttemptStatusStarted,
		StartedAt:   s.now().UTC(),
	}

	items, err := s.snapshotItems(ctx, locale, plan)
	if err != nil {
		log.Error().Err(err).Uint("courseID", course.ID).Msg("CreateAttempt: failed to snapshot questions")
		return nil, newError(CodeDatabase, "failed to load question translations", err)
	}

	var attemptSections []model.AttemptSection
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.attemptRepo.WithTx(tx)
		if err := repo.Create(ctx, attempt); err != nil {
			return fmt.Errorf("create attempt: %w", err)
		}

		attemptSections = make([]model.AttemptSection, len(plan.Sections))
		for i, sec := range plan.Sections {
			attemptSections[i] = model.AttemptSection{
				AttemptID: attempt.ID,
				SectionID: sec.ID,
				OrderNo:   sec.OrderNo,
			}
		}
		if err := repo.CreateSections(ctx, attemptSections); err != nil {
			return fmt.Errorf("create attempt sections: %w", err)
		}

		for i, it := range plan.Items {
			items[i].AttemptID = attempt.ID
			if it.SectionIndex != NoSection {
				sid := attemptSections[it.SectionIndex].ID
				items[i].AttemptSectionID = &sid
			}
		}
		if err := repo.CreateItems(ctx, items); err != nil {
			return fmt.Errorf("create attempt items: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Uint("courseID", course.ID).Msg("CreateAttempt: transaction failed")
		return nil, newError(CodeDatabase, "failed to save attempt", err)
	}

	log.Info().Uint("attemptID", attempt.ID).Uint("userID", userID).Int("items", len(plan.Items)).Msg("Attempt created")

	resp := &dto.AttemptCreatedDTO{
		AttemptID:      attempt.ID,
		Sections:       make([]dto.AttemptSectionDTO, 0, len(plan.Sections)),
		TotalQuestions: len(plan.Items),
	}
	for i, sec := range plan.Sections {
		resp.Sections = append(resp.Sections, dto.AttemptSectionDTO{
			AttemptSectionID: attemptSections[i].ID,
			SectionID:        sec.ID,
			Code:             sec.Code,
			Name:             sec.Name,
			OrderNo:          sec.OrderNo,
			TimeLimitSec:     sec.TimeLimitSec,
			QuestionCount:    plan.SectionItemCount(i),
		})
	}
	return resp, nil
}

// snapshotItems copies each planned question into an unsaved attempt item,
// using the locale's translation when one exists. Items are in plan order.
func (s *attemptService) snapshotItems(ctx context.Context, locale string, plan *AssemblyPlan) ([]model.AttemptItem, error) {
	ids := make([]uint, 0, len(plan.Items))
	for _, it := range plan.Items {
		ids = append(ids, it.Question.ID)
	}
	translations, err := s.questionRepo.TranslationsFor(ctx, ids, locale)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}

	items := make([]model.AttemptItem, 0, len(plan.Items))
	for _, it := range plan.Items {
		item := snapshotItem(it.Question, translations[it.Question.ID])
		item.ItemNo = it.ItemNo
		items = append(items, item)
	}
	return items, nil
}

func snapshotItem(q model.Question, tr model.QuestionTranslation) model.AttemptItem {
	item := model.AttemptItem{
		QuestionID:  q.ID,
		Skill:       q.Skill,
		Locale:      q.Locale,
		Stem:        q.Stem,
		Choices:     q.Choices,
		Answer:      q.Answer,
		Explanation: q.Explanation,
	}
	if tr.QuestionID == 0 {
		return item
	}
	item.Locale = tr.Locale
	item.Stem = tr.Stem
	if len(tr.Choices) > 0 {
		item.Choices = tr.Choices
	}
	if tr.Answer != "" {
		item.Answer = tr.Answer
	}
	if tr.Explanation != "" {
		item.Explanation = tr.Explanation
	}
	return item
}

func (s *attemptService) GetAttempt(ctx context.Context, userID, attemptID uint) (*dto.AttemptDetailDTO, error) {
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		return nil, dbError(err, "attempt not found")
	}
	if attempt.UserID != userID {
		return nil, newError(CodeUnauthorized, "attempt belongs to another user", nil)
	}

	detail := &dto.AttemptDetailDTO{
		ID:          attempt.ID,
		CourseID:    attempt.CourseID,
		Kind:        attempt.Kind,
		Status:      attempt.Status,
		Locale:      attempt.Locale,
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Sections:    sectionDTOs(attempt),
		Items:       make([]dto.AttemptItemDTO, 0, len(attempt.Items)),
	}
	completed := attempt.IsCompleted()
	for _, item := range attempt.Items {
		choices, err := model.DecodeChoices(item.Choices)
		if err != nil {
			log.Error().Err(err).Uint("attemptItemID", item.ID).Msg("GetAttempt: corrupt choices")
			return nil, newError(CodeInternal, "failed to read attempt item", err)
		}
		row := dto.AttemptItemDTO{
			ItemNo:           item.ItemNo,
			AttemptSectionID: item.AttemptSectionID,
			Skill:            item.Skill,
			Stem:             item.Stem,
			Choices:          choices,
		}
		if completed {
			row.Response = item.Response
			row.Correct = item.Correct
			row.Answer = item.Answer
			row.Explanation = item.Explanation
		}
		detail.Items = append(detail.Items, row)
	}
	if completed {
		detail.ScoreReport = buildScoreReport(attempt)
	}
	return detail, nil
}

func (s *attemptService) ListMyAttempts(ctx context.Context, userID uint, courseID *uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attemptRepo.FindAllByUser(ctx, userID, courseID)
	if err != nil {
		log.Error().Err(err).Uint("userID", userID).Msg("ListMyAttempts: query failed")
		return nil, dbError(err, "")
	}
	out := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	if err := copier.Copy(&out, &attempts); err != nil {
		return nil, fmt.Errorf("copy attempt summaries: %w", err)
	}
	return out, nil
}
