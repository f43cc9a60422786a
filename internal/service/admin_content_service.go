package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AdminContentService manages courses, the question bank, and blueprints.
type AdminContentService interface {
	CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseDTO, error)

	CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error)
	ListQuestions(ctx context.Context, courseID uint, status string) ([]dto.QuestionResponseDTO, error)
	SetQuestionStatus(ctx context.Context, questionID uint, status string) (*dto.QuestionResponseDTO, error)

	CreateBlueprint(ctx context.Context, req dto.BlueprintCreateDTO) (*dto.BlueprintResponseDTO, error)
	ListBlueprints(ctx context.Context, courseID uint) ([]dto.BlueprintResponseDTO, error)
	ActivateBlueprint(ctx context.Context, blueprintID uint) (*dto.BlueprintResponseDTO, error)
	// ReplaceBlueprintRules and DeleteBlueprint refuse blueprints that attempts already reference.
	ReplaceBlueprintRules(ctx context.Context, blueprintID uint, req dto.BlueprintRulesReplaceDTO) (*dto.BlueprintResponseDTO, error)
	DeleteBlueprint(ctx context.Context, blueprintID uint) error
}

type adminContentService struct {
	courseRepo    repository.CourseRepository
	testRepo      repository.TestRepository
	questionRepo  repository.QuestionRepository
	blueprintRepo repository.BlueprintRepository
	db            *gorm.DB
}

func NewAdminContentService(
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	questionRepo repository.QuestionRepository,
	blueprintRepo repository.BlueprintRepository,
	db *gorm.DB,
) AdminContentService {
	return &adminContentService{
		courseRepo:    courseRepo,
		testRepo:      testRepo,
		questionRepo:  questionRepo,
		blueprintRepo: blueprintRepo,
		db:            db,
	}
}

func (s *adminContentService) CreateCourse(ctx context.Context, req dto.CourseCreateDTO) (*dto.CourseDTO, error) {
	if req.Kind == model.CourseKindTestPrep && req.TestID == nil {
		return nil, newError(CodeValidation, "test_prep courses need a test_id", nil)
	}
	if req.TestID != nil {
		if _, err := s.testRepo.FindByID(ctx, *req.TestID); err != nil {
			return nil, dbError(err, fmt.Sprintf("test %d not found", *req.TestID))
		}
	}
	course := model.Course{
		Title:      req.Title,
		Kind:       req.Kind,
		TestID:     req.TestID,
		BaseLocale: strings.ToLower(strings.TrimSpace(req.BaseLocale)),
	}
	if course.BaseLocale == "" {
		course.BaseLocale = "en"
	}
	if err := s.courseRepo.Create(ctx, &course); err != nil {
		log.Error().Err(err).Str("title", course.Title).Msg("CreateCourse: insert failed")
		return nil, dbError(err, "")
	}
	created, err := s.courseRepo.FindByID(ctx, course.ID)
	if err != nil {
		created = &course
	}
	out := toCourseDTO(created)
	return &out, nil
}

func (s *adminContentService) CreateQuestion(ctx context.Context, req dto.QuestionCreateDTO) (*dto.QuestionResponseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("course %d not found", req.CourseID))
	}
	if err := validateAnswerKey(req.Choices, req.Answer); err != nil {
		return nil, err
	}

	choices, err := model.EncodeChoices(req.Choices)
	if err != nil {
		return nil, newError(CodeValidation, "invalid choices", err)
	}
	q := model.Question{
		CourseID:    course.ID,
		Skill:       strings.TrimSpace(req.Skill),
		Difficulty:  req.Difficulty,
		Status:      req.Status,
		Locale:      strings.ToLower(strings.TrimSpace(req.Locale)),
		Stem:        req.Stem,
		Choices:     choices,
		Answer:      req.Answer,
		Explanation: req.Explanation,
	}
	if q.Status == "" {
		q.Status = model.QuestionStatusDraft
	}
	if q.Locale == "" {
		q.Locale = course.BaseLocale
	}
	for _, tag := range normalizeTags(req.Tags) {
		q.Tags = append(q.Tags, model.QuestionTag{Tag: tag})
	}

	locales := make(map[string]bool)
	for _, tr := range req.Translations {
		locale := strings.ToLower(strings.TrimSpace(tr.Locale))
		if locale == q.Locale || locales[locale] {
			return nil, newError(CodeValidation, fmt.Sprintf("duplicate translation locale %q", locale), nil)
		}
		locales[locale] = true
		if len(tr.Choices) > 0 {
			answer := tr.Answer
			if answer == "" {
				answer = req.Answer
			}
			if err := validateAnswerKey(tr.Choices, answer); err != nil {
				return nil, err
			}
		}
		trChoices, err := model.EncodeChoices(tr.Choices)
		if err != nil {
			return nil, newError(CodeValidation, "invalid translated choices", err)
		}
		if len(tr.Choices) == 0 {
			trChoices = nil
		}
		q.Translations = append(q.Translations, model.QuestionTranslation{
			Locale:      locale,
			Stem:        tr.Stem,
			Choices:     trChoices,
			Answer:      tr.Answer,
			Explanation: tr.Explanation,
		})
	}

	if err := s.questionRepo.Create(ctx, &q); err != nil {
		log.Error().Err(err).Uint("courseID", course.ID).Msg("CreateQuestion: insert failed")
		return nil, dbError(err, "")
	}
	return toQuestionDTO(&q)
}

func (s *adminContentService) ListQuestions(ctx context.Context, courseID uint, status string) ([]dto.QuestionResponseDTO, error) {
	questions, err := s.questionRepo.FindByCourse(ctx, courseID, status)
	if err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		row, err := toQuestionDTO(&questions[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *row)
	}
	return out, nil
}

func (s *adminContentService) SetQuestionStatus(ctx context.Context, questionID uint, status string) (*dto.QuestionResponseDTO, error) {
	if err := s.questionRepo.UpdateStatus(ctx, questionID, status); err != nil {
		return nil, dbError(err, fmt.Sprintf("question %d not found", questionID))
	}
	q, err := s.questionRepo.FindByID(ctx, questionID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("question %d not found", questionID))
	}
	log.Info().Uint("questionID", questionID).Str("status", status).Msg("Question status changed")
	return toQuestionDTO(q)
}

func (s *adminContentService) CreateBlueprint(ctx context.Context, req dto.BlueprintCreateDTO) (*dto.BlueprintResponseDTO, error) {
	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("course %d not found", req.CourseID))
	}
	rules, err := s.buildRules(ctx, course, req.Rules)
	if err != nil {
		return nil, err
	}

	version := req.Version
	if version == 0 {
		existing, err := s.blueprintRepo.FindAllByCourse(ctx, course.ID)
		if err != nil {
			return nil, dbError(err, "")
		}
		version = 1
		for _, bp := range existing {
			if bp.Version >= version {
				version = bp.Version + 1
			}
		}
	}

	bp := model.Blueprint{CourseID: course.ID, Name: req.Name, Version: version, Rules: rules}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.blueprintRepo.WithTx(tx)
		if err := repo.Create(ctx, &bp); err != nil {
			return err
		}
		if req.Activate {
			return repo.Activate(ctx, course.ID, bp.ID)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("courseID", course.ID).Msg("CreateBlueprint: transaction failed")
		return nil, dbError(err, "")
	}
	return s.reloadBlueprint(ctx, bp.ID)
}

// buildRules validates rule input against the course's test sections.
func (s *adminContentService) buildRules(ctx context.Context, course *model.Course, in []dto.RuleCreateDTO) ([]model.BlueprintRule, error) {
	sectionIDs := make(map[uint]bool)
	if course.TestID != nil {
		sections, err := s.testRepo.FindSections(ctx, *course.TestID)
		if err != nil {
			return nil, newError(CodeSectionsError, "failed to load test sections", err)
		}
		for _, sec := range sections {
			sectionIDs[sec.ID] = true
		}
	}

	rules := make([]model.BlueprintRule, 0, len(in))
	for i, r := range in {
		if r.MinDifficulty != nil && r.MaxDifficulty != nil && *r.MinDifficulty > *r.MaxDifficulty {
			return nil, newError(CodeValidation, fmt.Sprintf("rule %d: min_difficulty exceeds max_difficulty", i+1), nil)
		}
		if r.SectionID == nil && len(sectionIDs) > 0 {
			return nil, newError(CodeValidation, fmt.Sprintf("rule %d: section_id is required because the course test has sections", i+1), nil)
		}
		if r.SectionID != nil && !sectionIDs[*r.SectionID] {
			return nil, newError(CodeValidation, fmt.Sprintf("rule %d: section %d is not part of the course test", i+1, *r.SectionID), nil)
		}
		var rule model.BlueprintRule
		if err := copier.Copy(&rule, &r); err != nil {
			return nil, fmt.Errorf("copy rule: %w", err)
		}
		if rule.Position == 0 {
			rule.Position = i + 1
		}
		rule.IncludeTags = normalizeTags(r.IncludeTags)
		rule.ExcludeTags = normalizeTags(r.ExcludeTags)
		rule.AnyTags = normalizeTags(r.AnyTags)
		rules = append(rules, rule)
	}
	return rules, nil
}

func (s *adminContentService) ListBlueprints(ctx context.Context, courseID uint) ([]dto.BlueprintResponseDTO, error) {
	bps, err := s.blueprintRepo.FindAllByCourse(ctx, courseID)
	if err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.BlueprintResponseDTO, 0, len(bps))
	if err := copier.Copy(&out, &bps); err != nil {
		return nil, fmt.Errorf("copy blueprints: %w", err)
	}
	return out, nil
}

func (s *adminContentService) ActivateBlueprint(ctx context.Context, blueprintID uint) (*dto.BlueprintResponseDTO, error) {
	bp, err := s.blueprintRepo.FindByID(ctx, blueprintID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("blueprint %d not found", blueprintID))
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.blueprintRepo.WithTx(tx).Activate(ctx, bp.CourseID, bp.ID)
	})
	if err != nil {
		log.Error().Err(err).Uint("blueprintID", blueprintID).Msg("ActivateBlueprint: transaction failed")
		return nil, dbError(err, fmt.Sprintf("blueprint %d not found", blueprintID))
	}
	log.Info().Uint("blueprintID", bp.ID).Uint("courseID", bp.CourseID).Msg("Blueprint activated")
	return s.reloadBlueprint(ctx, bp.ID)
}

func (s *adminContentService) ReplaceBlueprintRules(ctx context.Context, blueprintID uint, req dto.BlueprintRulesReplaceDTO) (*dto.BlueprintResponseDTO, error) {
	bp, err := s.blueprintRepo.FindByID(ctx, blueprintID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("blueprint %d not found", blueprintID))
	}
	course, err := s.courseRepo.FindByID(ctx, bp.CourseID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("course %d not found", bp.CourseID))
	}
	rules, err := s.buildRules(ctx, course, req.Rules)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.blueprintRepo.WithTx(tx)
		if err := ensureUnused(ctx, repo, bp.ID); err != nil {
			return err
		}
		return repo.ReplaceRules(ctx, bp.ID, rules)
	})
	if err != nil {
		if CodeOf(err) == CodeBlueprintInUse {
			return nil, err
		}
		log.Error().Err(err).Uint("blueprintID", blueprintID).Msg("ReplaceBlueprintRules: transaction failed")
		return nil, dbError(err, "")
	}
	return s.reloadBlueprint(ctx, bp.ID)
}

func (s *adminContentService) DeleteBlueprint(ctx context.Context, blueprintID uint) error {
	if _, err := s.blueprintRepo.FindByID(ctx, blueprintID); err != nil {
		return dbError(err, fmt.Sprintf("blueprint %d not found", blueprintID))
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.blueprintRepo.WithTx(tx)
		if err := ensureUnused(ctx, repo, blueprintID); err != nil {
			return err
		}
		return repo.Delete(ctx, blueprintID)
	})
	if err != nil {
		if CodeOf(err) == CodeBlueprintInUse {
			return err
		}
		return dbError(err, fmt.Sprintf("blueprint %d not found", blueprintID))
	}
	return nil
}

// ensureUnused must run inside the transaction that changes the blueprint.
func ensureUnused(ctx context.Context, repo repository.BlueprintRepository, blueprintID uint) error {
	n, err := repo.CountAttempts(ctx, blueprintID)
	if err != nil {
		return dbError(err, "")
	}
	if n > 0 {
		return newError(CodeBlueprintInUse, fmt.Sprintf("blueprint %d is referenced by %d attempts", blueprintID, n), nil)
	}
	return nil
}

func (s *adminContentService) reloadBlueprint(ctx context.Context, id uint) (*dto.BlueprintResponseDTO, error) {
	bp, err := s.blueprintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("blueprint %d not found", id))
	}
	var out dto.BlueprintResponseDTO
	if err := copier.Copy(&out, bp); err != nil {
		return nil, fmt.Errorf("copy blueprint: %w", err)
	}
	return &out, nil
}

func validateAnswerKey(choices []model.Choice, answer string) error {
	keys := make(map[string]bool, len(choices))
	for _, c := range choices {
		if c.Key == "" {
			return newError(CodeValidation, "choice keys must not be empty", nil)
		}
		if keys[c.Key] {
			return newError(CodeValidation, fmt.Sprintf("duplicate choice key %q", c.Key), nil)
		}
		keys[c.Key] = true
	}
	if !keys[answer] {
		return newError(CodeValidation, fmt.Sprintf("answer %q is not one of the choice keys", answer), nil)
	}
	return nil
}

// normalizeTags trims, lowercases, and de-duplicates tags, keeping first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func toQuestionDTO(q *model.Question) (*dto.QuestionResponseDTO, error) {
	choices, err := model.DecodeChoices(q.Choices)
	if err != nil {
		return nil, newError(CodeInternal, "failed to decode choices", err)
	}
	out := &dto.QuestionResponseDTO{
		ID:          q.ID,
		CourseID:    q.CourseID,
		Skill:       q.Skill,
		Difficulty:  q.Difficulty,
		Status:      q.Status,
		Locale:      q.Locale,
		Stem:        q.Stem,
		Choices:     choices,
		Answer:      q.Answer,
		Explanation: q.Explanation,
		Tags:        q.TagNames(),
		CreatedAt:   q.CreatedAt,
	}
	for _, tr := range q.Translations {
		out.Locales = append(out.Locales, tr.Locale)
	}
	return out, nil
}

func toCourseDTO(c *model.Course) dto.CourseDTO {
	out := dto.CourseDTO{
		ID:         c.ID,
		Title:      c.Title,
		Kind:       c.Kind,
		TestID:     c.TestID,
		BaseLocale: c.BaseLocale,
	}
	if c.Test != nil {
		out.TestCode = c.Test.Code
	}
	return out
}
