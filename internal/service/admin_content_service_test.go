package service

import (
	"testing"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *examFixture) content() AdminContentService {
	return NewAdminContentService(
		repository.NewCourseRepository(f.db),
		repository.NewTestRepository(f.db),
		repository.NewQuestionRepository(f.db),
		repository.NewBlueprintRepository(f.db),
		f.db,
	)
}

func TestCreateBlueprintActivatesExclusively(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()

	created, err := svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{
		CourseID: f.course.ID,
		Name:     "Short form",
		Rules: []dto.RuleCreateDTO{
			{SectionID: &f.english.ID, Skill: "grammar", Count: 1, IncludeTags: []string{" Commas ", "commas"}},
		},
		Activate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, created.Version)
	assert.True(t, created.IsActive)
	require.Len(t, created.Rules, 1)
	assert.Equal(t, 1, created.Rules[0].Position)
	assert.Equal(t, []string{"commas"}, created.Rules[0].IncludeTags)

	list, err := svc.ListBlueprints(f.ctx, f.course.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	active := 0
	for _, bp := range list {
		if bp.IsActive {
			active++
			assert.Equal(t, created.ID, bp.ID)
		}
	}
	assert.Equal(t, 1, active)

	_, err = svc.ActivateBlueprint(f.ctx, f.blueprint.ID)
	require.NoError(t, err)
	var reloaded model.Blueprint
	require.NoError(t, f.db.First(&reloaded, created.ID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestCreateBlueprintValidatesRules(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()

	_, err := svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{
		CourseID: f.course.ID,
		Name:     "bad range",
		Rules:    []dto.RuleCreateDTO{{Skill: "algebra", Count: 1, MinDifficulty: testutil.Ptr(4), MaxDifficulty: testutil.Ptr(2)}},
	})
	assert.Equal(t, CodeValidation, CodeOf(err))

	foreign := uint(9999)
	_, err = svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{
		CourseID: f.course.ID,
		Name:     "bad section",
		Rules:    []dto.RuleCreateDTO{{SectionID: &foreign, Skill: "algebra", Count: 1}},
	})
	assert.Equal(t, CodeValidation, CodeOf(err))

	_, err = svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{
		CourseID: f.course.ID,
		Name:     "missing section",
		Rules:    []dto.RuleCreateDTO{{Skill: "algebra", Count: 1}},
	})
	assert.Equal(t, CodeValidation, CodeOf(err), "a sectioned test needs a section on every rule")
	assert.Equal(t, int64(1), f.count(&model.Blueprint{}))

	_, err = svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{CourseID: 9999, Name: "x", Rules: []dto.RuleCreateDTO{{Skill: "a", Count: 1}}})
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestBlueprintInUseIsFrozen(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()

	replaced, err := svc.ReplaceBlueprintRules(f.ctx, f.blueprint.ID, dto.BlueprintRulesReplaceDTO{
		Rules: []dto.RuleCreateDTO{{SectionID: &f.math.ID, Skill: "algebra", Count: 2}},
	})
	require.NoError(t, err)
	require.Len(t, replaced.Rules, 1)

	_, err = f.attempts.CreateAttempt(f.ctx, f.student.ID, "en", dto.CreateAttemptRequest{CourseID: f.course.ID})
	require.NoError(t, err)

	_, err = svc.ReplaceBlueprintRules(f.ctx, f.blueprint.ID, dto.BlueprintRulesReplaceDTO{
		Rules: []dto.RuleCreateDTO{{SectionID: &f.math.ID, Skill: "algebra", Count: 1}},
	})
	assert.Equal(t, CodeBlueprintInUse, CodeOf(err))

	err = svc.DeleteBlueprint(f.ctx, f.blueprint.ID)
	assert.Equal(t, CodeBlueprintInUse, CodeOf(err))

	var rules []model.BlueprintRule
	require.NoError(t, f.db.Where("blueprint_id = ?", f.blueprint.ID).Find(&rules).Error)
	require.Len(t, rules, 1, "rejected changes roll back")
	assert.Equal(t, 2, rules[0].Count)
	var bp model.Blueprint
	require.NoError(t, f.db.First(&bp, f.blueprint.ID).Error)
}

func TestSectionlessDrivingCourseAcceptsRulesWithoutSection(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()
	driverEd := model.Course{Title: "Driver Ed", Kind: model.CourseKindDriverEd, BaseLocale: "en"}
	f.create(&driverEd)

	created, err := svc.CreateBlueprint(f.ctx, dto.BlueprintCreateDTO{
		CourseID: driverEd.ID,
		Name:     "Permit quiz",
		Rules:    []dto.RuleCreateDTO{{Skill: "signs", Count: 5}},
	})
	require.NoError(t, err)
	require.Len(t, created.Rules, 1)
	assert.Nil(t, created.Rules[0].SectionID)
}

func TestDeleteUnusedBlueprint(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()

	require.NoError(t, svc.DeleteBlueprint(f.ctx, f.blueprint.ID))
	assert.Zero(t, f.count(&model.BlueprintRule{}))

	err := svc.DeleteBlueprint(f.ctx, f.blueprint.ID)
	assert.Equal(t, CodeNotFound, CodeOf(err))

	_, err = f.attempts.CreateAttempt(f.ctx, f.student.ID, "en", dto.CreateAttemptRequest{CourseID: f.course.ID})
	assert.Equal(t, CodeNoBlueprint, CodeOf(err))
}

func TestCreateQuestionValidatesAnswerKey(t *testing.T) {
	f := newExamFixture(t)
	svc := f.content()
	choices := []model.Choice{{Key: "A", Text: "one"}, {Key: "B", Text: "two"}}

	_, err := svc.CreateQuestion(f.ctx, dto.QuestionCreateDTO{CourseID: f.course.ID, Skill: "algebra", Stem: "?", Choices: choices, Answer: "C"})
	assert.Equal(t, CodeValidation, CodeOf(err))

	q, err := svc.CreateQuestion(f.ctx, dto.QuestionCreateDTO{
		CourseID: f.course.ID,
		Skill:    "algebra",
		Stem:     "?",
		Choices:  choices,
		Answer:   "B",
		Tags:     []string{"Linear", "linear", " "},
		Translations: []dto.TranslationCreateDTO{
			{Locale: "ES", Stem: "¿?"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, model.QuestionStatusDraft, q.Status)
	assert.Equal(t, "en", q.Locale)
	assert.Equal(t, []string{"linear"}, q.Tags)

	approved, err := svc.SetQuestionStatus(f.ctx, q.ID, model.QuestionStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, model.QuestionStatusApproved, approved.Status)
	assert.Equal(t, []string{"es"}, approved.Locales)
}
