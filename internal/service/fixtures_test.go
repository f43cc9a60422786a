package service

import (
	"context"
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// examFixture seeds an ACT-style course with two sections whose ids run
// opposite to their order_no, plus approved and draft questions.
type examFixture struct {
	t   *testing.T
	ctx context.Context
	db  *gorm.DB

	student model.User
	other   model.User

	test    model.Test
	english model.TestSection
	math    model.TestSection

	course    model.Course
	blueprint model.Blueprint

	attemptRepo repository.AttemptRepository
	attempts    AttemptService
	submissions SubmissionService
}

func newExamFixture(t *testing.T) *examFixture {
	t.Helper()
	f := &examFixture{t: t, ctx: context.Background(), db: testutil.NewDB(t)}
	f.seed()

	userRepo := repository.NewUserRepository(f.db)
	courseRepo := repository.NewCourseRepository(f.db)
	testRepo := repository.NewTestRepository(f.db)
	blueprintRepo := repository.NewBlueprintRepository(f.db)
	questionRepo := repository.NewQuestionRepository(f.db)
	f.attemptRepo = repository.NewAttemptRepository(f.db)
	scaleRepo := repository.NewScoreScaleRepository(f.db)

	assembler := NewAssembler(questionRepo, NewSamplerWithShuffle(identityShuffle))
	f.attempts = NewAttemptService(userRepo, courseRepo, testRepo, blueprintRepo, questionRepo, f.attemptRepo, assembler, f.db)
	f.submissions = NewSubmissionService(f.attemptRepo, NewScoreConverterService(scaleRepo), f.db)
	return f
}

func (f *examFixture) create(v interface{}) {
	f.t.Helper()
	require.NoError(f.t, f.db.Create(v).Error)
}

func (f *examFixture) seed() {
	f.student = model.User{Email: "student@example.com", Name: "Student", PasswordHash: "x", Role: model.RoleStudent}
	f.other = model.User{Email: "other@example.com", Name: "Other", PasswordHash: "x", Role: model.RoleStudent}
	f.create(&f.student)
	f.create(&f.other)

	f.test = model.Test{Code: "ACT", Name: "ACT"}
	f.create(&f.test)
	f.math = model.TestSection{TestID: f.test.ID, Code: "MATH", Name: "Mathematics", OrderNo: 2, TimeLimitSec: 3600}
	f.english = model.TestSection{TestID: f.test.ID, Code: "ENG", Name: "English", OrderNo: 1, TimeLimitSec: 2700}
	f.create(&f.math)
	f.create(&f.english)

	f.course = model.Course{Title: "ACT Prep", Kind: model.CourseKindTestPrep, TestID: &f.test.ID, BaseLocale: "en"}
	f.create(&f.course)

	for i := 0; i < 4; i++ {
		q := f.question("grammar", "A", model.QuestionStatusApproved, "en")
		if i == 0 {
			f.create(&model.QuestionTranslation{QuestionID: q.ID, Locale: "es", Stem: "Pregunta de gramática"})
		}
	}
	for i := 0; i < 5; i++ {
		f.question("algebra", "B", model.QuestionStatusApproved, "en")
	}
	f.question("algebra", "B", model.QuestionStatusDraft, "en")
	f.question("algebra", "B", model.QuestionStatusApproved, "es")

	f.blueprint = model.Blueprint{
		CourseID: f.course.ID,
		Name:     "Full length",
		Version:  1,
		IsActive: true,
		Rules: []model.BlueprintRule{
			{Position: 1, SectionID: &f.math.ID, Skill: "algebra", Count: 3},
			{Position: 2, SectionID: &f.english.ID, Skill: "grammar", Count: 2},
		},
	}
	f.create(&f.blueprint)

	f.scale(&f.english.ID, 2, 30)
	f.scale(&f.english.ID, 1, 20)
	f.scale(&f.math.ID, 3, 28)
	f.scale(&f.math.ID, 2, 24)
}

func (f *examFixture) question(skill, answer, status, locale string) model.Question {
	choices, err := model.EncodeChoices([]model.Choice{{Key: "A", Text: "first"}, {Key: "B", Text: "second"}})
	require.NoError(f.t, err)
	q := model.Question{
		CourseID: f.course.ID,
		Skill:    skill,
		Status:   status,
		Locale:   locale,
		Stem:     skill + " question",
		Choices:  choices,
		Answer:   answer,
	}
	f.create(&q)
	return q
}

func (f *examFixture) scale(sectionID *uint, raw, scaled int) {
	f.create(&model.ScoreScale{TestID: f.test.ID, SectionID: sectionID, RawScore: raw, ScaledScore: scaled})
}

func (f *examFixture) items(attemptID uint) []model.AttemptItem {
	var items []model.AttemptItem
	require.NoError(f.t, f.db.Where("attempt_id = ?", attemptID).Order("item_no ASC").Find(&items).Error)
	return items
}

// correctAnswers answers every item of the attempt correctly.
func (f *examFixture) correctAnswers(attemptID uint) map[int]string {
	out := map[int]string{}
	for _, it := range f.items(attemptID) {
		out[it.ItemNo] = it.Answer
	}
	return out
}

func (f *examFixture) count(m interface{}) int64 {
	var n int64
	require.NoError(f.t, f.db.Model(m).Count(&n).Error)
	return n
}
