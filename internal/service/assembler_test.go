package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePool serves questions by skill and records the filters it saw.
type fakePool struct {
	bySkill map[string][]model.Question
	filters []repository.PoolFilter
	err     error
}

func (p *fakePool) FindPool(_ context.Context, f repository.PoolFilter) ([]model.Question, error) {
	p.filters = append(p.filters, f)
	if p.err != nil {
		return nil, p.err
	}
	return p.bySkill[f.Skill], nil
}

func skillPool(skill string, ids ...uint) []model.Question {
	out := make([]model.Question, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Question{ID: id, Skill: skill})
	}
	return out
}

func sectionRef(id uint) *uint { return &id }

func newTestAssembler(pool QuestionPool) *Assembler {
	return NewAssembler(pool, NewSamplerWithShuffle(identityShuffle))
}

func TestNumberDrawsFold(t *testing.T) {
	draws := []draw{
		{ruleID: 1, question: model.Question{ID: 10}},
		{ruleID: 1, question: model.Question{ID: 11}},
		{ruleID: 2, question: model.Question{ID: 12}},
	}

	items, next := numberDraws(draws, 0, 1)
	require.Len(t, items, 3)
	assert.Equal(t, 4, next)
	assert.Equal(t, []int{1, 2, 3}, []int{items[0].ItemNo, items[1].ItemNo, items[2].ItemNo})

	more, next := numberDraws(draws[:1], 1, next)
	require.Len(t, more, 1)
	assert.Equal(t, 4, more[0].ItemNo)
	assert.Equal(t, 1, more[0].SectionIndex)
	assert.Equal(t, 5, next)

	none, next := numberDraws(nil, 2, next)
	assert.Empty(t, none)
	assert.Equal(t, 5, next)
}

func TestAssembleOrdersBySectionThenRule(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{
		"algebra":  skillPool("algebra", 1, 2, 3),
		"geometry": skillPool("geometry", 4, 5),
		"grammar":  skillPool("grammar", 6, 7),
		"reading":  skillPool("reading", 8),
	}}
	// Section ids deliberately disagree with order_no.
	sections := []model.TestSection{
		{ID: 20, Code: "MATH", OrderNo: 2},
		{ID: 10, Code: "ENG", OrderNo: 1},
	}
	rules := []model.BlueprintRule{
		{ID: 1, Position: 2, SectionID: sectionRef(20), Skill: "geometry", Count: 2},
		{ID: 2, Position: 1, SectionID: sectionRef(20), Skill: "algebra", Count: 3},
		{ID: 3, Position: 2, SectionID: sectionRef(10), Skill: "reading", Count: 1},
		{ID: 4, Position: 1, SectionID: sectionRef(10), Skill: "grammar", Count: 2},
	}

	plan, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, sections)
	require.NoError(t, err)

	require.Len(t, plan.Sections, 2)
	assert.Equal(t, "ENG", plan.Sections[0].Code)
	assert.Equal(t, "MATH", plan.Sections[1].Code)

	require.Len(t, plan.Items, 8)
	var skills []string
	for i, it := range plan.Items {
		assert.Equal(t, i+1, it.ItemNo, "item numbers must be contiguous from 1")
		skills = append(skills, it.Question.Skill)
	}
	assert.Equal(t, []string{"grammar", "grammar", "reading", "algebra", "algebra", "algebra", "geometry", "geometry"}, skills)

	assert.Equal(t, 3, plan.SectionItemCount(0))
	assert.Equal(t, 5, plan.SectionItemCount(1))
	assert.Equal(t, 0, plan.Items[0].SectionIndex)
	assert.Equal(t, 1, plan.Items[7].SectionIndex)
	assert.Equal(t, uint(1), plan.Items[7].RuleID)
}

func TestAssembleFlatWithoutSections(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{
		"signs": skillPool("signs", 1, 2),
		"rules": skillPool("rules", 3, 4, 5),
	}}
	rules := []model.BlueprintRule{
		{ID: 1, Position: 2, Skill: "rules", Count: 3},
		{ID: 2, Position: 1, Skill: "signs", Count: 2},
	}

	plan, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, nil)
	require.NoError(t, err)

	assert.Empty(t, plan.Sections)
	require.Len(t, plan.Items, 5)
	for i, it := range plan.Items {
		assert.Equal(t, i+1, it.ItemNo)
		assert.Equal(t, NoSection, it.SectionIndex)
	}
	assert.Equal(t, "signs", plan.Items[0].Question.Skill)
	assert.Equal(t, "rules", plan.Items[4].Question.Skill)
}

func TestAssembleUnknownSection(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{"algebra": skillPool("algebra", 1)}}
	sections := []model.TestSection{{ID: 1, OrderNo: 1}}
	rules := []model.BlueprintRule{{ID: 1, SectionID: sectionRef(99), Skill: "algebra", Count: 1}}

	_, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, sections)
	require.Error(t, err)
	assert.Equal(t, CodeSectionsError, CodeOf(err))
	assert.Empty(t, pool.filters, "no pool query should run once the layout is invalid")
}

func TestAssembleRejectsSectionlessRuleOnSectionedTest(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{
		"algebra": skillPool("algebra", 1),
		"stray":   skillPool("stray", 2),
	}}
	sections := []model.TestSection{{ID: 1, OrderNo: 1}}
	rules := []model.BlueprintRule{
		{ID: 1, Position: 1, SectionID: sectionRef(1), Skill: "algebra", Count: 1},
		{ID: 2, Position: 2, Skill: "stray", Count: 1},
	}

	plan, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, sections)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, CodeSectionsError, CodeOf(err))
	assert.Empty(t, pool.filters)
}

func TestAssembleInsufficientQuestions(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{"algebra": skillPool("algebra", 1, 2)}}
	rules := []model.BlueprintRule{{ID: 1, Skill: "algebra", Count: 3}}

	plan, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, nil)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.Equal(t, CodeInsufficientQuestions, CodeOf(err))
	assert.True(t, errors.Is(err, ErrInsufficientQuestions))
}

func TestAssemblePoolFailureIsDatabaseError(t *testing.T) {
	pool := &fakePool{err: errors.New("connection reset")}
	rules := []model.BlueprintRule{{ID: 1, Skill: "algebra", Count: 1}}

	_, err := newTestAssembler(pool).Assemble(context.Background(), 1, "en", rules, nil)
	require.Error(t, err)
	assert.Equal(t, CodeDatabase, CodeOf(err))
}

func TestAssemblePassesPoolLocaleAndCourse(t *testing.T) {
	pool := &fakePool{bySkill: map[string][]model.Question{"algebra": skillPool("algebra", 1)}}
	rules := []model.BlueprintRule{{ID: 1, Skill: "algebra", Count: 1}}

	_, err := newTestAssembler(pool).Assemble(context.Background(), 42, "es", rules, nil)
	require.NoError(t, err)
	require.Len(t, pool.filters, 1)
	assert.Equal(t, uint(42), pool.filters[0].CourseID)
	assert.Equal(t, "es", pool.filters[0].Locale)
	assert.Equal(t, model.QuestionStatusApproved, pool.filters[0].Status)
}
