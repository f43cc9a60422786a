package repository

import (
	"context"
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestActivateKeepsOneActivePerCourse(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlueprintRepository(db)
	ctx := context.Background()

	v1 := &model.Blueprint{CourseID: 1, Name: "v1", Version: 1, IsActive: true}
	v2 := &model.Blueprint{CourseID: 1, Name: "v2", Version: 2}
	otherCourse := &model.Blueprint{CourseID: 2, Name: "other", Version: 1, IsActive: true}
	for _, bp := range []*model.Blueprint{v1, v2, otherCourse} {
		require.NoError(t, repo.Create(ctx, bp))
	}

	require.NoError(t, repo.Activate(ctx, 1, v2.ID))

	active, err := repo.FindActiveByCourse(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, active.ID)

	active, err = repo.FindActiveByCourse(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, otherCourse.ID, active.ID)

	err = repo.Activate(ctx, 1, otherCourse.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRulesComeBackInPositionOrder(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewBlueprintRepository(db)
	ctx := context.Background()

	bp := &model.Blueprint{CourseID: 1, Name: "v1", Version: 1, IsActive: true, Rules: []model.BlueprintRule{
		{Position: 2, Skill: "geometry", Count: 1},
		{Position: 1, Skill: "algebra", Count: 2, IncludeTags: []string{"linear"}},
	}}
	require.NoError(t, repo.Create(ctx, bp))

	got, err := repo.FindActiveByCourse(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got.Rules, 2)
	assert.Equal(t, "algebra", got.Rules[0].Skill)
	assert.Equal(t, []string{"linear"}, got.Rules[0].IncludeTags)
	assert.Equal(t, "geometry", got.Rules[1].Skill)

	require.NoError(t, repo.ReplaceRules(ctx, bp.ID, []model.BlueprintRule{{Position: 1, Skill: "reading", Count: 4}}))
	got, err = repo.FindByID(ctx, bp.ID)
	require.NoError(t, err)
	require.Len(t, got.Rules, 1)
	assert.Equal(t, "reading", got.Rules[0].Skill)
}
