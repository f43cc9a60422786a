package service

import (
	"context"
	"testing"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/lshigami/examprep/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeFollowsTestFamily(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	conv := NewScoreConverterService(repository.NewScoreScaleRepository(db))

	sat := model.Test{Code: "SAT", Name: "SAT"}
	require.NoError(t, db.Create(&sat).Error)
	act := model.Test{Code: "ACT", Name: "ACT"}
	require.NoError(t, db.Create(&act).Error)

	got, err := conv.Composite(ctx, &sat, 40, []*int{intp(600), intp(700)})
	require.NoError(t, err)
	assert.Equal(t, CompositeSum, got.Method)
	require.NotNil(t, got.Scaled)
	assert.Equal(t, 1300, got.Reported)

	got, err = conv.Composite(ctx, &act, 40, []*int{intp(27), intp(28)})
	require.NoError(t, err)
	assert.Equal(t, CompositeMean, got.Method)
	assert.Equal(t, 28, got.Reported)

	got, err = conv.Composite(ctx, &act, 40, []*int{intp(27), nil})
	require.NoError(t, err)
	assert.Equal(t, CompositeRaw, got.Method)
	assert.Nil(t, got.Scaled)
	assert.Equal(t, 40, got.Reported)

	got, err = conv.Composite(ctx, nil, 12, nil)
	require.NoError(t, err)
	assert.Equal(t, CompositeRaw, got.Method)
	assert.Equal(t, 12, got.Reported)
}

func TestCompositeTableWinsOverFamilyRule(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	conv := NewScoreConverterService(repository.NewScoreScaleRepository(db))

	psat := model.Test{Code: "PSAT-NMSQT", Name: "PSAT"}
	require.NoError(t, db.Create(&psat).Error)
	section := model.TestSection{TestID: psat.ID, Code: "MATH", Name: "Math", OrderNo: 1}
	require.NoError(t, db.Create(&section).Error)
	require.NoError(t, db.Create(&model.ScoreScale{TestID: psat.ID, RawScore: 30, ScaledScore: 1010}).Error)
	require.NoError(t, db.Create(&model.ScoreScale{TestID: psat.ID, SectionID: &section.ID, RawScore: 30, ScaledScore: 510}).Error)

	got, err := conv.Composite(ctx, &psat, 30, []*int{intp(500), intp(500)})
	require.NoError(t, err)
	assert.Equal(t, CompositeTable, got.Method)
	assert.Equal(t, 1010, got.Reported)

	scaled, err := conv.SectionScaled(ctx, psat.ID, section.ID, 30)
	require.NoError(t, err)
	require.NotNil(t, scaled)
	assert.Equal(t, 510, *scaled)

	scaled, err = conv.SectionScaled(ctx, psat.ID, section.ID, 29)
	require.NoError(t, err)
	assert.Nil(t, scaled)
}
