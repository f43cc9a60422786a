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

type poolSeed struct {
	skill      string
	difficulty int
	status     string
	locale     string
	tags       []string
}

func seedPool(t *testing.T, db *gorm.DB, courseID uint, seeds []poolSeed) []uint {
	t.Helper()
	ids := make([]uint, 0, len(seeds))
	for _, s := range seeds {
		q := model.Question{
			CourseID:   courseID,
			Skill:      s.skill,
			Difficulty: s.difficulty,
			Status:     s.status,
			Locale:     s.locale,
			Stem:       "stem",
			Answer:     "A",
		}
		for _, tag := range s.tags {
			q.Tags = append(q.Tags, model.QuestionTag{Tag: tag})
		}
		require.NoError(t, db.Create(&q).Error)
		ids = append(ids, q.ID)
	}
	return ids
}

func poolIDs(qs []model.Question) []uint {
	out := make([]uint, 0, len(qs))
	for _, q := range qs {
		out = append(out, q.ID)
	}
	return out
}

func TestFindPool(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	ids := seedPool(t, db, 1, []poolSeed{
		{"algebra", 1, model.QuestionStatusApproved, "en", []string{"linear"}},
		{"algebra", 3, model.QuestionStatusApproved, "en", []string{"linear", "calculator"}},
		{"algebra", 5, model.QuestionStatusApproved, "en", []string{"quadratic"}},
		{"algebra", 2, model.QuestionStatusDraft, "en", nil},
		{"algebra", 2, model.QuestionStatusApproved, "es", nil},
		{"geometry", 2, model.QuestionStatusApproved, "en", []string{"linear"}},
	})
	seedPool(t, db, 2, []poolSeed{{"algebra", 2, model.QuestionStatusApproved, "en", nil}})

	base := PoolFilter{CourseID: 1, Status: model.QuestionStatusApproved, Skill: "algebra", Locale: "en"}

	cases := []struct {
		name   string
		mutate func(f *PoolFilter)
		want   []uint
	}{
		{"equality only", func(f *PoolFilter) {}, []uint{ids[0], ids[1], ids[2]}},
		{"no skill", func(f *PoolFilter) { f.Skill = "" }, []uint{ids[0], ids[1], ids[2], ids[5]}},
		{"difficulty range", func(f *PoolFilter) {
			f.MinDifficulty = testutil.Ptr(2)
			f.MaxDifficulty = testutil.Ptr(5)
		}, []uint{ids[1], ids[2]}},
		{"include overlap", func(f *PoolFilter) { f.IncludeTags = []string{"quadratic", "calculator"} }, []uint{ids[1], ids[2]}},
		{"any overlap", func(f *PoolFilter) { f.AnyTags = []string{"linear"} }, []uint{ids[0], ids[1]}},
		{"exclude", func(f *PoolFilter) { f.ExcludeTags = []string{"calculator"} }, []uint{ids[0], ids[2]}},
		{"include and exclude", func(f *PoolFilter) {
			f.IncludeTags = []string{"linear"}
			f.ExcludeTags = []string{"calculator"}
		}, []uint{ids[0]}},
		{"nothing matches", func(f *PoolFilter) { f.Skill = "reading" }, []uint{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filter := base
			tc.mutate(&filter)
			got, err := repo.FindPool(ctx, filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, poolIDs(got))
		})
	}
}

func TestTranslationsFor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)
	ctx := context.Background()

	ids := seedPool(t, db, 1, []poolSeed{
		{"algebra", 1, model.QuestionStatusApproved, "en", nil},
		{"algebra", 1, model.QuestionStatusApproved, "en", nil},
	})
	require.NoError(t, db.Create(&model.QuestionTranslation{QuestionID: ids[0], Locale: "es", Stem: "hola"}).Error)
	require.NoError(t, db.Create(&model.QuestionTranslation{QuestionID: ids[1], Locale: "fr", Stem: "bonjour"}).Error)

	got, err := repo.TranslationsFor(ctx, ids, "es")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "hola", got[ids[0]].Stem)

	got, err = repo.TranslationsFor(ctx, nil, "es")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpdateStatusMissingQuestion(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewQuestionRepository(db)

	err := repo.UpdateStatus(context.Background(), 42, model.QuestionStatusRetired)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
