package service

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
)

// ErrInsufficientQuestions means a rule asked for more questions than its pool holds.
var ErrInsufficientQuestions = errors.New("insufficient questions")

// ShuffleFunc has the signature of rand.Shuffle.
type ShuffleFunc func(n int, swap func(i, j int))

// Sampler draws a uniformly random subset of a candidate pool.
type Sampler struct {
	shuffle ShuffleFunc
}

func NewSampler() *Sampler {
	return &Sampler{shuffle: rand.Shuffle}
}

// NewSamplerWithShuffle is used by tests that need a deterministic order.
func NewSamplerWithShuffle(shuffle ShuffleFunc) *Sampler {
	return &Sampler{shuffle: shuffle}
}

// Sample returns exactly count questions, or ErrInsufficientQuestions when the
// pool is smaller than count. The candidates slice is not modified.
func (s *Sampler) Sample(candidates []model.Question, count int) ([]model.Question, error) {
	if count <= 0 {
		return []model.Question{}, nil
	}
	if len(candidates) < count {
		return nil, fmt.Errorf("%w: need %d, have %d", ErrInsufficientQuestions, count, len(candidates))
	}
	pool := make([]model.Question, len(candidates))
	copy(pool, candidates)
	s.shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:count], nil
}

// PoolFilterFor builds the approved-question filter for one rule.
func PoolFilterFor(rule model.BlueprintRule, courseID uint, locale string) repository.PoolFilter {
	return repository.PoolFilter{
		CourseID:      courseID,
		Status:        model.QuestionStatusApproved,
		Skill:         rule.Skill,
		Locale:        locale,
		MinDifficulty: rule.MinDifficulty,
		MaxDifficulty: rule.MaxDifficulty,
		IncludeTags:   rule.IncludeTags,
		AnyTags:       rule.AnyTags,
		ExcludeTags:   rule.ExcludeTags,
	}
}
