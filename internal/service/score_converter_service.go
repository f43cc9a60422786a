package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
)

// CompositeMethod names how an attempt's overall scaled score was produced.
type CompositeMethod string

const (
	CompositeTable CompositeMethod = "table" // direct composite row in the score scale
	CompositeMean  CompositeMethod = "mean"  // rounded mean of section scaled scores (ACT family)
	CompositeSum   CompositeMethod = "sum"   // sum of section scaled scores (SAT family)
	CompositeRaw   CompositeMethod = "raw"   // no scaled score; raw total is reported
)

// FamilyRule returns the fallback composite rule for a test code, or
// CompositeRaw when the family has none.
func FamilyRule(testCode string) CompositeMethod {
	code := strings.ToUpper(strings.TrimSpace(testCode))
	switch {
	case code == "ACT" || strings.HasPrefix(code, "ACT-") || strings.HasPrefix(code, "ACT_"):
		return CompositeMean
	case code == "SAT" || code == "PSAT" || strings.HasPrefix(code, "SAT-") || strings.HasPrefix(code, "SAT_") ||
		strings.HasPrefix(code, "PSAT-") || strings.HasPrefix(code, "PSAT_"):
		return CompositeSum
	default:
		return CompositeRaw
	}
}

// CombineSectionScores applies a family rule. It returns nil when any section
// lacks a scaled score, when there are no sections, or when the rule is not mean/sum.
func CombineSectionScores(method CompositeMethod, scaled []*int) *int {
	if len(scaled) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scaled {
		if s == nil {
			return nil
		}
		sum += *s
	}
	var out int
	switch method {
	case CompositeMean:
		out = int(math.Round(float64(sum) / float64(len(scaled))))
	case CompositeSum:
		out = sum
	default:
		return nil
	}
	return &out
}

// CompositeScore is the attempt-wide result of score conversion.
type CompositeScore struct {
	Scaled   *int
	Reported int
	Method   CompositeMethod
}

type ScoreConverterService interface {
	// SectionScaled looks up a section's scaled score; nil when the table has no row.
	SectionScaled(ctx context.Context, testID, sectionID uint, raw int) (*int, error)
	// Composite tries a direct composite row first, then the test family's rule,
	// and finally falls back to reporting the raw total.
	Composite(ctx context.Context, test *model.Test, totalRaw int, sectionScaled []*int) (CompositeScore, error)
}

type scoreConverterServiceImpl struct {
	scales repository.ScoreScaleRepository
}

func NewScoreConverterService(scales repository.ScoreScaleRepository) ScoreConverterService {
	return &scoreConverterServiceImpl{scales: scales}
}

func (s *scoreConverterServiceImpl) SectionScaled(ctx context.Context, testID, sectionID uint, raw int) (*int, error) {
	sid := sectionID
	scaled, err := s.scales.Lookup(ctx, testID, &sid, raw)
	if err != nil {
		return nil, fmt.Errorf("section scale lookup (test %d, section %d, raw %d): %w", testID, sectionID, raw, err)
	}
	return scaled, nil
}

func (s *scoreConverterServiceImpl) Composite(ctx context.Context, test *model.Test, totalRaw int, sectionScaled []*int) (CompositeScore, error) {
	raw := CompositeScore{Reported: totalRaw, Method: CompositeRaw}
	if test == nil {
		return raw, nil
	}

	direct, err := s.scales.Lookup(ctx, test.ID, nil, totalRaw)
	if err != nil {
		return CompositeScore{}, fmt.Errorf("composite scale lookup (test %d, raw %d): %w", test.ID, totalRaw, err)
	}
	if direct != nil {
		return CompositeScore{Scaled: direct, Reported: *direct, Method: CompositeTable}, nil
	}

	method := FamilyRule(test.Code)
	if combined := CombineSectionScores(method, sectionScaled); combined != nil {
		return CompositeScore{Scaled: combined, Reported: *combined, Method: method}, nil
	}
	return raw, nil
}
