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

// AdminTestService manages tests, their sections, and score scales.
type AdminTestService interface {
	CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestResponseDTO, error)
	ListTests(ctx context.Context) ([]dto.TestResponseDTO, error)
	ReplaceScoreScale(ctx context.Context, testID uint, req dto.ScoreScaleReplaceDTO) ([]dto.ScoreScaleResponseDTO, error)
	ListScoreScales(ctx context.Context, testID uint) ([]dto.ScoreScaleResponseDTO, error)
}

type adminTestService struct {
	testRepo  repository.TestRepository
	scaleRepo repository.ScoreScaleRepository
	db        *gorm.DB
}

func NewAdminTestService(testRepo repository.TestRepository, scaleRepo repository.ScoreScaleRepository, db *gorm.DB) AdminTestService {
	return &adminTestService{testRepo: testRepo, scaleRepo: scaleRepo, db: db}
}

func (s *adminTestService) CreateTest(ctx context.Context, req dto.TestCreateDTO) (*dto.TestResponseDTO, error) {
	codes := make(map[string]bool)
	orders := make(map[int]bool)
	var sections []model.TestSection
	for _, sec := range req.Sections {
		code := strings.ToUpper(strings.TrimSpace(sec.Code))
		if codes[code] {
			return nil, newError(CodeValidation, fmt.Sprintf("duplicate section code %q", code), nil)
		}
		if orders[sec.OrderNo] {
			return nil, newError(CodeValidation, fmt.Sprintf("duplicate section order_no %d", sec.OrderNo), nil)
		}
		codes[code] = true
		orders[sec.OrderNo] = true

		var section model.TestSection
		if err := copier.Copy(&section, &sec); err != nil {
			return nil, fmt.Errorf("copy section: %w", err)
		}
		section.Code = code
		sections = append(sections, section)
	}

	test := model.Test{
		Code:     strings.ToUpper(strings.TrimSpace(req.Code)),
		Name:     req.Name,
		Sections: sections,
	}
	if err := s.testRepo.Create(ctx, &test); err != nil {
		log.Error().Err(err).Str("code", test.Code).Msg("Failed to create test in database")
		return nil, dbError(err, "")
	}

	created, err := s.testRepo.FindByID(ctx, test.ID)
	if err != nil {
		log.Error().Err(err).Uint("testID", test.ID).Msg("Failed to reload created test, responding with input")
		created = &test
	}

	var resp dto.TestResponseDTO
	if err := copier.Copy(&resp, created); err != nil {
		log.Error().Err(err).Msg("Failed to copy Test model to TestResponseDTO")
		return nil, fmt.Errorf("error preparing response data: %w", err)
	}
	return &resp, nil
}

func (s *adminTestService) ListTests(ctx context.Context) ([]dto.TestResponseDTO, error) {
	tests, err := s.testRepo.FindAll(ctx)
	if err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.TestResponseDTO, 0, len(tests))
	if err := copier.Copy(&out, &tests); err != nil {
		return nil, fmt.Errorf("copy tests: %w", err)
	}
	return out, nil
}

func (s *adminTestService) ReplaceScoreScale(ctx context.Context, testID uint, req dto.ScoreScaleReplaceDTO) ([]dto.ScoreScaleResponseDTO, error) {
	test, err := s.testRepo.FindByID(ctx, testID)
	if err != nil {
		return nil, dbError(err, fmt.Sprintf("test %d not found", testID))
	}
	if req.SectionID != nil {
		found := false
		for _, sec := range test.Sections {
			if sec.ID == *req.SectionID {
				found = true
				break
			}
		}
		if !found {
			return nil, newError(CodeValidation, fmt.Sprintf("section %d is not part of test %s", *req.SectionID, test.Code), nil)
		}
	}

	seen := make(map[int]bool, len(req.Rows))
	rows := make([]model.ScoreScale, 0, len(req.Rows))
	for _, r := range req.Rows {
		if seen[r.RawScore] {
			return nil, newError(CodeValidation, fmt.Sprintf("duplicate raw_score %d", r.RawScore), nil)
		}
		seen[r.RawScore] = true
		rows = append(rows, model.ScoreScale{RawScore: r.RawScore, ScaledScore: r.ScaledScore})
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.scaleRepo.WithTx(tx).Replace(ctx, testID, req.SectionID, rows)
	})
	if err != nil {
		log.Error().Err(err).Uint("testID", testID).Msg("ReplaceScoreScale: transaction failed")
		return nil, dbError(err, "")
	}

	out := make([]dto.ScoreScaleResponseDTO, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, fmt.Errorf("copy score scale: %w", err)
	}
	return out, nil
}

func (s *adminTestService) ListScoreScales(ctx context.Context, testID uint) ([]dto.ScoreScaleResponseDTO, error) {
	rows, err := s.scaleRepo.FindByTest(ctx, testID)
	if err != nil {
		return nil, dbError(err, "")
	}
	out := make([]dto.ScoreScaleResponseDTO, 0, len(rows))
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, fmt.Errorf("copy score scale: %w", err)
	}
	return out, nil
}
