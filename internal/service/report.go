package service

import (
	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
)

// buildScoreReport renders the stored scores of a completed attempt. The
// attempt must be loaded with sections (and their test sections) and items.
func buildScoreReport(attempt *model.Attempt) *dto.ScoreReportDTO {
	totals := make(map[uint]int, len(attempt.Sections))
	for _, item := range attempt.Items {
		if item.AttemptSectionID != nil {
			totals[*item.AttemptSectionID]++
		}
	}

	report := &dto.ScoreReportDTO{Sections: make([]dto.SectionScoreDTO, 0, len(attempt.Sections))}
	for _, sec := range attempt.Sections {
		row := dto.SectionScoreDTO{
			AttemptSectionID: sec.ID,
			SectionID:        sec.SectionID,
			ScaledScore:      sec.ScaledScore,
			TotalItems:       totals[sec.ID],
		}
		if sec.RawScore != nil {
			row.RawScore = *sec.RawScore
		}
		if sec.Section != nil {
			row.Code = sec.Section.Code
			row.Name = sec.Section.Name
		}
		report.Sections = append(report.Sections, row)
	}

	report.Overall = dto.OverallScoreDTO{
		TotalItems:  len(attempt.Items),
		ScaledScore: attempt.ScaledScore,
		Method:      attempt.ScoreMethod,
	}
	if attempt.RawScore != nil {
		report.Overall.RawScore = *attempt.RawScore
	}
	if attempt.ReportedScore != nil {
		report.Overall.ReportedScore = *attempt.ReportedScore
	}
	if report.Overall.Method == "" {
		report.Overall.Method = string(CompositeRaw)
	}
	if attempt.Course != nil && attempt.Course.Test != nil {
		report.TestCode = attempt.Course.Test.Code
	}
	if attempt.CompletedAt != nil {
		report.CompletedAt = attempt.CompletedAt.UTC()
	}
	return report
}

func sectionDTOs(attempt *model.Attempt) []dto.AttemptSectionDTO {
	counts := make(map[uint]int, len(attempt.Sections))
	for _, item := range attempt.Items {
		if item.AttemptSectionID != nil {
			counts[*item.AttemptSectionID]++
		}
	}
	out := make([]dto.AttemptSectionDTO, 0, len(attempt.Sections))
	for _, sec := range attempt.Sections {
		row := dto.AttemptSectionDTO{
			AttemptSectionID: sec.ID,
			SectionID:        sec.SectionID,
			OrderNo:          sec.OrderNo,
			QuestionCount:    counts[sec.ID],
		}
		if sec.Section != nil {
			row.Code = sec.Section.Code
			row.Name = sec.Section.Name
			row.TimeLimitSec = sec.Section.TimeLimitSec
		}
		out = append(out, row)
	}
	return out
}
