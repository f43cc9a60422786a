package service

import (
	"github.com/lshigami/examprep/internal/model"
)

// ItemGrade is the graded state of one attempt item.
type ItemGrade struct {
	ItemID           uint
	ItemNo           int
	AttemptSectionID *uint
	Response         *string
	Correct          bool
}

// SectionTally counts correct items for one attempt section.
type SectionTally struct {
	AttemptSectionID uint
	Raw              int
	Total            int
}

type GradeResult struct {
	Items      []ItemGrade
	Sections   map[uint]*SectionTally
	TotalRaw   int
	TotalItems int
}

// IsCorrect reports whether a submission matches the stored answer exactly.
// A missing submission is never correct.
func IsCorrect(stored string, submitted *string) bool {
	return submitted != nil && *submitted == stored
}

// GradeItems grades every item against answers keyed by item number. It reads
// nothing but its arguments, so grading the same pair twice gives the same result.
func GradeItems(items []model.AttemptItem, answers map[int]string) GradeResult {
	res := GradeResult{
		Items:    make([]ItemGrade, 0, len(items)),
		Sections: make(map[uint]*SectionTally),
	}
	for _, item := range items {
		var response *string
		if ans, ok := answers[item.ItemNo]; ok {
			a := ans
			response = &a
		}
		correct := IsCorrect(item.Answer, response)
		res.Items = append(res.Items, ItemGrade{
			ItemID:           item.ID,
			ItemNo:           item.ItemNo,
			AttemptSectionID: item.AttemptSectionID,
			Response:         response,
			Correct:          correct,
		})
		res.TotalItems++
		if correct {
			res.TotalRaw++
		}
		if item.AttemptSectionID != nil {
			tally, ok := res.Sections[*item.AttemptSectionID]
			if !ok {
				tally = &SectionTally{AttemptSectionID: *item.AttemptSectionID}
				res.Sections[*item.AttemptSectionID] = tally
			}
			tally.Total++
			if correct {
				tally.Raw++
			}
		}
	}
	return res
}

// Tally returns the tally for an attempt section, zero-valued when it had no items.
func (r GradeResult) Tally(attemptSectionID uint) SectionTally {
	if t, ok := r.Sections[attemptSectionID]; ok {
		return *t
	}
	return SectionTally{AttemptSectionID: attemptSectionID}
}
