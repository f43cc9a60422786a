package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lshigami/examprep/internal/dto"
	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
	"github.com/rs/zerolog/log"
)

// maxCoachedItems caps how many missed items are quoted in one prompt.
const maxCoachedItems = 20

type StudyCoachService interface {
	Coach(ctx context.Context, userID, attemptID uint) (*dto.CoachingDTO, error)
}

type studyCoachService struct {
	attemptRepo repository.AttemptRepository
	llm         GeminiLLMService
}

func NewStudyCoachService(attemptRepo repository.AttemptRepository, llm GeminiLLMService) StudyCoachService {
	return &studyCoachService{attemptRepo: attemptRepo, llm: llm}
}

func (s *studyCoachService) Coach(ctx context.Context, userID, attemptID uint) (*dto.CoachingDTO, error) {
	if !s.llm.Enabled() {
		return nil, newError(CodeCoachUnavailable, "study coaching is not configured", nil)
	}
	attempt, err := s.attemptRepo.FindByIDWithDetails(ctx, attemptID)
	if err != nil {
		return nil, dbError(err, "attempt not found")
	}
	if attempt.UserID != userID {
		return nil, newError(CodeUnauthorized, "attempt belongs to another user", nil)
	}
	if !attempt.IsCompleted() {
		return nil, newError(CodeValidation, "attempt is not completed yet", nil)
	}

	missed := missedItems(attempt.Items)
	out := &dto.CoachingDTO{AttemptID: attempt.ID, MissedItems: len(missed)}
	if len(missed) == 0 {
		out.Advice = "Every item was answered correctly. Keep practicing at a higher difficulty."
		return out, nil
	}

	advice, err := s.llm.GenerateAdvice(ctx, coachingPrompt(attempt, missed))
	if err != nil {
		log.Error().Err(err).Uint("attemptID", attemptID).Msg("Coach: advice generation failed")
		return nil, newError(CodeCoachUnavailable, "study coach failed to respond", err)
	}
	out.Advice = advice
	return out, nil
}

func missedItems(items []model.AttemptItem) []model.AttemptItem {
	var out []model.AttemptItem
	for _, it := range items {
		if it.Correct == nil || !*it.Correct {
			out = append(out, it)
		}
	}
	return out
}

func coachingPrompt(attempt *model.Attempt, missed []model.AttemptItem) string {
	bySkill := make(map[string]int)
	for _, it := range missed {
		bySkill[it.Skill]++
	}
	skills := make([]string, 0, len(bySkill))
	for sk := range bySkill {
		skills = append(skills, sk)
	}
	sort.Slice(skills, func(i, j int) bool {
		if bySkill[skills[i]] != bySkill[skills[j]] {
			return bySkill[skills[i]] > bySkill[skills[j]]
		}
		return skills[i] < skills[j]
	})

	var sb strings.Builder
	sb.WriteString("You are an experienced standardized test tutor.\n")
	testCode := "practice exam"
	if attempt.Course != nil && attempt.Course.Test != nil {
		testCode = attempt.Course.Test.Code
	}
	fmt.Fprintf(&sb, "A student finished a %s attempt and missed %d of %d items.\n", testCode, len(missed), len(attempt.Items))
	if attempt.Locale != "" {
		fmt.Fprintf(&sb, "Reply in the language with locale code %q.\n", attempt.Locale)
	}
	sb.WriteString("\nMissed items by skill:\n")
	for _, sk := range skills {
		fmt.Fprintf(&sb, "- %s: %d\n", sk, bySkill[sk])
	}
	sb.WriteString("\nSample missed items:\n")
	for i, it := range missed {
		if i == maxCoachedItems {
			break
		}
		response := "(no answer)"
		if it.Response != nil {
			response = *it.Response
		}
		fmt.Fprintf(&sb, "%d. [%s] %s\n   Student answered %s, correct answer %s.\n", it.ItemNo, it.Skill, it.Stem, response, it.Answer)
	}
	sb.WriteString("\nGive a short study plan: the two or three skills to focus on first, ")
	sb.WriteString("the likely misconception behind the errors, and one concrete exercise per skill.\n")
	return sb.String()
}
