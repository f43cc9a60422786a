package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/lshigami/examprep/internal/model"
	"github.com/lshigami/examprep/internal/repository"
)

// NoSection is the SectionIndex of items in a section-less attempt.
const NoSection = -1

// QuestionPool is the read side of the question bank the assembler samples from.
type QuestionPool interface {
	FindPool(ctx context.Context, filter repository.PoolFilter) ([]model.Question, error)
}

// PlannedItem is one question placed in an attempt, before anything is persisted.
type PlannedItem struct {
	ItemNo       int
	SectionIndex int
	RuleID       uint
	Question     model.Question
}

// AssemblyPlan is the full layout of a new attempt. Sections are in delivery
// order and PlannedItem.SectionIndex indexes into them.
type AssemblyPlan struct {
	Sections []model.TestSection
	Items    []PlannedItem
}

// SectionItemCount returns how many items were planned for section i.
func (p *AssemblyPlan) SectionItemCount(i int) int {
	n := 0
	for _, it := range p.Items {
		if it.SectionIndex == i {
			n++
		}
	}
	return n
}

type draw struct {
	ruleID   uint
	question model.Question
}

// numberDraws numbers draws consecutively starting at next and returns the
// numbered items together with the next free item number.
func numberDraws(draws []draw, sectionIndex int, next int) ([]PlannedItem, int) {
	items := make([]PlannedItem, 0, len(draws))
	for _, d := range draws {
		items = append(items, PlannedItem{
			ItemNo:       next,
			SectionIndex: sectionIndex,
			RuleID:       d.ruleID,
			Question:     d.question,
		})
		next++
	}
	return items, next
}

type Assembler struct {
	pool    QuestionPool
	sampler *Sampler
}

func NewAssembler(pool QuestionPool, sampler *Sampler) *Assembler {
	return &Assembler{pool: pool, sampler: sampler}
}

// Assemble samples questions for every rule and lays them out by section
// order_no, then rule position. With no sections all rules form one flat list.
// Item numbers run 1..N across the whole attempt.
func (a *Assembler) Assemble(ctx context.Context, courseID uint, poolLocale string, rules []model.BlueprintRule, sections []model.TestSection) (*AssemblyPlan, error) {
	rules = sortedRules(rules)

	if len(sections) == 0 {
		draws, err := a.drawRules(ctx, courseID, poolLocale, rules)
		if err != nil {
			return nil, err
		}
		items, _ := numberDraws(draws, NoSection, 1)
		return &AssemblyPlan{Items: items}, nil
	}

	sections = sortedSections(sections)
	bySection := make(map[uint][]model.BlueprintRule, len(sections))
	known := make(map[uint]bool, len(sections))
	for _, s := range sections {
		known[s.ID] = true
	}
	for _, r := range rules {
		if r.SectionID == nil {
			return nil, newError(CodeSectionsError,
				fmt.Sprintf("blueprint rule %d has no section on a sectioned test", r.ID), nil)
		}
		if !known[*r.SectionID] {
			return nil, newError(CodeSectionsError,
				fmt.Sprintf("blueprint rule %d references unknown section %d", r.ID, *r.SectionID), nil)
		}
		bySection[*r.SectionID] = append(bySection[*r.SectionID], r)
	}

	plan := &AssemblyPlan{Sections: sections}
	next := 1
	for i, sec := range sections {
		draws, err := a.drawRules(ctx, courseID, poolLocale, bySection[sec.ID])
		if err != nil {
			return nil, err
		}
		var items []PlannedItem
		items, next = numberDraws(draws, i, next)
		plan.Items = append(plan.Items, items...)
	}
	return plan, nil
}

func (a *Assembler) drawRules(ctx context.Context, courseID uint, poolLocale string, rules []model.BlueprintRule) ([]draw, error) {
	var draws []draw
	for _, rule := range rules {
		candidates, err := a.pool.FindPool(ctx, PoolFilterFor(rule, courseID, poolLocale))
		if err != nil {
			return nil, newError(CodeDatabase, "failed to load question pool", err)
		}
		picked, err := a.sampler.Sample(candidates, rule.Count)
		if err != nil {
			if errors.Is(err, ErrInsufficientQuestions) {
				return nil, newError(CodeInsufficientQuestions,
					fmt.Sprintf("not enough approved questions for skill %q", rule.Skill), err)
			}
			return nil, err
		}
		for _, q := range picked {
			draws = append(draws, draw{ruleID: rule.ID, question: q})
		}
	}
	return draws, nil
}

func sortedRules(rules []model.BlueprintRule) []model.BlueprintRule {
	out := make([]model.BlueprintRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedSections(sections []model.TestSection) []model.TestSection {
	out := make([]model.TestSection, len(sections))
	copy(out, sections)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderNo < out[j].OrderNo })
	return out
}
