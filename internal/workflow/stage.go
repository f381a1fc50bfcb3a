// internal/workflow/stage.go
//
// Stage detection for the draft lifecycle.
// A record's stage is implied by the directory holding it, so the project
// stage is derived by looking at which stage directories have files.

package workflow

import (
	"fmt"
	"strings"
)

// Stage is one step of the idea -> rule lifecycle.
type Stage string

const (
	StageIdea       Stage = "idea"
	StageIdeasDraft Stage = "ideas-draft"
	StageRulesDraft Stage = "rules-draft"
	StageFinalRule  Stage = "final-rule"
)

var stageOrder = []Stage{StageIdea, StageIdeasDraft, StageRulesDraft, StageFinalRule}

// Stages returns the lifecycle stages in promotion order.
func Stages() []Stage {
	return append([]Stage{}, stageOrder...)
}

// ParseStage accepts a stage name or the short selector used on the command
// line ("ideas", "rules").
func ParseStage(value string) (Stage, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "idea", "ideas-source":
		return StageIdea, nil
	case "ideas", "ideas-draft":
		return StageIdeasDraft, nil
	case "rules", "rules-draft", "":
		return StageRulesDraft, nil
	case "final", "final-rule", "mdc":
		return StageFinalRule, nil
	default:
		return "", fmt.Errorf("workflow: unknown stage %q", value)
	}
}

// String returns the stage identifier.
func (s Stage) String() string {
	return string(s)
}

// FriendlyName returns a short label for menus.
func (s Stage) FriendlyName() string {
	switch s {
	case StageIdea:
		return "Idea"
	case StageIdeasDraft:
		return "Implementation Drafts"
	case StageRulesDraft:
		return "Rule Drafts"
	case StageFinalRule:
		return "MDC Rules"
	default:
		return "Unknown"
	}
}

// Next returns the stage a promotion from s produces.
func (s Stage) Next() Stage {
	for i, stage := range stageOrder {
		if stage == s && i+1 < len(stageOrder) {
			return stageOrder[i+1]
		}
	}
	return StageFinalRule
}

// IsDraft reports whether records at this stage are YAML drafts.
func (s Stage) IsDraft() bool {
	return s == StageIdeasDraft || s == StageRulesDraft
}

// Valid reports whether s is a known stage.
func (s Stage) Valid() bool {
	for _, stage := range stageOrder {
		if stage == s {
			return true
		}
	}
	return false
}

// Status summarizes how far a project has progressed.
type Status struct {
	Counts map[Stage]int
	// Stage is the most advanced stage that holds files.
	Stage Stage
}

// Label describes the project state the way the start menu shows it.
func (s Status) Label() string {
	switch {
	case s.Counts[StageRulesDraft] > 0:
		return "Has rule drafts"
	case s.Counts[StageIdeasDraft] > 0:
		return "Has implementation drafts"
	case s.Counts[StageFinalRule] > 0:
		return "Ready to use"
	default:
		return "New idea"
	}
}

// NextStep describes the action that advances the project.
func (s Status) NextStep() string {
	switch {
	case s.Counts[StageRulesDraft] > 0:
		return "Create final MDC rules"
	case s.Counts[StageIdeasDraft] > 0:
		return "Convert to rule drafts"
	case s.Counts[StageFinalRule] > 0:
		return "View status"
	default:
		return "Generate implementation drafts"
	}
}
