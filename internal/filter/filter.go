package filter

import (
	"strings"

	"scamlab-go/internal/dataset"
)

// All is the sentinel selection meaning "no restriction".
const All = "All"

// State is one immutable filter selection. A row passes when the scenario
// predicate and the name predicate both hold. Each predicate combines a
// set-membership check (Scenarios/Names, with the All sentinel or an empty
// set short-circuiting to true) and a case-insensitive substring check
// (empty substring short-circuits to true).
type State struct {
	Scenarios        []string
	Names            []string
	ScenarioContains string
	NameContains     string
}

// Apply recomputes the filtered row set from the full dataset. It never
// composes with a previous filtered result, so there is no stale state to
// carry between selections.
func Apply(rows []dataset.Row, s State) []dataset.Row {
	out := make([]dataset.Row, 0, len(rows))
	for _, r := range rows {
		if !passes(r.Scenario, s.Scenarios, s.ScenarioContains) {
			continue
		}
		if !passes(r.Name, s.Names, s.NameContains) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func passes(value string, selected []string, contains string) bool {
	return inSelection(value, selected) && containsFold(value, contains)
}

func inSelection(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == All {
			return true
		}
		if s == value {
			return true
		}
	}
	return false
}

func containsFold(value, sub string) bool {
	if sub == "" {
		return true
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(sub))
}
