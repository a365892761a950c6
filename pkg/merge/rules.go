package merge

import (
	"fmt"

	"github.com/boardworks/panelize/pkg/board"
)

// CheckRules reconciles a design rule set against the rules accumulated so
// far. The first input that carries rules donates them; every later input
// must carry an exactly equal set. Inputs without rules are accepted
// unchanged (nothing to compare). Comparison is exact, with no tolerance:
// differing rules describe physically different manufacturing constraints.
//
// On mismatch the returned [DesignRuleMismatchError] names every differing
// parameter, not just the first, so one round trip fixes the input.
func CheckRules(accumulated, incoming *board.DesignRules, file string) (*board.DesignRules, error) {
	if incoming == nil {
		return accumulated, nil
	}
	if accumulated == nil {
		adopted := *incoming
		adopted.Descriptions = append([]board.Description(nil), incoming.Descriptions...)
		adopted.Params = append([]board.Param(nil), incoming.Params...)
		return &adopted, nil
	}

	diffs := ruleDiffs(accumulated, incoming)
	if len(diffs) > 0 {
		return nil, &DesignRuleMismatchError{File: file, Params: diffs}
	}
	return accumulated, nil
}

// ruleDiffs returns the names of every parameter that differs between the
// two rule sets, plus pseudo-parameters for name and description changes.
func ruleDiffs(have, in *board.DesignRules) []string {
	var diffs []string
	if have.Name != in.Name {
		diffs = append(diffs, "name")
	}
	if !descriptionsEqual(have.Descriptions, in.Descriptions) {
		diffs = append(diffs, "description")
	}

	haveParams := paramMap(have.Params)
	inParams := paramMap(in.Params)
	for _, p := range have.Params {
		v, ok := inParams[p.Name]
		if !ok || v != p.Value {
			diffs = append(diffs, p.Name)
		}
	}
	for _, p := range in.Params {
		if _, ok := haveParams[p.Name]; !ok {
			diffs = append(diffs, p.Name)
		}
	}
	return diffs
}

func paramMap(params []board.Param) map[string]string {
	m := make(map[string]string, len(params))
	for _, p := range params {
		m[p.Name] = p.Value
	}
	return m
}

func descriptionsEqual(a, b []board.Description) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// FormatRuleDiff renders a one-line summary of the value difference for a
// single differing parameter from a [DesignRuleMismatchError], for
// diagnostics. The pseudo-parameters "name" and "description" produced by
// the comparison are rendered from the rule set headers.
func FormatRuleDiff(have, in *board.DesignRules, param string) string {
	switch param {
	case "name":
		return fmt.Sprintf("name: have %q, incoming %q", have.Name, in.Name)
	case "description":
		return "description: texts differ"
	}
	hv, _ := have.Param(param)
	iv, _ := in.Param(param)
	return fmt.Sprintf("%s: have %q, incoming %q", param, hv, iv)
}
