// Package xpfilter decides whether a posting fits an early-career
// candidate. A cheap regex pass settles the obvious cases; the ambiguous
// remainder can be escalated to an LLM.
package xpfilter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Verdict is the outcome of an experience check. Decided=false means the
// quick pass could not tell and a deeper check is warranted.
type Verdict struct {
	Suitable bool
	Decided  bool
	Reason   string
	// Experience is the stated requirement when a deep check extracted
	// one, e.g. "5+ years". Empty for quick-pass verdicts.
	Experience string
}

// Years of required experience at or above which a posting is considered
// out of reach.
const maxAcceptableYears = 8

var (
	seniorTitleRe = regexp.MustCompile(`\b(principal|staff\s+engineer|architect)\b`)
	leadTitleRe   = regexp.MustCompile(`\b(director|vp|vice president|head of)\b`)
	heavyYearsRe  = regexp.MustCompile(`\b(10\+|12\+|15\+|20\+)\s*(?:years?|yrs?)\b`)

	juniorSignalRe = regexp.MustCompile(`\b(junior|jr\.?|entry[- ]level|fresher|graduate|early career)\b`)
	lowRangeRe     = regexp.MustCompile(`\b0\s*(?:-|to|–)\s*[123]\s*(?:years?|yrs?)\b`)
	noExpRe        = regexp.MustCompile(`\bno (?:prior )?experience (?:required|needed|necessary)\b|\bfreshers welcome\b`)

	yearsRe = regexp.MustCompile(`(\d+)\s*\+?\s*(?:years?|yrs?)`)
)

// QuickCheck applies regex heuristics to title and description. It errs
// on the side of leaving a posting undecided rather than rejecting it.
func QuickCheck(title, description string) Verdict {
	t := strings.ToLower(title)
	text := t + " " + strings.ToLower(description)

	if m := seniorTitleRe.FindString(t); m != "" {
		return Verdict{Suitable: false, Decided: true, Reason: fmt.Sprintf("senior title signal %q", m)}
	}
	if m := leadTitleRe.FindString(t); m != "" {
		return Verdict{Suitable: false, Decided: true, Reason: fmt.Sprintf("leadership title signal %q", m)}
	}
	if m := heavyYearsRe.FindString(text); m != "" {
		return Verdict{Suitable: false, Decided: true, Reason: fmt.Sprintf("requires %s", m)}
	}

	if m := juniorSignalRe.FindString(text); m != "" {
		return Verdict{Suitable: true, Decided: true, Reason: fmt.Sprintf("junior signal %q", m)}
	}
	if m := lowRangeRe.FindString(text); m != "" {
		return Verdict{Suitable: true, Decided: true, Reason: fmt.Sprintf("low experience range %q", m)}
	}
	if m := noExpRe.FindString(text); m != "" {
		return Verdict{Suitable: true, Decided: true, Reason: m}
	}

	// An explicit year requirement settles it either way only when it is
	// clearly out of reach; "5 years" stays undecided for the deep check.
	for _, m := range yearsRe.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= maxAcceptableYears {
			return Verdict{Suitable: false, Decided: true, Reason: fmt.Sprintf("requires %d years", n)}
		}
	}

	return Verdict{Suitable: true, Decided: false}
}
