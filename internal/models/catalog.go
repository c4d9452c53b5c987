package models

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTechnology = errors.New("unknown technology")
	ErrUnknownCriterion  = errors.New("unknown criterion")
)

// Technology is one of the fixed options being evaluated
type Technology int

const (
	TechA Technology = iota
	TechB
	TechC
	TechD
	TechE

	NumTechnologies = int(TechE) + 1
)

// TechnologyNames maps technologies to their display labels
var TechnologyNames = map[Technology]string{
	TechA: "Tech A",
	TechB: "Tech B",
	TechC: "Tech C",
	TechD: "Tech D",
	TechE: "Tech E",
}

// TechnologyColors is the chart colour of each technology
var TechnologyColors = map[Technology]string{
	TechA: "#1f86b8",
	TechB: "#e67e22",
	TechC: "#27ae60",
	TechD: "#8e44ad",
	TechE: "#e74c3c",
}

// Criterion is one of the fixed assessment dimensions
type Criterion int

const (
	Criterion1 Criterion = iota
	Criterion2
	Criterion3
	Criterion4
	Criterion5

	NumCriteria = int(Criterion5) + 1
)

// CriterionNames maps criteria to their display labels
var CriterionNames = map[Criterion]string{
	Criterion1: "Criteria 1",
	Criterion2: "Criteria 2",
	Criterion3: "Criteria 3",
	Criterion4: "Criteria 4",
	Criterion5: "Criteria 5",
}

// Technologies returns every technology in display order.
func Technologies() []Technology {
	out := make([]Technology, NumTechnologies)
	for i := range out {
		out[i] = Technology(i)
	}
	return out
}

// Criteria returns every criterion in display order. The order is the axis
// order of the radar chart and of every score slice.
func Criteria() []Criterion {
	out := make([]Criterion, NumCriteria)
	for i := range out {
		out[i] = Criterion(i)
	}
	return out
}

func (t Technology) Valid() bool { return t >= 0 && int(t) < NumTechnologies }

func (t Technology) String() string {
	if name, ok := TechnologyNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Technology(%d)", int(t))
}

// Slug is the form-safe identifier, e.g. "tech-a".
func (t Technology) Slug() string { return slugify(t.String()) }

// Color returns the chart colour, grey for anything outside the catalog.
func (t Technology) Color() string {
	if c, ok := TechnologyColors[t]; ok {
		return c
	}
	return "#999"
}

func (c Criterion) Valid() bool { return c >= 0 && int(c) < NumCriteria }

func (c Criterion) String() string {
	if name, ok := CriterionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Criterion(%d)", int(c))
}

// Slug is the form-safe identifier, e.g. "criteria-1".
func (c Criterion) Slug() string { return slugify(c.String()) }

// ParseTechnology accepts a display name or a slug.
func ParseTechnology(s string) (Technology, error) {
	for _, t := range Technologies() {
		if s == t.String() || s == t.Slug() {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownTechnology, s)
}

// ParseCriterion accepts a display name or a slug.
func ParseCriterion(s string) (Criterion, error) {
	for _, c := range Criteria() {
		if s == c.String() || s == c.Slug() {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCriterion, s)
}

func slugify(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "-")
}
