package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SelectionMatrix records which technologies meet which criteria.
// It is a fixed-size array so every (technology, criterion) pair is always
// present and plain assignment produces an independent copy.
type SelectionMatrix struct {
	cells [NumTechnologies][NumCriteria]bool
}

// Get reports whether the pair is selected. Pairs outside the catalog are
// never selected.
func (m SelectionMatrix) Get(t Technology, c Criterion) bool {
	if !t.Valid() || !c.Valid() {
		return false
	}
	return m.cells[t][c]
}

// Set stores the value for a pair and ignores pairs outside the catalog.
func (m *SelectionMatrix) Set(t Technology, c Criterion, v bool) {
	if !t.Valid() || !c.Valid() {
		return
	}
	m.cells[t][c] = v
}

// Toggle flips a pair and returns the new value.
func (m *SelectionMatrix) Toggle(t Technology, c Criterion) bool {
	if !t.Valid() || !c.Valid() {
		return false
	}
	m.cells[t][c] = !m.cells[t][c]
	return m.cells[t][c]
}

// Reset clears every pair.
func (m *SelectionMatrix) Reset() {
	m.cells = [NumTechnologies][NumCriteria]bool{}
}

// Any reports whether the technology meets at least one criterion.
func (m SelectionMatrix) Any(t Technology) bool {
	for _, c := range Criteria() {
		if m.Get(t, c) {
			return true
		}
	}
	return false
}

// SelectedTechnologies lists, in catalog order, the technologies with at
// least one selected criterion.
func (m SelectionMatrix) SelectedTechnologies() []Technology {
	var out []Technology
	for _, t := range Technologies() {
		if m.Any(t) {
			out = append(out, t)
		}
	}
	return out
}

// Count returns the number of selected pairs.
func (m SelectionMatrix) Count() int {
	n := 0
	for _, row := range m.cells {
		for _, v := range row {
			if v {
				n++
			}
		}
	}
	return n
}

// MarshalJSON writes the nested {"Tech A": {"Criteria 1": true}} form with
// every pair present.
func (m SelectionMatrix) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]bool, NumTechnologies)
	for _, t := range Technologies() {
		row := make(map[string]bool, NumCriteria)
		for _, c := range Criteria() {
			row[c.String()] = m.cells[t][c]
		}
		out[t.String()] = row
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts display names or slugs. Missing pairs are false,
// unknown names are rejected.
func (m *SelectionMatrix) UnmarshalJSON(data []byte) error {
	var raw map[string]map[string]bool
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed SelectionMatrix
	for techName, row := range raw {
		t, err := ParseTechnology(techName)
		if err != nil {
			return err
		}
		for critName, v := range row {
			c, err := ParseCriterion(critName)
			if err != nil {
				return err
			}
			parsed.cells[t][c] = v
		}
	}

	*m = parsed
	return nil
}

// Value stores the matrix as JSON text.
func (m SelectionMatrix) Value() (driver.Value, error) {
	b, err := m.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan reads the JSON text written by Value.
func (m *SelectionMatrix) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return m.UnmarshalJSON(v)
	case string:
		return m.UnmarshalJSON([]byte(v))
	case nil:
		m.Reset()
		return nil
	default:
		return fmt.Errorf("cannot scan %T into SelectionMatrix", src)
	}
}
