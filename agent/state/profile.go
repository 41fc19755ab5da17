package state

import (
	"fmt"
	"strings"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
)

// DefaultPerformance is used when no performance level is supplied.
const DefaultPerformance = 1

// MaxPerformance is the highest level callers should accept from users.
const MaxPerformance = 150

// Profile is the mutable state owned by one planning run.
// - Values: the 7 canonical fields, fixed key set.
// - Missing: fields that were empty at construction, never recomputed.
// - Objectives / Refined: outputs of the objective stages.
type Profile struct {
	values      [fieldx.Count]string
	missing     []fieldx.Field
	performance int

	objectives StrategicObjectives
	refined    string
}

// Entry is one row of the profile table.
type Entry struct {
	Field fieldx.Field
	Value string
}

// NewProfile builds a profile from construction-time values.
// A performance level <= 0 is treated as unspecified.
func NewProfile(info Info, performance int) *Profile {
	if performance <= 0 {
		performance = DefaultPerformance
	}

	p := &Profile{performance: performance}
	for i, f := range fieldx.All() {
		v := info.Value(f)
		p.values[i] = v
		if v == "" {
			p.missing = append(p.missing, f)
		}
	}
	return p
}

// Get returns a read-only copy of the profile in canonical order.
func (p *Profile) Get() []Entry {
	out := make([]Entry, 0, fieldx.Count)
	for i, f := range fieldx.All() {
		out = append(out, Entry{Field: f, Value: p.values[i]})
	}
	return out
}

// Info returns the current values as an Info.
func (p *Profile) Info() Info {
	var info Info
	for i, f := range fieldx.All() {
		info.set(f, p.values[i])
	}
	return info
}

// Value returns the current value of f.
func (p *Profile) Value(f fieldx.Field) string {
	idx := fieldx.Index(f)
	if idx < 0 {
		return ""
	}
	return p.values[idx]
}

// Lookup returns the value stored under a raw key.
func (p *Profile) Lookup(key string) (string, error) {
	f, err := fieldx.Parse(key)
	if err != nil {
		return "", err
	}
	return p.Value(f), nil
}

// Set overwrites exactly one field.
func (p *Profile) Set(f fieldx.Field, value string) error {
	idx := fieldx.Index(f)
	if idx < 0 {
		_, err := fieldx.Parse(string(f))
		return err
	}
	p.values[idx] = value
	return nil
}

// Apply stores candidate into f according to policy and reports whether
// the field was written.
func (p *Profile) Apply(policy UpdatePolicy, f fieldx.Field, candidate string) (bool, error) {
	if !policy.Accepts(candidate) {
		if !f.Valid() {
			_, err := fieldx.Parse(string(f))
			return false, err
		}
		return false, nil
	}
	if err := p.Set(f, candidate); err != nil {
		return false, err
	}
	return true, nil
}

// Missing returns the construction-time snapshot of empty fields.
func (p *Profile) Missing() []fieldx.Field {
	out := make([]fieldx.Field, len(p.missing))
	copy(out, p.missing)
	return out
}

// Empty returns the fields whose current value is empty.
func (p *Profile) Empty() []fieldx.Field {
	var out []fieldx.Field
	for i, f := range fieldx.All() {
		if p.values[i] == "" {
			out = append(out, f)
		}
	}
	return out
}

func (p *Profile) Performance() int {
	return p.performance
}

// TokenBudget is 200 for performance 1 and grows by 200 per level
// (30000 at 150).
func (p *Profile) TokenBudget() int {
	return TokenBudget(p.performance)
}

func TokenBudget(performance int) int {
	return 200 + (performance-1)*200
}

func (p *Profile) Objectives() StrategicObjectives {
	return p.objectives
}

// SetObjectives replaces the strategic objectives wholesale.
func (p *Profile) SetObjectives(o StrategicObjectives) {
	p.objectives = o
}

func (p *Profile) Refined() string {
	return p.refined
}

// ApplyRefined stores candidate into the refined objectives slot according to policy.
func (p *Profile) ApplyRefined(policy UpdatePolicy, candidate string) bool {
	if !policy.Accepts(candidate) {
		return false
	}
	p.refined = candidate
	return true
}

// Table renders the profile as "key | value" rows joined by sep.
func (p *Profile) Table(sep string) string {
	lines := make([]string, 0, fieldx.Count)
	for i, f := range fieldx.All() {
		lines = append(lines, fmt.Sprintf("%s | %s", f, p.values[i]))
	}
	return strings.Join(lines, sep)
}
