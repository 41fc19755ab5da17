package state

import (
	"fmt"
	"strings"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
)

// ObjectiveGroup names one of the four objective buckets.
type ObjectiveGroup string

const (
	GroupMissionVision                         ObjectiveGroup = "mission_vision"
	GroupCustomersStartupStage                 ObjectiveGroup = "customers_startup_stage"
	GroupValuePropositionCompetitiveAdvantages ObjectiveGroup = "value_proposition_competitive_advantages"
	GroupCombined                              ObjectiveGroup = "combined_objectives"
)

const objectiveGroupCount = 4

var objectiveGroups = [objectiveGroupCount]ObjectiveGroup{
	GroupMissionVision,
	GroupCustomersStartupStage,
	GroupValuePropositionCompetitiveAdvantages,
	GroupCombined,
}

// FieldPair is a pair of fields that seeds one objective group.
type FieldPair struct {
	Group ObjectiveGroup
	A, B  fieldx.Field
}

// ObjectivePairs returns the field pairs in generation order.
func ObjectivePairs() []FieldPair {
	return []FieldPair{
		{Group: GroupMissionVision, A: fieldx.Mission, B: fieldx.Vision},
		{Group: GroupCustomersStartupStage, A: fieldx.Customers, B: fieldx.StartupStage},
		{Group: GroupValuePropositionCompetitiveAdvantages, A: fieldx.ValueProposition, B: fieldx.CompetitiveAdvantages},
	}
}

// ObjectiveGroups returns the four groups in mapping order.
func ObjectiveGroups() []ObjectiveGroup {
	out := make([]ObjectiveGroup, objectiveGroupCount)
	copy(out, objectiveGroups[:])
	return out
}

func groupIndex(g ObjectiveGroup) int {
	for i, candidate := range objectiveGroups {
		if candidate == g {
			return i
		}
	}
	return -1
}

// StrategicObjectives always carries exactly the four groups. An empty
// value is the empty-list sentinel for a group whose generation failed.
// Values are opaque ';'-delimited text.
type StrategicObjectives struct {
	values [objectiveGroupCount]string
}

func (o StrategicObjectives) Get(g ObjectiveGroup) string {
	idx := groupIndex(g)
	if idx < 0 {
		return ""
	}
	return o.values[idx]
}

// With returns a copy with g set to value. Unknown groups are ignored.
func (o StrategicObjectives) With(g ObjectiveGroup, value string) StrategicObjectives {
	if idx := groupIndex(g); idx >= 0 {
		o.values[idx] = value
	}
	return o
}

// Keys always returns the four groups.
func (o StrategicObjectives) Keys() []ObjectiveGroup {
	return ObjectiveGroups()
}

// NonEmpty returns populated group values in mapping order.
func (o StrategicObjectives) NonEmpty() []string {
	var out []string
	for _, v := range o.values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Map returns the groups as a map; sentinel groups map to "".
func (o StrategicObjectives) Map() map[string]string {
	out := make(map[string]string, objectiveGroupCount)
	for i, g := range objectiveGroups {
		out[string(g)] = o.values[i]
	}
	return out
}

func ObjectivesFromMap(m map[string]string) StrategicObjectives {
	var o StrategicObjectives
	for i, g := range objectiveGroups {
		o.values[i] = m[string(g)]
	}
	return o
}

// String renders the mapping, with [] for sentinel groups.
func (o StrategicObjectives) String() string {
	parts := make([]string, 0, objectiveGroupCount)
	for i, g := range objectiveGroups {
		v := o.values[i]
		if v == "" {
			v = "[]"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", g, v))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// SplitObjectives breaks a ';'-delimited objective blob into trimmed items.
// Generated text is not guaranteed to be delimiter safe, so callers get
// best-effort items only.
func SplitObjectives(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ";") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
