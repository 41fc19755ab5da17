package state

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
)

// Info carries the construction-time profile values. Unset fields are empty.
type Info struct {
	StartupName           string `json:"startup_name" yaml:"startup_name"`
	Mission               string `json:"mission" yaml:"mission"`
	Vision                string `json:"vision" yaml:"vision"`
	Customers             string `json:"customers" yaml:"customers"`
	StartupStage          string `json:"startup_stage" yaml:"startup_stage"`
	ValueProposition      string `json:"value_proposition" yaml:"value_proposition"`
	CompetitiveAdvantages string `json:"competitive_advantages" yaml:"competitive_advantages"`
}

func (i Info) Value(f fieldx.Field) string {
	switch f {
	case fieldx.StartupName:
		return i.StartupName
	case fieldx.Mission:
		return i.Mission
	case fieldx.Vision:
		return i.Vision
	case fieldx.Customers:
		return i.Customers
	case fieldx.StartupStage:
		return i.StartupStage
	case fieldx.ValueProposition:
		return i.ValueProposition
	case fieldx.CompetitiveAdvantages:
		return i.CompetitiveAdvantages
	default:
		return ""
	}
}

func (i *Info) set(f fieldx.Field, v string) {
	switch f {
	case fieldx.StartupName:
		i.StartupName = v
	case fieldx.Mission:
		i.Mission = v
	case fieldx.Vision:
		i.Vision = v
	case fieldx.Customers:
		i.Customers = v
	case fieldx.StartupStage:
		i.StartupStage = v
	case fieldx.ValueProposition:
		i.ValueProposition = v
	case fieldx.CompetitiveAdvantages:
		i.CompetitiveAdvantages = v
	}
}

// ProfileFile is the on-disk input format for a planning run.
type ProfileFile struct {
	Info        `yaml:",inline"`
	Performance int `yaml:"performance"`
}

// LoadProfileFile reads a YAML (or JSON) profile description.
func LoadProfileFile(path string) (ProfileFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ProfileFile{}, fmt.Errorf("read profile file: %w", err)
	}
	var pf ProfileFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return ProfileFile{}, fmt.Errorf("decode profile file: %w", err)
	}
	return pf, nil
}
