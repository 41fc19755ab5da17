package state

import (
	"errors"
	"fmt"
	"strings"
	"time"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
)

var (
	ErrSnapshotNotFound = errors.New("run snapshot not found")
	ErrNilSnapshot      = errors.New("run snapshot is nil")
	ErrInvalidRunKey    = errors.New("run key is empty")
)

// Snapshot is the persistable form of a planning run.
type Snapshot struct {
	RunKey      string            `json:"run_key"`
	Profile     Info              `json:"profile"`
	Missing     []string          `json:"missing"`
	Performance int               `json:"performance"`
	TokenBudget int               `json:"token_budget"`
	Objectives  map[string]string `json:"strategic_objectives"`
	Refined     string            `json:"refined_objectives"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Snapshot captures the current state under runKey.
func (p *Profile) Snapshot(runKey string, now time.Time) *Snapshot {
	missing := make([]string, 0, len(p.missing))
	for _, f := range p.missing {
		missing = append(missing, string(f))
	}
	return &Snapshot{
		RunKey:      runKey,
		Profile:     p.Info(),
		Missing:     missing,
		Performance: p.performance,
		TokenBudget: p.TokenBudget(),
		Objectives:  p.objectives.Map(),
		Refined:     p.refined,
		UpdatedAt:   now.UTC(),
	}
}

// Restore rebuilds a profile from a snapshot, keeping its missing set.
func Restore(s *Snapshot) (*Profile, error) {
	if s == nil {
		return nil, ErrNilSnapshot
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := NewProfile(s.Profile, s.Performance)
	p.missing = p.missing[:0]
	for _, raw := range s.Missing {
		f, _ := fieldx.Parse(raw)
		p.missing = append(p.missing, f)
	}
	p.objectives = ObjectivesFromMap(s.Objectives)
	p.refined = s.Refined
	return p, nil
}

func (s *Snapshot) Validate() error {
	if strings.TrimSpace(s.RunKey) == "" {
		return ErrInvalidRunKey
	}
	for _, raw := range s.Missing {
		if _, err := fieldx.Parse(raw); err != nil {
			return fmt.Errorf("invalid missing field: %w", err)
		}
	}
	for key := range s.Objectives {
		if groupIndex(ObjectiveGroup(key)) < 0 {
			return fmt.Errorf("unknown objective group %q", key)
		}
	}
	return nil
}
