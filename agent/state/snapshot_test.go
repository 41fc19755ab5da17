package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	fieldx "github.com/tanpawarit/startup-strategic-planner/agent/fields"
)

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	p := NewProfile(Info{StartupName: "Acme"}, 3)
	_ = p.Set(fieldx.Mission, "filled later")
	p.SetObjectives(StrategicObjectives{}.With(GroupMissionVision, "a;b"))
	p.ApplyRefined(OverwriteIfNonEmpty, "a")

	snap := p.Snapshot("2026-01-01 10:00:00_Acme", time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC))
	if snap.TokenBudget != 600 {
		t.Fatalf("TokenBudget = %d, want 600", snap.TokenBudget)
	}

	restored, err := Restore(snap)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if restored.Value(fieldx.Mission) != "filled later" {
		t.Fatalf("mission = %q", restored.Value(fieldx.Mission))
	}
	assertFields(t, restored.Missing(), p.Missing())
	if restored.Objectives() != p.Objectives() {
		t.Fatalf("objectives = %v, want %v", restored.Objectives(), p.Objectives())
	}
	if restored.Refined() != "a" || restored.Performance() != 3 {
		t.Fatalf("restored refined=%q performance=%d", restored.Refined(), restored.Performance())
	}
}

func TestSnapshotValidate(t *testing.T) {
	t.Parallel()

	if err := (&Snapshot{}).Validate(); err != ErrInvalidRunKey {
		t.Fatalf("Validate() error = %v, want ErrInvalidRunKey", err)
	}
	if err := (&Snapshot{RunKey: "k", Missing: []string{"revenue"}}).Validate(); err == nil {
		t.Fatal("expected error for unknown missing field")
	}
	if err := (&Snapshot{RunKey: "k", Objectives: map[string]string{"other": "x"}}).Validate(); err == nil {
		t.Fatal("expected error for unknown objective group")
	}
	if _, err := Restore(nil); err != ErrNilSnapshot {
		t.Fatalf("Restore(nil) error = %v", err)
	}
}

func TestLoadProfileFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "acme.yaml")
	content := "startup_name: Acme\nmission: Ajudar pequenos negócios\nperformance: 5\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	pf, err := LoadProfileFile(path)
	if err != nil {
		t.Fatalf("LoadProfileFile() error = %v", err)
	}
	if pf.StartupName != "Acme" || pf.Mission != "Ajudar pequenos negócios" || pf.Performance != 5 {
		t.Fatalf("unexpected profile file: %#v", pf)
	}
	if pf.Vision != "" {
		t.Fatalf("vision = %q, want empty", pf.Vision)
	}
}
