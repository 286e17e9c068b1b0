package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/javiermolinar/hexroute/internal/config"
	"github.com/javiermolinar/hexroute/internal/db"
	"github.com/javiermolinar/hexroute/internal/schedule"
)

type testEnv struct {
	repo *db.SQLite
	cfg  *config.Config
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	cfg := config.Default()
	cfg.Storage.DBPath = dbPath
	cfg.UI.Color = false
	return &testEnv{repo: repo, cfg: cfg}
}

// run executes one CLI invocation on a fresh App and returns its output.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	a := NewApp(e.repo, e.cfg)
	a.out = &out
	a.root.SetOut(&out)
	a.root.SetErr(&out)
	a.root.SetArgs(args)
	err := a.Execute()
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("hexroute %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func (e *testEnv) load(t *testing.T, route string) *schedule.Schedule {
	t.Helper()
	s, err := e.repo.LoadSchedule(context.Background(), route)
	if err != nil {
		t.Fatalf("LoadSchedule failed: %v", err)
	}
	return s
}

// withABC creates route "north" holding A 16:30-16:45, B 16:45-17:00, C 17:00-17:20.
func (e *testEnv) withABC(t *testing.T) {
	t.Helper()
	e.mustRun(t, "route", "new", "north")
	e.mustRun(t, "add", "north", "A", "--duration", "15")
	e.mustRun(t, "add", "north", "B", "--duration", "15")
	e.mustRun(t, "add", "north", "C", "--duration", "20")
}

func TestRouteNewAndList(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "route", "new", "north", "--group", "6f1c2a4e-2b8e-4d1f-9a43-3f0f5d2b9c11")
	if !strings.Contains(out, "16:30-20:00") {
		t.Errorf("expected window in output, got %q", out)
	}

	if _, err := env.run(t, "route", "new", "north"); err == nil {
		t.Error("expected error creating a duplicate route")
	}

	_, err := env.run(t, "route", "new", "south", "--group", "6f1c2a4e-2b8e-4d1f-9a43-3f0f5d2b9c11")
	if !errors.Is(err, schedule.ErrGroupAlreadyScheduled) {
		t.Errorf("expected ErrGroupAlreadyScheduled, got %v", err)
	}

	if _, err := env.run(t, "route", "new", "south", "--group", "not-a-uuid"); err == nil {
		t.Error("expected error for invalid group id")
	}

	out = env.mustRun(t, "route", "list")
	if !strings.Contains(out, "north") || !strings.Contains(out, "6f1c2a4e-2b8e-4d1f-9a43-3f0f5d2b9c11") {
		t.Errorf("expected north in list, got %q", out)
	}
	if strings.Contains(out, "south") {
		t.Errorf("south should not have been created, got %q", out)
	}
}

func TestAdd_UsesSuggestion(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	s := env.load(t, "north")
	want := map[string]string{"A": "16:30-16:45", "B": "16:45-17:00", "C": "17:00-17:20"}
	for id, slot := range want {
		a, ok := s.Lookup(id)
		if !ok {
			t.Fatalf("cell %s missing", id)
		}
		if a.Slot.String() != slot {
			t.Errorf("cell %s: expected %s, got %s", id, slot, a.Slot)
		}
	}

	c, _ := s.Lookup("C")
	if c.Sequence != 3 {
		t.Errorf("expected C sequence 3, got %d", c.Sequence)
	}
}

func TestAdd_DefaultDurationFromConfig(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Duration.DefaultMinutes = 25
	env.mustRun(t, "route", "new", "north")

	env.mustRun(t, "add", "north", "A")

	a, _ := env.load(t, "north").Lookup("A")
	if a.DurationMinutes != 25 {
		t.Errorf("expected 25 minutes, got %d", a.DurationMinutes)
	}
}

func TestAdd_Rejections(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"overlap", []string{"add", "north", "D", "--start", "16:40", "--duration", "10"}, schedule.ErrOverlapsExistingAssignment},
		{"too short", []string{"add", "north", "D", "--start", "18:00", "--duration", "3"}, schedule.ErrDurationOutOfRange},
		{"past window", []string{"add", "north", "D", "--start", "19:50", "--duration", "15"}, schedule.ErrOutsideOperatingWindow},
		{"duplicate", []string{"add", "north", "A", "--start", "18:00"}, schedule.ErrAssignmentExists},
		{"unknown route", []string{"add", "south", "A"}, schedule.ErrRouteNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.run(t, tc.args...)
			if !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if got := env.load(t, "north").Len(); got != 3 {
		t.Errorf("rejected adds must not persist, got %d assignments", got)
	}
}

func TestAdd_BadStartTime(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "route", "new", "north")

	if _, err := env.run(t, "add", "north", "A", "--start", "5pm"); err == nil {
		t.Error("expected parse error")
	}
}

func TestEdit_CascadesLaterVisits(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	out := env.mustRun(t, "edit", "north", "A", "--duration", "30")
	if !strings.Contains(out, "2 later visit(s) moved") {
		t.Errorf("expected two shifted visits, got %q", out)
	}
	// The resulting route is printed after the shift list.
	summary := strings.Index(out, "moved\n")
	if summary < 0 || !strings.Contains(out[summary:], "#3   17:15-17:35  C") {
		t.Errorf("expected the reflowed route after the summary, got %q", out)
	}

	s := env.load(t, "north")
	want := map[string]string{"A": "16:30-17:00", "B": "17:00-17:15", "C": "17:15-17:35"}
	for id, slot := range want {
		a, _ := s.Lookup(id)
		if a.Slot.String() != slot {
			t.Errorf("cell %s: expected %s, got %s", id, slot, a.Slot)
		}
	}
}

func TestEdit_DryRunDoesNotSave(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	out := env.mustRun(t, "edit", "north", "A", "--duration", "30", "--dry-run")
	if !strings.Contains(out, "Dry run") {
		t.Errorf("expected dry run notice, got %q", out)
	}

	c, _ := env.load(t, "north").Lookup("C")
	if c.Slot.String() != "17:00-17:20" {
		t.Errorf("dry run changed C to %s", c.Slot)
	}
}

func TestEdit_LastVisitDoesNotCascade(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	out := env.mustRun(t, "edit", "north", "C", "--duration", "60")
	if !strings.Contains(out, "No other visits moved") {
		t.Errorf("expected no shifts, got %q", out)
	}

	c, _ := env.load(t, "north").Lookup("C")
	if c.Slot.String() != "17:00-18:00" {
		t.Errorf("expected C at 17:00-18:00, got %s", c.Slot)
	}
}

func TestEdit_ExceedingWindowRejected(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.Duration.MaxMinutes = 240
	env.withABC(t)

	_, err := env.run(t, "edit", "north", "A", "--duration", "180")
	if !errors.Is(err, schedule.ErrCascadeWouldExceedWindow) {
		t.Fatalf("expected ErrCascadeWouldExceedWindow, got %v", err)
	}

	s := env.load(t, "north")
	a, _ := s.Lookup("A")
	c, _ := s.Lookup("C")
	if a.Slot.String() != "16:30-16:45" || c.Slot.String() != "17:00-17:20" {
		t.Errorf("rejected edit changed the route: A=%s C=%s", a.Slot, c.Slot)
	}
}

func TestEdit_UnknownCell(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	_, err := env.run(t, "edit", "north", "Z", "--duration", "20")
	if !errors.Is(err, schedule.ErrAssignmentNotFound) {
		t.Errorf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestEditAndRemove_TrimCellIDs(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	env.mustRun(t, "edit", "north", " A ", "--duration", "20")
	c, _ := env.load(t, "north").Lookup("C")
	if c.Slot.String() != "17:05-17:25" {
		t.Errorf("expected C at 17:05-17:25, got %s", c.Slot)
	}

	env.mustRun(t, "remove", "north", "B ")
	if _, ok := env.load(t, "north").Lookup("B"); ok {
		t.Error("B still scheduled")
	}
}

func TestRemove_LeavesGap(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	env.mustRun(t, "remove", "north", "B")

	s := env.load(t, "north")
	if _, ok := s.Lookup("B"); ok {
		t.Error("B still scheduled")
	}
	c, _ := s.Lookup("C")
	if c.Slot.String() != "17:00-17:20" {
		t.Errorf("remove moved C to %s", c.Slot)
	}

	if _, err := env.run(t, "remove", "north", "B"); !errors.Is(err, schedule.ErrAssignmentNotFound) {
		t.Errorf("expected ErrAssignmentNotFound, got %v", err)
	}
}

func TestCells_ImportRestrictsAdd(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "route", "new", "north")

	path := filepath.Join(t.TempDir(), "cells.txt")
	if err := os.WriteFile(path, []byte("# north\nA\nB\n\nC\n"), 0o644); err != nil {
		t.Fatalf("writing cells: %v", err)
	}

	out := env.mustRun(t, "cells", "import", "north", path)
	if !strings.Contains(out, "Imported 3 cells") {
		t.Errorf("unexpected import output %q", out)
	}

	env.mustRun(t, "add", "north", "B")
	if _, err := env.run(t, "add", "north", "Z"); !errors.Is(err, ErrUnknownCell) {
		t.Errorf("expected ErrUnknownCell, got %v", err)
	}

	out = env.mustRun(t, "cells", "list", "north")
	if !strings.Contains(out, "1 of 3 cells scheduled") {
		t.Errorf("unexpected list output %q", out)
	}
}

func TestCells_ImportUnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	path := filepath.Join(t.TempDir(), "cells.txt")
	if err := os.WriteFile(path, []byte("A\n"), 0o644); err != nil {
		t.Fatalf("writing cells: %v", err)
	}

	if _, err := env.run(t, "cells", "import", "north", path); !errors.Is(err, schedule.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestShow(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	out := env.mustRun(t, "show", "north")
	for _, want := range []string{"16:30-16:45", "16:45-17:00", "17:00-17:20", "Visits: 3", "Scheduled: 50m"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Index(out, "16:30-16:45") > strings.Index(out, "17:00-17:20") {
		t.Error("expected chronological order")
	}
}

func TestShow_BySequence(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "route", "new", "north")
	env.mustRun(t, "add", "north", "late", "--start", "18:00", "--duration", "15")
	env.mustRun(t, "add", "north", "early", "--start", "16:30", "--duration", "15")

	out := env.mustRun(t, "show", "north", "--no-board")
	if strings.Index(out, "early") > strings.Index(out, "late") {
		t.Errorf("expected time order by default:\n%s", out)
	}

	out = env.mustRun(t, "show", "north", "--no-board", "--by-seq")
	if strings.Index(out, "late") > strings.Index(out, "early") {
		t.Errorf("expected selection order with --by-seq:\n%s", out)
	}
}

func TestSuggest(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "route", "new", "north")

	out := env.mustRun(t, "suggest", "north")
	if !strings.Contains(out, "16:30") {
		t.Errorf("expected window start for empty route, got %q", out)
	}

	env.mustRun(t, "add", "north", "A", "--duration", "15")
	env.mustRun(t, "add", "north", "B", "--start", "17:30", "--duration", "30")

	out = env.mustRun(t, "suggest", "north")
	if !strings.Contains(out, "18:00") {
		t.Errorf("expected suggestion after the last visit, got %q", out)
	}
}

func TestSlots(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "slots")
	if got := strings.Count(out, "\n") - 1; got != 14 {
		t.Errorf("expected 14 slots, got %d:\n%s", got, out)
	}

	out = env.mustRun(t, "slots", "--step", "30")
	if !strings.Contains(out, "16:30-17:00") || !strings.Contains(out, "19:30-20:00") {
		t.Errorf("unexpected 30-minute slots:\n%s", out)
	}

	if _, err := env.run(t, "slots", "--step", "0"); err == nil {
		t.Error("expected error for zero step")
	}
}

func TestExport(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	out := env.mustRun(t, "export", "north")
	want := "route\tsequence\tcell\tstart\tend\tminutes\n" +
		"north\t1\tA\t16:30\t16:45\t15\n" +
		"north\t2\tB\t16:45\t17:00\t15\n" +
		"north\t3\tC\t17:00\t17:20\t20\n"
	if out != want {
		t.Errorf("unexpected export:\n%q\nwant:\n%q", out, want)
	}
}

func TestExport_Copy(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error {
		copied = s
		return nil
	}
	t.Cleanup(func() { copyToClipboard = orig })

	out := env.mustRun(t, "export", "north", "--copy")
	if !strings.Contains(out, "Copied 3 visits") {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.HasPrefix(copied, "route\tsequence") || strings.Count(copied, "\n") != 4 {
		t.Errorf("unexpected clipboard text %q", copied)
	}
}

func TestRouteDelete(t *testing.T) {
	env := newTestEnv(t)
	env.withABC(t)

	env.mustRun(t, "route", "delete", "north")

	if _, err := env.run(t, "show", "north"); !errors.Is(err, schedule.ErrRouteNotFound) {
		t.Errorf("expected ErrRouteNotFound, got %v", err)
	}
	out := env.mustRun(t, "route", "list")
	if !strings.Contains(out, "No routes yet") {
		t.Errorf("expected empty list, got %q", out)
	}
}

func TestConfigShow(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "config", "--show")
	for _, want := range []string{"start           = 16:30", "max_minutes     = 120", "color           = false"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestConfigInteractive(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	a := NewApp(env.repo, env.cfg)
	a.out = &out

	input := strings.NewReader("y\n17:00\n\n30\n\n\n20\n\nn\n")
	if err := a.runConfigInteractive(path, input); err != nil {
		t.Fatalf("runConfigInteractive failed: %v\n%s", err, out.String())
	}

	saved, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if saved.Window.Start != "17:00" || saved.Window.End != "20:00" {
		t.Errorf("unexpected window %s-%s", saved.Window.Start, saved.Window.End)
	}
	if saved.Window.StepMinutes != 30 {
		t.Errorf("expected step 30, got %d", saved.Window.StepMinutes)
	}
	if saved.Duration.DefaultMinutes != 20 {
		t.Errorf("expected default 20, got %d", saved.Duration.DefaultMinutes)
	}
	if saved.UI.Color {
		t.Error("expected color disabled")
	}
}

func TestConfigInteractive_EnterKeepsValues(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	var out bytes.Buffer
	a := NewApp(env.repo, env.cfg)
	a.out = &out

	input := strings.NewReader("y\n" + strings.Repeat("\n", 8))
	if err := a.runConfigInteractive(path, input); err != nil {
		t.Fatalf("runConfigInteractive failed: %v\n%s", err, out.String())
	}

	saved, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if !saved.UI.Color {
		t.Error("expected color to stay enabled")
	}
	if saved.Window.Start != "16:30" || saved.Duration.MaxMinutes != 120 {
		t.Errorf("expected defaults kept, got %+v", saved)
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "version")
	if !strings.HasPrefix(out, "hexroute dev") {
		t.Errorf("unexpected version output %q", out)
	}
}
