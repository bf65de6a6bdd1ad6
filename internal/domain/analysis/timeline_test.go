package analysis

import (
	"testing"
	"time"
)

func TestSelectScenario(t *testing.T) {
	scenarios := validScenarios()
	chosen, ok := SelectScenario(scenarios)
	if !ok || chosen.Type != ScenarioModerate {
		t.Errorf("got %q ok=%v, want moderate", chosen.Type, ok)
	}

	noModerate := []StrategicScenario{
		{Type: ScenarioAggressive, Name: "push hard"},
		{Type: ScenarioConservative, Name: "settle"},
	}
	chosen, ok = SelectScenario(noModerate)
	if !ok || chosen.Type != ScenarioAggressive {
		t.Errorf("fallback: got %q ok=%v, want first (aggressive)", chosen.Type, ok)
	}

	if _, ok := SelectScenario(nil); ok {
		t.Error("empty scenario list should report ok=false")
	}
}

func TestBuildTimelineDates(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	tl := BuildTimeline(ScenarioModerate, start, validMilestones())

	if !tl.StartDate.Equal(start) {
		t.Errorf("start date = %v, want %v", tl.StartDate, start)
	}
	first := tl.Phases[0].Milestones[0]
	if first.OffsetDays != 0 {
		t.Fatal("fixture changed: first milestone is no longer offset 0")
	}
	if !first.EstimatedDate.Equal(start) {
		t.Errorf("offset 0 milestone dated %v, want start %v", first.EstimatedDate, start)
	}
	if tl.TotalDurationDays != 300 {
		t.Errorf("total duration = %d, want 300", tl.TotalDurationDays)
	}
}

func TestBuildTimelinePartition(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	milestones := validMilestones()
	tl := BuildTimeline(ScenarioModerate, start, milestones)

	seen := make(map[string]int)
	for _, p := range tl.Phases {
		if len(p.Milestones) == 0 {
			t.Errorf("phase %q emitted with zero milestones", p.Phase)
		}
		for _, ms := range p.Milestones {
			seen[ms.ID]++
			if ms.Phase != p.Phase {
				t.Errorf("milestone %q in bucket %q but tagged %q", ms.ID, p.Phase, ms.Phase)
			}
		}
	}
	for _, ms := range milestones {
		if seen[ms.ID] != 1 {
			t.Errorf("milestone %q appears %d times across phases, want exactly 1", ms.ID, seen[ms.ID])
		}
	}
}

func TestBuildTimelineOmitsEmptyPhases(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	milestones := []TimelineMilestone{
		{ID: "m1", Phase: PhasePreparation, OffsetDays: 0},
		{ID: "m2", Phase: PhasePreparation, OffsetDays: 10},
		{ID: "m3", Phase: PhaseResolution, OffsetDays: 200},
		{ID: "m4", Phase: PhaseResolution, OffsetDays: 250},
	}
	tl := BuildTimeline(ScenarioConservative, start, milestones)

	if len(tl.Phases) != 2 {
		t.Fatalf("got %d phases, want 2", len(tl.Phases))
	}
	if tl.Phases[0].Phase != PhasePreparation || tl.Phases[1].Phase != PhaseResolution {
		t.Errorf("phase order = %q,%q; want preparation,resolution", tl.Phases[0].Phase, tl.Phases[1].Phase)
	}
}

func TestBuildTimelinePhaseBounds(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	milestones := []TimelineMilestone{
		{ID: "m1", Phase: PhasePreparation, OffsetDays: 20},
		{ID: "m2", Phase: PhasePreparation, OffsetDays: 5},
		{ID: "m3", Phase: PhasePreparation, OffsetDays: 12},
		{ID: "m4", Phase: PhaseLitigation, OffsetDays: 60},
	}
	tl := BuildTimeline(ScenarioModerate, start, milestones)

	prep := tl.Phases[0]
	wantStart := start.AddDate(0, 0, 5)
	wantEnd := start.AddDate(0, 0, 20)
	if !prep.Start.Equal(wantStart) || !prep.End.Equal(wantEnd) {
		t.Errorf("preparation bounds = [%v, %v], want [%v, %v]", prep.Start, prep.End, wantStart, wantEnd)
	}
}

func TestBuildTimelineCriticalPathAndAlerts(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	milestones := validMilestones()
	milestones[0].Alerts = []string{"statute of limitations approaching"}
	tl := BuildTimeline(ScenarioModerate, start, milestones)

	if len(tl.CriticalPath) != 1 || tl.CriticalPath[0] != "m3" {
		t.Errorf("critical path = %v, want [m3]", tl.CriticalPath)
	}
	if len(tl.Alerts) != 1 || tl.Alerts[0] != "statute of limitations approaching" {
		t.Errorf("alerts = %v", tl.Alerts)
	}
}
