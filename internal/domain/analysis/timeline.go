package analysis

import "time"

// SelectScenario picks the scenario to expand into a timeline: the moderate
// one when present, otherwise the first. The scenario set contract makes
// the fallback unreachable, but the function does not assume its input was
// validated.
func SelectScenario(scenarios []StrategicScenario) (StrategicScenario, bool) {
	if len(scenarios) == 0 {
		return StrategicScenario{}, false
	}
	for _, s := range scenarios {
		if s.Type == ScenarioModerate {
			return s, true
		}
	}
	return scenarios[0], true
}

// BuildTimeline dates the milestones and groups them into phases. Each
// milestone's EstimatedDate is start plus its OffsetDays. Phases appear in
// chronological order and a phase with no milestones is omitted. Phase
// bounds are the min and max dates of its members.
func BuildTimeline(scenarioType ScenarioType, start time.Time, milestones []TimelineMilestone) StrategicTimeline {
	dated := make([]TimelineMilestone, len(milestones))
	maxOffset := 0
	var critical []string
	var alerts []string
	for i, ms := range milestones {
		ms.EstimatedDate = start.AddDate(0, 0, ms.OffsetDays)
		dated[i] = ms
		if ms.OffsetDays > maxOffset {
			maxOffset = ms.OffsetDays
		}
		if ms.IsCritical {
			critical = append(critical, ms.ID)
		}
		alerts = append(alerts, ms.Alerts...)
	}

	phases := make([]TimelinePhase, 0, len(Phases))
	for _, phase := range Phases {
		var members []TimelineMilestone
		for _, ms := range dated {
			if ms.Phase == phase {
				members = append(members, ms)
			}
		}
		if len(members) == 0 {
			continue
		}
		p := TimelinePhase{Phase: phase, Milestones: members}
		p.Start, p.End = members[0].EstimatedDate, members[0].EstimatedDate
		for _, ms := range members[1:] {
			if ms.EstimatedDate.Before(p.Start) {
				p.Start = ms.EstimatedDate
			}
			if ms.EstimatedDate.After(p.End) {
				p.End = ms.EstimatedDate
			}
		}
		phases = append(phases, p)
	}

	return StrategicTimeline{
		ScenarioType:      scenarioType,
		StartDate:         start,
		Phases:            phases,
		CriticalPath:      critical,
		TotalDurationDays: maxOffset,
		Alerts:            alerts,
	}
}
