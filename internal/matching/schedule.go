// internal/matching/schedule.go
package matching

import (
	"math"
	"time"

	"carematch-workers/internal/models"
)

// DefaultSchedulePercent is the threshold MeetsScheduleRequirement applies
// when callers pass no explicit minimum.
const DefaultSchedulePercent = 80

// DayOverlap is the per-weekday detail of a schedule comparison.
type DayOverlap struct {
	Needed         bool              `json:"needed"`
	Available      bool              `json:"available"`
	NeededMinutes  int               `json:"neededMinutes"`
	OverlapMinutes int               `json:"overlapMinutes"`
	Percent        int               `json:"percent"`
	Window         *models.DayWindow `json:"window,omitempty"` // clipped overlap window
}

// ScheduleOverlap aggregates how much of a requester's needed weekly time a
// provider's availability covers.
type ScheduleOverlap struct {
	Percent             int                           `json:"percent"`
	TotalOverlapMinutes int                           `json:"totalOverlapMinutes"`
	TotalNeededMinutes  int                           `json:"totalNeededMinutes"`
	Days                map[time.Weekday]DayOverlap   `json:"days"`
	MatchingDays        []time.Weekday                `json:"matchingDays"`
	MissingDays         []time.Weekday                `json:"missingDays"`
}

// OverlapSchedules compares the requester's needed windows against the
// provider's available windows, weekday by weekday. A nil needed schedule
// imposes no constraint and scores 100 with an empty breakdown. Days the
// requester does not need are vacuously satisfied (100) and excluded from
// the matching/missing lists.
func OverlapSchedules(needed, available *models.WeeklySchedule) ScheduleOverlap {
	if needed == nil {
		return ScheduleOverlap{Percent: 100, Days: map[time.Weekday]DayOverlap{}}
	}

	result := ScheduleOverlap{Days: make(map[time.Weekday]DayOverlap, len(models.WeekOrder))}

	for _, day := range models.WeekOrder {
		neededWin, needs := needed.Day(day)
		if !needs {
			result.Days[day] = DayOverlap{Percent: 100}
			continue
		}

		neededMinutes := neededWin.Minutes()
		result.TotalNeededMinutes += neededMinutes

		var availWin models.DayWindow
		var has bool
		if available != nil {
			availWin, has = available.Day(day)
		}
		if !has {
			result.Days[day] = DayOverlap{
				Needed:        true,
				NeededMinutes: neededMinutes,
			}
			result.MissingDays = append(result.MissingDays, day)
			continue
		}

		start := maxInt(neededWin.Start, availWin.Start)
		end := minInt(neededWin.End, availWin.End)
		overlap := maxInt(0, end-start)
		result.TotalOverlapMinutes += overlap

		detail := DayOverlap{
			Needed:         true,
			Available:      true,
			NeededMinutes:  neededMinutes,
			OverlapMinutes: overlap,
			Percent:        roundPercent(overlap, neededMinutes),
		}
		if overlap > 0 {
			detail.Window = &models.DayWindow{Enabled: true, Start: start, End: end}
			result.MatchingDays = append(result.MatchingDays, day)
		} else {
			result.MissingDays = append(result.MissingDays, day)
		}
		result.Days[day] = detail
	}

	result.Percent = roundPercent(result.TotalOverlapMinutes, result.TotalNeededMinutes)
	return result
}

// MeetsScheduleRequirement is the binary gate over OverlapSchedules.
func MeetsScheduleRequirement(needed, available *models.WeeklySchedule, minPercent int) bool {
	if minPercent <= 0 {
		minPercent = DefaultSchedulePercent
	}
	return OverlapSchedules(needed, available).Percent >= minPercent
}

// roundPercent guards the zero-denominator case as fully satisfied.
func roundPercent(part, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
