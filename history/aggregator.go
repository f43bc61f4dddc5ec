// Package history derives calendar markings, weekly completion series and
// summary statistics from the completed task collection. Everything here is
// a pure function over a snapshot; nothing is persisted.
package history

import (
	"sort"
	"time"

	"taskkeep/domain/entity"
)

// Tier is the color intensity bucket for a day's completion count.
type Tier int

const (
	TierNone Tier = iota // 0-1 completions
	TierLow              // 2-5
	TierMid              // 6-7
	TierHigh             // 8-10
	TierTop              // 11+
)

// TierFor maps a completion count to its intensity bucket.
func TierFor(count int) Tier {
	switch {
	case count > 10:
		return TierTop
	case count > 7:
		return TierHigh
	case count > 5:
		return TierMid
	case count >= 2:
		return TierLow
	default:
		return TierNone
	}
}

// Mark is the calendar marking for a single date.
type Mark struct {
	Count int  `json:"count"`
	Tier  Tier `json:"tier"`
}

// Tiles are the summary statistics for a scope of completed tasks.
type Tiles struct {
	TotalCompleted     int    `json:"totalCompleted"`
	MostProductiveDate string `json:"mostProductiveDate"`
	LongestStreakDays  int    `json:"longestStreakDays"`
}

// DayCell is one day in a month grid, present even with zero completions.
type DayCell struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Summary bundles the derived views for one month.
type Summary struct {
	Month        string          `json:"month"`
	Marks        map[string]Mark `json:"calendarMarks"`
	WeeklySeries []int           `json:"weeklySeries"`
	Tiles        Tiles           `json:"summaryTiles"`
}

// CalendarMarks groups completions by task date and buckets each day's
// count into a color tier. Only dates with at least one completion appear.
func CalendarMarks(tasks []*entity.Task) map[string]Mark {
	marks := make(map[string]Mark)
	for date, count := range countsByDate(tasks) {
		marks[date] = Mark{Count: count, Tier: TierFor(count)}
	}
	return marks
}

// Grid returns every day of the month in order with its completion count,
// zero-filled for empty days.
func Grid(tasks []*entity.Task, month time.Time) []DayCell {
	counts := countsByDate(FilterMonth(tasks, month))
	first := startOfMonth(month)
	days := daysInMonth(month)

	cells := make([]DayCell, days)
	for i := 0; i < days; i++ {
		date := first.AddDate(0, 0, i).Format(entity.DateLayout)
		cells[i] = DayCell{Date: date, Count: counts[date]}
	}
	return cells
}

// WeeklySeries sums completions per calendar week overlapping the month,
// Monday-first. Weeks without completions appear as explicit zeros, so the
// series length equals the number of overlapping weeks (4, 5 or 6).
func WeeklySeries(tasks []*entity.Task, month time.Time) []int {
	first := startOfMonth(month)
	offset := mondayOffset(first)
	days := daysInMonth(month)
	weeks := (days + offset + 6) / 7

	series := make([]int, weeks)
	for date, count := range countsByDate(FilterMonth(tasks, month)) {
		d, err := time.Parse(entity.DateLayout, date)
		if err != nil {
			continue
		}
		series[(d.Day()-1+offset)/7] += count
	}
	return series
}

// SummaryTiles computes total completions, the most productive date (ties
// broken by the earliest date) and the longest run of consecutive calendar
// days with at least one completion.
func SummaryTiles(tasks []*entity.Task) Tiles {
	counts := countsByDate(tasks)
	dates := sortedDates(counts)

	tiles := Tiles{}
	best := 0
	streak := 0
	var prev time.Time

	for _, date := range dates {
		count := counts[date]
		tiles.TotalCompleted += count

		if count > best {
			best = count
			tiles.MostProductiveDate = date
		}

		cur, err := time.Parse(entity.DateLayout, date)
		if err != nil {
			continue
		}
		if !prev.IsZero() && prev.AddDate(0, 0, 1).Equal(cur) {
			streak++
		} else {
			streak = 1
		}
		if streak > tiles.LongestStreakDays {
			tiles.LongestStreakDays = streak
		}
		prev = cur
	}
	return tiles
}

// Summarize filters the completed tasks to the month and computes all
// derived views over that scope.
func Summarize(tasks []*entity.Task, month time.Time) *Summary {
	scoped := FilterMonth(tasks, month)
	return &Summary{
		Month:        month.Format("2006-01"),
		Marks:        CalendarMarks(scoped),
		WeeklySeries: WeeklySeries(scoped, month),
		Tiles:        SummaryTiles(scoped),
	}
}

// FilterMonth returns the tasks whose date falls in the given month.
func FilterMonth(tasks []*entity.Task, month time.Time) []*entity.Task {
	prefix := month.Format("2006-01")
	var out []*entity.Task
	for _, t := range tasks {
		if len(t.Date) >= 7 && t.Date[:7] == prefix {
			out = append(out, t)
		}
	}
	return out
}

// TasksOn returns the tasks completed on the given canonical date.
func TasksOn(tasks []*entity.Task, date string) []*entity.Task {
	out := []*entity.Task{}
	for _, t := range tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	return out
}

func countsByDate(tasks []*entity.Task) map[string]int {
	counts := make(map[string]int)
	for _, t := range tasks {
		counts[t.Date]++
	}
	return counts
}

func sortedDates(counts map[string]int) []string {
	dates := make([]string, 0, len(counts))
	for d := range counts {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

func startOfMonth(month time.Time) time.Time {
	return time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(month time.Time) int {
	return startOfMonth(month).AddDate(0, 1, -1).Day()
}

// mondayOffset is the number of leading cells before day 1 in a
// Monday-first week row.
func mondayOffset(first time.Time) int {
	return (int(first.Weekday()) + 6) % 7
}
