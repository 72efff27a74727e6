package scheduler

import "time"

// SlotHours are the fixed daily posting windows, in the request timezone.
var SlotHours = [3]int{9, 14, 21}

// SlotGrid builds the ordered calendar grid between start and end: one
// timestamp per (day, slot hour) pair with minutes and seconds zeroed.
// The range is inclusive of the end date's day, so a one-day span still
// yields a full day of slots and start==end yields exactly one day.
func SlotGrid(start, end time.Time) []time.Time {
	daysBetween := int(end.Sub(start).Hours() / 24)
	if end.Sub(start) > time.Duration(daysBetween)*24*time.Hour {
		daysBetween++ // ceil
	}
	grid := make([]time.Time, 0, (daysBetween+1)*len(SlotHours))
	for day := 0; day <= daysBetween; day++ {
		base := start.AddDate(0, 0, day)
		for _, hour := range SlotHours {
			grid = append(grid, time.Date(base.Year(), base.Month(), base.Day(), hour, 0, 0, 0, base.Location()))
		}
	}
	return grid
}

// PlanSlots returns exactly n timestamps drawn from the grid in order,
// wrapping around when n exceeds the grid so that every requested post gets a
// slot. Repeat passes through the grid are shifted forward one minute per
// pass: account rotation alone cannot guarantee distinct pairings when the
// grid length divides the account count, and two posts from the same account
// must never share an identical timestamp.
func PlanSlots(start, end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	grid := SlotGrid(start, end)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		slot := grid[i%len(grid)]
		if wrap := i / len(grid); wrap > 0 {
			slot = slot.Add(time.Duration(wrap) * time.Minute)
		}
		out[i] = slot
	}
	return out
}
