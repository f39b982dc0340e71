// Package progress summarises how far a plan's tasks have come.
package progress

import "kisaan/entities"

type Summary struct {
	Completed int     `json:"completed"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
}

// Aggregate counts completed tasks. Percent is unrounded and 0 for an
// empty list.
func Aggregate(tasks []entities.Task) Summary {
	s := Summary{Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Status == entities.TaskCompleted {
			s.Completed++
		}
	}
	if s.Total > 0 {
		s.Percent = 100 * float64(s.Completed) / float64(s.Total)
	}
	return s
}

// ByStatus counts tasks per status; every status is present in the result.
func ByStatus(tasks []entities.Task) map[entities.TaskStatus]int {
	out := map[entities.TaskStatus]int{
		entities.TaskPending:    0,
		entities.TaskInProgress: 0,
		entities.TaskCompleted:  0,
		entities.TaskSkipped:    0,
	}
	for i := range tasks {
		out[tasks[i].Status]++
	}
	return out
}

// CostSummary totals task cost, split into spent (completed) and remaining.
type CostSummary struct {
	Total     float64 `json:"total"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
}

func Costs(tasks []entities.Task) CostSummary {
	var c CostSummary
	for i := range tasks {
		c.Total += tasks[i].Cost
		if tasks[i].Status == entities.TaskCompleted {
			c.Spent += tasks[i].Cost
		}
	}
	c.Remaining = c.Total - c.Spent
	return c
}
