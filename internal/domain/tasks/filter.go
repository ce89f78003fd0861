package tasks

import (
	"iter"
	"strings"
)

// DefaultDeadlineLayout renders deadlines as day/month/year, the format the
// mobile app shows.
const DefaultDeadlineLayout = "02/01/2006"

type Criteria struct {
	Query      string
	CategoryID *string
	Status     *Status
	// DeadlineLayout is the time layout the query is matched against for
	// deadlines. Empty means DefaultDeadlineLayout.
	DeadlineLayout string
}

// Filter returns a view over tasks matching criteria. The view is evaluated
// lazily on every range and never modifies tasks. categoryNames maps
// category ids to display names for text matching.
func Filter(tasks []Task, criteria Criteria, categoryNames map[string]string) iter.Seq[Task] {
	query := strings.ToLower(strings.TrimSpace(criteria.Query))
	layout := criteria.DeadlineLayout
	if layout == "" {
		layout = DefaultDeadlineLayout
	}

	return func(yield func(Task) bool) {
		for _, task := range tasks {
			if criteria.CategoryID != nil && (task.CategoryID == nil || *task.CategoryID != *criteria.CategoryID) {
				continue
			}
			if criteria.Status != nil && task.Status != *criteria.Status {
				continue
			}
			if query != "" && !matchesText(task, query, layout, categoryNames) {
				continue
			}
			if !yield(task) {
				return
			}
		}
	}
}

// Collect materializes a filtered view. It never returns nil.
func Collect(view iter.Seq[Task]) []Task {
	result := make([]Task, 0)
	for task := range view {
		result = append(result, task)
	}
	return result
}

func matchesText(task Task, query, layout string, categoryNames map[string]string) bool {
	if contains(task.Title, query) {
		return true
	}
	if task.Description != nil && contains(*task.Description, query) {
		return true
	}
	if task.CategoryID != nil {
		if name, ok := categoryNames[*task.CategoryID]; ok && contains(name, query) {
			return true
		}
	}
	if task.Deadline != nil && contains(task.Deadline.Format(layout), query) {
		return true
	}
	return false
}

func contains(value, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(value), lowerQuery)
}
