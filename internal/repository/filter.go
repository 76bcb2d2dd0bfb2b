package repository

import "gorm.io/gorm"

// TaskFilter holds the optional list filters. A nil field imposes no
// constraint; supplied fields combine with AND. The zero value matches
// every task.
type TaskFilter struct {
	Priority  *int
	Completed *bool
}

// Apply adds one equality condition per supplied field to the query.
// It never sorts; ordering is the caller's concern.
func (f TaskFilter) Apply(q *gorm.DB) *gorm.DB {
	if f.Priority != nil {
		q = q.Where("priority = ?", *f.Priority)
	}
	if f.Completed != nil {
		q = q.Where("completed = ?", *f.Completed)
	}
	return q
}
