package tasks

import "codeberg.org/taskflow/server/taskflow/tasks"

// ListQuery holds the optional list filters
type ListQuery struct {
	Status   tasks.Status   `form:"status"`
	Priority tasks.Priority `form:"priority"`
}
