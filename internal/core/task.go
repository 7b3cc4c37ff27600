package core

import (
	"fmt"
	"sort"
)

// Task is a single tracked unit of work.
// ID is zero until a store assigns one.
type Task struct {
	ID          int        `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Status      TaskStatus `yaml:"status"`
}

func NewTask(title, description string) *Task {
	return &Task{
		Title:       title,
		Description: description,
		Status:      TaskStatusNew,
	}
}

func (t *Task) String() string {
	if t == nil {
		return "Task <nil>"
	}
	return fmt.Sprintf("Task [ID=%d, Title=%s, Description=%s, Status=%s]",
		t.ID, t.Title, t.Description, t.Status)
}

func (t *Task) CloneTask() *Task {
	if t == nil {
		return nil
	}
	ct := *t
	return &ct
}

// CloneTasks always returns a non-nil slice.
func CloneTasks(tasks []*Task) []*Task {
	res := make([]*Task, 0, len(tasks))
	for _, t := range tasks {
		res = append(res, t.CloneTask())
	}
	return res
}

// SortTasksByStatus sorts tasks in-place by status, keeping the relative
// order of tasks with equal status.
func SortTasksByStatus(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Status < tasks[j].Status
	})
}

// MaxID returns the largest id in tasks, 0 for an empty slice.
func MaxID(tasks []*Task) int {
	max := 0
	for _, t := range tasks {
		if t != nil && t.ID > max {
			max = t.ID
		}
	}
	return max
}
