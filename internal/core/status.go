package core

// TaskStatus is a state of a Task. The numeric order is significant:
// sorted listings put NEW first and DONE last.
type TaskStatus int

const (
	TaskStatusNew TaskStatus = iota
	TaskStatusInProgress
	TaskStatusDone
)

var statusNames = [...]string{
	TaskStatusNew:        "NEW",
	TaskStatusInProgress: "IN_PROGRESS",
	TaskStatusDone:       "DONE",
}

func (s TaskStatus) String() string {
	if !s.Valid() {
		return "UNKNOWN"
	}
	return statusNames[s]
}

func (s TaskStatus) Valid() bool {
	return s >= TaskStatusNew && s <= TaskStatusDone
}

// ParseTaskStatus looks a status up by its exact name.
func ParseTaskStatus(name string) (TaskStatus, bool) {
	for i, n := range statusNames {
		if n == name {
			return TaskStatus(i), true
		}
	}
	return TaskStatusNew, false
}

// MarshalText lets yaml and other text encoders print the name.
func (s TaskStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
