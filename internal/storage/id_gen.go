package storage

// IDSequence hands out task ids in increasing order. It starts right after
// the largest id found at open time and never goes back, so ids freed by
// deletes are not reused while the store is open.
type IDSequence struct {
	next int
}

func NewIDSequence(maxID int) *IDSequence {
	if maxID < 0 {
		maxID = 0
	}
	return &IDSequence{next: maxID + 1}
}

// NewID returns the next id and advances the sequence.
func (s *IDSequence) NewID() int {
	id := s.next
	s.next++
	return id
}

// Peek returns the id NewID would hand out next.
func (s *IDSequence) Peek() int {
	return s.next
}
