package appointments

// Status is the tri-state lifecycle tag on an appointment.
type Status string

const (
	StatusPending   Status = "pending"
	StatusScheduled Status = "scheduled"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusScheduled, StatusCancelled:
		return true
	}
	return false
}

// The transition functions below are deliberately permissive: the operation
// you call sets the status it names, from any current state. Cancelling a
// cancelled appointment re-patches it, scheduling a cancelled one reopens
// it. Tightening the state machine later is a one-place change here.

// ToScheduled returns the status after a schedule operation.
func ToScheduled(Status) Status {
	return StatusScheduled
}

// ToCancelled returns the status after a cancel operation.
func ToCancelled(Status) Status {
	return StatusCancelled
}
