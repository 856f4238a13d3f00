package order

// Status order status
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statusLabels = map[Status]string{
	StatusPending:   "Awaiting pickup",
	StatusCompleted: "Received",
	StatusCancelled: "Cancelled",
}

// IsValid reports whether s is one of the known statuses
func (s Status) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label human readable status, shown as status_display
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsTerminal completed and cancelled orders accept no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s Status) String() string { return string(s) }
