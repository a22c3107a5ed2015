package domain

// allowedTransitions forward steps of the lifecycle.
// Cancelled and failed are reachable from any non-terminal state and are not listed here.
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:        {StatusConfirmed, StatusAssigned},
	StatusConfirmed:      {StatusAssigned},
	StatusAssigned:       {StatusPickedUp},
	StatusPickedUp:       {StatusInTransit},
	StatusInTransit:      {StatusOutForDelivery, StatusDelivered},
	StatusOutForDelivery: {StatusDelivered},
}

// CanTransition reports whether the strict lifecycle allows moving from one status to another
func CanTransition(from, to BookingStatus) bool {
	if !from.IsValid() || !to.IsValid() || from.IsTerminal() {
		return false
	}
	if to == StatusCancelled || to == StatusFailed {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
