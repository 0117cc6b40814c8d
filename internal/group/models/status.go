package models

// GroupStatus is the lifecycle state of a group.
type GroupStatus string

const (
	GroupStatusActive   GroupStatus = "active"
	GroupStatusInactive GroupStatus = "inactive"
)

// CanTransitionTo reports whether the transition is allowed.
// Transitions: active ↔ inactive only.
func (s GroupStatus) CanTransitionTo(target GroupStatus) bool {
	switch s {
	case GroupStatusActive:
		return target == GroupStatusInactive
	case GroupStatusInactive:
		return target == GroupStatusActive
	default:
		return false
	}
}

// Int maps the status onto the 1/0 storage encoding.
func (s GroupStatus) Int() int {
	if s == GroupStatusActive {
		return 1
	}
	return 0
}

// GroupStatusFromInt maps the 1/0 storage encoding onto the status.
func GroupStatusFromInt(v int) GroupStatus {
	if v == 1 {
		return GroupStatusActive
	}
	return GroupStatusInactive
}
