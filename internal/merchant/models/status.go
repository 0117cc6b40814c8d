package models

// RegistryStatus is the lifecycle state of a registry entry. A tagged state
// rather than a bare flag so future states (e.g. suspended) don't overload
// the column.
type RegistryStatus string

const (
	RegistryStatusActive   RegistryStatus = "active"
	RegistryStatusInactive RegistryStatus = "inactive"
)

// CanTransitionTo reports whether the transition is allowed.
// Transitions: active ↔ inactive only.
func (s RegistryStatus) CanTransitionTo(target RegistryStatus) bool {
	switch s {
	case RegistryStatusActive:
		return target == RegistryStatusInactive
	case RegistryStatusInactive:
		return target == RegistryStatusActive
	default:
		return false
	}
}

// Int maps the status onto the 1/0 storage encoding.
func (s RegistryStatus) Int() int {
	if s == RegistryStatusActive {
		return 1
	}
	return 0
}

// RegistryStatusFromInt maps the 1/0 storage encoding onto the status.
func RegistryStatusFromInt(v int) RegistryStatus {
	if v == 1 {
		return RegistryStatusActive
	}
	return RegistryStatusInactive
}
