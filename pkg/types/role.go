package types

// Role tags a decode request with its purpose. The dispatcher carries it
// through to the completion event without interpreting it; only the
// navigation controller and the worker pool's shedding policy look at it.
type Role int

const (
	// RoleMain marks a decode for the currently displayed image
	RoleMain Role = iota
	// RolePreload marks a speculative decode of a neighboring image
	RolePreload
)

// String returns the role's wire/log name
func (r Role) String() string {
	switch r {
	case RoleMain:
		return "main"
	case RolePreload:
		return "preload"
	default:
		return "unknown"
	}
}
