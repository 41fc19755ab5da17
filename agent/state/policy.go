package state

// UpdatePolicy decides whether a generated value may replace stored state.
type UpdatePolicy int

const (
	// OverwriteAlways stores whatever the generator returned, including
	// the empty result of a failed call.
	OverwriteAlways UpdatePolicy = iota
	// OverwriteIfNonEmpty keeps the stored value when the result is empty.
	OverwriteIfNonEmpty
)

func (p UpdatePolicy) Accepts(candidate string) bool {
	switch p {
	case OverwriteAlways:
		return true
	case OverwriteIfNonEmpty:
		return candidate != ""
	default:
		return false
	}
}

func (p UpdatePolicy) String() string {
	switch p {
	case OverwriteAlways:
		return "overwrite_always"
	case OverwriteIfNonEmpty:
		return "overwrite_if_non_empty"
	default:
		return "unknown"
	}
}
