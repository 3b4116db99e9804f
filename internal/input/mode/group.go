package mode

// Group is a fixed set of modes a remapper applies to.
type Group uint8

const (
	// GroupInsert contains only Insert mode.
	GroupInsert Group = iota

	// GroupOther contains Normal and the three visual modes.
	GroupOther
)

// String returns the group name.
func (g Group) String() string {
	switch g {
	case GroupInsert:
		return "insert"
	case GroupOther:
		return "other"
	default:
		return "unknown"
	}
}

// Contains reports whether m belongs to the group.
// Replace and CommandLine belong to no group.
func (g Group) Contains(m Mode) bool {
	switch g {
	case GroupInsert:
		return m == Insert
	case GroupOther:
		return m == Normal || m.IsVisual()
	default:
		return false
	}
}

// Modes returns the members of the group.
func (g Group) Modes() []Mode {
	switch g {
	case GroupInsert:
		return []Mode{Insert}
	case GroupOther:
		return []Mode{Normal, Visual, VisualLine, VisualBlock}
	default:
		return nil
	}
}

// IncludesInsert reports whether the group contains Insert mode.
func (g Group) IncludesInsert() bool {
	return g.Contains(Insert)
}
