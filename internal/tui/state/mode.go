package state

// Mode is what the keyboard currently drives
type Mode int

const (
	NormalMode Mode = iota
	// DragMode carries a card; navigation moves the drop cursor
	DragMode
	AddMode
	EditMode
	DeleteConfirmMode
	HelpMode
	DetailMode
)

func (m Mode) String() string {
	switch m {
	case NormalMode:
		return "normal"
	case DragMode:
		return "drag"
	case AddMode:
		return "add"
	case EditMode:
		return "edit"
	case DeleteConfirmMode:
		return "confirm delete"
	case HelpMode:
		return "help"
	case DetailMode:
		return "detail"
	default:
		return "unknown"
	}
}

// Modal reports whether the mode draws an overlay on top of the board
func (m Mode) Modal() bool {
	return m != NormalMode && m != DragMode
}
