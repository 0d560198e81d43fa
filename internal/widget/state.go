package widget

// State is the widget's lifecycle position. Transitions happen only through
// the Model's transition methods so an illegal move is unrepresentable from
// the outside.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateSubmitting
	StateSuccess
	StateError
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}
