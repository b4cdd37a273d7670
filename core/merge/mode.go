package merge

// Mode selects how staged rows are folded into the target table.
type Mode string

const (
	// ModeAppend inserts staging rows whose key is absent from the target.
	ModeAppend Mode = "append"
	// ModeUpdate appends new rows, then updates target rows that changed.
	ModeUpdate Mode = "update"
	// ModeReplace clears the target and inserts every staging row.
	ModeReplace Mode = "replace"
)

// ParseMode converts a string into a Mode, failing for anything outside
// the supported set.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

// Validate checks the mode against the closed set of supported strategies.
// It runs before any plan is built, so an invalid mode never mutates anything.
func (m Mode) Validate() error {
	switch m {
	case ModeAppend, ModeUpdate, ModeReplace:
		return nil
	default:
		return &UnknownMergeModeError{Mode: string(m)}
	}
}
