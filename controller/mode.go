package controller

// Mode is the phase of the verification and rollover flow.
type Mode int

const (
	// VerifyEntry opens the door on an accepted code.
	VerifyEntry Mode = iota
	// AwaitPreviousForRollover wants a currently valid code before a new
	// one may be stored.
	AwaitPreviousForRollover
	// AwaitNewForRollover stores the next completed entry.
	AwaitNewForRollover
)

func (m Mode) String() string {
	switch m {
	case VerifyEntry:
		return "verify"
	case AwaitPreviousForRollover:
		return "await-previous"
	case AwaitNewForRollover:
		return "await-new"
	}
	return "unknown"
}
