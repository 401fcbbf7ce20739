package stegerr

// Process exit codes used by the command line tools
const (
	ExitOK          = 0
	ExitFailure     = 1 // I/O, setup and anything without a Kind
	ExitUsage       = 2
	ExitAuth        = 3
	ExitNoContainer = 4
	ExitCapacity    = 5
	ExitCorrupt     = 6
)

// ExitCode maps err to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch KindOf(err) {
	case KindAuthentication:
		return ExitAuth
	case KindMagicMismatch:
		return ExitNoContainer
	case KindCapacity:
		return ExitCapacity
	case KindFormat, KindDecompression:
		return ExitCorrupt
	default:
		return ExitFailure
	}
}

// Advice returns a one-line hint for the user, or "" when there is none.
func Advice(err error) string {
	switch KindOf(err) {
	case KindAuthentication:
		return "wrong password?"
	case KindMagicMismatch:
		return "this image does not carry a hidden message"
	case KindCapacity:
		return "use a larger carrier image or a shorter message"
	case KindFormat, KindDecompression:
		return "the image was modified after encoding; lossy re-encoding destroys hidden data"
	case KindRandomSource:
		return "the system random source is unavailable"
	default:
		return ""
	}
}
