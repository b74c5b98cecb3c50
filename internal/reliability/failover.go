package reliability

// FailureStrategy decides what happens to traffic when a dependency
// errors out.
type FailureStrategy string

const (
	FailOpen   FailureStrategy = "fail_open"
	FailClosed FailureStrategy = "fail_closed"
)

// ShouldAllow reports whether a request may proceed given a
// dependency error and the chosen strategy.
func ShouldAllow(strategy FailureStrategy, err error) bool {
	if err == nil {
		return true
	}
	return strategy == FailOpen
}
