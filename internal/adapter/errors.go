package adapter

import "errors"

// Remote client error taxonomy. Callers classify failures with errors.Is;
// the sentinel determines both retry behaviour and how the failure is
// reported through the host event boundary.
var (
	// ErrAuth covers HTTP 401/403 and locally detected expired tokens.
	// Never retried: a bad credential cannot fix itself.
	ErrAuth = errors.New("authentication rejected")

	// ErrNetwork covers connection failures and timeouts. Transient;
	// retried with backoff before being surfaced.
	ErrNetwork = errors.New("network failure")

	// ErrParse covers malformed or non-conforming remote payloads. Never
	// retried and never applied: the local store stays untouched.
	ErrParse = errors.New("malformed remote payload")

	// ErrServer covers HTTP 5xx responses. Retried like ErrNetwork.
	ErrServer = errors.New("server failure")
)

// Kind maps an error to its taxonomy name for host-facing events.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAuth):
		return "auth"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrServer):
		return "server"
	default:
		return "internal"
	}
}
