package main

// Exit codes, stable and enumerated per spec.md §6. Every error kind in
// spec.md §7 maps one-to-one to one of these.
const (
	exitSuccess           = 0
	exitIO                = 1
	exitUTF8              = 2
	exitIPParse           = 3
	exitTimeout           = 4
	exitTLS               = 5
	exitDoH               = 6
	exitDNSProtocol       = 7
	exitIPAddressParse    = 8
	exitLogger            = 9
	exitResolverDiscovery = 10
	exitQUIC              = 11
	exitIntegerParse      = 12
	exitNetworkResolving  = 13
	exitAsyncRuntime      = 14
	exitIDNA              = 15
)

// cliError pairs an error with the exit code it should terminate the
// process with, so main can do a single type switch instead of re-deriving
// the error kind from its text.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) Unwrap() error { return e.err }

func fail(code int, err error) *cliError {
	return &cliError{code: code, err: err}
}
