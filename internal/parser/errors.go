package parser

import "fmt"

// FormatError reports an unparseable or wrong-shape source. Individual
// malformed rows never produce one; only catalog-level faults do.
type FormatError struct {
	Source string
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid format in %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid format in %s: %s", e.Source, e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// TransportError reports a non-OK HTTP status while fetching a source.
type TransportError struct {
	URL    string
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
}
