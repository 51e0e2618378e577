package jd

import "fmt"

// FetchError kinds.
const (
	KindNetwork  = "network"
	KindNotFound = "not_found"
	KindDecode   = "decode"
)

// FetchError reports a failure to obtain a job posting.
type FetchError struct {
	Kind    string
	Source  string
	Message string
	Err     error
}

func (e *FetchError) Error() (msg string) {
	if e.Err != nil {
		msg = fmt.Sprintf("fetch %s error for %s: %s: %v", e.Kind, e.Source, e.Message, e.Err)
		return msg
	}
	msg = fmt.Sprintf("fetch %s error for %s: %s", e.Kind, e.Source, e.Message)
	return msg
}

func (e *FetchError) Unwrap() (err error) {
	err = e.Err
	return err
}
