package cli

import (
	"context"
	"errors"
	"io"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// ReadTranscript reads all of r, returning early with ErrInputCancelled if
// ctx ends first.
func ReadTranscript(ctx context.Context, r io.Reader) (string, error) {
	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		data, err := io.ReadAll(r)
		resultCh <- result{value: string(data), err: err}
	}()

	// The reading goroutine finishes on its own once r returns.
	select {
	case <-ctx.Done():
		return "", ErrInputCancelled
	case res := <-resultCh:
		return res.value, res.err
	}
}
