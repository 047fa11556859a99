package domain

import "go.trai.ch/zerr"

// Result is the outcome of a target's execution.
type Result struct {
	Target  string
	Success bool
	Message string
}

// Succeeded returns a successful result for target.
func Succeeded(target string) Result {
	return Result{Target: target, Success: true}
}

// Failed returns a failed result for target with a human-readable message.
func Failed(target, message string) Result {
	return Result{Target: target, Message: message}
}

// Err returns nil for a successful result and an error carrying the
// target and message otherwise.
func (r Result) Err() error {
	if r.Success {
		return nil
	}
	err := zerr.With(zerr.Wrap(ErrTargetFailed, ""), "target", r.Target)
	if r.Message != "" {
		err = zerr.Wrap(err, r.Message)
	}
	return err
}

// String renders the result for logs.
func (r Result) String() string {
	if r.Success {
		return r.Target + ": success"
	}
	if r.Message == "" {
		return r.Target + ": failed"
	}
	return r.Target + ": " + r.Message
}
