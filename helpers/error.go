package helpers

import "fmt"

// SystemError carries a collaborator failure (store, cache, provider)
// together with the function that observed it. The models' sentinel errors
// are never wrapped - anything arriving as *SystemError maps to a 500.
type SystemError struct {
	Context string // usually FuncName() of the observing function
	Err     error
}

func (se *SystemError) Error() string {
	return fmt.Sprintf("%s: %v", se.Context, se.Err)
}

// Unwrap exposes the cause, eg. for label checks on driver errors
func (se *SystemError) Unwrap() error {
	return se.Err
}

// WrapError attaches caller context to a collaborator error
func WrapError(err error, info string) *SystemError {
	return &SystemError{
		Context: info,
		Err:     err,
	}
}
