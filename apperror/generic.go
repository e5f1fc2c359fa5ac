package apperror

type Error string

func (e Error) Error() string { return string(e) }

// generic sentinels shared across packages
// (domain-specific ones live with their models)
const (
	ErrNoData = Error("no records found")
)
