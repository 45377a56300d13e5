package errors

import "fmt"

var (
	ErrStoreUnavailable = fmt.Errorf("key-value store unavailable")
	ErrProfileExists    = fmt.Errorf("a profile already exists for this username")
	ErrUnknownUser      = fmt.Errorf("no profile found for this username")
	ErrInvalidInvite    = fmt.Errorf("invalid invitation request")
	ErrBlankUsername    = fmt.Errorf("username must not be blank")
)
