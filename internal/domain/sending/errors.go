package sending

import "errors"

var (
	// ErrInvalidInput indicates a caller parameter outside its documented domain.
	ErrInvalidInput = errors.New("invalid sending input")
	// ErrNameRequired indicates a template group instantiation without a name.
	ErrNameRequired = errors.New("name is required when creating document group from template group")
)
