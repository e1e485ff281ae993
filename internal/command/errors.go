package command

import "fmt"

// UserInputError is returned by commands when the invocation itself is wrong
// (missing query, delay out of range). The dispatcher shows Msg to the user.
type UserInputError struct {
	Msg string
}

func (e *UserInputError) Error() string { return e.Msg }

// InputErrorf builds a UserInputError.
func InputErrorf(format string, args ...any) error {
	return &UserInputError{Msg: fmt.Sprintf(format, args...)}
}
