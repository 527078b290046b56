package xmain

import "fmt"

// ExitError ends the process with Code. Message is printed unless empty.
type ExitError struct {
	Code    int
	Message string
}

func (ee ExitError) Error() string {
	if ee.Message == "" {
		return fmt.Sprintf("exit status %d", ee.Code)
	}
	return fmt.Sprintf("exit status %d: %s", ee.Code, ee.Message)
}

// UsageError reports invalid flags or arguments. Main points the user at --help.
type UsageError struct {
	Message string
}

func UsageErrorf(format string, v ...interface{}) UsageError {
	return UsageError{Message: fmt.Sprintf(format, v...)}
}

func (ue UsageError) Error() string {
	return "bad usage: " + ue.Message
}
