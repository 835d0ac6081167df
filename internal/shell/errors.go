package shell

import (
	"errors"
	"fmt"
)

// ErrNoShellsDetected is returned by Manager.Setup when no registered
// dialect is installed on the host.
var ErrNoShellsDetected = errors.New("no supported shells detected")

// FileError represents an error reading or writing a startup file or
// startup script.
type FileError struct {
	Path    string
	Message string
	Cause   error
}

func (e *FileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("file error (%s): %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("file error (%s): %s", e.Path, e.Message)
}

func (e *FileError) Unwrap() error {
	return e.Cause
}

// StartupFileError reports that a shell could not tell us where its
// startup file lives.
type StartupFileError struct {
	Shell   string
	Command string
	Cause   error
}

func (e *StartupFileError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Command failed: %s. Error: %v", e.Command, e.Cause)
	}
	return fmt.Sprintf("Command failed: %s. Error: no startup file reported", e.Command)
}

func (e *StartupFileError) Unwrap() error {
	return e.Cause
}

// ExecutionPolicyError reports a PowerShell execution policy that blocks
// the startup script.
type ExecutionPolicyError struct {
	Shell  string
	Policy string
}

func (e *ExecutionPolicyError) Error() string {
	return fmt.Sprintf("PowerShell execution policy is set to '%s', which prevents safe-chain from running.\n"+
		"  -> To fix this, open PowerShell as Administrator and run: Set-ExecutionPolicy -ExecutionPolicy RemoteSigned.", e.Policy)
}
