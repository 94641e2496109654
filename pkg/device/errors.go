package device

import (
	"errors"
)

var (
	ErrInitFailed          = errors.New("device: hid subsystem initialization failed")
	ErrClosed              = errors.New("device: hid subsystem closed")
	ErrDeviceNotFound      = errors.New("device: device not found")
	ErrDeviceClosed        = errors.New("device: device closed")
	ErrWriteFailed         = errors.New("device: write failed")
	ErrReadFailed          = errors.New("device: read failed")
	ErrFeatureReportFailed = errors.New("device: feature report failed")
	ErrConfigurationFailed = errors.New("device: set nonblocking failed")
	ErrInvalidArgument     = errors.New("device: invalid argument")
	ErrReadPending         = errors.New("device: read pending")
	ErrNotSupported        = errors.New("device: not supported")
)

type ErrorWithMessage struct {
	Message string
	Err     error
}

func newErrorMessage(err error, msg string) *ErrorWithMessage {
	return &ErrorWithMessage{
		Message: msg,
		Err:     err,
	}
}

func (m *ErrorWithMessage) Error() string {
	if m.Message != "" {
		return m.Err.Error() + " (" + m.Message + ")"
	}
	return m.Err.Error()
}

func (m *ErrorWithMessage) Unwrap() error {
	return m.Err
}
