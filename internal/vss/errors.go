//go:build windows

package vss

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows"
)

// fieldHResult is the logrus field carrying a formatted HRESULT.
const fieldHResult = "hresult"

// E_POINTER is the COM null-argument HRESULT, returned for nil handles.
const E_POINTER = windows.Errno(0x80004003)

// Success values reported by IVssAsync::QueryStatus.
//
//nolint:stylecheck // ST1003: ALL_CAPS
const (
	VSS_S_ASYNC_PENDING   = windows.Errno(0x00042309)
	VSS_S_ASYNC_FINISHED  = windows.Errno(0x0004230a)
	VSS_S_ASYNC_CANCELLED = windows.Errno(0x0004230b)
)

// VSS specific error codes.
//
// See [documentation] for more info.
//
// [documentation]: https://learn.microsoft.com/en-us/windows/win32/vss/volume-shadow-copy-api-error-and-success-codes
//
//nolint:stylecheck // ST1003: ALL_CAPS
const (
	// The backup components object is not initialized or the call sequence is wrong.
	VSS_E_BAD_STATE = windows.Errno(0x80042301)

	// An unexpected internal error occurred in the shadow copy service.
	VSS_E_UNEXPECTED = windows.Errno(0x80042302)

	// The shadow copy provider vetoed the operation.
	VSS_E_PROVIDER_VETO = windows.Errno(0x80042306)

	// The specified object does not exist.
	VSS_E_OBJECT_NOT_FOUND = windows.Errno(0x80042308)

	// The shadow copy provider had an unexpected error.
	VSS_E_UNEXPECTED_PROVIDER_ERROR = windows.Errno(0x8004230f)

	// The backup components document is invalid.
	VSS_E_INVALID_XML_DOCUMENT = windows.Errno(0x80042311)

	// A writer had an unexpected error while handling the event.
	VSS_E_UNEXPECTED_WRITER_ERROR = windows.Errno(0x80042315)

	// The writer infrastructure is not operating properly.
	VSS_E_WRITER_INFRASTRUCTURE = windows.Errno(0x80042318)

	// A writer did not respond to a GatherWriterStatus or GatherWriterMetadata call.
	VSS_E_WRITER_NOT_RESPONDING = windows.Errno(0x80042319)

	// The writer subscribed to events twice.
	VSS_E_WRITER_ALREADY_SUBSCRIBED = windows.Errno(0x8004231a)

	// The requested context is not supported by this provider.
	VSS_E_UNSUPPORTED_CONTEXT = windows.Errno(0x8004231b)
)

// Failed reports whether hr carries the HRESULT severity bit.
func Failed(hr windows.Errno) bool {
	return hr&0x80000000 != 0
}

// HResultHex formats a 32-bit status code in the conventional 0x-prefixed,
// zero-padded, uppercase hexadecimal form, e.g. 0x80070057.
func HResultHex(hr int32) string {
	return fmt.Sprintf("0x%08X", uint32(hr))
}

// errnoHex renders err through HResultHex when err is a windows.Errno, for
// use as a diagnostic log field.
func errnoHex(err error) string {
	var e windows.Errno
	if errors.As(err, &e) {
		return HResultHex(int32(uint32(e)))
	}
	return err.Error()
}
