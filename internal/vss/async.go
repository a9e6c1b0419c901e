//go:build windows

package vss

import (
	"context"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/vss-tools/vsswriters/internal/log"
	"github.com/vss-tools/vsswriters/internal/oc"
)

// vssAsyncVtbl is the IVssAsync method table, in vss.h declaration order.
type vssAsyncVtbl struct {
	queryInterface uintptr
	addRef         uintptr
	release        uintptr
	cancel         uintptr
	wait           uintptr
	queryStatus    uintptr
}

type vssAsync struct {
	vtbl *vssAsyncVtbl
}

// Async tracks an in-flight VSS operation (IVssAsync). The shadow copy
// service owns the object; callers only wait on it and query its status.
type Async struct {
	v *vssAsync
}

// Wait blocks until the operation completes. The wait is unbounded:
// IVssAsync offers no usable cancellation, and the requestor contract is to
// wait out metadata gathering. Do not add a timeout here.
func (a *Async) Wait(ctx context.Context) (err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("IVssAsync::Wait"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	return comcall(a.v.vtbl.wait, uintptr(unsafe.Pointer(a.v)), uintptr(windows.INFINITE))
}

// QueryStatus returns the operation's final HRESULT.
func (a *Async) QueryStatus(ctx context.Context) (status windows.Errno, err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("IVssAsync::QueryStatus"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	var hr int32
	// the second parameter is reserved and must be null
	if err := comcall(a.v.vtbl.queryStatus, uintptr(unsafe.Pointer(a.v)), uintptr(unsafe.Pointer(&hr)), 0); err != nil {
		return 0, err
	}
	return windows.Errno(uint32(hr)), nil
}

// WaitForCompletion blocks until the operation signals completion, then
// resolves its final status. A nil Async (or nil underlying handle) is a
// usage error and returns E_POINTER immediately, without blocking. A wait
// failure is returned as-is; a status-query failure returns the query's own
// code; otherwise the final status is an error only if its severity bit is
// set.
func (a *Async) WaitForCompletion(ctx context.Context) error {
	if a == nil || a.v == nil {
		log.G(ctx).Error("VSS async operation is nil")
		return E_POINTER
	}

	if err := a.Wait(ctx); err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("wait on VSS async operation failed")
		return err
	}

	status, err := a.QueryStatus(ctx)
	if err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("VSS async status query failed")
		return err
	}

	log.G(ctx).WithField(fieldHResult, errnoHex(status)).Debug("VSS async operation completed")
	if Failed(status) {
		return status
	}
	return nil
}
