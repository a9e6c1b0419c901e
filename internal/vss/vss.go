//go:build windows

package vss

import (
	"context"
	"fmt"
	"syscall"
	"unsafe"

	"go.opencensus.io/trace"
	"golang.org/x/sys/windows"

	"github.com/Microsoft/go-winio/pkg/guid"

	"github.com/vss-tools/vsswriters/internal/oc"
)

//go:generate go run github.com/Microsoft/go-winio/tools/mkwinsyscall -output zsyscall_windows.go ./*.go

// GUID is the 128-bit identifier VSS uses to name writer classes and writer
// instances (VSS_ID).
type GUID = guid.GUID

// 	HRESULT
// 	CreateVssBackupComponents(
// 	    _Out_ IVssBackupComponents** ppBackup
// 	    );
//
// VssApi.dll exports the function under its C++ decoration; the proc name
// below is the 64-bit form.
//
//sys createVssBackupComponents(backup **vssBackupComponents) (hr error) = vssapi.?CreateVssBackupComponents@@YAJPEAPEAVIVssBackupComponents@@@Z?
//sys stringFromGUID2(g *GUID, str *uint16, chMax int32) (chars int32) = ole32.StringFromGUID2
//sys sysFreeString(bstr *uint16) = oleaut32.SysFreeString

// vssBackupComponentsVtbl is the IVssBackupComponents method table, in
// vsbackup.h declaration order. Only a handful of the methods are called,
// but every slot must be present for the called ones to land correctly.
type vssBackupComponentsVtbl struct {
	queryInterface           uintptr
	addRef                   uintptr
	release                  uintptr
	getWriterComponentsCount uintptr
	getWriterComponents      uintptr
	initializeForBackup      uintptr
	setBackupState           uintptr
	initializeForRestore     uintptr
	setRestoreState          uintptr
	gatherWriterMetadata     uintptr
	getWriterMetadataCount   uintptr
	getWriterMetadata        uintptr
	freeWriterMetadata       uintptr
	addComponent             uintptr
	prepareForBackup         uintptr
	abortBackup              uintptr
	gatherWriterStatus       uintptr
	getWriterStatusCount     uintptr
	freeWriterStatus         uintptr
	getWriterStatus          uintptr
	addRestoreSubcomponent   uintptr
	setFileRestoreStatus     uintptr
	addNewTarget             uintptr
	setRangesFilePath        uintptr
	prepareForRestore        uintptr
	postRestore              uintptr
	setContext               uintptr
	startSnapshotSet         uintptr
	addToSnapshotSet         uintptr
	deleteSnapshots          uintptr
	importSnapshots          uintptr
	breakSnapshotSet         uintptr
	getSnapshotProperties    uintptr
	query                    uintptr
	isVolumeSupported        uintptr
	disableWriterClasses     uintptr
	enableWriterClasses      uintptr
	disableWriterInstances   uintptr
	exposeSnapshot           uintptr
	revertToSnapshot         uintptr
	queryRevertStatus        uintptr
	doSnapshotSet            uintptr
}

type vssBackupComponents struct {
	vtbl *vssBackupComponentsVtbl
}

// BackupComponents owns an IVssBackupComponents instance. It is created by
// CreateBackupComponents and must be released exactly once with Release.
type BackupComponents struct {
	v *vssBackupComponents
}

// comcall dispatches a COM method returning an HRESULT. Any result other
// than S_OK is returned as a windows.Errno.
func comcall(method uintptr, args ...uintptr) error {
	hr, _, _ := syscall.SyscallN(method, args...)
	if hr != 0 {
		return windows.Errno(hr)
	}
	return nil
}

func boolArg(b bool) uintptr {
	if b {
		return 1
	}
	return 0
}

func vssSpanName(name string) string {
	return "vss::" + name
}

// CreateBackupComponents creates a backup-components session. COM must
// already be initialized on the calling thread.
func CreateBackupComponents(ctx context.Context) (_ *BackupComponents, err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("CreateVssBackupComponents"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	var v *vssBackupComponents
	if err := createVssBackupComponents(&v); err != nil {
		return nil, fmt.Errorf("create VSS backup components: %w", err)
	}
	if v == nil {
		return nil, fmt.Errorf("create VSS backup components: %w", E_POINTER)
	}
	return &BackupComponents{v: v}, nil
}

func (bc *BackupComponents) this() uintptr {
	return uintptr(unsafe.Pointer(bc.v))
}

// InitializeForBackup prepares the session for a backup operation, starting
// from a fresh backup-components document (null XML argument).
func (bc *BackupComponents) InitializeForBackup(ctx context.Context) (err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("InitializeForBackup"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	return comcall(bc.v.vtbl.initializeForBackup, bc.this(), 0)
}

// SetBackupState declares the kind of backup the session will perform.
// Writers use this to decide what metadata to report.
func (bc *BackupComponents) SetBackupState(ctx context.Context, selectComponents, backupBootableState bool, bt BackupType, partialFileSupport bool) (err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("SetBackupState"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()
	span.AddAttributes(trace.StringAttribute("backupType", bt.String()))

	return comcall(bc.v.vtbl.setBackupState, bc.this(),
		boolArg(selectComponents),
		boolArg(backupBootableState),
		uintptr(bt),
		boolArg(partialFileSupport))
}

// GatherWriterMetadata asks every writer on the host to report its metadata
// and returns the async operation tracking the collection.
func (bc *BackupComponents) GatherWriterMetadata(ctx context.Context) (_ *Async, err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("GatherWriterMetadata"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	var v *vssAsync
	if err := comcall(bc.v.vtbl.gatherWriterMetadata, bc.this(), uintptr(unsafe.Pointer(&v))); err != nil {
		return nil, err
	}
	return &Async{v: v}, nil
}

// WriterStatusCount returns the number of writers with status available on
// the session.
func (bc *BackupComponents) WriterStatusCount(ctx context.Context) (count uint32, err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("GetWriterStatusCount"), oc.WithClientSpanKind)
	defer func() {
		span.AddAttributes(trace.Int64Attribute("count", int64(count)))
		oc.SetSpanStatus(span, err)
		span.End()
	}()

	err = comcall(bc.v.vtbl.getWriterStatusCount, bc.this(), uintptr(unsafe.Pointer(&count)))
	return count, err
}

// WriterStatus reports the identity and state of the writer at index. The
// writer name BSTR is decoded and freed before returning.
func (bc *BackupComponents) WriterStatus(ctx context.Context, index uint32) (_ WriterStatus, err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("GetWriterStatus"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()
	span.AddAttributes(trace.Int64Attribute("index", int64(index)))

	var (
		ws      WriterStatus
		name    *uint16
		state   int32
		failure int32
	)
	err = comcall(bc.v.vtbl.getWriterStatus, bc.this(),
		uintptr(index),
		uintptr(unsafe.Pointer(&ws.InstanceID)),
		uintptr(unsafe.Pointer(&ws.WriterID)),
		uintptr(unsafe.Pointer(&name)),
		uintptr(unsafe.Pointer(&state)),
		uintptr(unsafe.Pointer(&failure)))
	if err != nil {
		return WriterStatus{}, err
	}

	ws.Name = bstrToString(name)
	ws.State = WriterState(state)
	if failure != 0 {
		ws.Failure = windows.Errno(uint32(failure))
	}
	return ws, nil
}

// FreeWriterStatus releases the per-writer status buffers held by the
// session after a metadata or status gathering.
func (bc *BackupComponents) FreeWriterStatus(ctx context.Context) (err error) {
	_, span := oc.StartSpan(ctx, vssSpanName("FreeWriterStatus"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	return comcall(bc.v.vtbl.freeWriterStatus, bc.this())
}

// Release drops the session's COM reference. The wrapper must not be used
// afterwards; further calls to Release are no-ops.
func (bc *BackupComponents) Release() {
	if bc.v == nil {
		return
	}
	syscall.SyscallN(bc.v.vtbl.release, bc.this()) //nolint:errcheck // returns the new refcount, not an HRESULT
	bc.v = nil
}

// bstrToString converts a BSTR to a string and frees the original buffer.
func bstrToString(b *uint16) string {
	if b == nil {
		return ""
	}
	s := windows.UTF16PtrToString(b)
	sysFreeString(b)
	return s
}

// guidBufferLength is the braced GUID string length (38) plus the null
// terminator StringFromGUID2 writes.
const guidBufferLength = 39

// FormatGUIDFallback is returned by FormatGUID when the platform conversion
// reports failure.
const FormatGUIDFallback = "Conversion failed"

// FormatGUID renders g in the braced registry form, e.g.
// "{E8132975-6F93-4464-A53E-1050253AE220}".
func FormatGUID(g GUID) string {
	var buf [guidBufferLength]uint16
	if chars := stringFromGUID2(&g, &buf[0], guidBufferLength); chars <= 0 {
		return FormatGUIDFallback
	}
	return windows.UTF16ToString(buf[:])
}
