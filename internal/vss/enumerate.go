//go:build windows

package vss

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/vss-tools/vsswriters/internal/log"
	"github.com/vss-tools/vsswriters/internal/oc"
)

// Writer describes a single VSS writer as reported by the backup session.
type Writer struct {
	ID         string      `json:"id"`
	InstanceID string      `json:"instanceId"`
	Name       string      `json:"name"`
	State      WriterState `json:"state"`
	Failure    string      `json:"failure,omitempty"`
}

// WriterStatus is the raw per-writer record returned by
// IVssBackupComponents::GetWriterStatus.
type WriterStatus struct {
	InstanceID GUID
	WriterID   GUID
	Name       string
	State      WriterState
	Failure    error
}

// session is the slice of IVssBackupComponents the enumeration pipeline
// drives. *BackupComponents implements it via comSession; tests substitute
// fakes.
type session interface {
	InitializeForBackup(ctx context.Context) error
	SetBackupState(ctx context.Context, selectComponents, backupBootableState bool, bt BackupType, partialFileSupport bool) error
	GatherWriterMetadata(ctx context.Context) (awaiter, error)
	WriterStatusCount(ctx context.Context) (uint32, error)
	WriterStatus(ctx context.Context, index uint32) (WriterStatus, error)
	FreeWriterStatus(ctx context.Context) error
	Release()
}

type awaiter interface {
	WaitForCompletion(ctx context.Context) error
}

// comSession adapts *BackupComponents to session: the concrete
// GatherWriterMetadata returns *Async rather than the awaiter interface.
type comSession struct {
	*BackupComponents
}

func (s comSession) GatherWriterMetadata(ctx context.Context) (awaiter, error) {
	return s.BackupComponents.GatherWriterMetadata(ctx)
}

// EnumerateWriters initializes COM on the calling thread, creates a
// backup-components session, gathers writer metadata, and returns one record
// per writer that reported status, in index order. A failure before the
// per-writer loop aborts with a nil slice; a per-writer query failure only
// skips that writer. COM and session resources are released on every path.
func EnumerateWriters(ctx context.Context) (_ []Writer, err error) {
	ctx, span := oc.StartSpan(ctx, vssSpanName("EnumerateWriters"), oc.WithClientSpanKind)
	defer func() { oc.SetSpanStatus(span, err); span.End() }()

	// COM apartment membership is per OS thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := windows.CoInitializeEx(0, windows.COINIT_APARTMENTTHREADED); err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("COM initialization failed")
		return nil, fmt.Errorf("initialize COM: %w", err)
	}
	defer windows.CoUninitialize()

	bc, err := CreateBackupComponents(ctx)
	if err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("creating VSS backup components failed")
		return nil, err
	}
	return enumerateWriters(ctx, comSession{bc})
}

func enumerateWriters(ctx context.Context, s session) (_ []Writer, err error) {
	defer s.Release()

	if err := s.InitializeForBackup(ctx); err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("initialize for backup failed")
		return nil, fmt.Errorf("initialize for backup: %w", err)
	}

	if err := s.SetBackupState(ctx, false, true, BackupTypeFull, false); err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("set backup state failed")
		return nil, fmt.Errorf("set backup state: %w", err)
	}

	async, err := s.GatherWriterMetadata(ctx)
	if err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("gather writer metadata failed")
		return nil, fmt.Errorf("gather writer metadata: %w", err)
	}
	if err := async.WaitForCompletion(ctx); err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("waiting for writer metadata failed")
		return nil, fmt.Errorf("wait for writer metadata: %w", err)
	}

	count, err := s.WriterStatusCount(ctx)
	if err != nil {
		log.G(ctx).WithError(err).WithField(fieldHResult, errnoHex(err)).Error("writer status count query failed")
		return nil, fmt.Errorf("query writer status count: %w", err)
	}
	log.G(ctx).WithField("writers", count).Debug("gathered writer metadata")

	writers := make([]Writer, 0, count)
	for i := uint32(0); i < count; i++ {
		ws, err := s.WriterStatus(ctx, i)
		if err != nil {
			// A writer that cannot report status is omitted; the rest of the
			// enumeration still stands.
			log.G(ctx).WithError(err).WithFields(logrus.Fields{
				"index":      i,
				fieldHResult: errnoHex(err),
			}).Warning("skipping writer, status query failed")
			continue
		}

		w := Writer{
			ID:         FormatGUID(ws.WriterID),
			InstanceID: FormatGUID(ws.InstanceID),
			Name:       ws.Name,
			State:      ws.State,
		}
		if ws.Failure != nil {
			w.Failure = errnoHex(ws.Failure)
		}
		writers = append(writers, w)
	}

	if err := s.FreeWriterStatus(ctx); err != nil {
		log.G(ctx).WithError(err).Warning("freeing writer status failed")
	}
	return writers, nil
}
