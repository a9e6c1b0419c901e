//go:build windows

package vss

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sys/windows"

	"github.com/Microsoft/go-winio/pkg/guid"
)

type fakeAsync struct {
	err   error
	waits int
}

func (a *fakeAsync) WaitForCompletion(context.Context) error {
	a.waits++
	return a.err
}

// fakeSession scripts the backup-components calls the enumeration pipeline
// makes and records resource-release bookkeeping.
type fakeSession struct {
	initErr   error
	stateErr  error
	gatherErr error
	waitErr   error
	countErr  error
	freeErr   error

	statuses   []WriterStatus
	statusErrs map[uint32]error

	async    *fakeAsync
	released int
	freed    int
}

func (s *fakeSession) InitializeForBackup(context.Context) error { return s.initErr }

func (s *fakeSession) SetBackupState(_ context.Context, _, _ bool, _ BackupType, _ bool) error {
	return s.stateErr
}

func (s *fakeSession) GatherWriterMetadata(context.Context) (awaiter, error) {
	if s.gatherErr != nil {
		return nil, s.gatherErr
	}
	s.async = &fakeAsync{err: s.waitErr}
	return s.async, nil
}

func (s *fakeSession) WriterStatusCount(context.Context) (uint32, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return uint32(len(s.statuses)), nil
}

func (s *fakeSession) WriterStatus(_ context.Context, index uint32) (WriterStatus, error) {
	if err := s.statusErrs[index]; err != nil {
		return WriterStatus{}, err
	}
	return s.statuses[index], nil
}

func (s *fakeSession) FreeWriterStatus(context.Context) error {
	s.freed++
	return s.freeErr
}

func (s *fakeSession) Release() { s.released++ }

func mustGUID(t *testing.T, s string) GUID {
	t.Helper()
	g, err := guid.FromString(s)
	if err != nil {
		t.Fatalf("parse guid %q: %v", s, err)
	}
	return g
}

func braced(s string) string {
	return "{" + strings.ToUpper(s) + "}"
}

func checkReleased(t *testing.T, s *fakeSession, freed int) {
	t.Helper()
	if s.released != 1 {
		t.Errorf("session released %d times, wanted exactly once", s.released)
	}
	if s.freed != freed {
		t.Errorf("writer status freed %d times, wanted %d", s.freed, freed)
	}
}

func TestEnumerateWritersEmpty(t *testing.T) {
	s := &fakeSession{}
	writers, err := enumerateWriters(context.Background(), s)
	if err != nil {
		t.Fatalf("enumeration failed: %v", err)
	}
	if len(writers) != 0 {
		t.Fatalf("got %d writers, wanted none", len(writers))
	}
	if s.async == nil || s.async.waits != 1 {
		t.Fatalf("async operation should be waited on exactly once, got %+v", s.async)
	}
	checkReleased(t, s, 1)
}

func TestEnumerateWritersInitFailure(t *testing.T) {
	s := &fakeSession{initErr: VSS_E_BAD_STATE}
	writers, err := enumerateWriters(context.Background(), s)
	if !errors.Is(err, VSS_E_BAD_STATE) {
		t.Fatalf("got %v, wanted %v", err, VSS_E_BAD_STATE)
	}
	if writers != nil {
		t.Fatalf("got a writer list on a pipeline failure: %+v", writers)
	}
	if s.async != nil {
		t.Fatal("metadata gathering should not have started")
	}
	checkReleased(t, s, 0)
}

func TestEnumerateWritersAbortPaths(t *testing.T) {
	for _, tc := range []struct {
		name string
		mod  func(*fakeSession)
	}{
		{"set backup state", func(s *fakeSession) { s.stateErr = VSS_E_UNEXPECTED }},
		{"gather metadata", func(s *fakeSession) { s.gatherErr = VSS_E_WRITER_INFRASTRUCTURE }},
		{"async wait", func(s *fakeSession) { s.waitErr = VSS_E_WRITER_NOT_RESPONDING }},
		{"status count", func(s *fakeSession) { s.countErr = VSS_E_OBJECT_NOT_FOUND }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			s := &fakeSession{}
			tc.mod(s)
			writers, err := enumerateWriters(context.Background(), s)
			if err == nil {
				t.Fatal("enumeration should have failed")
			}
			if writers != nil {
				t.Fatalf("got a writer list on a pipeline failure: %+v", writers)
			}
			checkReleased(t, s, 0)
		})
	}
}

func TestEnumerateWritersSkipsFailedWriter(t *testing.T) {
	const (
		gSystem   = "e8132975-6f93-4464-a53e-1050253ae220"
		gSearch   = "cd3f2362-8bef-46c7-9181-d62844cdc062"
		gRegistry = "afbab4a2-367d-4d15-a586-71dbb18f8485"
		inst      = "4b0b0f0d-84c1-4d2a-8b1c-0f4d5ff1e1b6"
	)

	s := &fakeSession{
		statuses: []WriterStatus{
			{
				InstanceID: mustGUID(t, inst),
				WriterID:   mustGUID(t, gSystem),
				Name:       "System Writer",
				State:      WriterStateStable,
			},
			{
				WriterID: mustGUID(t, gSearch),
				Name:     "Search Writer",
			},
			{
				InstanceID: mustGUID(t, inst),
				WriterID:   mustGUID(t, gRegistry),
				Name:       "Registry Writer",
				State:      WriterStateFailedAtFreeze,
				Failure:    windows.Errno(0x800423f4), // VSS_E_WRITERERROR_NONRETRYABLE
			},
		},
		statusErrs: map[uint32]error{1: VSS_E_WRITER_NOT_RESPONDING},
	}

	writers, err := enumerateWriters(context.Background(), s)
	if err != nil {
		t.Fatalf("enumeration failed: %v", err)
	}

	want := []Writer{
		{
			ID:         braced(gSystem),
			InstanceID: braced(inst),
			Name:       "System Writer",
			State:      WriterStateStable,
		},
		{
			ID:         braced(gRegistry),
			InstanceID: braced(inst),
			Name:       "Registry Writer",
			State:      WriterStateFailedAtFreeze,
			Failure:    "0x800423F4",
		},
	}
	if diff := cmp.Diff(want, writers); diff != "" {
		t.Fatalf("writer list mismatch (-want +got):\n%s", diff)
	}
	checkReleased(t, s, 1)
}
