//go:build windows

package vss

import "encoding/json"

// BackupType mirrors VSS_BACKUP_TYPE, the kind of backup declared on the
// session before gathering metadata.
type BackupType int32

const (
	BackupTypeUndefined BackupType = iota
	BackupTypeFull
	BackupTypeIncremental
	BackupTypeDifferential
	BackupTypeLog
	BackupTypeCopy
	BackupTypeOther
)

func (bt BackupType) String() string {
	switch bt {
	case BackupTypeFull:
		return "full"
	case BackupTypeIncremental:
		return "incremental"
	case BackupTypeDifferential:
		return "differential"
	case BackupTypeLog:
		return "log"
	case BackupTypeCopy:
		return "copy"
	case BackupTypeOther:
		return "other"
	default:
		return "undefined"
	}
}

// WriterState mirrors VSS_WRITER_STATE, a writer's position in the backup
// sequence as reported by GetWriterStatus.
type WriterState int32

const (
	WriterStateUnknown WriterState = iota
	WriterStateStable
	WriterStateWaitingForFreeze
	WriterStateWaitingForThaw
	WriterStateWaitingForPostSnapshot
	WriterStateWaitingForBackupComplete
	WriterStateFailedAtIdentify
	WriterStateFailedAtPrepareBackup
	WriterStateFailedAtPrepareSnapshot
	WriterStateFailedAtFreeze
	WriterStateFailedAtThaw
	WriterStateFailedAtPostSnapshot
	WriterStateFailedAtBackupComplete
	WriterStateFailedAtPreRestore
	WriterStateFailedAtPostRestore
	WriterStateFailedAtBackupShutdown
)

func (ws WriterState) String() string {
	switch ws {
	case WriterStateStable:
		return "stable"
	case WriterStateWaitingForFreeze:
		return "waiting for freeze"
	case WriterStateWaitingForThaw:
		return "waiting for thaw"
	case WriterStateWaitingForPostSnapshot:
		return "waiting for post-snapshot"
	case WriterStateWaitingForBackupComplete:
		return "waiting for backup complete"
	case WriterStateFailedAtIdentify:
		return "failed at identify"
	case WriterStateFailedAtPrepareBackup:
		return "failed at prepare backup"
	case WriterStateFailedAtPrepareSnapshot:
		return "failed at prepare snapshot"
	case WriterStateFailedAtFreeze:
		return "failed at freeze"
	case WriterStateFailedAtThaw:
		return "failed at thaw"
	case WriterStateFailedAtPostSnapshot:
		return "failed at post-snapshot"
	case WriterStateFailedAtBackupComplete:
		return "failed at backup complete"
	case WriterStateFailedAtPreRestore:
		return "failed at pre-restore"
	case WriterStateFailedAtPostRestore:
		return "failed at post-restore"
	case WriterStateFailedAtBackupShutdown:
		return "failed at backup shutdown"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the state as its string form.
func (ws WriterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(ws.String())
}
