// Package vss provides bindings for the Volume Shadow Copy Service
// backup-components API (IVssBackupComponents and IVssAsync from
// VssApi.dll), and writer enumeration built on top of them.
//
// The VSS interfaces are C++ classes rather than dispatch interfaces, so the
// bindings go through the raw method tables, with one typed wrapper per
// interface. Wrappers hold the only reference to their COM object; the
// session wrapper must be released exactly once, while IVssAsync objects
// stay owned by the shadow copy service and are only waited on.
//
// Metadata gathering is exposed by VSS as a future (IVssAsync), but the
// requestor contract is a single unbounded Wait followed by one status
// query, so the bindings expose it the same way and do not add a timeout.
package vss
