package models

// Domain-row sync display status. Mirrors IsSynced for the queue/audit UI.
const (
	SyncStatusPending = "pending"
	SyncStatusSynced  = "synced"
)

// Queued mutation operations.
const (
	SyncOpInsert = "INSERT"
	SyncOpUpdate = "UPDATE"
	SyncOpDelete = "DELETE"
)

// Sync queue entry lifecycle. Entries are append-only; only Status (and the
// recorded error) ever changes, and only the push engine changes it.
const (
	SyncQueueStatusPending = "pending"
	SyncQueueStatusSynced  = "synced"
	SyncQueueStatusFailed  = "failed"
)
