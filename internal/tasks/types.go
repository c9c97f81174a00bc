package tasks

import "time"

// Task Types
const (
	// TypeResourceExport snapshots one catalog resource to a CSV file.
	TypeResourceExport = "export:resource"
)

// Queue names
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ResourceExportPayload names the resource to snapshot.
type ResourceExportPayload struct {
	Resource string `json:"resource"`
}

// Retention for completed task metadata in redis.
const taskRetention = 24 * time.Hour
