package events

import "github.com/dshills/cutroom/internal/event/topic"

// Export and performance topics. Export itself runs in the host
// application; these payloads let it report progress through the bus so
// panels can render it without a direct reference.
const (
	// TopicExportStarted is published when an export begins.
	TopicExportStarted topic.Topic = "export.started"

	// TopicExportProgress is published as an export advances.
	TopicExportProgress topic.Topic = "export.progress"

	// TopicExportFinished is published when an export completes or fails.
	TopicExportFinished topic.Topic = "export.finished"

	// TopicPerformanceWarning is published when a subsystem detects it is
	// over budget (slow handlers, shed events).
	TopicPerformanceWarning topic.Topic = "performance.warning"
)

// ExportProgress is the payload for export lifecycle topics.
type ExportProgress struct {
	// ProjectID is the project being exported.
	ProjectID string

	// Fraction is completion in [0, 1].
	Fraction float64

	// Err is the failure message when TopicExportFinished reports an
	// error, empty otherwise.
	Err string
}

// PerformanceWarning is the payload for TopicPerformanceWarning.
type PerformanceWarning struct {
	// Component names the subsystem raising the warning.
	Component string

	// Detail is a human-readable description.
	Detail string
}
