package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldLogID is the recipe generation log ID
	FieldLogID = "log_id"

	// FieldTaskID is the background generation task ID
	FieldTaskID = "task_id"

	// FieldVideoID is the source video ID
	FieldVideoID = "video_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldUserID is the user ID
	FieldUserID = "user_id"
)

// Standard metric fields used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
