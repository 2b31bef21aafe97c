package meta

// HookVersion selects the webhook payload envelope format.
type HookVersion string

const (
	HookV1 HookVersion = "v1"
	HookV2 HookVersion = "v2"
)

// HookEvent is the mutation phase a hook is bound to.
type HookEvent string

const (
	EventAfter  HookEvent = "after"
	EventBefore HookEvent = "before"
)

// HookOperation is the mutation kind a hook is bound to.
type HookOperation string

const (
	OperationInsert     HookOperation = "insert"
	OperationUpdate     HookOperation = "update"
	OperationDelete     HookOperation = "delete"
	OperationBulkInsert HookOperation = "bulkInsert"
	OperationBulkUpdate HookOperation = "bulkUpdate"
	OperationBulkDelete HookOperation = "bulkDelete"
)

// IsBulk reports whether the operation mutates multiple rows at once.
func (o HookOperation) IsBulk() bool {
	switch o {
	case OperationBulkInsert, OperationBulkUpdate, OperationBulkDelete:
		return true
	}
	return false
}

// Notification channel types. Anything other than Email and URL names an
// external plugin channel.
const (
	NotificationEmail = "Email"
	NotificationURL   = "URL"
)

// Notification describes where and how a hook delivers.
// Payload is the channel-specific configuration (recipients and subject for
// Email; method, path, headers, body for URL; free-form for plugins). Its
// string leaves are template expressions rendered against the envelope.
type Notification struct {
	Type    string         `yaml:"type"`
	Payload map[string]any `yaml:"payload"`
}

// Hook is a webhook definition bound to a model.
type Hook struct {
	ID        string        `yaml:"id"`
	Title     string        `yaml:"title"`
	ModelID   string        `yaml:"model_id"`
	Version   HookVersion   `yaml:"version"`
	Event     HookEvent     `yaml:"event"`
	Operation HookOperation `yaml:"operation"`

	// Condition gates firing on the hook's stored filter tree.
	Condition bool `yaml:"condition"`

	Notification Notification `yaml:"notification"`

	// Filters is the hook's top-level condition tree (sibling sequence).
	Filters []*Filter `yaml:"filters"`
}

// HookLog is one append-only record per invocation attempt. Never mutated
// after insert.
type HookLog struct {
	ID            string `json:"id"`
	HookID        string `json:"fk_hook_id"`
	Type          string `json:"type"`
	Event         string `json:"event"`
	Operation     string `json:"operation"`
	TestCall      bool   `json:"test_call"`
	Payload       string `json:"payload"`
	Conditions    string `json:"conditions"`
	Notification  string `json:"notification"`
	ErrorCode     string `json:"error_code,omitempty"`
	ErrorMessage  string `json:"error_message,omitempty"`
	Error         string `json:"error,omitempty"`
	ExecutionTime string `json:"execution_time"` // milliseconds, 3-decimal precision
	Response      string `json:"response,omitempty"`
	TriggeredBy   string `json:"triggered_by,omitempty"`
}
