package domain

import "time"

// UsageSession is the closed record of one operator's use of a tool,
// written when the session stops. While a session is open it exists only
// as the tool's status/currentUser/usageStartTime triple.
type UsageSession struct {
	ID            int32      `json:"id"`
	ToolID        int32      `json:"tool_id"`
	Tool          *Tool      `json:"tool,omitempty"`
	OperatorID    int32      `json:"operator_id"`
	Operator      *User      `json:"operator,omitempty"`
	StartTime     time.Time  `json:"start_time"`
	EndTime       *time.Time `json:"end_time,omitempty"`
	DurationHours float64    `json:"duration"`
	IsActive      bool       `json:"is_active"`
	CreatedOn     time.Time  `json:"created_on"`
}

// UsageBucket is one day of aggregated usage for the analytics endpoint.
type UsageBucket struct {
	Day           string  `json:"day"`
	TotalDuration float64 `json:"total_duration"`
	UsageCount    int32   `json:"usage_count"`
}
