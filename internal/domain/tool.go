package domain

import "time"

type ToolStatus string

const (
	ToolStatusAvailable   ToolStatus = "available"
	ToolStatusInUse       ToolStatus = "in-use"
	ToolStatusMaintenance ToolStatus = "maintenance"
	ToolStatusRetired     ToolStatus = "retired"
)

// Tool is a depletable asset owned by a shopkeeper. RemainingLife counts
// down in hours as usage sessions close and is clamped at zero; Stock is
// the unit inventory delivered by fulfilled orders, independent of the
// worn unit's life.
type Tool struct {
	ID             int32      `json:"id"`
	ShopkeeperID   int32      `json:"shopkeeper_id"`
	Shopkeeper     *User      `json:"shopkeeper,omitempty"` // populated on detail fetches
	ShopName       string     `json:"shop_name"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Category       string     `json:"category"`
	LifeLimit      float64    `json:"life_limit"`
	RemainingLife  float64    `json:"remaining_life"`
	ThresholdLimit float64    `json:"threshold_limit"`
	Status         ToolStatus `json:"status"`
	CurrentUserID  *int32     `json:"current_user_id,omitempty"`
	CurrentUser    *User      `json:"current_user,omitempty"`
	UsageStartTime *time.Time `json:"usage_start_time,omitempty"`
	TotalUsageHours float64   `json:"total_usage_hours"`
	Stock          int32      `json:"stock"`
	Grants         []AccessGrant `json:"ordered_by_companies,omitempty"`
	CreatedOn      time.Time  `json:"created_on"`
	DeletedOn      *time.Time `json:"deleted_on,omitempty"`
}

// InUse reports whether the tool holds an open usage session. The status
// and the currentUser/usageStartTime pair move together; a tool is in-use
// exactly when both are present.
func (t *Tool) InUse() bool {
	return t.Status == ToolStatusInUse && t.CurrentUserID != nil && t.UsageStartTime != nil
}

// AccessGrant records that a company may start usage sessions on a tool.
// Grants are created when an order from the company's supervisor is
// approved, and are deduplicated per supervisor.
type AccessGrant struct {
	ToolID       int32     `json:"tool_id,omitempty"`
	CompanyName  string    `json:"company_name"`
	SupervisorID int32     `json:"supervisor_id"`
	GrantedOn    time.Time `json:"granted_on"`
}
