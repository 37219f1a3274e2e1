package netmon

import "time"

// Link is a HAL-style hyperlink.
type Link struct {
	Href string `json:"href" yaml:"href"`
}

// Links maps a relation name to its link.
type Links map[string]Link

// Label is a name attached to tests and agents for grouping.
type Label struct {
	LabelID string `json:"labelId" yaml:"label_id"`
	Name    string `json:"name"    yaml:"name"`
}

// Test represents a configured monitoring test.
type Test struct {
	TestID        string     `json:"testId"                 yaml:"test_id"`
	TestName      string     `json:"testName"               yaml:"test_name"`
	Type          string     `json:"type"                   yaml:"type"`
	Interval      int        `json:"interval"               yaml:"interval"`
	Enabled       bool       `json:"enabled"                yaml:"enabled"`
	AlertsEnabled bool       `json:"alertsEnabled"          yaml:"alerts_enabled"`
	URL           string     `json:"url,omitempty"          yaml:"url,omitempty"`
	Server        string     `json:"server,omitempty"       yaml:"server,omitempty"`
	Description   string     `json:"description,omitempty"  yaml:"description,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"    yaml:"created_by,omitempty"`
	CreatedDate   *time.Time `json:"createdDate,omitempty"  yaml:"created_date,omitempty"`
	ModifiedDate  *time.Time `json:"modifiedDate,omitempty" yaml:"modified_date,omitempty"`
	Labels        []Label    `json:"labels,omitempty"       yaml:"labels,omitempty"`
	Links         Links      `json:"_links,omitempty"       yaml:"links,omitempty"`
}

// TestCreateRequest is the payload for creating a test.
type TestCreateRequest struct {
	TestName      string   `json:"testName"                yaml:"test_name"`
	Type          string   `json:"type"                    yaml:"type"`
	Interval      int      `json:"interval"                yaml:"interval"`
	URL           string   `json:"url,omitempty"           yaml:"url,omitempty"`
	Server        string   `json:"server,omitempty"        yaml:"server,omitempty"`
	Description   string   `json:"description,omitempty"   yaml:"description,omitempty"`
	AlertsEnabled *bool    `json:"alertsEnabled,omitempty" yaml:"alerts_enabled,omitempty"`
	AgentIDs      []string `json:"agents,omitempty"        yaml:"agents,omitempty"`
}

// TestUpdateRequest is the payload for a partial test update. Nil fields are left unchanged.
type TestUpdateRequest struct {
	TestName      *string `json:"testName,omitempty"      yaml:"test_name,omitempty"`
	Interval      *int    `json:"interval,omitempty"      yaml:"interval,omitempty"`
	Enabled       *bool   `json:"enabled,omitempty"       yaml:"enabled,omitempty"`
	AlertsEnabled *bool   `json:"alertsEnabled,omitempty" yaml:"alerts_enabled,omitempty"`
	Description   *string `json:"description,omitempty"   yaml:"description,omitempty"`
}

// TestList is the response of the test listing.
type TestList struct {
	Tests []Test `json:"tests"            yaml:"tests"`
	Links Links  `json:"_links,omitempty" yaml:"links,omitempty"`
}

// Alert represents an active or cleared alert raised by a test.
type Alert struct {
	AlertID        string     `json:"alertId"             yaml:"alert_id"`
	AlertType      string     `json:"alertType"           yaml:"alert_type"`
	State          string     `json:"state"               yaml:"state"`
	Severity       string     `json:"severity"            yaml:"severity"`
	TestID         string     `json:"testId,omitempty"    yaml:"test_id,omitempty"`
	TestName       string     `json:"testName,omitempty"  yaml:"test_name,omitempty"`
	RuleID         string     `json:"ruleId,omitempty"    yaml:"rule_id,omitempty"`
	ViolationCount int        `json:"violationCount"      yaml:"violation_count"`
	StartDate      *time.Time `json:"startDate,omitempty" yaml:"start_date,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"   yaml:"end_date,omitempty"`
	Links          Links      `json:"_links,omitempty"    yaml:"links,omitempty"`
}

// AlertList is the response of the alert listing.
type AlertList struct {
	Alerts []Alert `json:"alerts"           yaml:"alerts"`
	Links  Links   `json:"_links,omitempty" yaml:"links,omitempty"`
}

// Dashboard represents a dashboard.
type Dashboard struct {
	DashboardID  string     `json:"dashboardId"            yaml:"dashboard_id"`
	Title        string     `json:"title"                  yaml:"title"`
	Description  string     `json:"description,omitempty"  yaml:"description,omitempty"`
	IsBuiltIn    bool       `json:"isBuiltIn"              yaml:"is_built_in"`
	IsPrivate    bool       `json:"isPrivate"              yaml:"is_private"`
	CreatedBy    string     `json:"createdBy,omitempty"    yaml:"created_by,omitempty"`
	ModifiedDate *time.Time `json:"modifiedDate,omitempty" yaml:"modified_date,omitempty"`
	Links        Links      `json:"_links,omitempty"       yaml:"links,omitempty"`
}

// DashboardCreateRequest is the payload for creating a dashboard.
type DashboardCreateRequest struct {
	Title       string `json:"title"                 yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IsPrivate   bool   `json:"isPrivate"             yaml:"is_private"`
}

// TagAssignment links a tag to an object.
type TagAssignment struct {
	ID   string `json:"id"   yaml:"id"`
	Type string `json:"type" yaml:"type"`
}

// Tag represents a key/value tag.
type Tag struct {
	ID          string          `json:"id"                    yaml:"id"`
	Key         string          `json:"key"                   yaml:"key"`
	Value       string          `json:"value"                 yaml:"value"`
	ObjectType  string          `json:"objectType"            yaml:"object_type"`
	Color       string          `json:"color,omitempty"       yaml:"color,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Assignments []TagAssignment `json:"assignments,omitempty" yaml:"assignments,omitempty"`
}

// TagCreateRequest is the payload for creating a tag.
type TagCreateRequest struct {
	Key         string `json:"key"                   yaml:"key"`
	Value       string `json:"value"                 yaml:"value"`
	ObjectType  string `json:"objectType"            yaml:"object_type"`
	Color       string `json:"color,omitempty"       yaml:"color,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// TagAssignRequest assigns a tag to the listed objects.
type TagAssignRequest struct {
	Assignments []TagAssignment `json:"assignments" yaml:"assignments"`
}

// TagList is the response of the tag listing.
type TagList struct {
	Tags  []Tag `json:"tags"             yaml:"tags"`
	Links Links `json:"_links,omitempty" yaml:"links,omitempty"`
}

// Agent represents a cloud or enterprise vantage point.
type Agent struct {
	AgentID     string   `json:"agentId"               yaml:"agent_id"`
	AgentName   string   `json:"agentName"             yaml:"agent_name"`
	AgentType   string   `json:"agentType"             yaml:"agent_type"`
	Location    string   `json:"location,omitempty"    yaml:"location,omitempty"`
	CountryID   string   `json:"countryId,omitempty"   yaml:"country_id,omitempty"`
	Enabled     bool     `json:"enabled"               yaml:"enabled"`
	AgentState  string   `json:"agentState,omitempty"  yaml:"agent_state,omitempty"`
	IPAddresses []string `json:"ipAddresses,omitempty" yaml:"ip_addresses,omitempty"`
	Labels      []Label  `json:"labels,omitempty"      yaml:"labels,omitempty"`
}

// AgentList is the response of the agent listing.
type AgentList struct {
	Agents []Agent `json:"agents"           yaml:"agents"`
	Links  Links   `json:"_links,omitempty" yaml:"links,omitempty"`
}

// Template represents a reusable bundle of tests and dashboards.
type Template struct {
	ID          string     `json:"id"                    yaml:"id"`
	Name        string     `json:"name"                  yaml:"name"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	IsBuiltIn   bool       `json:"isBuiltIn"             yaml:"is_built_in"`
	CreatedDate *time.Time `json:"createdDate,omitempty" yaml:"created_date,omitempty"`
}

// TemplateList is the response of the template listing.
type TemplateList struct {
	Templates []Template `json:"templates"        yaml:"templates"`
	Links     Links      `json:"_links,omitempty" yaml:"links,omitempty"`
}
