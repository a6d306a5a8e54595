package status

import "time"

// Result is the common surface of every checker outcome. The six concrete
// variants carry the payload specific to their checker.
type Result interface {
	// Check returns which checker produced this result.
	Check() CheckName

	// Severity returns the component level.
	Severity() Level

	// Summary returns the human-readable component message.
	Summary() string
}

// Header carries the level and message shared by every result variant.
type Header struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Severity returns the component level.
func (h Header) Severity() Level { return h.Level }

// Summary returns the component message.
func (h Header) Summary() string { return h.Message }

// HealthStatus reports remote collaborator connectivity and availability.
type HealthStatus struct {
	Header
	ServiceAvailable    bool       `json:"service_available"`
	ConnectivityStatus  string     `json:"connectivity_status"`
	ResponseTimeMS      *float64   `json:"response_time_ms,omitempty"`
	LastSuccessfulCheck *time.Time `json:"last_successful_check,omitempty"`
	Errors              []string   `json:"errors,omitempty"`
}

// Check implements Result.
func (HealthStatus) Check() CheckName { return CheckHealth }

// ProvisioningOperation is one tracked permission-set provisioning request
// as it appears in a report.
type ProvisioningOperation struct {
	ID                  string     `json:"id"`
	Type                string     `json:"type"`
	Status              string     `json:"status"`
	TargetID            string     `json:"target_id"`
	TargetType          string     `json:"target_type"`
	CreatedDate         time.Time  `json:"created_date"`
	FailureReason       string     `json:"failure_reason,omitempty"`
	EstimatedCompletion *time.Time `json:"estimated_completion,omitempty"`
}

// ProvisioningStatus reports the state of permission-set provisioning.
type ProvisioningStatus struct {
	Header
	Active              []ProvisioningOperation `json:"active_operations"`
	Failed              []ProvisioningOperation `json:"failed_operations"`
	Completed           []ProvisioningOperation `json:"completed_operations"`
	PendingCount        int                     `json:"pending_count"`
	EstimatedCompletion *time.Time              `json:"estimated_completion,omitempty"`
}

// Check implements Result.
func (ProvisioningStatus) Check() CheckName { return CheckProvisioning }

// TotalOperations returns the number of known operations across all states.
func (p ProvisioningStatus) TotalOperations() int {
	return len(p.Active) + len(p.Failed) + len(p.Completed)
}

// FailureRate returns the percentage of operations that failed. Zero when
// no operations are known.
func (p ProvisioningStatus) FailureRate() float64 {
	total := p.TotalOperations()
	if total == 0 {
		return 0
	}
	return float64(len(p.Failed)) / float64(total) * 100
}

// OrphanedAssignment is an account assignment whose principal no longer
// exists in the identity store.
type OrphanedAssignment struct {
	AssignmentID      string     `json:"assignment_id"`
	PermissionSetARN  string     `json:"permission_set_arn"`
	PermissionSetName string     `json:"permission_set_name"`
	AccountID         string     `json:"account_id"`
	AccountName       string     `json:"account_name,omitempty"`
	PrincipalID       string     `json:"principal_id"`
	PrincipalType     string     `json:"principal_type"`
	PrincipalName     string     `json:"principal_name,omitempty"`
	ErrorMessage      string     `json:"error_message"`
	CreatedDate       time.Time  `json:"created_date"`
	LastAccessed      *time.Time `json:"last_accessed,omitempty"`
}

// OrphanedAssignmentStatus reports the orphaned-assignment sweep outcome.
type OrphanedAssignmentStatus struct {
	Header
	OrphanedAssignments []OrphanedAssignment `json:"orphaned_assignments"`
	CleanupAvailable    bool                 `json:"cleanup_available"`
	LastCleanup         *time.Time           `json:"last_cleanup,omitempty"`

	// UnresolvedCount counts assignments whose principal resolution failed
	// with a transient error. They are not orphans.
	UnresolvedCount int `json:"unresolved_count,omitempty"`
}

// Check implements Result.
func (OrphanedAssignmentStatus) Check() CheckName { return CheckOrphaned }

// SyncProvider is one external synchronization source as it appears in a
// report.
type SyncProvider struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	SyncStatus      string     `json:"sync_status"`
	LastSyncTime    *time.Time `json:"last_sync_time,omitempty"`
	NextSyncTime    *time.Time `json:"next_sync_time,omitempty"`
	ErrorMessage    string     `json:"error_message,omitempty"`
	DurationMinutes *float64   `json:"duration_minutes,omitempty"`
	ObjectsSynced   *int       `json:"objects_synced,omitempty"`
}

// SyncStatus reports the state of external identity synchronization.
type SyncStatus struct {
	Header
	Providers           []SyncProvider `json:"sync_providers"`
	ProvidersConfigured int            `json:"providers_configured"`
	ProvidersHealthy    int            `json:"providers_healthy"`
	ProvidersWithErrors int            `json:"providers_with_errors"`
}

// Check implements Result.
func (SyncStatus) Check() CheckName { return CheckSync }

// SummaryStatistics reports entity counts across the identity store.
type SummaryStatistics struct {
	Header
	TotalUsers          int       `json:"total_users"`
	TotalGroups         int       `json:"total_groups"`
	TotalPermissionSets int       `json:"total_permission_sets"`
	TotalAssignments    int       `json:"total_assignments"`
	ActiveAccounts      int       `json:"active_accounts"`
	LastUpdated         time.Time `json:"last_updated"`

	// Creation-date maps support age queries. Optional; nil when the
	// collector was configured without them.
	UserCreatedDates          map[string]time.Time `json:"user_created_dates,omitempty"`
	GroupCreatedDates         map[string]time.Time `json:"group_created_dates,omitempty"`
	PermissionSetCreatedDates map[string]time.Time `json:"permission_set_created_dates,omitempty"`
}

// Check implements Result.
func (SummaryStatistics) Check() CheckName { return CheckSummary }

// ResourceStatus describes one inspected resource.
type ResourceStatus struct {
	ID            string            `json:"id"`
	Name          string            `json:"name,omitempty"`
	Type          string            `json:"type"`
	Exists        bool              `json:"exists"`
	Status        string            `json:"status"`
	LastUpdated   *time.Time        `json:"last_updated,omitempty"`
	Configuration map[string]string `json:"configuration,omitempty"`
	HealthDetails map[string]string `json:"health_details,omitempty"`
	ErrorMessage  string            `json:"error_message,omitempty"`
}

// ResourceInspectionStatus is the outcome of an on-demand single-resource
// inspection. When the resource does not exist, SimilarResources carries up
// to five suggestions instead of an error.
type ResourceInspectionStatus struct {
	Header
	Target           *ResourceStatus `json:"target_resource,omitempty"`
	SimilarResources []string        `json:"similar_resources,omitempty"`
}

// Check implements Result.
func (ResourceInspectionStatus) Check() CheckName { return CheckResource }
