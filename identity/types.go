package identity

import "time"

// PrincipalType discriminates the entity kind an assignment binds.
type PrincipalType string

const (
	// PrincipalUser marks an assignment bound to a user.
	PrincipalUser PrincipalType = "USER"
	// PrincipalGroup marks an assignment bound to a group.
	PrincipalGroup PrincipalType = "GROUP"
)

// Instance is a provisioned identity-center instance.
type Instance struct {
	InstanceARN     string
	IdentityStoreID string
	CreatedDate     time.Time
}

// PermissionSet is a named bundle of access policy assignable to a
// principal on an account.
type PermissionSet struct {
	ARN         string
	Name        string
	Description string
	CreatedDate time.Time
}

// AccountAssignment binds (principal, permission set, account).
type AccountAssignment struct {
	AccountID        string
	PermissionSetARN string
	PrincipalID      string
	PrincipalType    PrincipalType
	CreatedDate      time.Time
}

// User is an identity-store user record.
type User struct {
	ID          string
	UserName    string
	DisplayName string
	CreatedDate time.Time
}

// Group is an identity-store group record.
type Group struct {
	ID          string
	DisplayName string
	Description string
	CreatedDate time.Time
}

// GroupMembership relates a user to a group.
type GroupMembership struct {
	MembershipID string
	GroupID      string
	UserID       string
}

// Account is an organization member account.
type Account struct {
	ID     string
	Name   string
	Status string // ACTIVE or SUSPENDED
}

// OperationStatus is the lifecycle state of a provisioning operation.
type OperationStatus string

const (
	OperationInProgress OperationStatus = "IN_PROGRESS"
	OperationSucceeded  OperationStatus = "SUCCEEDED"
	OperationFailed     OperationStatus = "FAILED"
)

// ProvisioningOperation is one tracked permission-set provisioning request.
type ProvisioningOperation struct {
	ID                  string
	Type                string
	Status              OperationStatus
	TargetID            string
	TargetType          string
	CreatedDate         time.Time
	FailureReason       string
	EstimatedCompletion *time.Time
}

// SyncSource is one configured external synchronization provider
// (directory, SCIM endpoint, ...).
type SyncSource struct {
	Name            string
	Type            string
	SyncStatus      string // SUCCEEDED, IN_PROGRESS, FAILED, NEVER_RUN
	LastSyncTime    *time.Time
	NextSyncTime    *time.Time
	ErrorMessage    string
	DurationMinutes float64
	ObjectsSynced   int
}
