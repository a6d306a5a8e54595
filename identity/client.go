package identity

import "context"

// AdminClient is the identity-center administration API.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Pagination: list methods accept the token returned by the previous page
//   ("" for the first page) and return "" when no pages remain.
// - Errors: failures should be classifiable via the helpers in errors.go.
type AdminClient interface {
	// ListInstances returns the provisioned identity-center instances.
	ListInstances(ctx context.Context) ([]Instance, error)

	// ListPermissionSets returns one page of permission sets for an instance.
	ListPermissionSets(ctx context.Context, instanceARN, token string) ([]PermissionSet, string, error)

	// ListAccountAssignments returns one page of assignments for an account
	// and permission set.
	ListAccountAssignments(ctx context.Context, instanceARN, accountID, permissionSetARN, token string) ([]AccountAssignment, string, error)

	// ListProvisioningOperations returns one page of tracked provisioning
	// operations for an instance.
	ListProvisioningOperations(ctx context.Context, instanceARN, token string) ([]ProvisioningOperation, string, error)

	// ListSyncSources returns the configured external sync providers.
	ListSyncSources(ctx context.Context, instanceARN string) ([]SyncSource, error)

	// DeleteAccountAssignment revokes one account assignment.
	DeleteAccountAssignment(ctx context.Context, instanceARN string, assignment AccountAssignment) error
}

// StoreClient is the identity-store API holding users and groups.
type StoreClient interface {
	// ListUsers returns one page of users.
	ListUsers(ctx context.Context, storeID, token string) ([]User, string, error)

	// DescribeUser resolves a user by ID. Returns a not-found classifiable
	// error when the user does not exist.
	DescribeUser(ctx context.Context, storeID, userID string) (User, error)

	// ListGroups returns one page of groups.
	ListGroups(ctx context.Context, storeID, token string) ([]Group, string, error)

	// DescribeGroup resolves a group by ID. Returns a not-found classifiable
	// error when the group does not exist.
	DescribeGroup(ctx context.Context, storeID, groupID string) (Group, error)

	// ListGroupMemberships returns one page of memberships for a group.
	ListGroupMemberships(ctx context.Context, storeID, groupID, token string) ([]GroupMembership, string, error)
}

// OrganizationsClient is the organizations API listing member accounts.
type OrganizationsClient interface {
	// ListAccounts returns one page of member accounts.
	ListAccounts(ctx context.Context, token string) ([]Account, string, error)
}

// Clients bundles the three collaborator clients the checkers consume.
type Clients struct {
	Admin AdminClient
	Store StoreClient
	Orgs  OrganizationsClient
}
