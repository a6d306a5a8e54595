package identity

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Fake is a paginated in-memory implementation of AdminClient, StoreClient
// and OrganizationsClient. It exists for tests and local development.
//
// Fixture slices may be populated directly before use. Error injection is
// per operation name (the method name) or per described entity ID. All
// methods are safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	// PageSize bounds items per list page. Zero means everything in one page.
	PageSize int

	Instances      []Instance
	PermissionSets []PermissionSet
	Assignments    []AccountAssignment
	Users          []User
	Groups         []Group
	Memberships    []GroupMembership
	Accounts       []Account
	Operations     []ProvisioningOperation
	SyncSources    []SyncSource

	opErrs       map[string]error
	describeErrs map[string]error
	calls        map[string]int
	deleted      []AccountAssignment
}

// NewFake creates an empty fake.
func NewFake() *Fake {
	return &Fake{
		opErrs:       make(map[string]error),
		describeErrs: make(map[string]error),
		calls:        make(map[string]int),
	}
}

// FailWith makes every call to the named operation return err.
func (f *Fake) FailWith(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.opErrs[op] = err
}

// FailDescribe makes DescribeUser/DescribeGroup for the given ID return err.
func (f *Fake) FailDescribe(id string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.describeErrs[id] = err
}

// Calls returns how many times the named operation was invoked.
func (f *Fake) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Deleted returns the assignments revoked through DeleteAccountAssignment.
func (f *Fake) Deleted() []AccountAssignment {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]AccountAssignment, len(f.deleted))
	copy(out, f.deleted)
	return out
}

// begin records the call and returns any injected error for op.
func (f *Fake) begin(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.opErrs[op]
}

// page slices items according to PageSize and an index token.
func page[T any](f *Fake, items []T, token string) ([]T, string, error) {
	start := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 || n > len(items) {
			return nil, "", NewAPIError(KindValidation, "fake.page", "invalid pagination token")
		}
		start = n
	}

	size := f.PageSize
	if size <= 0 {
		size = len(items) - start
	}

	end := start + size
	next := ""
	if end >= len(items) {
		end = len(items)
	} else {
		next = strconv.Itoa(end)
	}

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, next, nil
}

// ListInstances implements AdminClient.
func (f *Fake) ListInstances(ctx context.Context) ([]Instance, error) {
	if err := f.begin(ctx, "ListInstances"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Instance, len(f.Instances))
	copy(out, f.Instances)
	return out, nil
}

// ListPermissionSets implements AdminClient.
func (f *Fake) ListPermissionSets(ctx context.Context, _ string, token string) ([]PermissionSet, string, error) {
	if err := f.begin(ctx, "ListPermissionSets"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, f.PermissionSets, token)
}

// ListAccountAssignments implements AdminClient. Assignments are filtered to
// the requested account and permission set.
func (f *Fake) ListAccountAssignments(ctx context.Context, _ string, accountID, permissionSetARN, token string) ([]AccountAssignment, string, error) {
	if err := f.begin(ctx, "ListAccountAssignments"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []AccountAssignment
	for _, a := range f.Assignments {
		if a.AccountID == accountID && a.PermissionSetARN == permissionSetARN {
			matched = append(matched, a)
		}
	}
	return page(f, matched, token)
}

// ListProvisioningOperations implements AdminClient.
func (f *Fake) ListProvisioningOperations(ctx context.Context, _ string, token string) ([]ProvisioningOperation, string, error) {
	if err := f.begin(ctx, "ListProvisioningOperations"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, f.Operations, token)
}

// ListSyncSources implements AdminClient.
func (f *Fake) ListSyncSources(ctx context.Context, _ string) ([]SyncSource, error) {
	if err := f.begin(ctx, "ListSyncSources"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SyncSource, len(f.SyncSources))
	copy(out, f.SyncSources)
	return out, nil
}

// DeleteAccountAssignment implements AdminClient.
func (f *Fake) DeleteAccountAssignment(ctx context.Context, _ string, assignment AccountAssignment) error {
	if err := f.begin(ctx, "DeleteAccountAssignment"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, a := range f.Assignments {
		if a.AccountID == assignment.AccountID &&
			a.PermissionSetARN == assignment.PermissionSetARN &&
			a.PrincipalID == assignment.PrincipalID {
			f.Assignments = append(f.Assignments[:i], f.Assignments[i+1:]...)
			f.deleted = append(f.deleted, assignment)
			return nil
		}
	}
	return NewAPIError(KindNotFound, "sso.DeleteAccountAssignment", "assignment not found")
}

// ListUsers implements StoreClient.
func (f *Fake) ListUsers(ctx context.Context, _ string, token string) ([]User, string, error) {
	if err := f.begin(ctx, "ListUsers"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, f.Users, token)
}

// DescribeUser implements StoreClient.
func (f *Fake) DescribeUser(ctx context.Context, _ string, userID string) (User, error) {
	if err := f.begin(ctx, "DescribeUser"); err != nil {
		return User{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.describeErrs[userID]; ok {
		return User{}, err
	}
	for _, u := range f.Users {
		if u.ID == userID {
			return u, nil
		}
	}
	return User{}, NewAPIError(KindNotFound, "identitystore.DescribeUser", "user "+userID+" not found")
}

// ListGroups implements StoreClient.
func (f *Fake) ListGroups(ctx context.Context, _ string, token string) ([]Group, string, error) {
	if err := f.begin(ctx, "ListGroups"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, f.Groups, token)
}

// DescribeGroup implements StoreClient.
func (f *Fake) DescribeGroup(ctx context.Context, _ string, groupID string) (Group, error) {
	if err := f.begin(ctx, "DescribeGroup"); err != nil {
		return Group{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.describeErrs[groupID]; ok {
		return Group{}, err
	}
	for _, g := range f.Groups {
		if g.ID == groupID {
			return g, nil
		}
	}
	return Group{}, NewAPIError(KindNotFound, "identitystore.DescribeGroup", "group "+groupID+" not found")
}

// ListGroupMemberships implements StoreClient.
func (f *Fake) ListGroupMemberships(ctx context.Context, _ string, groupID, token string) ([]GroupMembership, string, error) {
	if err := f.begin(ctx, "ListGroupMemberships"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []GroupMembership
	for _, m := range f.Memberships {
		if m.GroupID == groupID {
			matched = append(matched, m)
		}
	}
	return page(f, matched, token)
}

// ListAccounts implements OrganizationsClient.
func (f *Fake) ListAccounts(ctx context.Context, token string) ([]Account, string, error) {
	if err := f.begin(ctx, "ListAccounts"); err != nil {
		return nil, "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return page(f, f.Accounts, token)
}

// FindUsersByPrefix returns users whose ID, user name or display name starts
// with or contains the given fragment. Used by the resource inspector for
// suggestions.
func (f *Fake) FindUsersByPrefix(fragment string) []User {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []User
	for _, u := range f.Users {
		if matchesFragment(fragment, u.ID, u.UserName, u.DisplayName) {
			out = append(out, u)
		}
	}
	return out
}

func matchesFragment(fragment string, candidates ...string) bool {
	fragment = strings.ToLower(fragment)
	for _, c := range candidates {
		c = strings.ToLower(c)
		if strings.HasPrefix(c, fragment) || strings.Contains(c, fragment) {
			return true
		}
	}
	return false
}

var (
	_ AdminClient         = (*Fake)(nil)
	_ StoreClient         = (*Fake)(nil)
	_ OrganizationsClient = (*Fake)(nil)
)
