package checks

import (
	"time"

	"github.com/identityops/idctl/identity"
)

const (
	testInstanceARN = "arn:aws:sso:::instance/ssoins-test"
	testStoreID     = "d-test"
)

// newFixture seeds a fake with a small but representative deployment: two
// active accounts plus a suspended one, two permission sets, a user, a
// group, and assignments including one orphan.
func newFixture() (*identity.Fake, Options) {
	now := time.Now().UTC()
	f := identity.NewFake()

	f.Instances = []identity.Instance{{
		InstanceARN:     testInstanceARN,
		IdentityStoreID: testStoreID,
		CreatedDate:     now.Add(-90 * 24 * time.Hour),
	}}
	f.Accounts = []identity.Account{
		{ID: "111111111111", Name: "production", Status: "ACTIVE"},
		{ID: "222222222222", Name: "staging", Status: "ACTIVE"},
		{ID: "333333333333", Name: "decommissioned", Status: "SUSPENDED"},
	}
	f.PermissionSets = []identity.PermissionSet{
		{ARN: "arn:aws:sso:::permissionSet/ps-admin", Name: "AdminAccess", CreatedDate: now.Add(-60 * 24 * time.Hour)},
		{ARN: "arn:aws:sso:::permissionSet/ps-read", Name: "ReadOnly", CreatedDate: now.Add(-30 * 24 * time.Hour)},
	}
	f.Users = []identity.User{
		{ID: "u-alice", UserName: "alice", DisplayName: "Alice Doe", CreatedDate: now.Add(-45 * 24 * time.Hour)},
	}
	f.Groups = []identity.Group{
		{ID: "g-eng", DisplayName: "engineering", Description: "engineering team", CreatedDate: now.Add(-40 * 24 * time.Hour)},
	}
	f.Memberships = []identity.GroupMembership{
		{MembershipID: "m-1", GroupID: "g-eng", UserID: "u-alice"},
	}
	f.Assignments = []identity.AccountAssignment{
		{AccountID: "111111111111", PermissionSetARN: "arn:aws:sso:::permissionSet/ps-admin", PrincipalID: "u-alice", PrincipalType: identity.PrincipalUser, CreatedDate: now.Add(-20 * 24 * time.Hour)},
		{AccountID: "111111111111", PermissionSetARN: "arn:aws:sso:::permissionSet/ps-read", PrincipalID: "u-ghost", PrincipalType: identity.PrincipalUser, CreatedDate: now.Add(-200 * 24 * time.Hour)},
		{AccountID: "222222222222", PermissionSetARN: "arn:aws:sso:::permissionSet/ps-read", PrincipalID: "g-eng", PrincipalType: identity.PrincipalGroup, CreatedDate: now.Add(-10 * 24 * time.Hour)},
	}

	opts := Options{
		Clients: identity.Clients{Admin: f, Store: f, Orgs: f},
	}
	return f, opts
}
