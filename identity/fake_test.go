package identity

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededFake(users int) *Fake {
	f := NewFake()
	for i := 0; i < users; i++ {
		f.Users = append(f.Users, User{
			ID:       fmt.Sprintf("u-%03d", i),
			UserName: fmt.Sprintf("user%03d", i),
		})
	}
	return f
}

func TestFakePagination(t *testing.T) {
	f := seededFake(7)
	f.PageSize = 3
	ctx := context.Background()

	var all []User
	token := ""
	pages := 0
	for {
		users, next, err := f.ListUsers(ctx, "d-local", token)
		require.NoError(t, err)
		require.LessOrEqual(t, len(users), 3, "page exceeds PageSize")
		all = append(all, users...)
		pages++
		if next == "" {
			break
		}
		token = next
	}

	assert.Equal(t, 3, pages)
	require.Len(t, all, 7)
	assert.Equal(t, "u-000", all[0].ID)
	assert.Equal(t, "u-006", all[6].ID)
}

func TestFakePaginationSinglePage(t *testing.T) {
	f := seededFake(4)
	// PageSize zero returns everything at once.
	users, next, err := f.ListUsers(context.Background(), "d-local", "")
	require.NoError(t, err)
	assert.Len(t, users, 4)
	assert.Empty(t, next)
}

func TestFakeInvalidToken(t *testing.T) {
	f := seededFake(2)
	_, _, err := f.ListUsers(context.Background(), "d-local", "not-a-number")
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestFakeInjectedFailure(t *testing.T) {
	f := seededFake(1)
	f.FailWith("ListUsers", NewAPIError(KindThrottled, "identitystore.ListUsers", "rate exceeded"))

	_, _, err := f.ListUsers(context.Background(), "d-local", "")
	require.Error(t, err)
	assert.True(t, IsThrottled(err))
	assert.Equal(t, 1, f.Calls("ListUsers"))
}

func TestFakeDescribeUser(t *testing.T) {
	f := seededFake(1)
	ctx := context.Background()

	u, err := f.DescribeUser(ctx, "d-local", "u-000")
	require.NoError(t, err)
	assert.Equal(t, "user000", u.UserName)

	_, err = f.DescribeUser(ctx, "d-local", "u-999")
	assert.True(t, IsNotFound(err))

	f.FailDescribe("u-000", NewAPIError(KindThrottled, "identitystore.DescribeUser", "rate exceeded"))
	_, err = f.DescribeUser(ctx, "d-local", "u-000")
	assert.True(t, IsThrottled(err))
}

func TestFakeAssignmentFilteringAndDelete(t *testing.T) {
	f := NewFake()
	f.Assignments = []AccountAssignment{
		{AccountID: "111", PermissionSetARN: "ps-a", PrincipalID: "u-1", PrincipalType: PrincipalUser},
		{AccountID: "111", PermissionSetARN: "ps-b", PrincipalID: "u-1", PrincipalType: PrincipalUser},
		{AccountID: "222", PermissionSetARN: "ps-a", PrincipalID: "g-1", PrincipalType: PrincipalGroup},
	}
	ctx := context.Background()

	got, next, err := f.ListAccountAssignments(ctx, "arn", "111", "ps-a", "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, next)
	assert.Equal(t, "u-1", got[0].PrincipalID)

	require.NoError(t, f.DeleteAccountAssignment(ctx, "arn", got[0]))
	assert.Len(t, f.Deleted(), 1)

	remaining, _, err := f.ListAccountAssignments(ctx, "arn", "111", "ps-a", "")
	require.NoError(t, err)
	assert.Empty(t, remaining)

	err = f.DeleteAccountAssignment(ctx, "arn", got[0])
	assert.True(t, IsNotFound(err), "deleting twice should report not found")
}

func TestFakeHonorsContext(t *testing.T) {
	f := seededFake(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := f.ListUsers(ctx, "d-local", "")
	assert.ErrorIs(t, err, context.Canceled)
}
