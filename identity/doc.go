// Package identity defines the contracts for the remote identity provider
// collaborators: the identity-center admin API, the identity store, and the
// organizations API.
//
// The concrete remote clients live outside this module; checkers depend only
// on the interfaces declared here. Errors returned by implementations should
// be (or wrap) *APIError so that callers can classify them:
//
//	user, err := store.DescribeUser(ctx, storeID, principalID)
//	switch {
//	case identity.IsNotFound(err):
//	    // principal no longer exists
//	case identity.IsRetryable(err):
//	    // throttled or transient, try again later
//	}
//
// The package also ships Fake, a paginated in-memory implementation of all
// three client interfaces used by tests and local development.
package identity
