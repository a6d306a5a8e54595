package checks

import (
	"context"

	"github.com/identityops/idctl/identity"
	"github.com/identityops/idctl/observe"
)

// Options holds the collaborators shared by every checker.
type Options struct {
	// Clients are the remote identity collaborators.
	Clients identity.Clients

	// InstanceARN pins the identity-center instance to check. When empty,
	// the first instance returned by ListInstances is used.
	InstanceARN string

	// IdentityStoreID is the store backing InstanceARN. Resolved together
	// with the instance when empty.
	IdentityStoreID string

	// Logger receives checker diagnostics. Nil means silent.
	Logger observe.Logger
}

func (o Options) logger() observe.Logger {
	if o.Logger == nil {
		return observe.NewNopLogger()
	}
	return o.Logger
}

// instance resolves the target instance, preferring the pinned one.
func (o Options) instance(ctx context.Context) (identity.Instance, error) {
	if o.InstanceARN != "" {
		return identity.Instance{
			InstanceARN:     o.InstanceARN,
			IdentityStoreID: o.IdentityStoreID,
		}, nil
	}

	instances, err := o.Clients.Admin.ListInstances(ctx)
	if err != nil {
		return identity.Instance{}, err
	}
	if len(instances) == 0 {
		return identity.Instance{}, identity.NewAPIError(identity.KindValidation,
			"sso.ListInstances", "no identity-center instance provisioned")
	}
	return instances[0], nil
}
