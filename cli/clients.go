package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/identityops/idctl/identity"
)

// ClientFactory builds the identity clients for a profile. Concrete remote
// backends register themselves at init time, the same way database/sql
// drivers do; the built-in "memory" backend serves local development and
// demos.
type ClientFactory func(ctx context.Context, p *Profile) (identity.Clients, error)

var (
	factoriesMu     sync.Mutex
	clientFactories = map[string]ClientFactory{
		"memory": memoryClients,
	}
)

// RegisterBackend makes a client factory available under the given profile
// backend name. It panics on duplicate registration, which is always a
// wiring bug.
func RegisterBackend(name string, f ClientFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := clientFactories[name]; dup {
		panic(fmt.Sprintf("cli: backend %q registered twice", name))
	}
	clientFactories[name] = f
}

func hasBackend(name string) bool {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	_, ok := clientFactories[name]
	return ok
}

// newClients resolves the profile's backend to a client bundle.
func newClients(ctx context.Context, p *Profile) (identity.Clients, error) {
	factoriesMu.Lock()
	f, ok := clientFactories[p.Backend]
	factoriesMu.Unlock()
	if !ok {
		return identity.Clients{}, fmt.Errorf("cli: unknown backend %q", p.Backend)
	}
	return f(ctx, p)
}

// memoryClients backs all three client interfaces with an in-process fake.
// Useful for exercising the command tree without network access.
func memoryClients(_ context.Context, p *Profile) (identity.Clients, error) {
	fake := identity.NewFake()
	arn := p.InstanceARN
	if arn == "" {
		arn = "arn:aws:sso:::instance/ssoins-local"
	}
	storeID := p.IdentityStoreID
	if storeID == "" {
		storeID = "d-local"
	}
	fake.Instances = []identity.Instance{{InstanceARN: arn, IdentityStoreID: storeID}}
	return identity.Clients{Admin: fake, Store: fake, Orgs: fake}, nil
}
