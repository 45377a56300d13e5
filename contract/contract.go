//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"

	"messenger-lab/domain"
)

// Identity supplies the authenticated username of the current request.
// The messenger core never authenticates; the web layer owns sessions and
// injects an Identity when it calls into the services.
type Identity interface {
	CurrentUsername(ctx context.Context) (domain.Username, bool)
}

type usernameKey struct{}

// WithUsername stores the authenticated username on the context.
func WithUsername(ctx context.Context, username domain.Username) context.Context {
	return context.WithValue(ctx, usernameKey{}, username)
}

// ContextIdentity reads the username that WithUsername stored.
// It is the default Identity wired by the host binary.
type ContextIdentity struct{}

func (ContextIdentity) CurrentUsername(ctx context.Context) (domain.Username, bool) {
	username, ok := ctx.Value(usernameKey{}).(domain.Username)
	return username, ok
}
