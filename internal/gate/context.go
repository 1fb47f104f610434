package gate

import (
	"context"

	userdomain "github.com/envirosync/envirosync-backend/internal/user/domain"
)

type ctxKey string

const identityContextKey ctxKey = "envirosync.gate.identity"

func withIdentity(ctx context.Context, identity userdomain.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the identity the gate attached, if any. Handlers
// on non-public paths may rely on ok being true: the gate has already
// terminated anonymous requests to them.
func IdentityFromContext(ctx context.Context) (userdomain.Identity, bool) {
	v := ctx.Value(identityContextKey)
	identity, ok := v.(userdomain.Identity)
	return identity, ok
}
