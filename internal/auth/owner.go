// Package auth carries the identity of the caller into the data layer.
package auth

import (
	"context"

	"pocket-ledger/internal/apperr"
)

// Owner is the capability every repository call requires. Rows are read,
// updated and deleted only through the owner that holds them.
type Owner struct {
	userID uint
}

func NewOwner(userID uint) Owner {
	return Owner{userID: userID}
}

func (o Owner) UserID() uint { return o.userID }

// Check fails for the zero Owner, which never matches any row.
func (o Owner) Check() error {
	if o.userID == 0 {
		return apperr.Unauthenticated("login required")
	}
	return nil
}

type ctxKey struct{}

func WithOwner(ctx context.Context, o Owner) context.Context {
	return context.WithValue(ctx, ctxKey{}, o)
}

// OwnerFrom returns the owner attached by the auth middleware.
func OwnerFrom(ctx context.Context) (Owner, bool) {
	o, ok := ctx.Value(ctxKey{}).(Owner)
	return o, ok && o.userID != 0
}
