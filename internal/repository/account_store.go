package repository

import (
	"context"

	"github.com/novamlm/referral-platform/internal/model"
)

// CreateMemberParams carries everything needed to create a member together
// with its referral code. ParentID is nil when no referral code was redeemed.
type CreateMemberParams struct {
	Name         string
	Email        string
	PasswordHash string
	ParentID     *uint64
	Code         string
}

// AccountStore is the persistence boundary for members and referral codes.
// Implementations must guarantee that CreateMember is atomic: either the
// member row and its referral-code row both exist afterwards, or neither
// does. Email and code uniqueness are enforced here, not by callers.
type AccountStore interface {
	// FindByEmail returns the member stored under the exact email, or
	// ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*model.Member, error)

	// FindByID returns the member with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id uint64) (*model.Member, error)

	// ResolveReferralCode returns the id of the member owning the code, or
	// ErrNotFound when the code is unknown.
	ResolveReferralCode(ctx context.Context, code string) (uint64, error)

	// CreateMember inserts the member and its referral code as one unit.
	// Returns ErrEmailExists or ErrCodeExists on uniqueness violations.
	CreateMember(ctx context.Context, p CreateMemberParams) (*model.Member, error)
}
