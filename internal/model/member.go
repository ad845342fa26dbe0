package model

import "time"

// Role names stored on the members table and embedded in token claims.
// New registrations always start as MEMBER; ADMIN rows are created out of
// band (seed scripts or manual promotion).
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// Member mirrors the `members` table joined with its referral code.  Each
// member owns exactly one referral code, created in the same transaction as
// the member row, and an optional parent link to the member whose code was
// redeemed at registration time.  The parent link is set once at creation
// and never updated, so the referral graph is a forest.
//
// Fields:
//  ID           – primary key identifier of the member.
//  Name         – display name.
//  Email        – unique email address, stored exactly as supplied.
//  PasswordHash – bcrypt hashed password; never serialized in responses.
//  Role         – role name (MEMBER or ADMIN).
//  ParentID     – referring member's id; nil for roots of the forest.
//  ReferralCode – this member's own shareable code (referral_codes.code).
//  CreatedAt    – timestamp of creation.
type Member struct {
	ID           uint64    // members.id
	Name         string    // members.name
	Email        string    // members.email
	PasswordHash string    // members.password_hash
	Role         string    // members.role
	ParentID     *uint64   // members.parent_id (nullable)
	ReferralCode string    // referral_codes.code (1:1 with the member)
	CreatedAt    time.Time // members.created_at
}
