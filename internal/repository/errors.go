// Package repository defines the Account Store abstraction and its sentinel
// errors. The sentinels let the service layer distinguish uniqueness
// conflicts from ordinary absence without depending on driver details.
package repository

import "errors"

// ErrNotFound is returned by lookup operations when no row matches.  For
// referral-code resolution this is a normal outcome (the registration simply
// proceeds without a parent link).
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when creating a member would violate the unique
// index on members.email. Handlers translate this into an HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeExists is returned when the freshly generated referral code
// collides with an existing one. The registration flow regenerates the code
// and retries a bounded number of times before giving up.
var ErrCodeExists = errors.New("referral code already exists")
