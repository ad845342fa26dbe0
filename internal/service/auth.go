// Package service implements the registration and login flows on top of the
// Account Store, the password hasher and the token service.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/novamlm/referral-platform/internal/model"
	"github.com/novamlm/referral-platform/internal/queue"
	"github.com/novamlm/referral-platform/internal/repository"
	"github.com/novamlm/referral-platform/internal/token"
	"github.com/novamlm/referral-platform/internal/utils"
)

// codeCreateAttempts bounds how many times a registration regenerates its
// referral code after a store-level collision before giving up. With an
// 8-char alphanumeric code space a second collision in a row is already
// implausible.
const codeCreateAttempts = 3

// EventPublisher emits domain events after successful registrations.
// Publishing is best effort: implementations log failures and the flow never
// fails because of them.
type EventPublisher interface {
	PublishMemberRegistered(ctx context.Context, ev queue.MemberRegisteredEvent) error
}

// AuthService orchestrates the identity flows.
type AuthService struct {
	store      repository.AccountStore
	tokens     *token.Service
	bcryptCost int
	events     EventPublisher // optional; nil disables event publishing
}

func NewAuthService(store repository.AccountStore, tokens *token.Service, bcryptCost int, events EventPublisher) *AuthService {
	return &AuthService{store: store, tokens: tokens, bcryptCost: bcryptCost, events: events}
}

// RegisterInput is the payload of a registration request. ReferralCode is
// optional; an unknown code is silently ignored.
type RegisterInput struct {
	Name         string
	Email        string
	Password     string
	ReferralCode string
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult couples a freshly issued bearer token with the member it was
// issued for.
type AuthResult struct {
	Token  string
	Member *model.Member
}

// Register creates a member under an optional referring parent and issues a
// bearer token. The member row and its own referral code are created as one
// atomic unit by the store; on a referral-code collision the code is
// regenerated and the create retried a bounded number of times.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	if _, err := s.store.FindByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailInUse
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	var parentID *uint64
	if in.ReferralCode != "" {
		ownerID, err := s.store.ResolveReferralCode(ctx, in.ReferralCode)
		switch {
		case err == nil:
			parentID = &ownerID
		case errors.Is(err, repository.ErrNotFound):
			// Unknown code: register without a parent.
		default:
			return nil, err
		}
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	var m *model.Member
	for attempt := 0; attempt < codeCreateAttempts; attempt++ {
		code, err := utils.NewReferralCode()
		if err != nil {
			return nil, err
		}
		m, err = s.store.CreateMember(ctx, repository.CreateMemberParams{
			Name:         in.Name,
			Email:        in.Email,
			PasswordHash: hash,
			ParentID:     parentID,
			Code:         code,
		})
		if errors.Is(err, repository.ErrCodeExists) {
			continue
		}
		if errors.Is(err, repository.ErrEmailExists) {
			// Lost a race with a concurrent registration on the same email.
			return nil, ErrEmailInUse
		}
		if err != nil {
			return nil, err
		}
		break
	}
	if m == nil {
		return nil, repository.ErrCodeExists
	}

	signed, err := s.tokens.Issue(token.Claims{ID: m.ID, Email: m.Email, Role: m.Role})
	if err != nil {
		return nil, err
	}

	if s.events != nil {
		_ = s.events.PublishMemberRegistered(ctx, queue.MemberRegisteredEvent{
			MemberID:     m.ID,
			Name:         m.Name,
			Email:        m.Email,
			ParentID:     m.ParentID,
			ReferralCode: m.ReferralCode,
			RegisteredAt: m.CreatedAt.Format(time.RFC3339),
		})
	}

	return &AuthResult{Token: signed, Member: m}, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password both come back as ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	m, err := s.store.FindByEmail(ctx, in.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.VerifyPassword(m.PasswordHash, in.Password) {
		return nil, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(token.Claims{ID: m.ID, Email: m.Email, Role: m.Role})
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: signed, Member: m}, nil
}

// Profile loads the member behind a verified credential.
func (s *AuthService) Profile(ctx context.Context, id uint64) (*model.Member, error) {
	return s.store.FindByID(ctx, id)
}
