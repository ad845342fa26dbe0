package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/novamlm/referral-platform/internal/model"
)

// MemberRepo is the MySQL-backed AccountStore.
type MemberRepo struct{ DB *sql.DB }

func NewMemberRepo(db *sql.DB) *MemberRepo { return &MemberRepo{DB: db} }

var _ AccountStore = (*MemberRepo)(nil)

const memberColumns = `m.id, m.name, m.email, m.password_hash, m.role, m.parent_id, rc.code, m.created_at`

func scanMember(row *sql.Row) (*model.Member, error) {
	var (
		m        model.Member
		parentID sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.PasswordHash, &m.Role, &parentID, &m.ReferralCode, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if parentID.Valid {
		pid := uint64(parentID.Int64)
		m.ParentID = &pid
	}
	return &m, nil
}

// FindByEmail fetches a member by exact email match. Emails are stored as
// supplied at registration; no case folding happens on either side.
func (r *MemberRepo) FindByEmail(ctx context.Context, email string) (*model.Member, error) {
	return scanMember(r.DB.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members m JOIN referral_codes rc ON rc.member_id=m.id WHERE m.email=? LIMIT 1",
		email))
}

// FindByID fetches a member by id.
func (r *MemberRepo) FindByID(ctx context.Context, id uint64) (*model.Member, error) {
	return scanMember(r.DB.QueryRowContext(ctx,
		"SELECT "+memberColumns+" FROM members m JOIN referral_codes rc ON rc.member_id=m.id WHERE m.id=? LIMIT 1",
		id))
}

// ResolveReferralCode returns the owning member's id for a code, or
// ErrNotFound when the code is unknown.
func (r *MemberRepo) ResolveReferralCode(ctx context.Context, code string) (uint64, error) {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT member_id FROM referral_codes WHERE code=? LIMIT 1",
		code).Scan(&ownerID)
	if err == sql.ErrNoRows {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return ownerID, nil
}

// CreateMember inserts the member row and its referral-code row inside one
// transaction so a member without a code (or a code without a member) is
// never observable. MySQL reports unique-index violations as error 1062;
// the member insert can only trip the email index and the code insert only
// the code index, so each statement maps to its own sentinel.
func (r *MemberRepo) CreateMember(ctx context.Context, p CreateMemberParams) (*model.Member, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO members (name, email, password_hash, role, parent_id) VALUES (?,?,?,?,?)",
		p.Name, p.Email, p.PasswordHash, model.RoleMember, p.ParentID)
	if err != nil {
		if isDuplicate(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO referral_codes (member_id, code) VALUES (?,?)",
		id, p.Code); err != nil {
		if isDuplicate(err) {
			return nil, ErrCodeExists
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &model.Member{
		ID:           uint64(id),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         model.RoleMember,
		ParentID:     p.ParentID,
		ReferralCode: p.Code,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

func isDuplicate(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
