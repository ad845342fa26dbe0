package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/novamlm/referral-platform/internal/handler"
	"github.com/novamlm/referral-platform/internal/model"
	"github.com/novamlm/referral-platform/internal/repository"
	"github.com/novamlm/referral-platform/internal/router"
	"github.com/novamlm/referral-platform/internal/service"
	"github.com/novamlm/referral-platform/internal/token"
)

// memStore is an in-memory AccountStore backing the HTTP contract tests.
type memStore struct {
	byEmail map[string]*model.Member
	byID    map[uint64]*model.Member
	codes   map[string]uint64
	nextID  uint64
}

func newMemStore() *memStore {
	return &memStore{
		byEmail: make(map[string]*model.Member),
		byID:    make(map[uint64]*model.Member),
		codes:   make(map[string]uint64),
	}
}

func (s *memStore) FindByEmail(_ context.Context, email string) (*model.Member, error) {
	if m, ok := s.byEmail[email]; ok {
		return m, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) FindByID(_ context.Context, id uint64) (*model.Member, error) {
	if m, ok := s.byID[id]; ok {
		return m, nil
	}
	return nil, repository.ErrNotFound
}

func (s *memStore) ResolveReferralCode(_ context.Context, code string) (uint64, error) {
	if owner, ok := s.codes[code]; ok {
		return owner, nil
	}
	return 0, repository.ErrNotFound
}

func (s *memStore) CreateMember(_ context.Context, p repository.CreateMemberParams) (*model.Member, error) {
	if _, ok := s.byEmail[p.Email]; ok {
		return nil, repository.ErrEmailExists
	}
	if _, ok := s.codes[p.Code]; ok {
		return nil, repository.ErrCodeExists
	}
	s.nextID++
	m := &model.Member{
		ID:           s.nextID,
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		Role:         model.RoleMember,
		ParentID:     p.ParentID,
		ReferralCode: p.Code,
		CreatedAt:    time.Now().UTC(),
	}
	s.byEmail[m.Email] = m
	s.byID[m.ID] = m
	s.codes[m.ReferralCode] = m.ID
	return m, nil
}

func newTestServer() *echo.Echo {
	tokens := token.New("test-secret", 30*24*time.Hour)
	svc := service.NewAuthService(newMemStore(), tokens, bcrypt.MinCost, nil)
	e := echo.New()
	router.RegisterRoutes(e, handler.NewAuthHandler(svc), tokens, nil)
	return e
}

func doJSON(e *echo.Echo, method, path, body, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestRegisterSuccess(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	var user map[string]any
	require.NoError(t, json.Unmarshal(resp.User, &user))
	assert.Equal(t, "Ann", user["name"])
	assert.Equal(t, "ann@x.com", user["email"])
	assert.Equal(t, model.RoleMember, user["role"])
	assert.NotContains(t, user, "parentId")
	assert.Len(t, user["referralCode"], 8)
}

// Registration and login responses must not carry the password hash. The
// upstream service this replaces returned the full stored record, hash
// included; that behavior is deliberately not preserved.
func TestRegisterOmitsPasswordHash(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := strings.ToLower(rec.Body.String())
	assert.NotContains(t, body, "passwordhash")
	assert.NotContains(t, body, "password_hash")
	assert.NotContains(t, body, "$2a$")
}

func TestRegisterMissingFields(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register", `{"email":"ann@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"name, email and password are required"}`, rec.Body.String())
}

func TestRegisterDuplicateEmailConflict(t *testing.T) {
	e := newTestServer()
	first := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, first.Code)

	second := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.JSONEq(t, `{"error":"Email already in use"}`, second.Body.String())
}

func TestRegisterWithReferralCodeLinksParent(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var annResp struct {
		User struct {
			ID           uint64 `json:"id"`
			ReferralCode string `json:"referralCode"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &annResp))

	rec = doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Bo","email":"bo@x.com","password":"p2","referralCode":"`+annResp.User.ReferralCode+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var boResp struct {
		User struct {
			ParentID *uint64 `json:"parentId"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boResp))
	require.NotNil(t, boResp.User.ParentID)
	assert.Equal(t, annResp.User.ID, *boResp.User.ParentID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"ann@x.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())

	rec = doJSON(e, http.MethodPost, "/auth/login",
		`{"email":"nobody@x.com","password":"secret1"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

func TestLoginMissingFields(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/login", `{"email":"ann@x.com"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"email and password are required"}`, rec.Body.String())
}

func TestMeRequiresToken(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodGet, "/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"No token"}`, rec.Body.String())
}

func TestMeReturnsProfile(t *testing.T) {
	e := newTestServer()
	rec := doJSON(e, http.MethodPost, "/auth/register",
		`{"name":"Ann","email":"ann@x.com","password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var reg struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reg))

	rec = doJSON(e, http.MethodGet, "/me", "", reg.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	var me struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "ann@x.com", me.User["email"])
	assert.NotContains(t, me.User, "passwordHash")
}
