package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront/accounts-api/internal/api/middleware"
	"github.com/storefront/accounts-api/internal/core/domain"
)

type stubAccountService struct {
	meFn   func(ctx context.Context, p domain.Principal) (*domain.Account, error)
	listFn func(ctx context.Context, p domain.Principal) ([]*domain.Account, error)
}

func (s *stubAccountService) Me(ctx context.Context, p domain.Principal) (*domain.Account, error) {
	return s.meFn(ctx, p)
}

func (s *stubAccountService) List(ctx context.Context, p domain.Principal) ([]*domain.Account, error) {
	return s.listFn(ctx, p)
}

func TestUserHandler_Me(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		meFn: func(ctx context.Context, p domain.Principal) (*domain.Account, error) {
			if p.Identity != "alice" {
				t.Fatalf("unexpected principal: %+v", p)
			}
			return &domain.Account{ID: "1", Username: "alice", Email: "a@x.io", Roles: []domain.Role{domain.RoleUser}}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), rec)
	middleware.SetPrincipal(c, domain.Principal{Identity: "alice", Roles: []domain.Role{domain.RoleUser}})

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Username != "alice" || resp.Email != "a@x.io" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_Me_NoPrincipal(t *testing.T) {
	e := newEcho()
	h := NewUserHandler(&stubAccountService{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), rec)

	_ = serve(e, c, h.Me)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestUserHandler_List(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		listFn: func(ctx context.Context, p domain.Principal) ([]*domain.Account, error) {
			return []*domain.Account{
				{ID: "1", Username: "root", Roles: []domain.Role{domain.RoleAdmin}},
				{ID: "2", Username: "alice", Roles: []domain.Role{domain.RoleUser}},
			}, nil
		},
	}
	h := NewUserHandler(stub)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/all", nil), rec)
	middleware.SetPrincipal(c, domain.Principal{Identity: "root", Roles: []domain.Role{domain.RoleAdmin}})

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp []accountResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 || resp[0].Username != "root" || resp[1].Username != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestUserHandler_List_ForbiddenPassedThrough(t *testing.T) {
	e := newEcho()
	stub := &stubAccountService{
		listFn: func(ctx context.Context, p domain.Principal) ([]*domain.Account, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewUserHandler(stub)

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/users/all", nil), httptest.NewRecorder())
	middleware.SetPrincipal(c, domain.Principal{Identity: "alice", Roles: []domain.Role{domain.RoleUser}})

	if err := h.List(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}
