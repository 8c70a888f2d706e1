package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/sweetshop/inventory-system/internal/api/middleware"
	"github.com/sweetshop/inventory-system/internal/core/domain"
	"github.com/sweetshop/inventory-system/internal/core/ports"
)

type stubSweetService struct {
	sweets     []domain.Sweet
	sweet      *domain.Sweet
	err        error
	lastFilter ports.SearchFilter
	lastInput  ports.SweetInput
	lastID     string
	lastQty    int
}

func (s *stubSweetService) Create(_ context.Context, input ports.SweetInput) (*domain.Sweet, error) {
	s.lastInput = input
	return s.sweet, s.err
}

func (s *stubSweetService) List(context.Context) ([]domain.Sweet, error) {
	return s.sweets, s.err
}

func (s *stubSweetService) Search(_ context.Context, filter ports.SearchFilter) ([]domain.Sweet, error) {
	s.lastFilter = filter
	return s.sweets, s.err
}

func (s *stubSweetService) Update(_ context.Context, id string, input ports.SweetInput) (*domain.Sweet, error) {
	s.lastID, s.lastInput = id, input
	return s.sweet, s.err
}

func (s *stubSweetService) Delete(_ context.Context, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubSweetService) Restock(_ context.Context, id string, quantity int) (*domain.Sweet, error) {
	s.lastID, s.lastQty = id, quantity
	return s.sweet, s.err
}

func (s *stubSweetService) Purchase(_ context.Context, id string) (*domain.Sweet, error) {
	s.lastID = id
	return s.sweet, s.err
}

func authed(c echo.Context) echo.Context {
	c.Set(middleware.CtxEmail, "alice@example.com")
	c.Set(middleware.CtxRole, domain.RoleUser)
	return c
}

func TestSweetHandler_List(t *testing.T) {
	svc := &stubSweetService{sweets: []domain.Sweet{{ID: "a", Name: "fudge"}}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodGet, "/api/sweets", "")
	if err := h.List(authed(c)); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got []domain.Sweet
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].Name != "fudge" {
		t.Fatalf("unexpected body: %+v", got)
	}
}

func TestSweetHandler_List_NoClaims(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{})

	c, _ := newEchoContext(t, http.MethodGet, "/api/sweets", "")
	err := h.List(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %v", err)
	}
}

func TestSweetHandler_Search_ParsesFilter(t *testing.T) {
	svc := &stubSweetService{sweets: []domain.Sweet{}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodGet, "/api/sweets/search?name=fu&category=soft&min_price=1.5&max_price=9", "")
	if err := h.Search(authed(c)); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	f := svc.lastFilter
	if f.Name != "fu" || f.Category != "soft" {
		t.Fatalf("unexpected filter: %+v", f)
	}
	if f.MinPrice == nil || *f.MinPrice != 1.5 || f.MaxPrice == nil || *f.MaxPrice != 9 {
		t.Fatalf("price bounds not parsed: %+v", f)
	}
	// empty result renders as [], not null
	if body := rec.Body.String(); body != "[]\n" {
		t.Fatalf("expected empty array body, got %q", body)
	}
}

func TestSweetHandler_Search_BadPrice(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{})

	c, _ := newEchoContext(t, http.MethodGet, "/api/sweets/search?min_price=cheap", "")
	err := h.Search(authed(c))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestSweetHandler_Create(t *testing.T) {
	svc := &stubSweetService{sweet: &domain.Sweet{ID: "a", Name: "fudge", Category: "soft", Price: 2.5, Quantity: 4}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/api/sweets", `{"name":"fudge","category":"soft","price":2.5,"quantity":4}`)
	if err := h.Create(authed(c)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.lastInput.Name != "fudge" || svc.lastInput.Quantity != 4 {
		t.Fatalf("unexpected service input: %+v", svc.lastInput)
	}
}

func TestSweetHandler_Create_Invalid(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"category":"soft","price":1,"quantity":1}`},
		{"negative price", `{"name":"fudge","category":"soft","price":-1,"quantity":1}`},
		{"not json", `{{{`},
	}
	for _, tc := range cases {
		c, _ := newEchoContext(t, http.MethodPost, "/api/sweets", tc.body)
		err := h.Create(authed(c))
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %v", tc.name, err)
		}
	}
}

func TestSweetHandler_Update(t *testing.T) {
	svc := &stubSweetService{sweet: &domain.Sweet{ID: "a", Name: "toffee"}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodPut, "/api/sweets/a", `{"name":"toffee","category":"chewy","price":3,"quantity":2}`)
	c.SetParamNames("id")
	c.SetParamValues("a")
	if err := h.Update(authed(c)); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "a" || svc.lastInput.Name != "toffee" {
		t.Fatalf("unexpected service input: id=%q input=%+v", svc.lastID, svc.lastInput)
	}
}

func TestSweetHandler_Delete(t *testing.T) {
	svc := &stubSweetService{}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodDelete, "/api/sweets/a", "")
	c.SetParamNames("id")
	c.SetParamValues("a")
	if err := h.Delete(authed(c)); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp messageResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Message != "sweet deleted" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}
	if svc.lastID != "a" {
		t.Fatalf("unexpected id: %q", svc.lastID)
	}
}

func TestSweetHandler_Restock(t *testing.T) {
	svc := &stubSweetService{sweet: &domain.Sweet{ID: "a", Quantity: 7}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/api/sweets/a/restock", `{"quantity":5}`)
	c.SetParamNames("id")
	c.SetParamValues("a")
	if err := h.Restock(authed(c)); err != nil {
		t.Fatalf("Restock: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "a" || svc.lastQty != 5 {
		t.Fatalf("unexpected service input: id=%q qty=%d", svc.lastID, svc.lastQty)
	}
}

func TestSweetHandler_Restock_NonPositive(t *testing.T) {
	h := NewSweetHandler(&stubSweetService{})

	for _, body := range []string{`{"quantity":0}`, `{"quantity":-2}`} {
		c, _ := newEchoContext(t, http.MethodPost, "/api/sweets/a/restock", body)
		c.SetParamNames("id")
		c.SetParamValues("a")
		err := h.Restock(authed(c))
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Errorf("body %s: expected 400, got %v", body, err)
		}
	}
}

func TestSweetHandler_Purchase(t *testing.T) {
	svc := &stubSweetService{sweet: &domain.Sweet{ID: "a", Quantity: 0}}
	h := NewSweetHandler(svc)

	c, rec := newEchoContext(t, http.MethodPost, "/api/sweets/a/purchase", "")
	c.SetParamNames("id")
	c.SetParamValues("a")
	if err := h.Purchase(authed(c)); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.lastID != "a" {
		t.Fatalf("unexpected id: %q", svc.lastID)
	}
}

func TestSweetHandler_Purchase_OutOfStock(t *testing.T) {
	svc := &stubSweetService{err: domain.ErrOutOfStock}
	h := NewSweetHandler(svc)

	c, _ := newEchoContext(t, http.MethodPost, "/api/sweets/a/purchase", "")
	c.SetParamNames("id")
	c.SetParamValues("a")
	// the central error handler maps the domain error to 400
	if err := h.Purchase(authed(c)); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("expected domain error passthrough, got %v", err)
	}
}
