// Package client is the outbound gateway to the Sweet Shop API and the
// inventory sync controller built on top of it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sweetshop/inventory-system/pkg/session"
)

// Sweet mirrors the catalog item owned by the backend. The client never
// invents or patches one locally; every instance comes from a response body.
type Sweet struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// SweetInput is the payload for create and update.
type SweetInput struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Query carries the optional server-side search filters. Price bounds are
// pointers so a bound of 0 is distinguishable from "absent".
type Query struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (q Query) values() url.Values {
	v := url.Values{}
	if q.Name != "" {
		v.Set("name", q.Name)
	}
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	if q.MinPrice != nil {
		v.Set("min_price", strconv.FormatFloat(*q.MinPrice, 'f', -1, 64))
	}
	if q.MaxPrice != nil {
		v.Set("max_price", strconv.FormatFloat(*q.MaxPrice, 'f', -1, 64))
	}
	return v
}

// Client is the single outbound gateway: it attaches the session's bearer
// token to every request when present. No retries, no queueing, no caching;
// the backend's verdict is surfaced unmodified.
type Client struct {
	baseURL string
	http    *http.Client
	session *session.Session
}

// New builds a Client. httpClient may be nil, in which case a client with a
// sane timeout is used.
func New(baseURL string, sess *session.Session, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: sess,
	}
}

// Session exposes the injected session context.
func (c *Client) Session() *session.Session {
	return c.session
}

// --- Auth operations ---

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
}

// Register creates an account. It does not log in.
func (c *Client) Register(ctx context.Context, email, password, role string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/register", nil, registerRequest{Email: email, Password: password, Role: role}, nil)
}

// Login authenticates and stores the returned token in the session.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, loginRequest{Email: email, Password: password}, &resp); err != nil {
		return err
	}
	return c.session.SetToken(resp.AccessToken)
}

// Logout revokes the token server-side, then clears it locally. The local
// clear happens even when the server call fails: the user asked to be logged
// out, and an unreachable backend must not pin a session.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil, nil)
	if clearErr := c.session.Clear(); clearErr != nil {
		return clearErr
	}
	return err
}

// --- Catalog operations ---

func (c *Client) ListSweets(ctx context.Context) ([]Sweet, error) {
	var sweets []Sweet
	if err := c.do(ctx, http.MethodGet, "/api/sweets", nil, nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

func (c *Client) SearchSweets(ctx context.Context, q Query) ([]Sweet, error) {
	var sweets []Sweet
	if err := c.do(ctx, http.MethodGet, "/api/sweets/search", q.values(), nil, &sweets); err != nil {
		return nil, err
	}
	return sweets, nil
}

func (c *Client) CreateSweet(ctx context.Context, input SweetInput) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets", nil, input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) UpdateSweet(ctx context.Context, id string, input SweetInput) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPut, "/api/sweets/"+url.PathEscape(id), nil, input, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) DeleteSweet(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sweets/"+url.PathEscape(id), nil, nil, nil)
}

type restockRequest struct {
	Quantity int `json:"quantity"`
}

func (c *Client) RestockSweet(ctx context.Context, id string, quantity int) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+url.PathEscape(id)+"/restock", nil, restockRequest{Quantity: quantity}, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

func (c *Client) PurchaseSweet(ctx context.Context, id string) (*Sweet, error) {
	var sweet Sweet
	if err := c.do(ctx, http.MethodPost, "/api/sweets/"+url.PathEscape(id)+"/purchase", nil, nil, &sweet); err != nil {
		return nil, err
	}
	return &sweet, nil
}

// StockEvent is one recorded stock movement, as served by the ledger.
type StockEvent struct {
	SweetID   string    `json:"sweet_id"`
	Kind      string    `json:"kind"`
	Delta     int       `json:"delta"`
	Remaining int       `json:"remaining"`
	At        time.Time `json:"at"`
}

// SweetHistory returns an item's recent stock movements, newest first.
// Admin only.
func (c *Client) SweetHistory(ctx context.Context, id string, limit int) ([]StockEvent, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var events []StockEvent
	if err := c.do(ctx, http.MethodGet, "/api/sweets/"+url.PathEscape(id)+"/events", q, nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// --- Transport ---

// errorEnvelope tolerates the error shapes this client may meet: the API's
// {"error": ...} plus the {"detail"/"message"} variants other stacks emit.
type errorEnvelope struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (e errorEnvelope) text() string {
	switch {
	case e.Error != "":
		return e.Error
	case e.Detail != "":
		return e.Detail
	default:
		return e.Message
	}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.session.Token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &APIError{Status: 0, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "malformed response body"}
	}
	return nil
}

func statusError(resp *http.Response) error {
	var env errorEnvelope
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&env)
	msg := env.text()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	}

	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
