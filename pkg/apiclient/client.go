package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

// GenericErrorMessage is shown when the server sent no usable message
const GenericErrorMessage = "Something went wrong. Please try again."

const defaultTimeout = 15 * time.Second

// Member mirrors the member record served by the API
type Member struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Constituency string    `json:"constituency"`
	SessionName  string    `json:"sessionName"`
	SessionDate  time.Time `json:"sessionDate"`
	SpeechGiven  string    `json:"speechGiven"`
	TimeTaken    float64   `json:"timeTaken"`
	PartyName    string    `json:"partyName"`
	ImageURL     string    `json:"imageUrl"`
	PartyLogoURL string    `json:"partyLogoUrl"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MemberFilter narrows a server-side list
type MemberFilter struct {
	SessionName string
	SessionDate string
}

// FilterOptions are the distinct session values known to the server
type FilterOptions struct {
	SessionNames []string `json:"sessionNames"`
	SessionDates []string `json:"sessionDates"`
}

// MemberInput carries the fields to send; fields that are not Valid are omitted.
type MemberInput struct {
	Name         null.String
	Constituency null.String
	SessionName  null.String
	SessionDate  null.String
	SpeechGiven  null.String
	TimeTaken    null.String
	PartyName    null.String
	ImageURL     null.String
	PartyLogoURL null.String
}

func (in MemberInput) values() map[string]string {
	out := map[string]string{}
	for key, v := range map[string]null.String{
		"name":         in.Name,
		"constituency": in.Constituency,
		"sessionName":  in.SessionName,
		"sessionDate":  in.SessionDate,
		"speechGiven":  in.SpeechGiven,
		"timeTaken":    in.TimeTaken,
		"partyName":    in.PartyName,
		"imageUrl":     in.ImageURL,
		"partyLogoUrl": in.PartyLogoURL,
	} {
		if v.Valid {
			out[key] = v.String
		}
	}
	return out
}

// File is an attachment to upload
type File struct {
	Name   string
	Reader io.Reader
}

// Attachments switch a create or update to multipart when any is set
type Attachments struct {
	Image     *File
	PartyLogo *File
}

func (a Attachments) empty() bool {
	return a.Image == nil && a.PartyLogo == nil
}

// LoginResponse is returned by a successful admin login
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Identity is the admin identity proven by the current token
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// TokenSource supplies the bearer token for mutating calls
type TokenSource interface {
	Token() string
}

// Error is returned for every failed call
type Error struct {
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message returns the user-facing message of err
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return GenericErrorMessage
}

// Client talks to the assembly directory REST API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource sets where bearer tokens come from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New builds a client for baseURL, e.g. http://localhost:5000/api
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", baseURL)
	}
	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ResolveAssetURL turns a stored attachment reference into a fetchable URL.
// Absolute URLs are returned unchanged.
func (c *Client) ResolveAssetURL(ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if u, err := url.Parse(ref); err == nil && u.IsAbs() {
		return ref
	}
	origin := url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host}
	return origin.String() + "/" + strings.TrimLeft(ref, "/")
}

func (c *Client) ListMembers(ctx context.Context, filter MemberFilter) ([]Member, error) {
	q := url.Values{}
	if filter.SessionName != "" {
		q.Set("sessionName", filter.SessionName)
	}
	if filter.SessionDate != "" {
		q.Set("sessionDate", filter.SessionDate)
	}
	var out []Member
	if err := c.doJSON(ctx, http.MethodGet, "/members", q, nil, false, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) FilterOptions(ctx context.Context) (*FilterOptions, error) {
	var out FilterOptions
	if err := c.doJSON(ctx, http.MethodGet, "/members/filters", nil, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetMember(ctx context.Context, id string) (*Member, error) {
	var out Member
	if err := c.doJSON(ctx, http.MethodGet, "/members/"+url.PathEscape(id), nil, nil, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMember(ctx context.Context, in MemberInput, files Attachments) (*Member, error) {
	return c.sendMember(ctx, http.MethodPost, "/members", in, files)
}

func (c *Client) UpdateMember(ctx context.Context, id string, in MemberInput, files Attachments) (*Member, error) {
	return c.sendMember(ctx, http.MethodPut, "/members/"+url.PathEscape(id), in, files)
}

// DeleteMember returns the server confirmation message
func (c *Client) DeleteMember(ctx context.Context, id string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.doJSON(ctx, http.MethodDelete, "/members/"+url.PathEscape(id), nil, nil, true, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/admin/login", nil, body, false, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Me(ctx context.Context) (*Identity, error) {
	var out Identity
	if err := c.doJSON(ctx, http.MethodGet, "/admin/me", nil, nil, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) sendMember(ctx context.Context, method, path string, in MemberInput, files Attachments) (*Member, error) {
	var out Member
	if files.empty() {
		if err := c.doJSON(ctx, method, path, nil, in.values(), true, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	body, contentType, err := multipartBody(in, files)
	if err != nil {
		return nil, &Error{Message: GenericErrorMessage, Err: err}
	}
	if err := c.do(ctx, method, path, nil, body, contentType, true, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(in MemberInput, files Attachments) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range in.values() {
		if err := mw.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for field, f := range map[string]*File{"image": files.Image, "partyLogo": files.PartyLogo} {
		if f == nil {
			continue
		}
		fw, err := mw.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(fw, f.Reader); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, q url.Values, payload interface{}, auth bool, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return &Error{Message: GenericErrorMessage, Err: err}
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, method, path, q, body, contentType, auth, out)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, body io.Reader, contentType string, auth bool, out interface{}) error {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return &Error{Message: GenericErrorMessage, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth && c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: GenericErrorMessage, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: resp.StatusCode, Message: GenericErrorMessage, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: resp.StatusCode, Message: GenericErrorMessage, Err: err}
	}
	return nil
}

func decodeError(status int, raw []byte) *Error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		msg = strings.TrimSpace(body.Message)
		if msg == "" {
			msg = strings.TrimSpace(body.Error)
		}
	}
	if msg == "" {
		msg = GenericErrorMessage
	}
	return &Error{Status: status, Message: msg}
}
