package pamp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// API is the set of server calls the terminal client makes.
// It is implemented by *Client and can be replaced in tests.
type API interface {
	FetchMyPosts(ctx context.Context) ([]Post, error)
	FetchAllPosts(ctx context.Context) ([]Post, error)
	CreatePost(ctx context.Context, form PostForm) (Post, error)
	UpdatePost(ctx context.Context, id int64, form PostForm) (Post, error)
	DeletePost(ctx context.Context, id int64) error

	FetchProfile(ctx context.Context) (Profile, error)
	UpdateProfile(ctx context.Context, form ProfileForm) (Profile, error)

	FetchTrainingSessions(ctx context.Context) ([]TrainingSession, error)
	CreateTrainingSession(ctx context.Context, in TrainingSessionInput) (TrainingSession, error)
	UpdateTrainingSession(ctx context.Context, id int64, in TrainingSessionInput) (TrainingSession, error)
	DeleteTrainingSession(ctx context.Context, id int64) error

	ObtainToken(ctx context.Context, creds Credentials) (TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (string, error)
	Register(ctx context.Context, reg Registration) error
	GoogleLogin(ctx context.Context, idToken string) (GoogleLogin, error)

	LinkTelegram(ctx context.Context) (TelegramLinkCode, error)
	CheckTelegramLink(ctx context.Context) (TelegramLinkStatus, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// TokenSource supplies the bearer token attached to authenticated requests.
type TokenSource interface {
	AccessToken() string
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// AccessToken implements TokenSource.
func (s StaticToken) AccessToken() string { return string(s) }

// Client talks to the training-log HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tokens    TokenSource
}

const (
	defaultServer    = "127.0.0.1:8000"
	defaultUserAgent = "pamp/0.1"
	requestTimeout   = 15 * time.Second
	uploadTimeout    = 5 * time.Minute
)

// NewClient builds a Client for the given server address. tokens may be nil,
// in which case requests are sent without an Authorization header.
func NewClient(server string, tokens TokenSource) (*Client, error) {
	base, err := parseBaseURL(server)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: uploadTimeout,
		},
		userAgent: defaultUserAgent,
		tokens:    tokens,
	}, nil
}

// BaseURL returns the normalized server address.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// FetchMyPosts lists the posts authored by the current user.
func (c *Client) FetchMyPosts(ctx context.Context) ([]Post, error) {
	return c.fetchPosts(ctx, "mine")
}

// FetchAllPosts lists posts by everyone except the current user.
func (c *Client) FetchAllPosts(ctx context.Context) ([]Post, error) {
	return c.fetchPosts(ctx, "exclude_mine")
}

func (c *Client) fetchPosts(ctx context.Context, filter string) ([]Post, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set(filter, "true")
	rel := &url.URL{Path: "/api/posts/", RawQuery: values.Encode()}
	var payload []Post
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &payload, true); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreatePost submits a new post with its media.
func (c *Client) CreatePost(ctx context.Context, form PostForm) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	var payload Post
	if err := c.doMultipart(ctx, http.MethodPost, &url.URL{Path: "/api/posts/"}, form.Encode, &payload); err != nil {
		return Post{}, err
	}
	return payload, nil
}

// UpdatePost replaces the post's text and media set.
func (c *Client) UpdatePost(ctx context.Context, id int64, form PostForm) (Post, error) {
	if c == nil {
		return Post{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return Post{}, fmt.Errorf("post id required")
	}
	var payload Post
	if err := c.doMultipart(ctx, http.MethodPut, postPath(id), form.Encode, &payload); err != nil {
		return Post{}, err
	}
	return payload, nil
}

// DeletePost removes a post owned by the current user.
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("post id required")
	}
	return c.doJSON(ctx, http.MethodDelete, postPath(id), nil, nil, true)
}

// FetchProfile returns the current user's profile.
func (c *Client) FetchProfile(ctx context.Context) (Profile, error) {
	if c == nil {
		return Profile{}, fmt.Errorf("client is nil")
	}
	var payload Profile
	if err := c.doJSON(ctx, http.MethodGet, &url.URL{Path: "/api/user-profile/"}, nil, &payload, true); err != nil {
		return Profile{}, err
	}
	return payload, nil
}

// UpdateProfile uploads or clears the avatar.
func (c *Client) UpdateProfile(ctx context.Context, form ProfileForm) (Profile, error) {
	if c == nil {
		return Profile{}, fmt.Errorf("client is nil")
	}
	var payload Profile
	if err := c.doMultipart(ctx, http.MethodPut, &url.URL{Path: "/api/profiles/me/"}, form.Encode, &payload); err != nil {
		return Profile{}, err
	}
	return payload, nil
}

// FetchTrainingSessions lists the current user's training sessions.
func (c *Client) FetchTrainingSessions(ctx context.Context) ([]TrainingSession, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []TrainingSession
	if err := c.doJSON(ctx, http.MethodGet, &url.URL{Path: "/api/training-sessions/"}, nil, &payload, true); err != nil {
		return nil, err
	}
	return payload, nil
}

// CreateTrainingSession stores a new session.
func (c *Client) CreateTrainingSession(ctx context.Context, in TrainingSessionInput) (TrainingSession, error) {
	if c == nil {
		return TrainingSession{}, fmt.Errorf("client is nil")
	}
	var payload TrainingSession
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/training-sessions/"}, in, &payload, true); err != nil {
		return TrainingSession{}, err
	}
	return payload, nil
}

// UpdateTrainingSession patches an existing session.
func (c *Client) UpdateTrainingSession(ctx context.Context, id int64, in TrainingSessionInput) (TrainingSession, error) {
	if c == nil {
		return TrainingSession{}, fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return TrainingSession{}, fmt.Errorf("session id required")
	}
	var payload TrainingSession
	if err := c.doJSON(ctx, http.MethodPatch, sessionPath(id), in, &payload, true); err != nil {
		return TrainingSession{}, err
	}
	return payload, nil
}

// DeleteTrainingSession removes a session and all of its occurrences.
func (c *Client) DeleteTrainingSession(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if id <= 0 {
		return fmt.Errorf("session id required")
	}
	return c.doJSON(ctx, http.MethodDelete, sessionPath(id), nil, nil, true)
}

// ObtainToken exchanges credentials for an access/refresh token pair.
func (c *Client) ObtainToken(ctx context.Context, creds Credentials) (TokenPair, error) {
	if c == nil {
		return TokenPair{}, fmt.Errorf("client is nil")
	}
	var payload TokenPair
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/token/"}, creds, &payload, false); err != nil {
		return TokenPair{}, err
	}
	if payload.Access == "" {
		return TokenPair{}, fmt.Errorf("token response missing access token")
	}
	return payload, nil
}

// RefreshToken trades a refresh token for a new access token.
func (c *Client) RefreshToken(ctx context.Context, refresh string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(refresh) == "" {
		return "", fmt.Errorf("refresh token required")
	}
	body := map[string]string{"refresh": refresh}
	var payload TokenPair
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/token/refresh/"}, body, &payload, false); err != nil {
		return "", err
	}
	if payload.Access == "" {
		return "", fmt.Errorf("refresh response missing access token")
	}
	return payload.Access, nil
}

// Register creates a local account.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/register/"}, reg, nil, false)
}

// GoogleLogin exchanges a Google ID token for API tokens.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (GoogleLogin, error) {
	if c == nil {
		return GoogleLogin{}, fmt.Errorf("client is nil")
	}
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return GoogleLogin{}, fmt.Errorf("id token required")
	}
	body := map[string]string{"id_token": idToken}
	var payload GoogleLogin
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/auth/google/login/"}, body, &payload, false); err != nil {
		return GoogleLogin{}, err
	}
	if payload.AccessToken == "" {
		return GoogleLogin{}, fmt.Errorf("google login response missing access token")
	}
	return payload, nil
}

// LinkTelegram requests a one-time code for the Telegram bot.
func (c *Client) LinkTelegram(ctx context.Context) (TelegramLinkCode, error) {
	if c == nil {
		return TelegramLinkCode{}, fmt.Errorf("client is nil")
	}
	var payload TelegramLinkCode
	if err := c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/link-telegram/"}, nil, &payload, true); err != nil {
		return TelegramLinkCode{}, err
	}
	return payload, nil
}

// CheckTelegramLink reports whether the account has been linked.
func (c *Client) CheckTelegramLink(ctx context.Context) (TelegramLinkStatus, error) {
	if c == nil {
		return TelegramLinkStatus{}, fmt.Errorf("client is nil")
	}
	var payload TelegramLinkStatus
	if err := c.doJSON(ctx, http.MethodGet, &url.URL{Path: "/api/link-telegram/status/"}, nil, &payload, true); err != nil {
		return TelegramLinkStatus{}, err
	}
	return payload, nil
}

func postPath(id int64) *url.URL {
	return &url.URL{Path: "/api/posts/" + strconv.FormatInt(id, 10) + "/"}
}

func sessionPath(id int64) *url.URL {
	return &url.URL{Path: "/api/training-sessions/" + strconv.FormatInt(id, 10) + "/"}
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, body, dest any, authed bool) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	contentType := ""
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.send(ctx, method, rel, reader, contentType, dest, authed)
}

// doMultipart encodes the whole form before sending so the request carries a
// Content-Length. WSGI servers read exactly that many bytes and see an empty
// body on a chunked request.
func (c *Client) doMultipart(ctx context.Context, method string, rel *url.URL, encode func(*multipart.Writer) error, dest any) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := encode(mw); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("encode form: %w", err)
	}
	return c.send(ctx, method, rel, bytes.NewReader(buf.Bytes()), mw.FormDataContentType(), dest, true)
}

func (c *Client) send(ctx context.Context, method string, rel *url.URL, body io.Reader, contentType string, dest any, authed bool) error {
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if authed && c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{
			Method: method,
			Path:   rel.Path,
			Status: resp.StatusCode,
			Detail: parseErrorDetail(raw),
		}
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(server string) (*url.URL, error) {
	trimmed := strings.TrimSpace(server)
	if trimmed == "" {
		trimmed = defaultServer
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server %q: %w", server, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
