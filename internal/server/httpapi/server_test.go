package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/op47/clipchat/internal/common"
	"github.com/op47/clipchat/internal/logging"
	"github.com/op47/clipchat/internal/server/models"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// --- fakes ---

type fakeAuth struct {
	users         map[string]string
	tokens        map[string]*models.User
	seq           int64
	validateCalls int
	err           error
}

func newFakeAuth() *fakeAuth {
	return &fakeAuth{
		users:  make(map[string]string),
		tokens: make(map[string]*models.User),
	}
}

func (f *fakeAuth) Register(ctx context.Context, username, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	if _, ok := f.users[username]; ok {
		return "", fmt.Errorf("%w: username is taken", common.ErrorAlreadyExists)
	}
	f.users[username] = password
	return f.Login(ctx, username, password)
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	stored, ok := f.users[username]
	if !ok || stored != password {
		return "", common.ErrorInvalidCredentials
	}
	f.seq++
	token := fmt.Sprintf("token-%d", f.seq)
	f.tokens[token] = &models.User{ID: f.seq, Username: username}
	return token, nil
}

func (f *fakeAuth) ValidateToken(_ context.Context, raw string) (*models.User, error) {
	f.validateCalls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.tokens[raw]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (f *fakeAuth) RevokeToken(_ context.Context, raw string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.tokens[raw]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tokens, raw)
	return nil
}

type fakeWiki struct {
	titles []string
	page   *models.WikiPage
	err    error
}

func (f *fakeWiki) ListTitles(context.Context) ([]string, error) {
	return f.titles, f.err
}

func (f *fakeWiki) GetPage(context.Context, string) (*models.WikiPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeWiki) CreatePage(_ context.Context, title, content string) (*models.WikiPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.WikiPage{ID: 1, Title: title, Content: content}, nil
}

type fakeClips struct {
	clip       *models.Clip
	list       []*models.Clip
	url        string
	err        error
	lastAuthor string
}

func (f *fakeClips) InsertFromURL(_ context.Context, _ string, author string) (*models.Clip, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastAuthor = author
	return f.clip, nil
}

func (f *fakeClips) RemoveByURL(context.Context, string) error {
	return f.err
}

func (f *fakeClips) ListByDate(context.Context, string) ([]*models.Clip, error) {
	return f.list, f.err
}

func (f *fakeClips) CreateUploadURL(context.Context, int64) (string, error) {
	return f.url, f.err
}

func (f *fakeClips) GetDownloadURL(context.Context, int64) (string, error) {
	return f.url, f.err
}

type fakeMessages struct {
	list     []*models.Message
	err      error
	inserted []insertMessageRequest
}

func (f *fakeMessages) Insert(_ context.Context, unixSec int64, channel, user, content, displayName string) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, insertMessageRequest{
		Timestamp: unixSec, Channel: channel, User: user, Content: content, DisplayName: displayName,
	})
	return nil
}

func (f *fakeMessages) ListRecent(context.Context, string) ([]*models.Message, error) {
	return f.list, f.err
}

func (f *fakeMessages) ListSince(context.Context, string, int64) ([]*models.Message, error) {
	return f.list, f.err
}

type testEnv struct {
	ts       *httptest.Server
	auth     *fakeAuth
	wiki     *fakeWiki
	clips    *fakeClips
	messages *fakeMessages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		auth:     newFakeAuth(),
		wiki:     &fakeWiki{},
		clips:    &fakeClips{},
		messages: &fakeMessages{},
	}

	srv := NewServer(":0", testLogger(), env.auth, env.wiki, env.clips, env.messages)
	env.ts = httptest.NewServer(srv.Router())
	t.Cleanup(env.ts.Close)

	return env
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, e.ts.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.ts.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
