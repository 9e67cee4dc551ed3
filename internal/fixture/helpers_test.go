package fixture

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/qaforge/exercise-e2e/internal/api"
	"github.com/qaforge/exercise-e2e/internal/browser"
	"github.com/qaforge/exercise-e2e/internal/browser/browsertest"
	"github.com/qaforge/exercise-e2e/internal/config"
	"github.com/qaforge/exercise-e2e/internal/logging"
)

// fakeAPI answers every request with code and records account deletions.
type fakeAPI struct {
	mu      sync.Mutex
	code    int
	codes   map[string]int
	err     error
	deleted []string
}

func (f *fakeAPI) answer(email string) (*api.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	code := f.code
	if c, ok := f.codes[email]; ok {
		code = c
	}
	if code == 0 {
		code = api.CodeOK
	}
	return &api.Response{StatusCode: 200, ResponseCode: code}, nil
}

func (f *fakeAPI) Get(ctx context.Context, e string, v url.Values) (*api.Response, error) {
	return f.answer("")
}

func (f *fakeAPI) Post(ctx context.Context, e string, v url.Values) (*api.Response, error) {
	return f.answer("")
}

func (f *fakeAPI) Put(ctx context.Context, e string, v url.Values) (*api.Response, error) {
	return f.answer("")
}

func (f *fakeAPI) Delete(ctx context.Context, e string, v url.Values) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, v.Get("email"))
	return f.answer(v.Get("email"))
}

func (f *fakeAPI) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default(false)
	cfg.BaseURL = "https://shop.test"
	cfg.APIBaseURL = "https://shop.test/api"
	cfg.OutputDir = t.TempDir()
	cfg.APILogDir = t.TempDir()
	cfg.Projects = []string{"chromium", "webkit"}
	cfg.TestTimeout = config.Duration(2 * time.Second)
	cfg.ExpectTimeout = config.Duration(100 * time.Millisecond)
	cfg.ActionTimeout = config.Duration(100 * time.Millisecond)
	cfg.PollInterval = config.Duration(5 * time.Millisecond)
	return cfg
}

type testEnv struct {
	*Environment
	engine *browsertest.Engine
	api    *fakeAPI
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	engine := browsertest.NewEngine(nil)
	fake := &fakeAPI{}
	env, err := NewEnvironment(context.Background(), cfg, Options{
		Engine: engine,
		API:    fake,
		Out:    &safeBuffer{},
		Logger: logging.New("error"),
	})
	if err != nil {
		t.Fatalf("Failed to create environment: %v", err)
	}
	return &testEnv{Environment: env, engine: engine, api: fake}
}

func chromium(t *testing.T) browser.Profile {
	t.Helper()
	p, err := browser.LookupProfile("chromium")
	if err != nil {
		t.Fatalf("Failed to look up profile: %v", err)
	}
	return p
}

type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}
