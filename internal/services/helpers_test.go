package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/campusshare-backend/internal/data/repos"
	"github.com/yungbote/campusshare-backend/internal/data/repos/testutil"
	"github.com/yungbote/campusshare-backend/internal/platform/dbctx"
	"github.com/yungbote/campusshare-backend/internal/platform/gcp"
	"github.com/yungbote/campusshare-backend/internal/platform/logger"
)

const testSecret = "test-secret-key"

func uniqueEmail(prefix string) string {
	return prefix + "-" + uuid.NewString()[:8] + "@college.edu"
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// sequenceCodes hands out the given codes in order, then repeats the last.
func sequenceCodes(codes ...string) PasscodeGenerator {
	var mu sync.Mutex
	i := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent map[string][]string
}

func (m *fakeMailer) SendPasscode(ctx context.Context, email, code string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.sent == nil {
		m.sent = map[string][]string{}
	}
	m.sent[email] = append(m.sent[email], code)
	return nil
}

func (m *fakeMailer) last(email string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	codes := m.sent[email]
	if len(codes) == 0 {
		return ""
	}
	return codes[len(codes)-1]
}

type authFixture struct {
	db     *gorm.DB
	repos  repos.Repos
	clock  *testClock
	tokens TokenService
	mailer *fakeMailer
	svc    AuthService
}

func newAuthFixture(t *testing.T, mode Mode, gen PasscodeGenerator) *authFixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	r := repos.New(db, log)
	clock := newTestClock()
	tokens, err := NewTokenService(TokenConfig{Secret: testSecret, Now: clock.Now})
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	mailer := &fakeMailer{}
	svc := NewAuthService(log, r.Users, tokens, mailer, AuthConfig{
		Mode:     mode,
		Generate: gen,
		Now:      clock.Now,
	})
	return &authFixture{db: db, repos: r, clock: clock, tokens: tokens, mailer: mailer, svc: svc}
}

func (f *authFixture) dbc() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }

type storedObject struct {
	contentType string
	data        []byte
}

type fakeBucket struct {
	mu        sync.Mutex
	objects   map[string]storedObject
	uploadErr error
	deleted   []string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string]storedObject{}}
}

func (b *fakeBucket) UploadFile(dbc dbctx.Context, category gcp.BucketCategory, key, contentType string, file io.Reader) error {
	if b.uploadErr != nil {
		return b.uploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[string(category)+"/"+key] = storedObject{contentType: contentType, data: data}
	return nil
}

func (b *fakeBucket) DeleteFile(dbc dbctx.Context, category gcp.BucketCategory, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := string(category) + "/" + key
	if _, ok := b.objects[id]; !ok {
		return gcp.ErrObjectNotFound
	}
	delete(b.objects, id)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) GetPublicURL(category gcp.BucketCategory, key string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", category, key)
}

func (b *fakeBucket) Close() error { return nil }

func (b *fakeBucket) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}

func pdfUpload(name string, size int) *UploadFile {
	return &UploadFile{
		Filename:    name,
		ContentType: "application/pdf",
		Size:        int64(size),
		Body:        bytes.NewReader(bytes.Repeat([]byte("x"), size)),
	}
}

func requireKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func testLogger() *logger.Logger { return logger.NewNop() }

func testDBC() dbctx.Context { return dbctx.Context{Ctx: context.Background()} }
