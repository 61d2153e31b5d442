package impl

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"md2img-auth/internal/domain"
	"md2img-auth/internal/dto"
	"md2img-auth/internal/store"
)

type stubPasswordService struct {
	hashCalls   []string
	verifyCalls []string
	verifyOK    bool
}

func (s *stubPasswordService) Hash(password string) (string, string, error) {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return "", "", domain.ErrPasswordTooShort
	}
	s.hashCalls = append(s.hashCalls, password)
	return "hash-of-" + password, "salt", nil
}

func (s *stubPasswordService) Verify(password, _, expectedHex string) bool {
	s.verifyCalls = append(s.verifyCalls, password)
	if s.verifyOK {
		return true
	}
	return expectedHex == "hash-of-"+password
}

// memoryUserStore enforces the unique email index the way Postgres would,
// so the check-then-insert race path is exercisable.
type memoryUserStore struct {
	mu         sync.Mutex
	nextID     int64
	byEmail    map[string]*domain.User
	dupOnNext  bool
	errOnEmail error
}

func newMemoryUserStore() *memoryUserStore {
	return &memoryUserStore{nextID: 1, byEmail: make(map[string]*domain.User)}
}

func (m *memoryUserStore) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dupOnNext {
		m.dupOnNext = false
		return store.ErrDuplicateKey
	}
	if _, exists := m.byEmail[u.Email]; exists {
		return store.ErrDuplicateKey
	}
	u.ID = m.nextID
	m.nextID++
	m.byEmail[u.Email] = u
	return nil
}

func (m *memoryUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errOnEmail != nil {
		return nil, m.errOnEmail
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, store.ErrRecordNotFound
	}
	return u, nil
}

func newTestAuthService(t *testing.T) (*AuthServiceImpl, *memoryUserStore, *memorySessionStore, *stubPasswordService) {
	t.Helper()
	users := newMemoryUserStore()
	sessions := newMemorySessionStore()
	pw := &stubPasswordService{}
	tokens := NewTokenService(sessions, time.Hour)
	// The session store joins against users; share the map.
	svc := NewAuthService(users, pw, tokens)
	return svc, users, sessions, pw
}

func TestRegisterThenLogin(t *testing.T) {
	svc, users, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, dto.CredentialsRequest{Email: "User@Example.com", Password: "password123"}, "ua")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", u.Email)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
	if u.PasswordHash == "password123" || u.PasswordHash == "" {
		t.Fatalf("raw password must never be stored, got %q", u.PasswordHash)
	}
	sessions.users[u.ID] = users.byEmail[u.Email]

	u2, token2, err := svc.Login(ctx, dto.CredentialsRequest{Email: "user@example.com", Password: "password123"}, "ua")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u2.ID != u.ID {
		t.Fatalf("login returned a different user: %d != %d", u2.ID, u.ID)
	}
	if token2 == token {
		t.Fatal("each login must mint a fresh token")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _, pw := newTestAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  dto.CredentialsRequest
		want error
	}{
		{"bad email", dto.CredentialsRequest{Email: "not-an-email", Password: "longenough"}, domain.ErrInvalidEmail},
		{"missing tld", dto.CredentialsRequest{Email: "user@host", Password: "longenough"}, domain.ErrInvalidEmail},
		{"spaces in email", dto.CredentialsRequest{Email: "u ser@example.com", Password: "longenough"}, domain.ErrInvalidEmail},
		{"short password", dto.CredentialsRequest{Email: "user@example.com", Password: "short"}, domain.ErrPasswordTooShort},
		{"empty password", dto.CredentialsRequest{Email: "user@example.com", Password: ""}, domain.ErrPasswordTooShort},
		{"short multibyte password", dto.CredentialsRequest{Email: "user@example.com", Password: "あああ"}, domain.ErrPasswordTooShort},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tc.req, "")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	if len(pw.hashCalls) != 0 {
		t.Fatalf("nothing should be hashed on validation failure, got %d calls", len(pw.hashCalls))
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestAuthService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, dto.CredentialsRequest{Email: "foo@bar.com", Password: "password123"}, ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	// Case-insensitive duplicate.
	_, _, err := svc.Register(ctx, dto.CredentialsRequest{Email: "Foo@Bar.com", Password: "password123"}, "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterInsertConflictMapsToEmailTaken(t *testing.T) {
	svc, users, _, _ := newTestAuthService(t)
	ctx := context.Background()

	// Simulate the race where the pre-check sees no user but the unique
	// index rejects the insert.
	users.dupOnNext = true
	_, _, err := svc.Register(ctx, dto.CredentialsRequest{Email: "racer@example.com", Password: "password123"}, "")
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken from insert conflict, got %v", err)
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, users, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, dto.CredentialsRequest{Email: "user@example.com", Password: "password123"}, "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sessions.users[u.ID] = users.byEmail[u.Email]

	_, _, wrongPass := svc.Login(ctx, dto.CredentialsRequest{Email: "user@example.com", Password: "wrongpass"}, "")
	_, _, unknown := svc.Login(ctx, dto.CredentialsRequest{Email: "nobody@example.com", Password: "wrongpass"}, "")

	if !errors.Is(wrongPass, domain.ErrInvalidCredentials) || !errors.Is(unknown, domain.ErrInvalidCredentials) {
		t.Fatalf("both failures must be ErrInvalidCredentials, got %v and %v", wrongPass, unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatal("unknown email and wrong password must be indistinguishable")
	}
}

func TestLoginStoreFailurePropagates(t *testing.T) {
	svc, users, _, _ := newTestAuthService(t)
	ctx := context.Background()

	boom := errors.New("connection refused")
	users.errOnEmail = boom
	_, _, err := svc.Login(ctx, dto.CredentialsRequest{Email: "user@example.com", Password: "password123"}, "")
	if !errors.Is(err, boom) {
		t.Fatalf("store failure must propagate, got %v", err)
	}
}

func TestLogoutAndSessionLifecycle(t *testing.T) {
	svc, users, sessions, _ := newTestAuthService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, dto.CredentialsRequest{Email: "user@example.com", Password: "password123"}, "ua")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	sessions.users[u.ID] = users.byEmail[u.Email]

	got, err := svc.UserFromToken(ctx, token)
	if err != nil {
		t.Fatalf("me with fresh session: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("wrong user resolved: %d", got.ID)
	}

	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.UserFromToken(ctx, token); !errors.Is(err, domain.ErrNoSession) {
		t.Fatalf("expected ErrNoSession after logout, got %v", err)
	}

	// Logout is idempotent, with or without a token.
	if err := svc.Logout(ctx, token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if err := svc.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without token: %v", err)
	}
}
