package otp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docpin/internal/shared/auth"
	"docpin/internal/users"
)

type captureMailer struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (m *captureMailer) SendOTP(_ context.Context, email, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if m.codes == nil {
		m.codes = map[string]string{}
	}
	m.codes[email] = code
	return nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService(t *testing.T) (*Service, *captureMailer, *clock) {
	t.Helper()
	t.Setenv("JWT_SECRET", "otp-test-secret")
	clk := &clock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	mailer := &captureMailer{}
	svc := NewService(NewMemoryRepo(clk.now), mailer, users.NewService(users.NewMemoryRepo()), 10*time.Minute)
	svc.Now = clk.now
	return svc, mailer, clk
}

func TestRequestAndVerify(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Request(ctx, "Ada@Example.com"))
	code := mailer.codes["ada@example.com"]
	require.Len(t, code, CodeLength)

	res, err := svc.Verify(ctx, "ada@example.com", code)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", res.User.Email)

	claims, err := auth.VerifyJWT(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, claims.Subject)

	_, err = svc.Repo.Get(ctx, "ada@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Verify(ctx, "ada@example.com", code)
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.NewCode = func() string { return "12345" }
	ctx := context.Background()
	require.NoError(t, svc.Request(ctx, "ada@example.com"))

	_, err := svc.Verify(ctx, "ada@example.com", "54321")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	_, err = svc.Verify(ctx, "ada@example.com", "123")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	res, err := svc.Verify(ctx, "ada@example.com", "12345")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
}

func TestVerifyRejectsExpiredCode(t *testing.T) {
	svc, _, clk := newTestService(t)
	svc.NewCode = func() string { return "11111" }
	ctx := context.Background()
	require.NoError(t, svc.Request(ctx, "ada@example.com"))

	clk.t = clk.t.Add(10 * time.Minute)
	_, err := svc.Verify(ctx, "ada@example.com", "11111")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	_, err = svc.Repo.Get(ctx, "ada@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRequestReplacesPreviousCode(t *testing.T) {
	svc, _, clk := newTestService(t)
	codes := []string{"11111", "22222"}
	i := 0
	svc.NewCode = func() string {
		c := codes[i]
		i++
		return c
	}
	ctx := context.Background()
	require.NoError(t, svc.Request(ctx, "ada@example.com"))
	clk.t = clk.t.Add(9 * time.Minute)
	require.NoError(t, svc.Request(ctx, "ada@example.com"))
	clk.t = clk.t.Add(5 * time.Minute)

	_, err := svc.Verify(ctx, "ada@example.com", "11111")
	assert.ErrorIs(t, err, ErrInvalidOTP)
	_, err = svc.Verify(ctx, "ada@example.com", "22222")
	assert.NoError(t, err)
}

func TestRequestValidatesEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	for _, email := range []string{"", "not-an-email", "Ada <ada@example.com>"} {
		assert.ErrorIs(t, svc.Request(context.Background(), email), ErrInvalidEmail, email)
	}
}

func TestRequestMailFailure(t *testing.T) {
	svc, mailer, _ := newTestService(t)
	mailer.err = errors.New("smtp down")
	err := svc.Request(context.Background(), "ada@example.com")
	assert.ErrorIs(t, err, ErrMailFailed)
}

func TestPurgeExpired(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()
	require.NoError(t, svc.Request(ctx, "old@example.com"))
	clk.t = clk.t.Add(11 * time.Minute)
	require.NoError(t, svc.Request(ctx, "new@example.com"))

	n, err := svc.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = svc.Repo.Get(ctx, "new@example.com")
	assert.NoError(t, err)
}
