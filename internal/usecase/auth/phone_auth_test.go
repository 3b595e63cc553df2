package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	codes map[string]string
	err   error
}

func (s *recordingSender) Send(ctx context.Context, phone, code string) error {
	if s.err != nil {
		return s.err
	}
	s.codes[phone] = code
	return nil
}

type authFixture struct {
	uc     *PhoneAuthUseCase
	store  *memory.Store
	users  *memory.UserRepository
	sender *recordingSender
	now    time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		store:  memory.NewStore(),
		sender: &recordingSender{codes: make(map[string]string)},
		now:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.store.SetClock(func() time.Time { return f.now })
	f.users = memory.NewUserRepository(f.store)
	f.uc = NewPhoneAuthUseCase(Deps{
		Identities: memory.NewAuthRepository(f.store),
		Users:      f.users,
		Sessions:   memory.NewSessionRepository(f.store),
		Codes:      memory.NewCodeRepository(f.store),
		Sender:     f.sender,
	}, config.AuthConfig{CodeLength: 6, CodeTTL: 5 * time.Minute, MaxAttempts: 3},
		config.JWTConfig{Secret: "test-secret", SessionTTL: 24 * time.Hour}, nil)
	f.uc.now = func() time.Time { return f.now }
	return f
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"+15551234567", "+15551234567", false},
		{" +1 (555) 123-4567 ", "+15551234567", false},
		{"15551234567", "", true},
		{"+0123456789", "", true},
		{"+1555", "", true},
		{"+44 20 7946 0958", "+442079460958", false},
		{"+1234567890123456", "", true},
		{"+1555abc4567", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				var verr *domain.ValidationError
				assert.True(t, errors.As(err, &verr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequestAndVerifyCode(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	req, err := f.uc.RequestCode(ctx, "+1 555 123 4567")
	require.NoError(t, err)
	assert.Equal(t, "+15551234567", req.Phone)
	assert.Equal(t, f.now.Add(5*time.Minute), req.ExpiresAt)

	code := f.sender.codes["+15551234567"]
	require.Len(t, code, 6)

	resp, err := f.uc.VerifyCode(ctx, "+15551234567", code, "iPhone", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.True(t, resp.IsNewUser)
	assert.True(t, resp.NeedsOnboarding)
	assert.Equal(t, "+15551234567", resp.Identity.Phone)

	identity, err := f.uc.VerifyToken(ctx, resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.Identity.ID, identity.AuthUserID)
	assert.Equal(t, "+15551234567", identity.Phone)

	_, err = f.uc.VerifyCode(ctx, "+15551234567", code, "", "")
	assert.ErrorIs(t, err, domain.ErrCodeExpired, "codes are single use")
}

func TestVerifyCodeReturningUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.uc.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)
	first, err := f.uc.VerifyCode(ctx, "+15551234567", f.sender.codes["+15551234567"], "", "")
	require.NoError(t, err)

	require.NoError(t, f.users.Create(ctx, &domain.User{
		AuthUserID:       first.Identity.ID,
		FirstName:        "Ada",
		OnboardingStatus: domain.OnboardingComplete,
	}))

	_, err = f.uc.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)
	second, err := f.uc.VerifyCode(ctx, "+15551234567", f.sender.codes["+15551234567"], "", "")
	require.NoError(t, err)
	assert.False(t, second.IsNewUser)
	assert.False(t, second.NeedsOnboarding)
	assert.Equal(t, first.Identity.ID, second.Identity.ID)
	assert.NotEqual(t, first.Token, second.Token)

	me, err := f.uc.Me(ctx, domain.Identity{AuthUserID: first.Identity.ID})
	require.NoError(t, err)
	require.NotNil(t, me.User)
	assert.Equal(t, "Ada", me.User.FirstName)
	assert.False(t, me.NeedsOnboarding)
}

func TestVerifyCodeAttemptLimit(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.uc.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)
	code := f.sender.codes["+15551234567"]
	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}

	_, err = f.uc.VerifyCode(ctx, "+15551234567", wrong, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	_, err = f.uc.VerifyCode(ctx, "+15551234567", wrong, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	_, err = f.uc.VerifyCode(ctx, "+15551234567", wrong, "", "")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)

	_, err = f.uc.VerifyCode(ctx, "+15551234567", code, "", "")
	assert.ErrorIs(t, err, domain.ErrCodeExpired, "exhausted code is gone")
}

func TestVerifyCodeExpired(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.uc.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)
	f.now = f.now.Add(6 * time.Minute)

	_, err = f.uc.VerifyCode(ctx, "+15551234567", f.sender.codes["+15551234567"], "", "")
	assert.ErrorIs(t, err, domain.ErrCodeExpired)
}

func TestRequestCodeSendFailure(t *testing.T) {
	f := newAuthFixture(t)
	f.sender.err = errors.New("sms gateway down")

	_, err := f.uc.RequestCode(context.Background(), "+15551234567")
	assert.ErrorContains(t, err, "sms gateway down")
}

func TestVerifyToken(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	_, err := f.uc.RequestCode(ctx, "+15551234567")
	require.NoError(t, err)
	resp, err := f.uc.VerifyCode(ctx, "+15551234567", f.sender.codes["+15551234567"], "", "")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := f.uc.VerifyToken(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newAuthFixture(t)
		other.uc.jwtSecret = []byte("another-secret")
		_, err := other.uc.VerifyToken(ctx, resp.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("after expiry", func(t *testing.T) {
		saved := f.now
		f.now = f.now.Add(25 * time.Hour)
		defer func() { f.now = saved }()
		_, err := f.uc.VerifyToken(ctx, resp.Token)
		assert.ErrorIs(t, err, domain.ErrInvalidToken)
	})

	t.Run("after logout", func(t *testing.T) {
		require.NoError(t, f.uc.Logout(ctx, resp.Token))
		_, err := f.uc.VerifyToken(ctx, resp.Token)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
		assert.ErrorIs(t, f.uc.Logout(ctx, resp.Token), domain.ErrSessionNotFound)
	})
}

func TestMeRequiresIdentity(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.uc.Me(context.Background(), domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrSessionMissing)
}
