package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/gdugdh24/dating-onboarding/internal/config"
	"github.com/gdugdh24/dating-onboarding/internal/domain"
	"github.com/gdugdh24/dating-onboarding/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// phoneRule is validator's e164 check; country codes never start with 0.
const phoneRule = "required,e164,startsnotwith=+0"

var phoneValidate = validator.New()

// CodeSender delivers a verification code to a phone.
type CodeSender interface {
	Send(ctx context.Context, phone, code string) error
}

// LogSender writes codes to the log instead of sending an SMS.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, phone, code string) error {
	s.logger.Info("verification code issued", zap.String("phone", phone), zap.String("code", code))
	return nil
}

type PhoneAuthUseCase struct {
	identities repository.AuthRepository
	users      repository.UserRepository
	sessions   repository.SessionRepository
	codes      repository.CodeRepository
	sender     CodeSender
	cfg        config.AuthConfig
	jwtSecret  []byte
	sessionTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time
}

type Deps struct {
	Identities repository.AuthRepository
	Users      repository.UserRepository
	Sessions   repository.SessionRepository
	Codes      repository.CodeRepository
	Sender     CodeSender
}

func NewPhoneAuthUseCase(deps Deps, authCfg config.AuthConfig, jwtCfg config.JWTConfig, logger *zap.Logger) *PhoneAuthUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	sender := deps.Sender
	if sender == nil {
		sender = NewLogSender(logger)
	}
	return &PhoneAuthUseCase{
		identities: deps.Identities,
		users:      deps.Users,
		sessions:   deps.Sessions,
		codes:      deps.Codes,
		sender:     sender,
		cfg:        authCfg,
		jwtSecret:  []byte(jwtCfg.Secret),
		sessionTTL: jwtCfg.SessionTTL,
		logger:     logger,
		now:        time.Now,
	}
}

// CodeRequest tells the client when the code it was sent stops working.
type CodeRequest struct {
	Phone     string    `json:"phone"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token           string               `json:"token"`
	ExpiresAt       time.Time            `json:"expires_at"`
	Identity        *domain.AuthIdentity `json:"identity"`
	IsNewUser       bool                 `json:"is_new_user"`
	NeedsOnboarding bool                 `json:"needs_onboarding"`
}

type MeResponse struct {
	Identity        *domain.AuthIdentity `json:"identity"`
	User            *domain.User         `json:"user,omitempty"`
	NeedsOnboarding bool                 `json:"needs_onboarding"`
}

type claims struct {
	Phone string `json:"phone"`
	jwt.RegisteredClaims
}

// NormalizePhone strips common separators and checks the E.164 shape.
func NormalizePhone(phone string) (string, error) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(phone))
	if err := phoneValidate.Var(p, phoneRule); err != nil {
		return "", domain.NewValidationError("phone", "must be in international format, e.g. +15551234567")
	}
	return p, nil
}

// RequestCode issues a new code for phone, replacing any pending one.
func (uc *PhoneAuthUseCase) RequestCode(ctx context.Context, phone string) (*CodeRequest, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	code, err := randomDigits(uc.cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash code: %w", err)
	}

	expiresAt := uc.now().Add(uc.cfg.CodeTTL)
	if err := uc.codes.Save(ctx, &domain.VerificationCode{
		Phone:     phone,
		CodeHash:  string(hash),
		ExpiresAt: expiresAt,
	}, uc.cfg.CodeTTL); err != nil {
		return nil, fmt.Errorf("failed to store code: %w", err)
	}

	if err := uc.sender.Send(ctx, phone, code); err != nil {
		return nil, fmt.Errorf("failed to send code: %w", err)
	}
	return &CodeRequest{Phone: phone, ExpiresAt: expiresAt}, nil
}

// VerifyCode checks code against the pending one and opens a session.
func (uc *PhoneAuthUseCase) VerifyCode(ctx context.Context, phone, code, deviceInfo, ipAddress string) (*AuthResponse, error) {
	phone, err := NormalizePhone(phone)
	if err != nil {
		return nil, err
	}

	pending, err := uc.codes.Get(ctx, phone)
	if err != nil {
		return nil, err
	}
	if pending.Attempts >= uc.cfg.MaxAttempts {
		_ = uc.codes.Delete(ctx, phone)
		return nil, domain.ErrTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		attempts, err := uc.codes.IncrementAttempts(ctx, phone)
		if err != nil {
			return nil, err
		}
		if attempts >= uc.cfg.MaxAttempts {
			_ = uc.codes.Delete(ctx, phone)
			uc.logger.Warn("verification attempts exhausted", zap.String("phone", phone))
			return nil, domain.ErrTooManyAttempts
		}
		return nil, domain.ErrInvalidCode
	}
	if err := uc.codes.Delete(ctx, phone); err != nil {
		uc.logger.Warn("used verification code not deleted", zap.Error(err))
	}

	identity, created, err := uc.identities.GetOrCreateIdentity(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("failed to get auth identity: %w", err)
	}

	token, expiresAt, err := uc.createSession(ctx, identity, deviceInfo, ipAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	_, needsOnboarding, err := uc.onboardingState(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("phone verified",
		zap.String("auth_user_id", identity.ID),
		zap.Bool("new_identity", created),
	)
	return &AuthResponse{
		Token:           token,
		ExpiresAt:       expiresAt,
		Identity:        identity,
		IsNewUser:       created,
		NeedsOnboarding: needsOnboarding,
	}, nil
}

// onboardingState reads the users row, if any, and whether the flow still
// has to run for it.
func (uc *PhoneAuthUseCase) onboardingState(ctx context.Context, authUserID string) (*domain.User, bool, error) {
	user, err := uc.users.GetByAuthUserID(ctx, authUserID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}
	return user, user.OnboardingStatus != domain.OnboardingComplete, nil
}

func (uc *PhoneAuthUseCase) createSession(ctx context.Context, identity *domain.AuthIdentity, deviceInfo, ipAddress string) (string, time.Time, error) {
	now := uc.now()
	expiresAt := now.Add(uc.sessionTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Phone: identity.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	tokenString, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	session := &domain.Session{
		AuthUserID: identity.ID,
		Token:      hashToken(tokenString),
		ExpiresAt:  expiresAt,
	}
	if deviceInfo != "" {
		session.DeviceInfo = &deviceInfo
	}
	if ipAddress != "" {
		session.IPAddress = &ipAddress
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// VerifyToken checks the signature and the stored session behind a token.
func (uc *PhoneAuthUseCase) VerifyToken(ctx context.Context, tokenString string) (domain.Identity, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(t *jwt.Token) (interface{}, error) {
		return uc.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(uc.now))
	if err != nil || !token.Valid || c.Subject == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	session, err := uc.sessions.GetByToken(ctx, hashToken(tokenString))
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return domain.Identity{}, domain.ErrSessionNotFound
		}
		return domain.Identity{}, fmt.Errorf("failed to get session: %w", err)
	}
	if !uc.now().Before(session.ExpiresAt) {
		return domain.Identity{}, domain.ErrSessionExpired
	}
	return domain.Identity{AuthUserID: c.Subject, Phone: c.Phone}, nil
}

func (uc *PhoneAuthUseCase) Me(ctx context.Context, identity domain.Identity) (*MeResponse, error) {
	if identity.IsZero() {
		return nil, domain.ErrSessionMissing
	}
	authIdentity, err := uc.identities.GetIdentityByID(ctx, identity.AuthUserID)
	if err != nil {
		return nil, err
	}
	user, needsOnboarding, err := uc.onboardingState(ctx, identity.AuthUserID)
	if err != nil {
		return nil, err
	}
	return &MeResponse{Identity: authIdentity, User: user, NeedsOnboarding: needsOnboarding}, nil
}

// Logout deletes the session behind a token.
func (uc *PhoneAuthUseCase) Logout(ctx context.Context, tokenString string) error {
	return uc.sessions.DeleteByToken(ctx, hashToken(tokenString))
}

// hashToken creates SHA256 hash of token for storage
func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func randomDigits(n int) (string, error) {
	if n <= 0 {
		n = 6
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}
