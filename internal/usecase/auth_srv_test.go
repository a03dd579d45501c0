package usecase

import (
	"context"
	"testing"
	"time"

	"user-auth/internal/data/entity"
	"user-auth/internal/dto/request"
	"user-auth/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockUserRepo is a map-backed implementation of repository.UserRepository
type mockUserRepo struct {
	byEmail   map[string]*entity.User
	findErr   error
	setOTPErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: make(map[string]*entity.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	m.byEmail[user.Email] = user
	return nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, user := range m.byEmail {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byEmail[email], nil
}

func (m *mockUserRepo) FindByEmailAndValidOTP(ctx context.Context, email, otp string, now time.Time) (*entity.User, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	user := m.byEmail[email]
	if user == nil || user.OTP == nil || user.OTPExpire == nil {
		return nil, nil
	}
	// Strict expiry comparison, same as the SQL predicate otp_expire > now
	if *user.OTP != otp || !user.OTPExpire.After(now) {
		return nil, nil
	}
	return user, nil
}

func (m *mockUserRepo) UpdateRefreshToken(ctx context.Context, id uuid.UUID, token string) error {
	user, _ := m.FindByID(ctx, id)
	if user == nil {
		return ErrUserNotFound
	}
	user.RefreshToken = &token
	return nil
}

func (m *mockUserRepo) ClearRefreshToken(ctx context.Context, id uuid.UUID) error {
	user, _ := m.FindByID(ctx, id)
	if user == nil {
		return ErrUserNotFound
	}
	user.RefreshToken = nil
	return nil
}

func (m *mockUserRepo) SetOTP(ctx context.Context, id uuid.UUID, code string, expiresAt time.Time) error {
	if m.setOTPErr != nil {
		return m.setOTPErr
	}
	user, _ := m.FindByID(ctx, id)
	if user == nil {
		return ErrUserNotFound
	}
	user.OTP = &code
	user.OTPExpire = &expiresAt
	return nil
}

func (m *mockUserRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	user, _ := m.FindByID(ctx, id)
	if user == nil {
		return ErrUserNotFound
	}
	user.PasswordHash = hash
	user.OTP = nil
	user.OTPExpire = nil
	return nil
}

// mockMailer records sent mail
type mockMailer struct {
	sent    []sentMail
	sendErr error
}

type sentMail struct {
	to      string
	subject string
	body    string
}

func (m *mockMailer) Send(to, subject, body string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestAuthService(repo *mockUserRepo, mail *mockMailer) (AuthService, TokenService) {
	config := &utils.Config{
		JWT: testJWTConfig(),
		OTP: utils.OTPConfig{ExpiryMinutes: 5},
	}
	tokens := NewTokenService(config.JWT)
	return NewAuthService(repo, tokens, mail, config, zap.NewNop()), tokens
}

func registerTestUser(t *testing.T, svc AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
}

// ==================== REGISTER / LOGIN ====================

func TestRegisterThenLogin(t *testing.T) {
	repo := newMockUserRepo()
	svc, tokens := newTestAuthService(repo, &mockMailer{})
	ctx := context.Background()

	created, err := svc.Register(ctx, &request.RegisterRequest{
		Name:     "Alice",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", created.Email)

	// Stored record carries a hash, never the plaintext
	stored := repo.byEmail["a@x.com"]
	require.NotNil(t, stored)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "secret1", stored.PasswordHash)

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	// Access claims carry the created record's identity
	claims, err := tokens.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)

	// Refresh token is mirrored on the record
	require.NotNil(t, stored.RefreshToken)
	assert.Equal(t, resp.RefreshToken, *stored.RefreshToken)
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(newMockUserRepo(), &mockMailer{})

	_, err := svc.Register(context.Background(), &request.RegisterRequest{Name: "Alice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)

	_, err := svc.Register(context.Background(), &request.RegisterRequest{
		Name:     "Other Alice",
		Email:    "a@x.com",
		Password: "different",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	// Wrong password for an existing email
	_, wrongPassErr := svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "wrong12"})
	require.Error(t, wrongPassErr)

	// Nonexistent email
	_, noUserErr := svc.Login(ctx, &request.LoginRequest{Email: "b@x.com", Password: "secret1"})
	require.Error(t, noUserErr)

	// Both collapse into the same error
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, noUserErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), noUserErr.Error())
}

// ==================== REFRESH / LOGOUT ====================

func TestRefresh_RotationInvalidatesPredecessor(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)
	firstRefresh := resp.RefreshToken

	// First refresh succeeds and rotates
	pair, err := svc.Refresh(ctx, firstRefresh)
	require.NoError(t, err)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, firstRefresh, pair.RefreshToken)

	// The rotated-out token is rejected although still cryptographically valid
	_, err = svc.Refresh(ctx, firstRefresh)
	assert.ErrorIs(t, err, ErrTokenMismatch)

	// The current token still works
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_MissingAndInvalidTokens(t *testing.T) {
	svc, _ := newTestAuthService(newMockUserRepo(), &mockMailer{})
	ctx := context.Background()

	_, err := svc.Refresh(ctx, "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.Refresh(ctx, "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefresh_UnknownSubject(t *testing.T) {
	repo := newMockUserRepo()
	svc, tokens := newTestAuthService(repo, &mockMailer{})

	// Token signed with the right secret for a user that does not exist
	ghost := &entity.User{Base: entity.Base{ID: uuid.New()}, Name: "Ghost", Email: "g@x.com"}
	token, err := tokens.IssueRefreshToken(ghost)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLogout_InvalidatesOutstandingRefreshToken(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret1"})
	require.NoError(t, err)

	user := repo.byEmail["a@x.com"]
	require.NoError(t, svc.Logout(ctx, user.ID))

	// Field is unset, not just emptied
	assert.Nil(t, user.RefreshToken)

	// The previously issued token is unusable even though not expired
	_, err = svc.Refresh(ctx, resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenMismatch)
}

// ==================== FORGOT / RESET PASSWORD ====================

func TestForgotPassword_StoresOTPAndNotifies(t *testing.T) {
	repo := newMockUserRepo()
	mail := &mockMailer{}
	svc, _ := newTestAuthService(repo, mail)
	registerTestUser(t, svc)

	before := time.Now()
	require.NoError(t, svc.ForgotPassword(context.Background(), "a@x.com"))

	user := repo.byEmail["a@x.com"]
	require.NotNil(t, user.OTP)
	require.NotNil(t, user.OTPExpire)
	assert.Len(t, *user.OTP, 4)

	// Expiry is the 5 minute window
	assert.WithinDuration(t, before.Add(5*time.Minute), *user.OTPExpire, 5*time.Second)

	require.Len(t, mail.sent, 1)
	assert.Equal(t, "a@x.com", mail.sent[0].to)
	assert.Equal(t, "Password Reset OTP", mail.sent[0].subject)
	assert.Contains(t, mail.sent[0].body, *user.OTP)
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	mail := &mockMailer{}
	svc, _ := newTestAuthService(newMockUserRepo(), mail)

	err := svc.ForgotPassword(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, mail.sent)
}

func TestForgotPassword_NotifyFailureKeepsOTP(t *testing.T) {
	repo := newMockUserRepo()
	mail := &mockMailer{sendErr: assert.AnError}
	svc, _ := newTestAuthService(repo, mail)
	registerTestUser(t, svc)

	err := svc.ForgotPassword(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, ErrMailSend)

	// The code was persisted before the delivery attempt
	user := repo.byEmail["a@x.com"]
	assert.NotNil(t, user.OTP)
	assert.NotNil(t, user.OTPExpire)
}

func TestResetPassword_FullFlow(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	user := repo.byEmail["a@x.com"]
	code := *user.OTP

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:           "a@x.com",
		OTP:             code,
		NewPassword:     "newpass",
		ConfirmPassword: "newpass",
	})
	require.NoError(t, err)

	// OTP fields cleared together with the rehash
	assert.Nil(t, user.OTP)
	assert.Nil(t, user.OTPExpire)

	// Old password no longer works, new one does
	_, err = svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, &request.LoginRequest{Email: "a@x.com", Password: "newpass"})
	assert.NoError(t, err)

	// The code is single-use
	err = svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:           "a@x.com",
		OTP:             code,
		NewPassword:     "another1",
		ConfirmPassword: "another1",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPassword_MismatchLeavesHashUnchanged(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	user := repo.byEmail["a@x.com"]
	hashBefore := user.PasswordHash

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:           "a@x.com",
		OTP:             *user.OTP,
		NewPassword:     "newpass",
		ConfirmPassword: "newpass2",
	})
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	assert.Equal(t, hashBefore, user.PasswordHash)
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	// Pin the expiry to now: the strict otp_expire > now predicate must
	// already reject the code at the exact expiry instant
	user := repo.byEmail["a@x.com"]
	code := "1234"
	expiredAt := time.Now()
	user.OTP = &code
	user.OTPExpire = &expiredAt

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:           "a@x.com",
		OTP:             code,
		NewPassword:     "newpass",
		ConfirmPassword: "newpass",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPassword_WrongCode(t *testing.T) {
	repo := newMockUserRepo()
	svc, _ := newTestAuthService(repo, &mockMailer{})
	registerTestUser(t, svc)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, "a@x.com"))
	user := repo.byEmail["a@x.com"]

	wrong := "0000"
	if *user.OTP == wrong {
		wrong = "0001"
	}

	err := svc.ResetPassword(ctx, &request.ResetPasswordRequest{
		Email:           "a@x.com",
		OTP:             wrong,
		NewPassword:     "newpass",
		ConfirmPassword: "newpass",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}
