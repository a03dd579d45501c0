package usecase

import (
	"context"
	"fmt"
	"time"

	"user-auth/internal/data/entity"
	"user-auth/internal/data/repository"
	"user-auth/internal/dto/request"
	"user-auth/internal/dto/response"
	"user-auth/pkg/mailer"
	"user-auth/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*response.TokenPairResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error
}

type authService struct {
	userRepo repository.UserRepository
	tokens   TokenService
	mail     mailer.Mailer
	config   *utils.Config
	log      *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokens TokenService,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		mail:     mail,
		config:   config,
		log:      log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Check email is not taken
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, ErrEmailTaken
	}

	// 3. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 4. Create user entity
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hashedPassword,
	}

	// 5. Save user
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to find user")
	}

	// 3. Unknown email and wrong password collapse into the same error
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", req.Email))
		return nil, ErrInvalidCredentials
	}

	// 4. Issue token pair and persist the refresh token. Concurrent logins
	// race on this field; the last writer wins and earlier refresh tokens
	// become unusable. Accepted limitation.
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		User:         response.UserToResponse(user),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*response.TokenPairResponse, error) {
	// 1. Token must be present
	if refreshToken == "" {
		return nil, ErrMissingToken
	}

	// 2. Verify signature and expiry
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		s.log.Warn("Refresh token verification failed", zap.Error(err))
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		s.log.Warn("Refresh token carries malformed user ID", zap.Error(err))
		return nil, ErrInvalidToken
	}

	// 3. Find the claimed user
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for refresh", zap.Error(err), zap.String("user_id", claims.UserID))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// 4. Rotation check: only the stored token is accepted, a rotated-out
	// predecessor is rejected even while cryptographically valid
	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		s.log.Warn("Refresh token mismatch", zap.String("user_id", user.ID.String()))
		return nil, ErrTokenMismatch
	}

	// 5. Issue a fresh pair, overwriting the stored refresh token
	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info("Tokens refreshed", zap.String("user_id", user.ID.String()))

	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID) error {
	// Unset the stored refresh token; any outstanding one becomes unusable
	// even before it expires
	if err := s.userRepo.ClearRefreshToken(ctx, userID); err != nil {
		s.log.Error("Failed to clear refresh token", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("User logged out", zap.String("user_id", userID.String()))
	return nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	// 1. Validate input
	req := request.ForgotPasswordRequest{Email: email}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Forgot password validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Find user
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user for OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to find user")
	}
	if user == nil {
		return ErrUserNotFound
	}

	// 3. Generate OTP with expiry
	otpCode := utils.GenerateOTP()
	expiresAt := time.Now().Add(time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute)

	// 4. Persist OTP onto the user record before attempting delivery. A
	// failed send leaves the code stored; a retry overwrites it, so at most
	// one code is valid per user.
	if err := s.userRepo.SetOTP(ctx, user.ID, otpCode, expiresAt); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to generate OTP")
	}

	s.log.Info("OTP generated",
		zap.String("email", email),
		zap.Time("expires_at", expiresAt),
	)

	// 5. Deliver out-of-band
	body := fmt.Sprintf("Your OTP code is %s (expires in %d minutes).", otpCode, s.config.OTP.ExpiryMinutes)
	if err := s.mail.Send(email, "Password Reset OTP", body); err != nil {
		s.log.Error("Failed to send OTP email", zap.Error(err), zap.String("email", email))
		return ErrMailSend
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *request.ResetPasswordRequest) error {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Reset password validation failed", zap.Any("errors", errs))
		return fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Exact equality, no normalization
	if req.NewPassword != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	// 3. Single combined lookup: email, code and strict expiry in one query
	user, err := s.userRepo.FindByEmailAndValidOTP(ctx, req.Email, req.OTP, time.Now())
	if err != nil {
		s.log.Error("Failed to look up OTP", zap.Error(err), zap.String("email", req.Email))
		return fmt.Errorf("failed to verify OTP")
	}
	if user == nil {
		return ErrInvalidOTP
	}

	// 4. Rehash and persist; OTP fields are cleared in the same update
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, user.ID, hashedPassword); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("failed to reset password")
	}

	s.log.Info("Password reset",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return nil
}

// ==================== HELPER METHODS ====================

// issueTokenPair signs both tokens first, then persists the refresh token.
// Either both tokens reach the caller or neither does.
func (s *authService) issueTokenPair(ctx context.Context, user *entity.User) (*response.TokenPairResponse, error) {
	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		s.log.Error("Failed to issue access token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to issue tokens")
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		s.log.Error("Failed to issue refresh token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to issue tokens")
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, refreshToken); err != nil {
		s.log.Error("Failed to persist refresh token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to issue tokens")
	}

	return &response.TokenPairResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
