package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homestay/internal/auth"
	apperrors "homestay/internal/errors"
	"homestay/internal/model"
	"homestay/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 6
)

// RegisterInput carries the fields required to create an account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    string
	IDNumber string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (accessToken, refreshToken string, user *model.User, err error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user *model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
	LookupAccount(ctx context.Context, idNumber string) (*model.User, string, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
}

type authService struct {
	userRepo     repository.UserRepository
	jwtService   *auth.JWTService
	sessionStore auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, sessionStore auth.SessionStoreInterface) AuthService {
	return &authService{
		userRepo:     userRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a new customer account and logs it in immediately.
// Registration is auto-login: the response carries the same token pair as Login.
func (s *authService) Register(ctx context.Context, input RegisterInput) (string, string, *model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return "", "", nil, apperrors.ErrDuplicateEmail
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", "", nil, fmt.Errorf("check user existence: %w", err)
	}

	if len(input.Password) < minPasswordLength {
		return "", "", nil, apperrors.ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", "", nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Phone:        input.Phone,
		IDNumber:     input.IDNumber,
		Role:         model.RoleCustomer,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return "", "", nil, fmt.Errorf("create user: %w", err)
	}

	return s.issueTokens(ctx, user)
}

// Login authenticates a user and returns access and refresh tokens.
// An inactive account is reported distinctly from bad credentials so clients
// can show a dedicated message instead of a login retry.
func (s *authService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", "", nil, apperrors.ErrAccountInactive
	}

	return s.issueTokens(ctx, user)
}

// issueTokens generates the token pair and writes the session state. The
// session blob carries token ID and user together so no reader ever sees a
// token without its matching user.
func (s *authService) issueTokens(ctx context.Context, user *model.User) (string, string, *model.User, error) {
	accessID, accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	refreshID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.sessionStore.SaveSession(ctx, accessID, user, auth.AccessTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("save session: %w", err)
	}

	if err := s.sessionStore.StoreRefreshToken(ctx, refreshID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}

	tokenID := claims.ID
	if tokenID == "" {
		return "", apperrors.ErrTokenInvalid
	}

	storedUserID, storedEmail, err := s.sessionStore.GetRefreshToken(ctx, tokenID)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrTokenInvalid
	}

	// Reload the user so a deactivation between refreshes takes effect.
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return "", apperrors.ErrTokenInvalid
	}
	if !user.IsActive {
		return "", apperrors.ErrAccountInactive
	}

	accessID, accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	if err := s.sessionStore.SaveSession(ctx, accessID, user, auth.AccessTokenExpiry); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates the token pair. It is idempotent: unknown or already
// revoked tokens are ignored rather than reported.
func (s *authService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessID, err := s.jwtService.ExtractTokenID(accessToken); err == nil {
		_ = s.sessionStore.BlacklistAccessToken(ctx, accessID, auth.AccessTokenExpiry)
		_ = s.sessionStore.DeleteSession(ctx, accessID)
	}
	if refreshID, err := s.jwtService.ExtractTokenID(refreshToken); err == nil {
		_ = s.sessionStore.DeleteRefreshToken(ctx, refreshID)
	}
	return nil
}

// Me returns the current profile for a user ID.
func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// LookupAccount resolves an ID number to the account profile and issues a
// one-shot password reset token. The inherited contract returned the plaintext
// password here; only hashes are stored, so the reset token replaces it.
// See DESIGN.md for the rationale of this deliberate contract change.
func (s *authService) LookupAccount(ctx context.Context, idNumber string) (*model.User, string, error) {
	user, err := s.userRepo.FindByIDNumber(ctx, idNumber)
	if err != nil {
		return nil, "", apperrors.ErrUserNotFound
	}

	resetToken := uuid.New().String()
	if err := s.sessionStore.StoreResetToken(ctx, resetToken, user.ID, auth.ResetTokenExpiry); err != nil {
		return nil, "", fmt.Errorf("store reset token: %w", err)
	}

	return user, resetToken, nil
}

// ResetPassword consumes a one-shot reset token and sets a new password.
// An invalid or expired token and a weak password are distinct errors.
func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.ErrWeakPassword
	}

	userID, err := s.sessionStore.ConsumeResetToken(ctx, token)
	if err != nil {
		return apperrors.ErrResetTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return apperrors.ErrResetTokenInvalid
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
