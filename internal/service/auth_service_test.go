package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"homestay/internal/auth"
	apperrors "homestay/internal/errors"
	"homestay/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByIDNumber(ctx context.Context, idNumber string) (*model.User, error) {
	args := m.Called(ctx, idNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

// MockSessionStore is a mock implementation of SessionStoreInterface.
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) SaveSession(ctx context.Context, tokenID string, user *model.User, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, user, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetSession(ctx context.Context, tokenID string) (*model.User, error) {
	args := m.Called(ctx, tokenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockSessionStore) DeleteSession(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockSessionStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockSessionStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockSessionStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSessionStore) StoreResetToken(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	args := m.Called(ctx, token, userID, ttl)
	return args.Error(0)
}

func (m *MockSessionStore) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockSessionStore) PushSearchHistory(ctx context.Context, userID uuid.UUID, query string) error {
	args := m.Called(ctx, userID, query)
	return args.Error(0)
}

func (m *MockSessionStore) GetSearchHistory(ctx context.Context, userID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	userID := uuid.New()
	activeUser := func() *model.User {
		return &model.User{
			ID:           userID,
			FullName:     "Admin",
			Email:        "admin@homestay.com",
			PasswordHash: hashPassword(t, "password123"),
			Role:         model.RoleAdmin,
			IsActive:     true,
		}
	}

	tests := []struct {
		name      string
		email     string
		password  string
		setup     func(*MockUserRepository, *MockSessionStore)
		wantErr   error
		wantUser  bool
		wantToken bool
	}{
		{
			name:     "successful login",
			email:    "admin@homestay.com",
			password: "password123",
			setup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "admin@homestay.com").Return(activeUser(), nil)
				store.On("SaveSession", mock.Anything, mock.Anything, mock.Anything, auth.AccessTokenExpiry).Return(nil)
				store.On("StoreRefreshToken", mock.Anything, mock.Anything, userID, "admin@homestay.com", auth.RefreshTokenExpiry).Return(nil)
			},
			wantUser:  true,
			wantToken: true,
		},
		{
			name:     "wrong password",
			email:    "admin@homestay.com",
			password: "wrong",
			setup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "admin@homestay.com").Return(activeUser(), nil)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "unknown email",
			email:    "nobody@homestay.com",
			password: "password123",
			setup: func(repo *MockUserRepository, store *MockSessionStore) {
				repo.On("FindByEmail", mock.Anything, "nobody@homestay.com").Return(nil, gorm.ErrRecordNotFound)
			},
			wantErr: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "inactive account is distinct from bad credentials",
			email:    "admin@homestay.com",
			password: "password123",
			setup: func(repo *MockUserRepository, store *MockSessionStore) {
				user := activeUser()
				user.IsActive = false
				repo.On("FindByEmail", mock.Anything, "admin@homestay.com").Return(user, nil)
			},
			wantErr: apperrors.ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			store := new(MockSessionStore)
			tt.setup(repo, store)

			svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
			accessToken, refreshToken, user, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, accessToken)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.NotNil(t, user)
			}
			repo.AssertExpectations(t)
			store.AssertExpectations(t)
		})
	}
}

func TestAuthService_Register(t *testing.T) {
	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("FindByEmail", mock.Anything, "taken@homestay.com").Return(&model.User{Email: "taken@homestay.com"}, nil)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		_, _, _, err := svc.Register(context.Background(), RegisterInput{
			FullName: "Someone",
			Email:    "taken@homestay.com",
			Password: "password123",
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	})

	t.Run("short password rejected", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("FindByEmail", mock.Anything, "new@homestay.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		_, _, _, err := svc.Register(context.Background(), RegisterInput{
			FullName: "Someone",
			Email:    "new@homestay.com",
			Password: "short",
		})
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})

	t.Run("successful registration logs in", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		repo.On("FindByEmail", mock.Anything, "new@homestay.com").Return(nil, gorm.ErrRecordNotFound)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Email == "new@homestay.com" && u.Role == model.RoleCustomer && u.IsActive
		})).Return(nil)
		store.On("SaveSession", mock.Anything, mock.Anything, mock.Anything, auth.AccessTokenExpiry).Return(nil)
		store.On("StoreRefreshToken", mock.Anything, mock.Anything, mock.Anything, "new@homestay.com", auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		accessToken, refreshToken, user, err := svc.Register(context.Background(), RegisterInput{
			FullName: "Someone",
			Email:    "new@homestay.com",
			Password: "password123",
		})
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, model.RoleCustomer, user.Role)
		repo.AssertExpectations(t)
		store.AssertExpectations(t)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes both tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		jwtService := auth.NewJWTService("test-secret")

		user := &model.User{ID: uuid.New(), Email: "admin@homestay.com", Role: model.RoleAdmin, IsActive: true}
		accessID, accessToken, err := jwtService.GenerateAccessToken(user)
		assert.NoError(t, err)
		refreshID, refreshToken, err := jwtService.GenerateRefreshToken(user)
		assert.NoError(t, err)

		store.On("BlacklistAccessToken", mock.Anything, accessID, auth.AccessTokenExpiry).Return(nil)
		store.On("DeleteSession", mock.Anything, accessID).Return(nil)
		store.On("DeleteRefreshToken", mock.Anything, refreshID).Return(nil)

		svc := NewAuthService(repo, jwtService, store)
		assert.NoError(t, svc.Logout(context.Background(), accessToken, refreshToken))
		store.AssertExpectations(t)
	})

	t.Run("idempotent with garbage tokens", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		assert.NoError(t, svc.Logout(context.Background(), "not-a-token", "also-not-a-token"))
		store.AssertNotCalled(t, "BlacklistAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("weak password reported before token consumption", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		err := svc.ResetPassword(context.Background(), "some-token", "short")
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
		store.AssertNotCalled(t, "ConsumeResetToken", mock.Anything, mock.Anything)
	})

	t.Run("invalid token distinct from weak password", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		store.On("ConsumeResetToken", mock.Anything, "bad-token").Return(uuid.Nil, assert.AnError)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		err := svc.ResetPassword(context.Background(), "bad-token", "longenough")
		assert.ErrorIs(t, err, apperrors.ErrResetTokenInvalid)
	})

	t.Run("valid token updates the hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		store := new(MockSessionStore)
		userID := uuid.New()
		user := &model.User{ID: userID, Email: "admin@homestay.com", PasswordHash: hashPassword(t, "oldpassword")}

		store.On("ConsumeResetToken", mock.Anything, "good-token").Return(userID, nil)
		repo.On("FindByID", mock.Anything, userID).Return(user, nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpassword")) == nil
		})).Return(nil)

		svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
		assert.NoError(t, svc.ResetPassword(context.Background(), "good-token", "newpassword"))
		repo.AssertExpectations(t)
	})
}

func TestAuthService_LookupAccount(t *testing.T) {
	repo := new(MockUserRepository)
	store := new(MockSessionStore)
	userID := uuid.New()
	user := &model.User{ID: userID, FullName: "Admin", Email: "admin@homestay.com", IDNumber: "123456789"}

	repo.On("FindByIDNumber", mock.Anything, "123456789").Return(user, nil)
	store.On("StoreResetToken", mock.Anything, mock.Anything, userID, auth.ResetTokenExpiry).Return(nil)

	svc := NewAuthService(repo, auth.NewJWTService("test-secret"), store)
	found, resetToken, err := svc.LookupAccount(context.Background(), "123456789")
	assert.NoError(t, err)
	assert.Equal(t, "admin@homestay.com", found.Email)
	assert.NotEmpty(t, resetToken)
	store.AssertExpectations(t)
}
