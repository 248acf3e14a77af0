package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Towet-Tum/Authentications/internal/audit"
	"github.com/Towet-Tum/Authentications/internal/auth"
	apperrors "github.com/Towet-Tum/Authentications/internal/errors"
	"github.com/Towet-Tum/Authentications/internal/model"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
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

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

// memoryTokenStore is an in-memory TokenStoreInterface for exercising
// the issue/refresh/revoke lifecycle without a database.
type memoryTokenStore struct {
	issued  map[string]time.Time
	revoked map[string]bool
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{
		issued:  make(map[string]time.Time),
		revoked: make(map[string]bool),
	}
}

func (s *memoryTokenStore) RecordIssued(ctx context.Context, jti string, userID uint, issuedAt, expiresAt time.Time) error {
	s.issued[jti] = expiresAt
	return nil
}

func (s *memoryTokenStore) Revoke(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	if s.revoked[jti] {
		return apperrors.ErrTokenRevoked
	}
	s.revoked[jti] = true
	return nil
}

func (s *memoryTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.revoked[jti], nil
}

func newTestService(userRepo *MockUserRepository) (AuthService, *memoryTokenStore) {
	jwtService := auth.NewJWTService("test-secret", 0, 0)
	store := newMemoryTokenStore()
	return NewAuthService(userRepo, jwtService, store, audit.NopRecorder{}), store
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name: "successful registration",
			input: RegisterInput{
				Username: "newuser",
				Email:    "newuser@example.com",
				Password: "newstrongpassword",
				Role:     model.RoleTenant,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "newuser@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "newuser").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name: "duplicate email",
			input: RegisterInput{
				Username: "other",
				Email:    "taken@example.com",
				Password: "password123",
				Role:     model.RoleTenant,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "taken@example.com").Return(&model.User{Email: "taken@example.com"}, nil)
			},
			expectedError: apperrors.ErrUserExists,
		},
		{
			name: "duplicate username",
			input: RegisterInput{
				Username: "taken",
				Email:    "fresh@example.com",
				Password: "password123",
				Role:     model.RoleLandlord,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "fresh@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "taken").Return(&model.User{Username: "taken"}, nil)
			},
			expectedError: apperrors.ErrUserExists,
		},
		{
			name: "duplicate slips past pre-check",
			input: RegisterInput{
				Username: "racer",
				Email:    "racer@example.com",
				Password: "password123",
				Role:     model.RoleTenant,
			},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "racer@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("FindByUsername", mock.Anything, "racer").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrUserExists,
		},
		{
			name: "invalid role",
			input: RegisterInput{
				Username: "roleless",
				Email:    "roleless@example.com",
				Password: "password123",
				Role:     "superuser",
			},
			setupMock:     func(m *MockUserRepository) {},
			expectedError: apperrors.ErrInvalidRole,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tt.setupMock(userRepo)
			svc, _ := newTestService(userRepo)

			user, pair, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Nil(t, pair)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.input.Username, user.Username)
				assert.Equal(t, tt.input.Role, user.Role)
				assert.NotEmpty(t, pair.Access)
				assert.NotEmpty(t, pair.Refresh)
				// Password must be stored hashed, never verbatim.
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("strongpassword123"), bcryptCost)
	assert.NoError(t, err)
	stored := &model.User{
		ID:           1,
		Username:     "testuser",
		Email:        "testuser@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleTenant,
	}

	t.Run("successful login", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "testuser@example.com").Return(stored, nil)
		svc, _ := newTestService(userRepo)

		user, pair, err := svc.Login(context.Background(), "testuser@example.com", "strongpassword123")
		assert.NoError(t, err)
		assert.Equal(t, "testuser", user.Username)
		assert.NotEmpty(t, pair.Access)
		assert.NotEmpty(t, pair.Refresh)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "testuser@example.com").Return(stored, nil)
		svc, _ := newTestService(userRepo)

		_, _, err := svc.Login(context.Background(), "testuser@example.com", "wrongpassword")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)
		svc, _ := newTestService(userRepo)

		_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func registeredPair(t *testing.T) (AuthService, *TokenPair) {
	t.Helper()
	userRepo := new(MockUserRepository)
	userRepo.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
	svc, _ := newTestService(userRepo)

	_, pair, err := svc.Register(context.Background(), RegisterInput{
		Username: "testuser",
		Email:    "testuser@example.com",
		Password: "strongpassword123",
		Role:     model.RoleTenant,
	})
	assert.NoError(t, err)
	return svc, pair
}

func TestAuthService_Refresh(t *testing.T) {
	t.Run("valid refresh token yields new access token", func(t *testing.T) {
		svc, pair := registeredPair(t)

		access, err := svc.Refresh(context.Background(), pair.Refresh)
		assert.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NoError(t, svc.Verify(context.Background(), access))
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := registeredPair(t)

		_, err := svc.Refresh(context.Background(), "invalidtoken")
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		svc, pair := registeredPair(t)

		_, err := svc.Refresh(context.Background(), pair.Access)
		assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	})

	t.Run("blacklisted token", func(t *testing.T) {
		svc, pair := registeredPair(t)

		assert.NoError(t, svc.Logout(context.Background(), pair.Refresh))
		_, err := svc.Refresh(context.Background(), pair.Refresh)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})
}

func TestAuthService_Verify(t *testing.T) {
	t.Run("fresh access token", func(t *testing.T) {
		svc, pair := registeredPair(t)
		assert.NoError(t, svc.Verify(context.Background(), pair.Access))
	})

	t.Run("fresh refresh token", func(t *testing.T) {
		svc, pair := registeredPair(t)
		assert.NoError(t, svc.Verify(context.Background(), pair.Refresh))
	})

	t.Run("garbage token", func(t *testing.T) {
		svc, _ := registeredPair(t)
		assert.ErrorIs(t, svc.Verify(context.Background(), "invalidtoken"), apperrors.ErrInvalidToken)
	})

	t.Run("revoked refresh token", func(t *testing.T) {
		svc, pair := registeredPair(t)
		assert.NoError(t, svc.Logout(context.Background(), pair.Refresh))
		assert.ErrorIs(t, svc.Verify(context.Background(), pair.Refresh), apperrors.ErrTokenRevoked)
	})
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revocation invalidates refresh and verify", func(t *testing.T) {
		svc, pair := registeredPair(t)

		assert.NoError(t, svc.Logout(context.Background(), pair.Refresh))

		_, err := svc.Refresh(context.Background(), pair.Refresh)
		assert.Error(t, err)
		assert.Error(t, svc.Verify(context.Background(), pair.Refresh))
	})

	t.Run("second revocation reports invalid, not success", func(t *testing.T) {
		svc, pair := registeredPair(t)

		assert.NoError(t, svc.Logout(context.Background(), pair.Refresh))
		assert.ErrorIs(t, svc.Logout(context.Background(), pair.Refresh), apperrors.ErrTokenRevoked)
	})

	t.Run("malformed token", func(t *testing.T) {
		svc, _ := registeredPair(t)
		assert.ErrorIs(t, svc.Logout(context.Background(), "invalidtoken"), apperrors.ErrInvalidToken)
	})

	t.Run("access token cannot be revoked", func(t *testing.T) {
		svc, pair := registeredPair(t)
		assert.ErrorIs(t, svc.Logout(context.Background(), pair.Access), apperrors.ErrInvalidToken)
	})

	t.Run("non-numeric id claim", func(t *testing.T) {
		svc, _ := registeredPair(t)

		// Well-signed refresh token whose id claim is not a user id.
		now := time.Now()
		claims := &auth.Claims{
			TokenType: auth.TokenTypeRefresh,
			Role:      model.RoleTenant,
			Email:     "testuser@example.com",
			UserID:    "not-a-number",
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        "forged-jti",
				Subject:   "not-a-number",
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
				IssuedAt:  jwt.NewNumericDate(now),
				NotBefore: jwt.NewNumericDate(now),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		assert.NoError(t, err)

		assert.ErrorIs(t, svc.Logout(context.Background(), forged), apperrors.ErrInvalidToken)
	})
}
