package service

import (
	"context"
	"testing"

	"shopping-ledger/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	args := m.Called(ctx, id)
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

func (m *MockUserRepository) Create(ctx context.Context, username, passwordHash string) (*model.User, error) {
	args := m.Called(ctx, username, passwordHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func TestAuthService_Authenticate(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
	require.NoError(t, err)

	testUser := &model.User{ID: 1, Username: "alex", PasswordHash: string(hash)}

	tests := []struct {
		name        string
		username    string
		password    string
		mockReturn  *model.User
		mockError   error
		expectError bool
	}{
		{
			name:       "Success",
			username:   "alex",
			password:   "correct-password",
			mockReturn: testUser,
		},
		{
			name:        "Wrong password",
			username:    "alex",
			password:    "wrong-password",
			mockReturn:  testUser,
			expectError: true,
		},
		{
			name:        "Unknown user",
			username:    "nobody",
			password:    "correct-password",
			mockError:   model.ErrNotFound,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			service := NewAuthService(mockRepo, logger)

			mockRepo.On("FindByUsername", ctx, tt.username).Return(tt.mockReturn, tt.mockError)

			user, err := service.Authenticate(ctx, tt.username, tt.password)

			if tt.expectError {
				// Unknown users and bad passwords look identical to the caller.
				require.Error(t, err)
				assert.Equal(t, model.ErrInvalidCredentials, err)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, testUser, user)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}
