package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comall/internal/models"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) CreateUser(ctx context.Context, name, username, email, mobile, passwordHash string) (models.User, error) {
	args := m.Called(ctx, name, username, email, mobile, passwordHash)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (models.User, error) {
	args := m.Called(ctx, usernameOrEmail)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, event any) error {
	args := m.Called(ctx, routingKey, event)
	return args.Error(0)
}

func (m *PublisherMock) Close() error {
	args := m.Called()
	return args.Error(0)
}

type FriendRepositoryMock struct {
	mock.Mock
}

func (m *FriendRepositoryMock) SendRequest(ctx context.Context, fromUserID, toUserID string) (models.FriendRequest, error) {
	args := m.Called(ctx, fromUserID, toUserID)
	var req models.FriendRequest
	if val := args.Get(0); val != nil {
		req = val.(models.FriendRequest)
	}
	return req, args.Error(1)
}

func (m *FriendRepositoryMock) ListPending(ctx context.Context, userID string) ([]models.FriendRequest, error) {
	args := m.Called(ctx, userID)
	var reqs []models.FriendRequest
	if val := args.Get(0); val != nil {
		reqs = val.([]models.FriendRequest)
	}
	return reqs, args.Error(1)
}

func (m *FriendRepositoryMock) Accept(ctx context.Context, user, friend models.User) error {
	args := m.Called(ctx, user, friend)
	return args.Error(0)
}

func (m *FriendRepositoryMock) Reject(ctx context.Context, byUserID, counterpartID string) error {
	args := m.Called(ctx, byUserID, counterpartID)
	return args.Error(0)
}

func (m *FriendRepositoryMock) ListFriends(ctx context.Context, userID string) ([]models.FriendSummary, error) {
	args := m.Called(ctx, userID)
	var friends []models.FriendSummary
	if val := args.Get(0); val != nil {
		friends = val.([]models.FriendSummary)
	}
	return friends, args.Error(1)
}
