package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"comall/internal/mocks"
	"comall/internal/models"
	"comall/internal/repositories"
)

func setupFriendRouter(handler *FriendHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/comall/send-friend-request", handler.SendFriendRequest)
	r.GET("/comall/pending-friend-requests", handler.ListPendingRequests)
	r.GET("/comall/accept-friend-request", handler.AcceptFriendRequest)
	r.GET("/comall/reject-friend-request", handler.RejectFriendRequest)
	r.GET("/comall/myfriends", handler.ListFriends)
	return r
}

func TestSendFriendRequestSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "u2").Return(models.User{ID: "u2"}, nil).Once()
	friends.On("SendRequest", mock.Anything, "u1", "u2").
		Return(models.FriendRequest{ID: "r1", FromUserID: "u1", ToUserID: "u2", Status: models.RequestPending}, nil).Once()

	body := bytes.NewBufferString(`{"fromUserId":"u1","toUserId":"u2"}`)
	req := httptest.NewRequest(http.MethodPost, "/comall/send-friend-request", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
	friends.AssertExpectations(t)
}

// A reversed request for an already-related pair must fail as a
// duplicate: the ledger keys requests on the unordered pair.
func TestSendFriendRequestReversedDuplicate(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "u1").Return(models.User{ID: "u1"}, nil).Once()
	friends.On("SendRequest", mock.Anything, "u2", "u1").
		Return(models.FriendRequest{}, repositories.ErrRequestExists).Once()

	body := bytes.NewBufferString(`{"fromUserId":"u2","toUserId":"u1"}`)
	req := httptest.NewRequest(http.MethodPost, "/comall/send-friend-request", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	friends.AssertExpectations(t)
}

func TestSendFriendRequestToSelf(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "u1").Return(models.User{ID: "u1"}, nil).Once()
	friends.On("SendRequest", mock.Anything, "u1", "u1").
		Return(models.FriendRequest{}, repositories.ErrSelfRequest).Once()

	body := bytes.NewBufferString(`{"fromUserId":"u1","toUserId":"u1"}`)
	req := httptest.NewRequest(http.MethodPost, "/comall/send-friend-request", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendFriendRequestUnknownRecipient(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewFriendHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "ghost").Return(models.User{}, repositories.ErrUserNotFound).Once()

	body := bytes.NewBufferString(`{"fromUserId":"u1","toUserId":"ghost"}`)
	req := httptest.NewRequest(http.MethodPost, "/comall/send-friend-request", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPendingRequestsMissingUserID(t *testing.T) {
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), new(mocks.FriendRepositoryMock), nil)
	router := setupFriendRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/comall/pending-friend-requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPendingRequestsSuccess(t *testing.T) {
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), friends, nil)
	router := setupFriendRouter(handler)

	friends.On("ListPending", mock.Anything, "u2").
		Return([]models.FriendRequest{{ID: "r1", FromUserID: "u1", ToUserID: "u2", Status: models.RequestPending}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/pending-friend-requests?userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success  bool              `json:"success"`
		Requests []requestResponse `json:"requests"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Requests, 1)
	assert.Equal(t, "u1", resp.Requests[0].FromUserID)
	assert.Equal(t, models.RequestPending, resp.Requests[0].Status)
	friends.AssertExpectations(t)
}

func TestAcceptFriendRequestSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	user := models.User{ID: "u2", Username: "bob"}
	friend := models.User{ID: "u1", Username: "alice"}
	users.On("GetUser", mock.Anything, "u2").Return(user, nil).Once()
	users.On("GetUser", mock.Anything, "u1").Return(friend, nil).Once()
	friends.On("Accept", mock.Anything, user, friend).Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/accept-friend-request?friendUserId=u1&userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, true, resp["success"])
	users.AssertExpectations(t)
	friends.AssertExpectations(t)
}

// Accepting a request that was already accepted fails: the record is no
// longer pending.
func TestAcceptFriendRequestAlreadyAccepted(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	user := models.User{ID: "u2", Username: "bob"}
	friend := models.User{ID: "u1", Username: "alice"}
	users.On("GetUser", mock.Anything, "u2").Return(user, nil).Once()
	users.On("GetUser", mock.Anything, "u1").Return(friend, nil).Once()
	friends.On("Accept", mock.Anything, user, friend).Return(repositories.ErrNoPendingRequest).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/accept-friend-request?friendUserId=u1&userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	friends.AssertExpectations(t)
}

func TestAcceptFriendRequestUserMissing(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	handler := NewFriendHandler(users, new(mocks.FriendRepositoryMock), nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "u2").Return(models.User{ID: "u2"}, nil).Once()
	users.On("GetUser", mock.Anything, "ghost").Return(models.User{}, repositories.ErrUserNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/accept-friend-request?friendUserId=ghost&userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Equal(t, false, resp["success"])
	users.AssertExpectations(t)
}

func TestAcceptFriendRequestMissingParams(t *testing.T) {
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), new(mocks.FriendRepositoryMock), nil)
	router := setupFriendRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/comall/accept-friend-request?userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRejectFriendRequestSuccess(t *testing.T) {
	users := new(mocks.UserRepositoryMock)
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(users, friends, nil)
	router := setupFriendRouter(handler)

	users.On("GetUser", mock.Anything, "u2").Return(models.User{ID: "u2"}, nil).Once()
	users.On("GetUser", mock.Anything, "u1").Return(models.User{ID: "u1"}, nil).Once()
	friends.On("Reject", mock.Anything, "u2", "u1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/reject-friend-request?friendUserId=u1&userId=u2", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	friends.AssertExpectations(t)
}

func TestListFriendsEmpty(t *testing.T) {
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), friends, nil)
	router := setupFriendRouter(handler)

	friends.On("ListFriends", mock.Anything, "u1").Return(([]models.FriendSummary)(nil), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/myfriends?userId=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Success bool                   `json:"success"`
		Friends []models.FriendSummary `json:"friends"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Friends)
	require.Empty(t, resp.Friends)
	friends.AssertExpectations(t)
}

func TestListFriendsMissingUserID(t *testing.T) {
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), new(mocks.FriendRepositoryMock), nil)
	router := setupFriendRouter(handler)

	req := httptest.NewRequest(http.MethodGet, "/comall/myfriends", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListFriendsSuccess(t *testing.T) {
	friends := new(mocks.FriendRepositoryMock)
	handler := NewFriendHandler(new(mocks.UserRepositoryMock), friends, nil)
	router := setupFriendRouter(handler)

	friends.On("ListFriends", mock.Anything, "u1").
		Return([]models.FriendSummary{{OwnerID: "u1", FriendID: "u2", Username: "bob"}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/comall/myfriends?userId=u1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Friends []struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"friends"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Friends, 1)
	assert.Equal(t, "u2", resp.Friends[0].ID)
	assert.Equal(t, "bob", resp.Friends[0].Username)
	friends.AssertExpectations(t)
}
