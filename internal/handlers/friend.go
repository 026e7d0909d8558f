package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"comall/internal/models"
	"comall/internal/repositories"
	"comall/internal/telemetry"
)

// FriendHandler manages the friend-request ledger and friendship graph
// endpoints.
type FriendHandler struct {
	users   repositories.UserRepository
	friends repositories.FriendRepository
	audit   *telemetry.AuditEmitter
}

// NewFriendHandler builds a FriendHandler.
func NewFriendHandler(users repositories.UserRepository, friends repositories.FriendRepository, audit *telemetry.AuditEmitter) *FriendHandler {
	return &FriendHandler{users: users, friends: friends, audit: audit}
}

type sendRequestBody struct {
	FromUserID string `json:"fromUserId" binding:"required"`
	ToUserID   string `json:"toUserId" binding:"required"`
}

type requestResponse struct {
	ID         string `json:"id"`
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	Status     string `json:"status"`
}

// SendFriendRequest records a pending request between two users.
func (h *FriendHandler) SendFriendRequest(c *gin.Context) {
	var req sendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both fromUserId and toUserId are required"})
		return
	}

	if _, err := h.users.GetUser(c.Request.Context(), req.ToUserID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
		return
	}

	_, err := h.friends.SendRequest(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSelfRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot send a friend request to yourself"})
		case errors.Is(err, repositories.ErrRequestExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "friend request already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send friend request"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "friend request sent"})
}

// ListPendingRequests returns pending requests addressed to the user.
func (h *FriendHandler) ListPendingRequests(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	reqs, err := h.friends.ListPending(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch friend requests"})
		return
	}

	responses := make([]requestResponse, 0, len(reqs))
	for _, r := range reqs {
		responses = append(responses, requestResponse{
			ID:         r.ID,
			FromUserID: r.FromUserID,
			ToUserID:   r.ToUserID,
			Status:     r.Status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "requests": responses})
}

// AcceptFriendRequest accepts the pending request between the caller
// and the counterpart, establishing the friendship in both directions.
func (h *FriendHandler) AcceptFriendRequest(c *gin.Context) {
	friendUserID := c.Query("friendUserId")
	userID := c.Query("userId")
	if friendUserID == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both userId and friendUserId are required"})
		return
	}

	user, friend, ok := h.lookupPair(c, userID, friendUserID)
	if !ok {
		return
	}

	if err := h.friends.Accept(c.Request.Context(), user, friend); err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no pending friend request found to accept"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to accept friend request"})
		return
	}

	h.audit.Emit(c.Request.Context(), "friend_accept",
		fmt.Sprintf("friendship established between %s and %s", user.Username, friend.Username),
		requestIDFromContext(c), &user.ID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("friendship established between %s and %s", user.Username, friend.Username),
	})
}

// RejectFriendRequest declines the pending request between the caller
// and the counterpart.
func (h *FriendHandler) RejectFriendRequest(c *gin.Context) {
	friendUserID := c.Query("friendUserId")
	userID := c.Query("userId")
	if friendUserID == "" || userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both userId and friendUserId are required"})
		return
	}

	if _, _, ok := h.lookupPair(c, userID, friendUserID); !ok {
		return
	}

	if err := h.friends.Reject(c.Request.Context(), userID, friendUserID); err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no pending friend request found to reject"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to reject friend request"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "friend request rejected"})
}

// ListFriends returns the friendship snapshots stored under the user.
func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	friends, err := h.friends.ListFriends(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch friends"})
		return
	}
	if friends == nil {
		friends = []models.FriendSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "friends": friends})
}

// lookupPair fetches both users and writes the response when either is
// missing. A missing user is reported with success:false, not an HTTP
// error status.
func (h *FriendHandler) lookupPair(c *gin.Context, userID, friendUserID string) (models.User, models.User, bool) {
	user, err := h.users.GetUser(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return models.User{}, models.User{}, false
	}
	friend, ferr := h.users.GetUser(c.Request.Context(), friendUserID)
	if ferr != nil && !errors.Is(ferr, repositories.ErrUserNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch users"})
		return models.User{}, models.User{}, false
	}
	if err != nil || ferr != nil {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "one or both users not found"})
		return models.User{}, models.User{}, false
	}
	return user, friend, true
}
