package handlers

import (
	ws "github.com/coder/websocket"
	"github.com/gin-gonic/gin"

	apperrors "cashflow/internal/errors"
	"cashflow/internal/logger"
	"cashflow/internal/realtime"
	"cashflow/internal/services"
	"cashflow/internal/uuid"
)

// RealtimeHandler upgrades authenticated members to the realtime change feed.
type RealtimeHandler struct {
	hub        *realtime.Hub
	membership services.MembershipServicer
}

// NewRealtimeHandler creates a new RealtimeHandler.
func NewRealtimeHandler(hub *realtime.Hub, membership services.MembershipServicer) *RealtimeHandler {
	return &RealtimeHandler{hub: hub, membership: membership}
}

// Subscribe upgrades the connection to a WebSocket scoped to one household.
// Membership is checked before the upgrade, so a non-member never holds a
// socket. Auth rides on the access_token query parameter because browsers
// cannot set headers on WebSocket requests.
// @Summary     Subscribe to household changes
// @Description Open a WebSocket feed of line-item change events for a household
// @Tags        realtime
// @Security    BearerAuth
// @Param       household_id query string true "Household ID"
// @Success     101 "Switching protocols"
// @Failure     400 {object} ErrorResponse "Invalid household ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Not a member"
// @Router      /ws [get]
func (h *RealtimeHandler) Subscribe(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	householdID := c.Query("household_id")
	if !uuid.IsValid(householdID) {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid household_id"))
		return
	}

	if err := h.membership.RequireMember(householdID, userID); err != nil {
		respondWithError(c, err)
		return
	}

	conn, err := ws.Accept(c.Writer, c.Request, nil)
	if err != nil {
		logger.Get().Warnw("websocket upgrade failed",
			"household_id", householdID, "error", err)
		return
	}
	defer conn.Close(ws.StatusInternalError, "connection closed")

	client := realtime.NewClient(h.hub, conn, householdID)
	client.Run(c.Request.Context())

	conn.Close(ws.StatusNormalClosure, "")
}
