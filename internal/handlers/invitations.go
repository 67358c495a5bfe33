package handlers

import (
	"database/sql"
	"net/http"
	"strings"

	"fridgeshare/internal/database"
	"fridgeshare/internal/email"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/middleware"
	"fridgeshare/internal/models"

	"github.com/gin-gonic/gin"
)

type invitationRequest struct {
	Email string `json:"email"`
}

type invitationResponse struct {
	*models.Invitation
	URL       string `json:"url"`
	EmailSent bool   `json:"email_sent"`
}

func handleCreateInvitation(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	service := c.MustGet("email_service").(*email.Service)
	fridgeID := middleware.FridgeID(c)

	var req invitationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, invalid("Invalid request body"))
			return
		}
	}
	recipient := strings.TrimSpace(req.Email)
	if recipient != "" && !emailRegex.MatchString(recipient) {
		respondError(c, invalid("Please enter a valid email address"))
		return
	}

	invitation, err := database.CreateInvitation(db, fridgeID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := invitationResponse{Invitation: invitation, URL: service.InvitationURL(invitation)}

	if recipient != "" && service.IsEnabled() {
		resp.EmailSent = sendInvitation(c, db, service, invitation, recipient)
	}

	c.JSON(http.StatusCreated, resp)
}

// sendInvitation mails the link. Failures are logged; the invitation stays
// valid and its URL is still returned.
func sendInvitation(c *gin.Context, db *sql.DB, service *email.Service, invitation *models.Invitation, recipient string) bool {
	inviter := c.MustGet("user").(*models.User)

	fridge, err := database.GetFridge(db, invitation.FridgeID)
	if err != nil {
		logger.Warn("Failed to load fridge for invitation email", "fridge_id", invitation.FridgeID, "error", err)
		return false
	}

	if err := service.SendInvitationEmail(c.Request.Context(), inviter, fridge, invitation, recipient); err != nil {
		logger.Warn("Failed to send invitation email",
			"email", recipient,
			"fridge_id", invitation.FridgeID,
			"error", err)
		return false
	}
	return true
}

func handleListInvitations(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	invitations, err := database.ListInvitations(db, middleware.FridgeID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitations)
}

func handleGetInvitation(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)
	service := c.MustGet("email_service").(*email.Service)

	invitationID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	invitation, err := database.GetInvitation(db, middleware.FridgeID(c), invitationID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, invitationResponse{Invitation: invitation, URL: service.InvitationURL(invitation)})
}

// handleAcceptInvitation joins the caller to the invitation's fridge. The
// slug itself is the credential so no membership check applies.
func handleAcceptInvitation(c *gin.Context) {
	db := c.MustGet("db").(*sql.DB)

	fridge, err := database.RedeemInvitation(db, c.Param("slug"), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, fridge)
}
