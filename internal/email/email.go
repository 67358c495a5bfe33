package email

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fridgeshare/internal/config"
	"fridgeshare/internal/logger"
	"fridgeshare/internal/models"

	"github.com/mailgun/mailgun-go/v5"
)

var ErrDisabled = errors.New("email service is not configured")

type Service struct {
	client      mailgun.Mailgun
	domain      string
	senderEmail string
	senderName  string
	publicURL   string
	enabled     bool
}

func NewService(cfg *config.Config) *Service {
	enabled := cfg.MailgunDomain != "" && cfg.MailgunAPIKey != ""

	var client mailgun.Mailgun
	if enabled {
		client = mailgun.NewMailgun(cfg.MailgunAPIKey)
	}

	return &Service{
		client:      client,
		domain:      cfg.MailgunDomain,
		senderEmail: cfg.MailgunSenderEmail,
		senderName:  cfg.MailgunSenderName,
		publicURL:   cfg.PublicURL,
		enabled:     enabled,
	}
}

func (s *Service) IsEnabled() bool {
	return s.enabled
}

// InvitationURL is the link a recipient follows to join the fridge.
func (s *Service) InvitationURL(invitation *models.Invitation) string {
	return fmt.Sprintf("%s/invitations/%s", s.publicURL, invitation.Slug)
}

// SendInvitationEmail mails the join link for invitation to recipient.
func (s *Service) SendInvitationEmail(ctx context.Context, inviter *models.User, fridge *models.Fridge, invitation *models.Invitation, recipient string) error {
	if !s.enabled {
		return ErrDisabled
	}

	link := s.InvitationURL(invitation)
	subject := fmt.Sprintf("%s invited you to share the fridge %q", inviter.Username, fridge.Name)

	message := mailgun.NewMessage(
		s.domain,
		fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail),
		subject,
		invitationText(inviter, fridge, link),
		recipient,
	)
	message.SetHTML(invitationHTML(inviter, fridge, link))

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	resp, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send invitation email: %w", err)
	}

	logger.Info("Invitation email sent",
		"email", recipient,
		"fridge_id", fridge.ID,
		"message_id", resp)
	return nil
}
