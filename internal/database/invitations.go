package database

import (
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"fridgeshare/internal/logger"
	"fridgeshare/internal/models"
)

const (
	slugCharset     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_-"
	slugLength      = 32
	maxSlugAttempts = 10
)

// ErrSlugSpaceExhausted is returned when every generated slug collided with
// an existing invitation.
var ErrSlugSpaceExhausted = errors.New("could not generate a unique invitation slug")

// newSlug draws one candidate slug. Tests swap it to force collisions.
var newSlug = randomSlug

func randomSlug() (string, error) {
	b := make([]byte, slugLength)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(slugCharset))))
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		b[i] = slugCharset[num.Int64()]
	}
	return string(b), nil
}

func generateUniqueSlug(q queryer) (string, error) {
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := newSlug()
		if err != nil {
			return "", err
		}

		var exists bool
		err = q.QueryRow("SELECT EXISTS(SELECT 1 FROM invitations WHERE slug = ?)", slug).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("failed to check slug existence: %w", err)
		}

		if !exists {
			return slug, nil
		}
	}

	return "", fmt.Errorf("%w after %d attempts", ErrSlugSpaceExhausted, maxSlugAttempts)
}

func CreateInvitation(db *sql.DB, fridgeID int) (*models.Invitation, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	slug, err := generateUniqueSlug(tx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result, err := tx.Exec(`INSERT INTO invitations (slug, fridge_id, created_at) VALUES (?, ?, ?)`, slug, fridgeID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get invitation ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invitation: %w", err)
	}

	return &models.Invitation{
		ID:        int(id),
		Slug:      slug,
		FridgeID:  fridgeID,
		CreatedAt: now,
	}, nil
}

func GetInvitation(db *sql.DB, fridgeID, invitationID int) (*models.Invitation, error) {
	invitation := &models.Invitation{}
	query := `SELECT id, slug, fridge_id, created_at FROM invitations WHERE id = ? AND fridge_id = ?`

	err := db.QueryRow(query, invitationID, fridgeID).Scan(
		&invitation.ID,
		&invitation.Slug,
		&invitation.FridgeID,
		&invitation.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("invitation")
		}
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}

	return invitation, nil
}

func ListInvitations(db *sql.DB, fridgeID int) ([]models.Invitation, error) {
	rows, err := db.Query(`SELECT id, slug, fridge_id, created_at FROM invitations WHERE fridge_id = ? ORDER BY created_at DESC`, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.Slug, &inv.FridgeID, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}

	return invitations, rows.Err()
}

// RedeemInvitation adds userID to the invitation's fridge and consumes the
// invitation. A user who is already a member still consumes it.
func RedeemInvitation(db *sql.DB, slug string, userID int) (*models.Fridge, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var invitationID, fridgeID int
	err = tx.QueryRow(`SELECT id, fridge_id FROM invitations WHERE slug = ?`, slug).Scan(&invitationID, &fridgeID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("invitation")
		}
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}

	if err := addFridgeMember(tx, fridgeID, userID); err != nil {
		return nil, err
	}

	result, err := tx.Exec(`DELETE FROM invitations WHERE id = ?`, invitationID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume invitation: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	} else if n == 0 {
		return nil, notFound("invitation")
	}

	fridge, err := getFridge(tx, fridgeID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit invitation: %w", err)
	}

	logger.Info("Invitation redeemed", "fridge_id", fridgeID, "user_id", userID, "slug", slug)

	return fridge, nil
}

// InvitationFridgeID resolves an invitation id to its fridge.
func InvitationFridgeID(db *sql.DB, invitationID int) (int, error) {
	return owningFridgeID(db, `SELECT fridge_id FROM invitations WHERE id = ?`, "invitation", invitationID)
}
