package database

import (
	"database/sql"
	"fmt"
	"time"

	"fridgeshare/internal/models"
)

// CreateFridge creates a fridge and adds its creator as the first member.
func CreateFridge(db *sql.DB, userID int, name string) (*models.Fridge, error) {
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`INSERT INTO fridges (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create fridge: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get fridge ID: %w", err)
	}

	if err := addFridgeMember(tx, int(id), userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit fridge: %w", err)
	}

	return &models.Fridge{
		ID:        int(id),
		Name:      name,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}, nil
}

func ListFridgesForUser(db *sql.DB, userID int) ([]models.Fridge, error) {
	query := `
		SELECT f.id, f.name, f.created_at, f.updated_at
		FROM fridges f
		INNER JOIN fridge_members m ON m.fridge_id = f.id
		WHERE m.user_id = ?
		ORDER BY f.name
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fridges: %w", err)
	}
	defer rows.Close()

	fridges := []models.Fridge{}
	for rows.Next() {
		var fridge models.Fridge
		if err := rows.Scan(&fridge.ID, &fridge.Name, &fridge.CreatedAt, &fridge.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fridge: %w", err)
		}
		fridges = append(fridges, fridge)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fridges: %w", err)
	}

	return fridges, nil
}

// GetFridge loads a fridge together with its members.
func GetFridge(db *sql.DB, fridgeID int) (*models.Fridge, error) {
	fridge, err := getFridge(db, fridgeID)
	if err != nil {
		return nil, err
	}

	members, err := ListFridgeMembers(db, fridgeID)
	if err != nil {
		return nil, err
	}
	fridge.Members = members

	return fridge, nil
}

func getFridge(q queryer, fridgeID int) (*models.Fridge, error) {
	fridge := &models.Fridge{}
	query := `
		SELECT id, name, created_at, updated_at
		FROM fridges
		WHERE id = ?
	`

	err := q.QueryRow(query, fridgeID).Scan(&fridge.ID, &fridge.Name, &fridge.CreatedAt, &fridge.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("fridge")
		}
		return nil, fmt.Errorf("failed to query fridge: %w", err)
	}

	return fridge, nil
}

func ListFridgeMembers(db *sql.DB, fridgeID int) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.created_at, u.updated_at
		FROM users u
		INNER JOIN fridge_members m ON m.user_id = u.id
		WHERE m.fridge_id = ?
		ORDER BY u.username
	`

	rows, err := db.Query(query, fridgeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query fridge members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fridge member: %w", err)
		}
		members = append(members, user)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fridge members: %w", err)
	}

	return members, nil
}

func UpdateFridge(db *sql.DB, fridgeID int, name string) error {
	query := `
		UPDATE fridges
		SET name = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`

	result, err := db.Exec(query, name, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to update fridge: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("fridge")
	}

	return nil
}

// DeleteFridge removes the fridge; foreign keys cascade to everything it owns.
func DeleteFridge(db *sql.DB, fridgeID int) error {
	result, err := db.Exec(`DELETE FROM fridges WHERE id = ?`, fridgeID)
	if err != nil {
		return fmt.Errorf("failed to delete fridge: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return notFound("fridge")
	}

	return nil
}

func FridgeExists(db *sql.DB, fridgeID int) (bool, error) {
	var exists bool
	err := db.QueryRow(`SELECT EXISTS(SELECT 1 FROM fridges WHERE id = ?)`, fridgeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check fridge existence: %w", err)
	}
	return exists, nil
}

func IsFridgeMember(db *sql.DB, fridgeID, userID int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM fridge_members WHERE fridge_id = ? AND user_id = ?)`
	if err := db.QueryRow(query, fridgeID, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check fridge membership: %w", err)
	}
	return exists, nil
}

// addFridgeMember is a no-op when the user already belongs to the fridge.
func addFridgeMember(q queryer, fridgeID, userID int) error {
	_, err := q.Exec(`INSERT OR IGNORE INTO fridge_members (fridge_id, user_id) VALUES (?, ?)`, fridgeID, userID)
	if err != nil {
		return fmt.Errorf("failed to add fridge member: %w", err)
	}
	return nil
}
