package main

import (
	"context"
	"database/sql"
	"time"

	"fridgeshare/internal/database"
	"fridgeshare/internal/logger"
)

const sessionCleanupInterval = time.Hour

func cleanupSessions(ctx context.Context, db *sql.DB) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := database.CleanupExpiredSessions(db)
			if err != nil {
				logger.Warn("Failed to clean up expired sessions", "error", err)
				continue
			}
			if removed > 0 {
				logger.Debug("Expired sessions removed", "count", removed)
			}
		}
	}
}
