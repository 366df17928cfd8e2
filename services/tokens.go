package services

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"log"

	"github.com/google/uuid"

	"verdantly.com/plant-care-backend/models"
)

// TokenStore persists push tokens, one row per (user, token-hash) pair.
// Dead tokens are flagged invalid rather than deleted.
type TokenStore struct {
	DB *sql.DB
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// StoreToken upserts a registration. Repeat registrations refresh
// last_seen_at, platform and provider, and revive a previously invalidated
// token. The returned bool is true when the row was newly created.
func (s *TokenStore) StoreToken(userID, token, platform, provider string) (string, bool, error) {
	id := uuid.NewString()

	var docID string
	var created bool
	err := s.DB.QueryRow(`
		INSERT INTO device_tokens (id, user_id, token, token_hash, platform, provider, valid, last_seen_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW())
		ON CONFLICT (user_id, token_hash) DO UPDATE SET
			platform = EXCLUDED.platform,
			provider = EXCLUDED.provider,
			valid = TRUE,
			invalidated_at = NULL,
			last_seen_at = NOW()
		RETURNING id, (xmax = 0)`,
		id, userID, token, hashToken(token), platform, provider,
	).Scan(&docID, &created)
	if err != nil {
		return "", false, err
	}

	return docID, created, nil
}

// Invalidate flags every registration of the token as undeliverable.
// Cross-user query by token value: the same device token can be registered
// under more than one account.
func (s *TokenStore) Invalidate(token string) error {
	res, err := s.DB.Exec(`
		UPDATE device_tokens
		SET valid = FALSE, invalidated_at = NOW()
		WHERE token = $1 AND valid = TRUE`, token)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		log.Printf("[Tokens] Invalidated %d registration(s) of dead token", n)
	}
	return nil
}

// FetchTokensForUser returns the user's valid tokens. Pass a provider
// filter to restrict the delivery channel; the consumer care-reminder path
// loads FCM-only and skips Expo tokens entirely.
func (s *TokenStore) FetchTokensForUser(userID string, providers ...string) ([]models.DeviceToken, error) {
	rows, err := s.DB.Query(`
		SELECT id, user_id, token, platform, provider, valid, last_seen_at, invalidated_at, created_at
		FROM device_tokens
		WHERE user_id = $1 AND valid = TRUE`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	allowed := map[string]bool{}
	for _, p := range providers {
		allowed[p] = true
	}

	var tokens []models.DeviceToken
	for rows.Next() {
		var t models.DeviceToken
		var invalidatedAt sql.NullTime
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.Provider,
			&t.Valid, &t.LastSeenAt, &invalidatedAt, &t.CreatedAt); err != nil {
			log.Printf("[Tokens] Scan error for user %s: %v", userID, err)
			continue
		}
		if invalidatedAt.Valid {
			at := invalidatedAt.Time
			t.InvalidatedAt = &at
		}
		if len(allowed) > 0 && !allowed[t.Provider] {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
