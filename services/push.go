package services

import (
	"log"

	"verdantly.com/plant-care-backend/models"
)

// DeliveryResult aggregates one multicast: SuccessCount + FailureCount
// equals the number of tokens attempted, and InvalidTokens is the subset
// the provider reported as permanently undeliverable.
type DeliveryResult struct {
	SuccessCount  int
	FailureCount  int
	InvalidTokens []string
}

func (r *DeliveryResult) merge(other DeliveryResult) {
	r.SuccessCount += other.SuccessCount
	r.FailureCount += other.FailureCount
	r.InvalidTokens = append(r.InvalidTokens, other.InvalidTokens...)
}

// PushGateway fans one notification out over FCM and Expo, routing each
// token to the provider it was registered under. Invalid tokens reported
// by either provider are soft-invalidated in the token store.
type PushGateway struct {
	Expo   *ExpoClient
	Tokens *TokenStore
}

// SendMulticast delivers to a mixed set of registered tokens. Individual
// token failures never fail the call; only a provider-level transport
// failure does, and then only for that provider's share.
func (g *PushGateway) SendMulticast(tokens []models.DeviceToken, title, body string, data map[string]string) DeliveryResult {
	var result DeliveryResult
	if len(tokens) == 0 {
		return result
	}

	var fcmTokens, expoTokens []string
	for _, t := range tokens {
		switch t.Provider {
		case models.ProviderExpo:
			expoTokens = append(expoTokens, t.Token)
		default:
			// fcm and apns both go through Firebase
			fcmTokens = append(fcmTokens, t.Token)
		}
	}

	if len(fcmTokens) > 0 {
		fcmResult, err := sendFCMMulticast(fcmTokens, title, body, data)
		if err != nil {
			result.FailureCount += len(fcmTokens)
		} else {
			result.merge(fcmResult)
		}
	}

	if len(expoTokens) > 0 && g.Expo != nil {
		expoResult, err := g.Expo.SendMulticast(expoTokens, title, body, data)
		if err != nil {
			result.FailureCount += len(expoTokens)
		} else {
			result.merge(expoResult)
		}
	}

	g.invalidateDead(result.InvalidTokens)

	return result
}

func (g *PushGateway) invalidateDead(tokens []string) {
	if g.Tokens == nil {
		return
	}
	for _, token := range tokens {
		if err := g.Tokens.Invalidate(token); err != nil {
			log.Printf("[Push][ERROR] Failed to invalidate token %s: %v", token, err)
		}
	}
}
