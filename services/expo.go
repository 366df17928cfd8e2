package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"time"
)

// Expo accepts at most 100 messages per push request.
const expoBatchSize = 100

var expoTokenRe = regexp.MustCompile(`^ExponentPushToken\[[A-Za-z0-9\-+/_=]+\]$`)

// IsExpoToken reports whether the string is a well-formed Expo push token.
// The check happens at registration time only; send paths trust the stored
// provider tag.
func IsExpoToken(token string) bool {
	return expoTokenRe.MatchString(token)
}

// ExpoClient talks to the Expo push HTTP endpoint.
type ExpoClient struct {
	pushURL string
	client  *http.Client
}

func NewExpoClient(pushURL string, timeout time.Duration) *ExpoClient {
	return &ExpoClient{
		pushURL: pushURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type expoMessage struct {
	To    string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type expoTicket struct {
	Status  string `json:"status"` // "ok" or "error"
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"` // e.g. DeviceNotRegistered
	} `json:"details,omitempty"`
}

type expoResponse struct {
	Data []expoTicket `json:"data"`
}

// SendMulticast pushes to Expo tokens in batches of 100 and classifies
// per-ticket errors. DeviceNotRegistered and InvalidCredentials mark the
// token invalid; anything else is logged and counted as a plain failure.
func (e *ExpoClient) SendMulticast(tokens []string, title, body string, data map[string]string) (DeliveryResult, error) {
	var result DeliveryResult
	if len(tokens) == 0 {
		return result, nil
	}

	log.Printf("[Expo] Sending multicast | tokens=%d title=%q", len(tokens), title)

	for start := 0; start < len(tokens); start += expoBatchSize {
		end := start + expoBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		tickets, err := e.sendBatch(batch, title, body, data)
		if err != nil {
			log.Printf("[Expo][ERROR] Batch send failed entirely: %v", err)
			return result, err
		}

		for i, ticket := range tickets {
			if ticket.Status == "ok" {
				result.SuccessCount++
				continue
			}

			result.FailureCount++
			token := batch[i]
			log.Printf("[Expo][TOKEN ERROR] token=%s error=%s message=%s",
				token, ticket.Details.Error, ticket.Message)

			if ticket.Details.Error == "DeviceNotRegistered" || ticket.Details.Error == "InvalidCredentials" {
				result.InvalidTokens = append(result.InvalidTokens, token)
			}
		}
	}

	log.Printf("[Expo] Multicast result | success=%d failure=%d invalid=%d",
		result.SuccessCount, result.FailureCount, len(result.InvalidTokens))

	return result, nil
}

func (e *ExpoClient) sendBatch(tokens []string, title, body string, data map[string]string) ([]expoTicket, error) {
	messages := make([]expoMessage, 0, len(tokens))
	for _, token := range tokens {
		messages = append(messages, expoMessage{
			To:    token,
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, e.pushURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("expo push endpoint returned %d", resp.StatusCode)
	}

	var parsed expoResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) != len(tokens) {
		return nil, fmt.Errorf("expo returned %d tickets for %d messages", len(parsed.Data), len(tokens))
	}

	return parsed.Data, nil
}
