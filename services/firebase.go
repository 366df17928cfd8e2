package services

import (
	"context"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	messagingClient *messaging.Client
	once            sync.Once
	initError       error
)

// FCM limits a multicast message to 500 tokens.
const fcmBatchSize = 500

func InitFirebase(credentialsPath string) error {
	once.Do(func() {
		ctx := context.Background()

		log.Printf("[FCM] Initializing Firebase with credentials: %s", credentialsPath)

		opt := option.WithCredentialsFile(credentialsPath)
		app, err := firebase.NewApp(ctx, nil, opt)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to init Firebase app: %v", err)
			return
		}

		messagingClient, err = app.Messaging(ctx)
		if err != nil {
			initError = err
			log.Printf("[FCM][ERROR] Failed to get messaging client: %v", err)
			return
		}

		log.Println("[FCM] Firebase Messaging client initialized successfully")
	})

	return initError
}

func GetMessagingClient() (*messaging.Client, error) {
	if messagingClient == nil {
		log.Printf("[FCM][ERROR] Messaging client is nil (initError=%v)", initError)
		return nil, initError
	}
	return messagingClient, nil
}

// sendFCMMulticast dispatches one multicast per batch of 500 tokens and
// inspects per-token results. Dead tokens (unregistered or rejected as
// invalid) are collected for invalidation; other per-token failures are
// logged only. Only a full transport failure returns an error.
func sendFCMMulticast(tokens []string, title, body string, data map[string]string) (DeliveryResult, error) {
	var result DeliveryResult
	if len(tokens) == 0 {
		return result, nil
	}

	client, err := GetMessagingClient()
	if err != nil {
		return result, err
	}

	log.Printf("[FCM] Sending multicast | tokens=%d title=%q", len(tokens), title)

	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := start + fcmBatchSize
		if end > len(tokens) {
			end = len(tokens)
		}
		batch := tokens[start:end]

		message := &messaging.MulticastMessage{
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data:   data,
			Tokens: batch,
		}

		response, err := client.SendEachForMulticast(context.Background(), message)
		if err != nil {
			log.Printf("[FCM][ERROR] Multicast send failed entirely: %v", err)
			return result, err
		}

		result.SuccessCount += response.SuccessCount
		result.FailureCount += response.FailureCount

		for i, resp := range response.Responses {
			if resp.Success {
				continue
			}

			token := batch[i]
			log.Printf("[FCM][TOKEN ERROR] token=%s error=%v", token, resp.Error)

			if messaging.IsUnregistered(resp.Error) || messaging.IsInvalidArgument(resp.Error) {
				result.InvalidTokens = append(result.InvalidTokens, token)
			}
		}
	}

	log.Printf("[FCM] Multicast result | success=%d failure=%d invalid=%d",
		result.SuccessCount, result.FailureCount, len(result.InvalidTokens))

	return result, nil
}
