package utils

import (
	"context"
	"log"

	"skillswap/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMClient is the global Firebase Cloud Messaging client.
var FCMClient *messaging.Client

// FirebaseInit initializes the Firebase app and messaging client. Skipped
// when no credential file is configured (pushes are then disabled).
func FirebaseInit() {
	credFile := config.AppConfig.FirebaseCredFile
	if credFile == "" {
		log.Println("No Firebase credentials configured; push notifications disabled")
		return
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credFile))
	if err != nil {
		log.Fatalf("failed to initialize Firebase app: %v", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("failed to initialize FCM client: %v", err)
	}
	FCMClient = client
	log.Println("Firebase messaging initialized")
}
