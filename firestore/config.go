package firestore

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings needed to connect a Firestore client.
type Config struct {
	// ProjectID is the GCP project the Firestore database lives in.
	ProjectID string
	// CredentialsFile is an optional path to a service-account key file.
	// When empty, the client falls back to application default credentials.
	CredentialsFile string
}

// FromEnv builds a Config from the environment, loading a .env file first
// when one is present.
//
//	FIRESTORE_PROJECT_ID            (required)
//	GOOGLE_APPLICATION_CREDENTIALS  (optional key file path)
func FromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		ProjectID:       os.Getenv("FIRESTORE_PROJECT_ID"),
		CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
	}
	if cfg.ProjectID == "" {
		return Config{}, fmt.Errorf("FIRESTORE_PROJECT_ID is not set")
	}
	return cfg, nil
}
