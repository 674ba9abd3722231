package firestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "demo-project")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/tmp/key.json")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "demo-project", cfg.ProjectID)
	assert.Equal(t, "/tmp/key.json", cfg.CredentialsFile)
}

func TestFromEnv_MissingProject(t *testing.T) {
	t.Setenv("FIRESTORE_PROJECT_ID", "")

	_, err := FromEnv()
	assert.Error(t, err)
}
