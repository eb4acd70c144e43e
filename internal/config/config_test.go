package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017/clinic?retryWrites=true")
	t.Setenv("MONGO_DB", "")
	t.Setenv("DOCTOR_ONBOARDING_MODE", "")
	t.Setenv("SETUP_TOKEN_TTL_HOURS", "")
	t.Setenv("FRONTEND_ORIGINS", "http://a.test, http://b.test ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "clinic", cfg.MongoDB)
	assert.Equal(t, OnboardingToken, cfg.OnboardingMode)
	assert.Equal(t, 7*24*time.Hour, cfg.SetupTokenTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.FrontendOrigins)
}

func TestLoadCredentialsMode(t *testing.T) {
	t.Setenv("DOCTOR_ONBOARDING_MODE", "Credentials")
	t.Setenv("MONGO_TRANSACTIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, OnboardingCredentials, cfg.OnboardingMode)
	assert.True(t, cfg.MongoTransactions)
}

func TestLoadUnknownModeFallsBackToToken(t *testing.T) {
	t.Setenv("DOCTOR_ONBOARDING_MODE", "magic")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, OnboardingToken, cfg.OnboardingMode)
}

func TestMongoDBFromURI(t *testing.T) {
	assert.Equal(t, "eashaop", mongoDBFromURI("mongodb+srv://u:p@cluster.example.net/eashaop"))
	assert.Equal(t, "", mongoDBFromURI("mongodb://localhost:27017"))
	assert.Equal(t, "first", mongoDBFromURI("mongodb://localhost/first/second"))
}
