// Package integrationtest runs the SDK against a live Juncture deployment.
//
// The tests are skipped unless these variables are set:
//
//	JUNCTURE_IT_API_URL      base URL of the deployment
//	JUNCTURE_IT_SECRET_KEY   secret key of a test tenant
//	JUNCTURE_IT_EXTERNAL_ID  external id with a live Jira connection
//
// Only read operations are exercised.
package integrationtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/juncture"
)

type liveEnv struct {
	client     *juncture.SecretClient
	externalID string
}

func setupLive(t *testing.T) liveEnv {
	t.Helper()

	apiURL := os.Getenv("JUNCTURE_IT_API_URL")
	secretKey := os.Getenv("JUNCTURE_IT_SECRET_KEY")
	externalID := os.Getenv("JUNCTURE_IT_EXTERNAL_ID")
	if apiURL == "" || secretKey == "" || externalID == "" {
		t.Skip("JUNCTURE_IT_API_URL, JUNCTURE_IT_SECRET_KEY and JUNCTURE_IT_EXTERNAL_ID are required")
	}

	client, err := juncture.NewSecretClient(juncture.SecretConfig{
		JunctureAPIURL:    apiURL,
		JunctureSecretKey: secretKey,
	})
	require.NoError(t, err)

	return liveEnv{client: client, externalID: externalID}
}

func liveContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}
