//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func TestCallbackServer_HandleCallback_Success(t *testing.T) {
	server := startServer(t, "state-abc")

	resp, err := http.Get(fmt.Sprintf("%s?code=auth-code-xyz&state=state-abc", server.RedirectURI()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html", resp.Header.Get("Content-Type"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Authorization successful")

	code, err := server.WaitForCode(time.Second)
	require.NoError(t, err)
	assert.Equal(t, "auth-code-xyz", code)
}

func TestCallbackServer_StateMismatch(t *testing.T) {
	server := startServer(t, "correct-state")

	resp, err := http.Get(fmt.Sprintf("%s?code=somecode&state=wrong-state", server.RedirectURI()))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_MissingCode(t *testing.T) {
	server := startServer(t, "the-state")

	resp, err := http.Get(fmt.Sprintf("%s?state=the-state", server.RedirectURI()))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no authorization code")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startServer(t, "the-state")

	resp, err := http.Get(fmt.Sprintf("%s?error=access_denied&error_description=%s",
		server.RedirectURI(), url.QueryEscape("User denied access")))
	require.NoError(t, err)
	resp.Body.Close()

	_, err = server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
	assert.Contains(t, err.Error(), "User denied access")
}

func TestCallbackServer_WaitForCode_Timeout(t *testing.T) {
	server := NewCallbackServer(0, "state")

	code, err := server.WaitForCode(100 * time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for authorization callback")
	assert.Empty(t, code)
}

func TestCallbackServer_StopWithoutStart(t *testing.T) {
	server := NewCallbackServer(0, "state")
	require.NoError(t, server.Stop())
}

func TestCallbackServer_RandomPortAssigned(t *testing.T) {
	server := startServer(t, "state")
	assert.NotZero(t, server.Port())
	assert.Equal(t, fmt.Sprintf("http://localhost:%d/callback", server.Port()), server.RedirectURI())
}

func TestCallbackServer_PortInUse(t *testing.T) {
	first := startServer(t, "state-1")

	second := NewCallbackServer(first.Port(), "state-2")
	err := second.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listen on")
}

func TestCallbackServer_InvalidPath(t *testing.T) {
	server := startServer(t, "state")

	resp, err := http.Get(fmt.Sprintf("http://localhost:%d/wrongpath", server.Port()))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(10000, 10100)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 10000)
	assert.LessOrEqual(t, port, 10100)

	_, err = FindAvailablePort(10100, 10000)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no available port")
}

func TestCallbackServer_RepeatedErrorCallbacks(t *testing.T) {
	server := startServer(t, "correct-state")

	// Both bad callbacks must get a response page; the second must not
	// wedge the handler on a full error channel.
	for i := 0; i < 2; i++ {
		resp, err := http.Get(fmt.Sprintf("%s?code=somecode&state=wrong-state", server.RedirectURI()))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	}

	_, err := server.WaitForCode(time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "state mismatch")
}

func TestCallbackServer_FullFlow(t *testing.T) {
	server := startServer(t, "integration-state")

	go func() {
		time.Sleep(50 * time.Millisecond)
		resp, err := http.Get(fmt.Sprintf("%s?code=integration-code&state=integration-state", server.RedirectURI()))
		if err == nil {
			resp.Body.Close()
		}
	}()

	code, err := server.WaitForCode(5 * time.Second)
	require.NoError(t, err)
	assert.Equal(t, "integration-code", code)
}
