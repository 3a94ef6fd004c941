package e2e

import (
	"bytes"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bnema/feedsync/internal/testutil/fakeapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	backend := fakeapi.New()
	backend.AddUser("ada", "secret")
	backend.SeedPosts("posts", 3)
	server := httptest.NewServer(backend)
	defer server.Close()

	env := []string{"HOME=" + home, "FEEDSYNC_API_BASE_URL=" + server.URL, "FEEDSYNC_LOG_LEVEL=error"}

	_, stderr, err := runFeedsync(t, binaryPath, env, "secret\n", "login", "--username", "ada", "--password-stdin")
	require.NoError(t, err, "stderr: %s", stderr)

	backend.ExpireAccessTokens()
	stdout, stderr, err := runFeedsync(t, binaryPath, env, "", "feed", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, `"title": "post 3"`)
	assert.Equal(t, 1, backend.Stats().Refreshes)

	stdout, stderr, err = runFeedsync(t, binaryPath, env, "", "like", "2")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Liked #2")

	_, stderr, err = runFeedsync(t, binaryPath, env, "", "logout")
	require.NoError(t, err, "stderr: %s", stderr)

	stdout, stderr, err = runFeedsync(t, binaryPath, env, "", "session")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.Contains(t, stdout, "logged_out")
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "feedsync-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/feedsync")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build feedsync binary: %s", string(output))
	return binaryPath
}

func runFeedsync(t *testing.T, binaryPath string, env []string, input string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
