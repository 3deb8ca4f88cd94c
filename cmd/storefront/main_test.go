package main

import (
	"bytes"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-storefront/apistub"
	"github.com/jrsteele09/go-storefront/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns what it wrote to stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasExpectedSubcommands(t *testing.T) {
	output, err := execute(t, "--help")
	require.NoError(t, err)

	subcommands := []string{"serve", "devapi", "register", "login", "logout", "whoami", "verify"}
	for _, sub := range subcommands {
		assert.Contains(t, output, sub, "Help missing %q command", sub)
	}
}

func TestAccountCommands(t *testing.T) {
	api := httptest.NewServer(apistub.New("test-secret"))
	defer api.Close()

	t.Setenv("SESSION_STORE", "sqlite")
	t.Setenv("SESSION_DB_PATH", filepath.Join(t.TempDir(), "session.db"))
	t.Setenv("JWKS_URL", "")
	apiFlag := "--api=" + api.URL

	output, err := execute(t, "whoami", apiFlag)
	require.NoError(t, err)
	assert.Contains(t, output, "Not signed in")

	_, err = execute(t, "register", apiFlag, "--name=Ann", "--email=a@b.com", "--password=secret1", "--confirm-password=secret2")
	require.ErrorIs(t, err, auth.ValidationErr)

	output, err = execute(t, "register", apiFlag, "--name=Ann", "--email=a@b.com", "--password=secret1", "--confirm-password=secret1")
	require.NoError(t, err)
	assert.Contains(t, output, "Registered a@b.com")

	output, err = execute(t, "whoami", apiFlag)
	require.NoError(t, err)
	assert.Contains(t, output, "Not signed in", "registration must not sign in")

	_, err = execute(t, "login", apiFlag, "--email=a@b.com", "--password=wrong-password")
	require.ErrorIs(t, err, auth.AuthenticationErr)

	output, err = execute(t, "login", apiFlag, "--email=a@b.com", "--password=secret1")
	require.NoError(t, err)
	assert.Contains(t, output, "Signed in as a@b.com")

	t.Run("session survives between processes", func(t *testing.T) {
		output, err := execute(t, "whoami", apiFlag)
		require.NoError(t, err)
		assert.Contains(t, output, "Email: a@b.com")
		assert.Contains(t, output, "Name:  Ann")
		assert.Contains(t, output, "Token expires:")
	})

	output, err = execute(t, "verify", apiFlag)
	require.NoError(t, err)
	assert.Contains(t, output, "Token valid")

	output, err = execute(t, "logout", apiFlag)
	require.NoError(t, err)
	assert.Contains(t, output, "Signed out")

	output, err = execute(t, "whoami", apiFlag)
	require.NoError(t, err)
	assert.Contains(t, output, "Not signed in")

	_, err = execute(t, "verify", apiFlag)
	require.ErrorIs(t, err, auth.NoSessionErr)
}

func TestLogout_MemoryStoreWithoutSession(t *testing.T) {
	output, err := execute(t, "logout", "--store=memory", "--api=http://localhost:1")
	require.NoError(t, err)
	assert.Contains(t, output, "Signed out")
}

func TestUnknownSessionStore(t *testing.T) {
	_, err := execute(t, "whoami", "--store=floppy", "--api=http://localhost:1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown session store")
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "whoami", "--store=memory", "--log-level=loud")
	require.Error(t, err)
}
