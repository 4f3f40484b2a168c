package cmd

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCommand_PrintsJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		fmt.Fprint(w, `[{"name":"small","stargazers_count":1},{"name":"big","stargazers_count":42}]`)
	}))
	defer upstream.Close()

	t.Setenv("GITHUB_TOKEN", "test-token")
	t.Setenv("GITHUB_API_URL", upstream.URL)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats", "octocat", "--env-file", filepath.Join(t.TempDir(), "missing.env")})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.JSONEq(t, `{"count":2,"total_stars":43,"total_forks":0,"mean_stars":21.5,"median_stars":21.5,"max_stars":42}`, out.String())
}

func TestQueryCommand_RequiresUsername(t *testing.T) {
	rootCmd.SetArgs([]string{"profile"})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})

	assert.Error(t, rootCmd.Execute())
}
