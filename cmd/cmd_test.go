package cmd_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jonesrussell/north-cloud/media-scan/cmd"
	"github.com/jonesrussell/north-cloud/media-scan/internal/auth"
	"github.com/jonesrussell/north-cloud/media-scan/internal/report"
	"github.com/jonesrussell/north-cloud/media-scan/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfig points a config file at a fake backend serving the fixtures.
func writeConfig(t *testing.T, extra string) string {
	t.Helper()

	backend := testhelpers.NewBackend(t)
	backend.ServeDefaults(time.Now())

	path := filepath.Join(t.TempDir(), "config.yml")
	body := "backend:\n  base_url: " + backend.Config().BaseURL + "\n" + extra
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := cmd.NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersion(t *testing.T) {
	t.Parallel()

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "media-scan version "+cmd.Version+"\n", out)
}

func TestMediasList(t *testing.T) {
	t.Parallel()

	out, err := run(t, "medias", "list", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	for _, m := range testhelpers.SampleMedias() {
		assert.Contains(t, out, m.Nom)
	}
	assert.Contains(t, out, "Dernière collecte")
}

func TestReport_WritesFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out, err := run(t, "report", "--config", writeConfig(t, ""), "--period", "daily", "--format", "all", "--out", dir)
	require.NoError(t, err)

	lines := strings.Fields(out)
	require.Len(t, lines, 2)
	assert.Equal(t, ".pdf", filepath.Ext(lines[0]))
	assert.Equal(t, ".xlsx", filepath.Ext(lines[1]))
	for _, p := range lines {
		assert.FileExists(t, p)
		assert.Contains(t, filepath.Base(p), "rapport_medias_daily_")
	}
}

func TestReport_RejectsBadFlags(t *testing.T) {
	t.Parallel()

	_, err := run(t, "report", "--period", "monthly")
	require.ErrorIs(t, err, report.ErrInvalidPeriod)

	_, err = run(t, "report", "--format", "docx")
	require.ErrorIs(t, err, report.ErrInvalidFormat)
}

func TestToken(t *testing.T) {
	t.Parallel()

	_, err := run(t, "token", "--config", writeConfig(t, ""))
	require.Error(t, err)

	cfgPath := writeConfig(t, "auth:\n  jwt_secret: s3cret\n")
	out, err := run(t, "token", "--config", cfgPath, "--subject", "ops", "--ttl", "1h")
	require.NoError(t, err)

	claims := &auth.Claims{}
	_, err = jwt.ParseWithClaims(strings.TrimSpace(out), claims, func(*jwt.Token) (any, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops", claims.Subject)
}
