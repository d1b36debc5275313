package completion

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devKoy/csv-version-compare/internal/cmd/constants"
	"github.com/devKoy/csv-version-compare/pkg/errors"
)

func rootCommand() *cobra.Command {
	root := &cobra.Command{Use: constants.BinaryName}
	root.AddCommand(&cobra.Command{Use: "compare", Run: func(*cobra.Command, []string) {}})
	return root
}

func TestGenerate(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Generate(rootCommand(), shell, &buf))
			assert.Contains(t, buf.String(), constants.BinaryName)
		})
	}

	err := Generate(rootCommand(), "tcsh", &bytes.Buffer{})
	assert.True(t, errors.IsValidationError(err))
}

func TestPath(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	path, err := Path("zsh")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(prefix, "share", "zsh", "site-functions", "_csvcompare"), path)

	path, err = Path("fish")
	require.NoError(t, err)
	assert.Equal(t, "csvcompare.fish", filepath.Base(path))

	_, err = Path("powershell")
	assert.True(t, errors.IsValidationError(err))
}

func TestInstallUninstall(t *testing.T) {
	prefix := t.TempDir()
	t.Setenv("HOMEBREW_PREFIX", prefix)

	path, err := Install(rootCommand(), "bash")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(prefix, "etc", "bash_completion.d", "csvcompare"), path)

	body, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(body), "csvcompare")

	removed, err := Uninstall("bash")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, removed)
	assert.NoFileExists(t, path)

	removed, err = Uninstall("bash")
	require.NoError(t, err)
	assert.Empty(t, removed)
}
