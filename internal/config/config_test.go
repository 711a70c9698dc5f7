package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data", "a.db"), ExpandPath("~/data/a.db"))

	t.Setenv("JANGBU_TEST_DIR", "/tmp/jangbu")
	assert.Equal(t, "/tmp/jangbu/a.db", ExpandPath("$JANGBU_TEST_DIR/a.db"))
}

func TestAccounts(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, []string{DefaultAccount}, Accounts(), "empty config yields the default account")

	viper.Set("accounts", []string{" 신한은행 ", "", "국민은행"})
	assert.Equal(t, []string{"신한은행", "국민은행"}, Accounts())
}

func TestDefaultStartRow(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.Equal(t, 4, DefaultStartRow())

	viper.Set("import.start_row", 2)
	assert.Equal(t, 2, DefaultStartRow())
}
