package common_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/trendfit/cmd/common"
	"fjacquet/trendfit/internal/logging"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteOutput_Stdout(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)

	require.NoError(t, common.WriteOutput(cmd, []byte("hello"), "", logging.NewMockLogger()))
	assert.Equal(t, "hello", out.String())
}

func TestWriteOutput_File(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	logger := logging.NewMockLogger()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, common.WriteOutput(cmd, []byte("{}"), path, logger))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	assert.True(t, logger.HasEntry("INFO", "Output written to file"))

	err = common.WriteOutput(cmd, []byte("{}"), filepath.Join(t.TempDir(), "missing", "r.json"), logger)
	assert.Error(t, err)
}

func TestResolveInputs(t *testing.T) {
	assert.Equal(t, []string{"a.csv"}, common.ResolveInputs([]string{"a.csv"}, "b.csv"))
	assert.Equal(t, []string{"b.csv", "dir"}, common.ResolveInputs(nil, " b.csv, ,dir "))
	assert.Nil(t, common.ResolveInputs(nil, ""))
}
