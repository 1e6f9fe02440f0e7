package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGalaxyCommand(t *testing.T) {
	rulesFile := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(rulesFile,
		[]byte(`[{"kind": "planet_count", "condition": {"op": "gte", "value": 1}}]`), 0o600))

	out, err := execute(t, "galaxy", "--seed", "31", "--stars", "5", "--rules", rulesFile)
	require.NoError(t, err)

	var g struct {
		Seed  int32             `json:"seed"`
		Stars []json.RawMessage `json:"stars"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, int32(31), g.Seed)
	assert.Len(t, g.Stars, 5)
}

func TestGalaxyCommandRejectsBadRules(t *testing.T) {
	rulesFile := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, os.WriteFile(rulesFile, []byte(`[{"kind": "comet_count"}]`), 0o600))

	_, err := execute(t, "galaxy", "--stars", "5", "--rules", rulesFile)
	assert.Error(t, err)
}

func TestStarCommand(t *testing.T) {
	out, err := execute(t, "star", "--seed", "9", "--index", "1", "--type", "WhiteDwarf")
	require.NoError(t, err)
	assert.Contains(t, out, `"type": "WhiteDwarf"`)

	_, err = execute(t, "star", "--type", "Pulsar")
	assert.Error(t, err)
}
