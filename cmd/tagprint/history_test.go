// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/tagprint/internal/ledger"
	"github.com/pdiddy/tagprint/internal/samples"
)

func TestHistory_ReadsLedgerWrittenByConvert(t *testing.T) {
	tmp := t.TempDir()
	in := filepath.Join(tmp, "tags")
	out := filepath.Join(tmp, "print")
	db := filepath.Join(tmp, "state", "runs.db")
	export := filepath.Join(tmp, "history.json")

	_, err := samples.WriteTags(in, []int{0, 1}, 4)
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"convert", in, out, "--width-mm", "10", "--height-mm", "10", "--ledger", db})
	require.NoError(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"history", "--ledger", db, "--export", "json", "--out", export})
	require.NoError(t, rootCmd.Execute())

	data, err := os.ReadFile(export)
	require.NoError(t, err)
	var runs []ledger.Run
	require.NoError(t, json.Unmarshal(data, &runs))
	require.Len(t, runs, 1)
	assert.Equal(t, 2, runs[0].Converted)
	assert.Equal(t, in, runs[0].InputDir)
	require.Len(t, runs[0].Files, 2)
	assert.Equal(t, 118, runs[0].Files[0].WidthPx)
}

func TestHistory_MissingLedger(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none.db")
	rootCmd.SetArgs([]string{"history", "--ledger", missing})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), missing)
}
