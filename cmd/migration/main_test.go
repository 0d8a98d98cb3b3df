package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	assert.Equal(t, 3, steps)

	_, err = parseSteps([]string{"0"})
	assert.Error(t, err)
	_, err = parseSteps([]string{"x"})
	assert.Error(t, err)
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1")
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = parseVersion("-1")
	assert.Error(t, err)

	target, err := parseTarget("7")
	require.NoError(t, err)
	assert.Equal(t, uint(7), target)
}

func TestResolveMigrationsDir_PrefersExplicit(t *testing.T) {
	dir := t.TempDir()
	got, err := resolveMigrationsDir(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestNormalizeDBURL(t *testing.T) {
	raw := "postgres://u:p@localhost:5432/fantasy_draft?sslmode=disable"
	assert.Equal(t, raw, normalizeDBURL(raw, false))
	assert.Contains(t, normalizeDBURL(raw, true), "disable_prepared_binary_result=yes")
}
