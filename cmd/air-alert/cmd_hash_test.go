package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"--env-file", "testdata/none.env", "hash", "07719143007"})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "07719143007\t66a9c4fd3349c4ebacd05e02b7222e78\n", out.String())
}
