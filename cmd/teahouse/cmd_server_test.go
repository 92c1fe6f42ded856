package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintRoutes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf))

	out := buf.String()
	assert.Contains(t, out, "METHOD")
	assert.Regexp(t, `GET\s+/\s+health`, out)
	assert.Regexp(t, `GET\s+/api/products\s+products.index`, out)
	assert.Regexp(t, `GET\s+/api/orders\s+orders.index`, out)
	assert.Regexp(t, `POST\s+/api/orders\s+orders.store`, out)
}

func TestRouteListCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"route:list"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "orders.store")
}
