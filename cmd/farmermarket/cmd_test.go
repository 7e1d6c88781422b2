package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmermarket/backend/pkg/router"
)

func TestPrintRoutes(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, []router.Route{
		{Method: "GET", Path: "/api/orders", Name: "orders.index"},
		{Method: "POST", Path: "/api/orders", Name: "orders.place"},
	}))

	assert.Contains(t, out.String(), "METHOD")
	assert.Regexp(t, `POST\s+/api/orders\s+orders.place`, out.String())
}

func TestPrintRoutesEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printRoutes(&out, nil))
	assert.Equal(t, "No named routes registered.\n", out.String())
}

func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{"serve", "run", "route:list", "migrate", "migrate:rollback", "migrate:status", "seed"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestCommandGroups(t *testing.T) {
	for name, group := range map[string]string{
		"serve":      groupServer,
		"route:list": groupServer,
		"migrate":    groupDatabase,
		"seed":       groupDatabase,
	} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, group, cmd.GroupID, name)
	}
	assert.Equal(t, []string{"products", "users"}, seedCmd.ValidArgs)
}
