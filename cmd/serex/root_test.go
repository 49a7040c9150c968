package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"serex/pkg/contracts"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "serex", rootCmd.Use)
	assert.Equal(t, contracts.Version, rootCmd.Version)

	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestSubcommandsRegistered(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"serve", "export", "version"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestExportCommandFlags(t *testing.T) {
	for _, name := range []string{"input", "format", "out", "header", "sep", "index", "layout", "sheet"} {
		assert.NotNil(t, exportCmd.Flags().Lookup(name), "flag %q not defined", name)
	}

	format := exportCmd.Flags().Lookup("format")
	require.NotNil(t, format)
	assert.Equal(t, "csv", format.DefValue)
}

func TestServeCommandFlags(t *testing.T) {
	require.NotNil(t, serveCmd.Flags().Lookup("port"))
	require.NotNil(t, serveCmd.Flags().Lookup("log-level"))
	assert.NotNil(t, serveCmd.RunE)
}

func TestVersionCommand(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotNil(t, versionCmd.Run)
}
