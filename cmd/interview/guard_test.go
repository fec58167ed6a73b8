package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoute(t *testing.T) {
	tests := []struct {
		name          string
		access        access
		authenticated bool
		want          redirect
	}{
		{"protected signed out", accessProtected, false, redirectLogin},
		{"protected signed in", accessProtected, true, redirectNone},
		{"public signed out", accessPublic, false, redirectNone},
		{"public signed in", accessPublic, true, redirectDashboard},
		{"open signed out", accessOpen, false, redirectNone},
		{"open signed in", accessOpen, true, redirectNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, route(tt.access, tt.authenticated))
		})
	}
}

func TestCommandAccess(t *testing.T) {
	protected := []string{"dashboard", "start", "session", "history", "feedback", "profile", "run"}
	for _, name := range protected {
		cmd, ok := lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, accessProtected, cmd.access, name)
	}

	for _, name := range []string{"login", "signup"} {
		cmd, ok := lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, accessPublic, cmd.access, name)
	}

	_, ok := lookup("unknown")
	assert.False(t, ok)
}
