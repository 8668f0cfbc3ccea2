package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	require.Equal(t, RoleAdmin, NormalizeRole("admin"))
	require.Equal(t, RoleUser, NormalizeRole("user"))

	// anything unknown collapses to the least-privileged role
	for _, raw := range []string{"", "superuser", "ADMIN ", "root", "moderator"} {
		require.Equal(t, RoleUser, NormalizeRole(raw), raw)
	}
}

func TestValidRole(t *testing.T) {
	require.True(t, ValidRole("admin"))
	require.True(t, ValidRole("user"))
	require.False(t, ValidRole(""))
	require.False(t, ValidRole("superuser"))
}
