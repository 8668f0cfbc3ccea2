package workers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestObjectPathFromURL(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"https://storage.googleapis.com/my-bucket/profile-photos/u1/123_me.png", "profile-photos/u1/123_me.png"},
		{"https://storage.googleapis.com/my-bucket/one", "one"},
		{"https://storage.googleapis.com/my-bucket/", ""},
		{"https://storage.googleapis.com/my-bucket", ""},
		{"https://example.com/my-bucket/obj.png", ""},
		{"not a url at all://", ""},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ObjectPathFromURL(tc.raw), tc.raw)
	}
}
