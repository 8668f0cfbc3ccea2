package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arkadelo/profilehub/internal/utils"
)

func TestValidateImageAcceptsJPEGAndPNG(t *testing.T) {
	require.NoError(t, ValidateImage("image/jpeg", 1024))
	require.NoError(t, ValidateImage("image/png", MaxImageSize))
}

func TestValidateImageRejectsMissingFile(t *testing.T) {
	err := ValidateImage("image/png", 0)
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	require.Contains(t, err.Error(), "no file selected")
}

func TestValidateImageRejectsWrongType(t *testing.T) {
	for _, ct := range []string{"image/gif", "application/pdf", "text/html", ""} {
		err := ValidateImage(ct, 1024)
		require.Error(t, err, ct)
		require.Contains(t, err.Error(), "only JPG and PNG")
	}
}

func TestValidateImageRejectsOversize(t *testing.T) {
	err := ValidateImage("image/jpeg", MaxImageSize+1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "5MB")
}

func TestImageObjectNameShape(t *testing.T) {
	name := ImageObjectName("profile-photos", "u1", "me.png")
	require.True(t, strings.HasPrefix(name, "profile-photos/u1/"))
	require.True(t, strings.HasSuffix(name, "_me.png"))
}
