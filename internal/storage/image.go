package storage

import (
	"fmt"
	"time"

	"github.com/arkadelo/profilehub/internal/utils"
)

const MaxImageSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ValidateImage checks declared content type and size before any
// upload is attempted.
func ValidateImage(contentType string, size int64) error {
	const op = "storage.ValidateImage"

	if size <= 0 {
		return utils.E(utils.CodeInvalidArgument, op, "no file selected", nil)
	}
	if _, ok := allowedImageTypes[contentType]; !ok {
		return utils.E(utils.CodeInvalidArgument, op, "invalid file type, only JPG and PNG are allowed", nil)
	}
	if size > MaxImageSize {
		return utils.E(utils.CodeInvalidArgument, op,
			fmt.Sprintf("file size exceeds %dMB limit", MaxImageSize/(1<<20)), nil)
	}
	return nil
}

// ImageObjectName builds the object path for a profile or submission
// photo: <folder>/<uid>/<unix-millis>_<name>.
func ImageObjectName(folder, uid, fileName string) string {
	return fmt.Sprintf("%s/%s/%d_%s", folder, uid, time.Now().UnixMilli(), fileName)
}
