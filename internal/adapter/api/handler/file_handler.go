package handler

import (
	"fmt"
	"io"

	"github.com/labstack/echo/v4"

	"squadup/pkg/errors"
	"squadup/pkg/logger"
)

const maxImageSize = 5 * 1024 * 1024

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// readImage loads the multipart "file" field of an image upload.
func readImage(c echo.Context) ([]byte, string, error) {
	file, err := c.FormFile("file")
	if err != nil {
		return nil, "", errors.BadRequest("Missing or invalid file", err)
	}

	if file.Size > maxImageSize {
		return nil, "", errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", maxImageSize/(1024*1024)), nil)
	}

	contentType := file.Header.Get("Content-Type")
	if _, ok := allowedImageTypes[contentType]; !ok {
		logger.Warn("rejected upload with content type %q", contentType)
		return nil, "", errors.BadRequest("File type not supported", nil)
	}

	src, err := file.Open()
	if err != nil {
		return nil, "", errors.Internal("Failed to open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageSize+1))
	if err != nil {
		return nil, "", errors.Internal("Failed to read uploaded file", err)
	}
	if len(data) > maxImageSize {
		return nil, "", errors.BadRequest("File too large", nil)
	}
	return data, contentType, nil
}
