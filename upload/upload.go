// Package upload stores a single image file per request under the
// configured uploads directory with a collision-resistant filename.
package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"contenthub/utils"
)

// MaxFileSize caps uploads at 5 MiB.
const MaxFileSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// SaveImage reads at most one file from the named multipart field and
// stores it under dir. It returns the generated filename, or "" when
// the field carries no file. Non-image extensions and oversized
// payloads are rejected with a descriptive 400.
func SaveImage(ctx *gin.Context, field, dir string) (string, error) {
	file, header, err := ctx.Request.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		return "", utils.NewValidationError("invalid multipart payload")
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", utils.NewValidationError("Only image files are allowed (jpg, jpeg, png, gif)")
	}
	if header.Size > MaxFileSize {
		return "", utils.NewValidationError("File too large, limit is 5MB")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", utils.NewInternalError("failed to create upload directory")
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UnixNano(), uuid.NewString(), ext)
	dstPath := filepath.Join(dir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", utils.NewInternalError("failed to save file")
	}
	defer out.Close()

	// The declared header size is client-controlled; enforce the limit
	// on the actual bytes too.
	lr := &io.LimitedReader{R: file, N: MaxFileSize + 1}
	written, err := io.Copy(out, lr)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return "", utils.NewInternalError("failed to write file")
	}
	if written > MaxFileSize {
		_ = out.Close()
		_ = os.Remove(dstPath)
		return "", utils.NewValidationError("File too large, limit is 5MB")
	}

	return name, nil
}
