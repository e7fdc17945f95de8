package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"contenthub/utils"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func multipartContext(t *testing.T, field, filename string, content []byte) *gin.Context {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if filename != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write form file: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req
	return ctx
}

func TestSaveImageStoresFile(t *testing.T) {
	dir := t.TempDir()
	ctx := multipartContext(t, "image", "photo.PNG", []byte("fake png bytes"))

	name, err := SaveImage(ctx, "image", dir)
	if err != nil {
		t.Fatalf("save image: %v", err)
	}
	if name == "" {
		t.Fatalf("expected generated filename")
	}
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected lowercased extension, got %s", name)
	}
	if name == "photo.PNG" {
		t.Fatalf("stored name must not be the client name")
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "fake png bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
}

func TestSaveImageMissingFile(t *testing.T) {
	dir := t.TempDir()
	ctx := multipartContext(t, "image", "", nil)

	name, err := SaveImage(ctx, "image", dir)
	if err != nil {
		t.Fatalf("expected missing file to be a no-op, got %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty name, got %s", name)
	}
}

func TestSaveImageNonMultipart(t *testing.T) {
	dir := t.TempDir()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	req.Header.Set("Content-Type", "application/json")
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = req

	name, err := SaveImage(ctx, "image", dir)
	if err != nil {
		t.Fatalf("expected non-multipart request to be a no-op, got %v", err)
	}
	if name != "" {
		t.Fatalf("expected empty name, got %s", name)
	}
}

func TestSaveImageRejectsExtension(t *testing.T) {
	dir := t.TempDir()
	ctx := multipartContext(t, "image", "malware.exe", []byte("nope"))

	_, err := SaveImage(ctx, "image", dir)
	if err == nil {
		t.Fatalf("expected extension rejection")
	}
	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("expected *utils.AppError, got %T", err)
	}
	if appErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", appErr.Status)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no stored files, got %d", len(entries))
	}
}

func TestSaveImageRejectsOversize(t *testing.T) {
	dir := t.TempDir()
	ctx := multipartContext(t, "image", "big.jpg", bytes.Repeat([]byte("a"), MaxFileSize+1))

	_, err := SaveImage(ctx, "image", dir)
	if err == nil {
		t.Fatalf("expected oversize rejection")
	}
	appErr, ok := err.(*utils.AppError)
	if !ok {
		t.Fatalf("expected *utils.AppError, got %T", err)
	}
	if appErr.Status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", appErr.Status)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected oversize file cleaned up, got %d entries", len(entries))
	}
}

func TestSaveImageUniqueNames(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveImage(multipartContext(t, "image", "a.jpg", []byte("1")), "image", dir)
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	second, err := SaveImage(multipartContext(t, "image", "a.jpg", []byte("2")), "image", dir)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct generated names, both %s", first)
	}
}
