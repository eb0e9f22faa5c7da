package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/fileserve/internal/filestore"
	"github.com/go-chi/chi/v5"
)

func newFileHandler(t *testing.T, maxBytes int64) (*FileHandler, *filestore.Store) {
	t.Helper()
	store, err := filestore.New(t.TempDir(), maxBytes, []string{".txt", ".csv"})
	if err != nil {
		t.Fatalf("filestore.New: %v", err)
	}
	return &FileHandler{Store: store}, store
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := io.Copy(part, strings.NewReader(content)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/admin/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func nameParam(r *http.Request, name string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("name", name)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestFileHandler_Upload(t *testing.T) {
	h, store := newFileHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "data.csv", "a,b,c"))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Upload status: got %d, want 201: %s", rr.Code, rr.Body.String())
	}
	var info struct {
		Name string `json:"name"`
		Size int64  `json:"size"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&info); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if info.Name != "data.csv" || info.Size != 5 {
		t.Errorf("unexpected info: %+v", info)
	}

	list, err := store.List()
	if err != nil || len(list) != 1 {
		t.Errorf("store contents: %+v %v", list, err)
	}
}

func TestFileHandler_Upload_MissingField(t *testing.T) {
	h, _ := newFileHandler(t, 1<<20)

	req := httptest.NewRequest("POST", "/admin/upload", strings.NewReader("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.Upload(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Upload status: got %d, want 400", rr.Code)
	}
}

func TestFileHandler_Upload_DisallowedExtension(t *testing.T) {
	h, store := newFileHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "tool.exe", "MZ"))

	if rr.Code != http.StatusUnsupportedMediaType {
		t.Errorf("Upload status: got %d, want 415", rr.Code)
	}
	if list, _ := store.List(); len(list) != 0 {
		t.Errorf("file written despite rejection: %+v", list)
	}
}

func TestFileHandler_Upload_TooLarge(t *testing.T) {
	h, store := newFileHandler(t, 8)

	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "big.txt", "way more than eight bytes"))

	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("Upload status: got %d, want 413", rr.Code)
	}
	if list, _ := store.List(); len(list) != 0 {
		t.Errorf("partial file left behind: %+v", list)
	}
}

func TestFileHandler_Upload_Duplicate(t *testing.T) {
	h, _ := newFileHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "dup.txt", "one"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first upload: %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.Upload(rr, uploadRequest(t, "dup.txt", "two"))
	if rr.Code != http.StatusConflict {
		t.Errorf("second upload: got %d, want 409", rr.Code)
	}
}

func TestFileHandler_DownloadAndDelete(t *testing.T) {
	h, store := newFileHandler(t, 1<<20)
	if _, err := store.Save(strings.NewReader("contents"), "doc.txt"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	rr := httptest.NewRecorder()
	h.DownloadFile(rr, nameParam(httptest.NewRequest("GET", "/files/doc.txt", nil), "doc.txt"))
	if rr.Code != http.StatusOK || rr.Body.String() != "contents" {
		t.Errorf("download: status=%d body=%q", rr.Code, rr.Body.String())
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "doc.txt") {
		t.Errorf("Content-Disposition: %q", cd)
	}

	rr = httptest.NewRecorder()
	h.DeleteFile(rr, nameParam(httptest.NewRequest("DELETE", "/files/doc.txt", nil), "doc.txt"))
	if rr.Code != http.StatusNoContent {
		t.Errorf("delete: status=%d, want 204", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.DownloadFile(rr, nameParam(httptest.NewRequest("GET", "/files/doc.txt", nil), "doc.txt"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("download after delete: status=%d, want 404", rr.Code)
	}
}

func TestFileHandler_Download_TraversalName(t *testing.T) {
	h, _ := newFileHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.DownloadFile(rr, nameParam(httptest.NewRequest("GET", "/files/x", nil), "..%2f..%2fetc%2fpasswd"))
	if rr.Code != http.StatusNotFound {
		t.Errorf("traversal download: status=%d, want 404", rr.Code)
	}
}

func TestFileHandler_ListEmpty(t *testing.T) {
	h, _ := newFileHandler(t, 1<<20)

	rr := httptest.NewRecorder()
	h.ListFiles(rr, httptest.NewRequest("GET", "/files", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status=%d", rr.Code)
	}
	if got := strings.TrimSpace(rr.Body.String()); got != "[]" {
		t.Errorf("empty list body: %q, want []", got)
	}
}
