package middleware

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

type testPart struct {
	field    string
	filename string
	mimeType string
	content  string
}

func multipartRequest(t *testing.T, parts ...testPart) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, p := range parts {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="`+p.field+`"; filename="`+p.filename+`"`)
		if p.mimeType != "" {
			header.Set("Content-Type", p.mimeType)
		}
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(p.content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func serveUpload(t *testing.T, req *http.Request, mw echo.MiddlewareFunc, handler echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	e := newTestEcho(newTestServer())
	e.POST("/upload", handler, mw)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSingleFile(t *testing.T) {
	var got *model.UploadedFile
	handler := func(c echo.Context) error {
		got = GetUploadedFile(c)
		return c.NoContent(http.StatusOK)
	}

	t.Run("attaches the file", func(t *testing.T) {
		got = nil
		req := multipartRequest(t, testPart{field: "receipt", filename: "receipt.pdf", mimeType: "application/pdf", content: "%PDF-1.7"})

		rec := serveUpload(t, req, SingleFile("receipt", 64), handler)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.NotNil(t, got)
		assert.Equal(t, "receipt", got.FieldName)
		assert.Equal(t, "receipt.pdf", got.OriginalName)
		assert.Equal(t, "application/pdf", got.MIMEType)
		assert.Equal(t, "7bit", got.Encoding)
		assert.Equal(t, int64(8), got.Size)
		assert.Equal(t, []byte("%PDF-1.7"), got.Buffer)
	})

	t.Run("missing file", func(t *testing.T) {
		req := multipartRequest(t, testPart{field: "other", filename: "a.txt", content: "x"})

		rec := serveUpload(t, req, SingleFile("receipt", 64), handler)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []errs.FieldError{{Field: "receipt", Error: "is required"}}, decodeError(t, rec).Errors)
	})

	t.Run("oversize file", func(t *testing.T) {
		req := multipartRequest(t, testPart{field: "receipt", filename: "big.bin", content: strings.Repeat("a", 65)})

		rec := serveUpload(t, req, SingleFile("receipt", 64), handler)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []errs.FieldError{{Field: "receipt", Error: "must not exceed 64 bytes"}}, decodeError(t, rec).Errors)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

		rec := serveUpload(t, req, SingleFile("receipt", 64), handler)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestMultipleFiles(t *testing.T) {
	var got []*model.UploadedFile
	handler := func(c echo.Context) error {
		got = GetUploadedFiles(c)
		return c.NoContent(http.StatusOK)
	}

	t.Run("attaches every file in order", func(t *testing.T) {
		req := multipartRequest(t,
			testPart{field: "documents", filename: "a.txt", content: "first"},
			testPart{field: "documents", filename: "b.txt", content: "second"},
		)

		rec := serveUpload(t, req, MultipleFiles("documents", 64), handler)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Len(t, got, 2)
		assert.Equal(t, "a.txt", got[0].OriginalName)
		assert.Equal(t, "b.txt", got[1].OriginalName)
		assert.Equal(t, int64(6), got[1].Size)
	})

	t.Run("too many files", func(t *testing.T) {
		parts := make([]testPart, MaxFilesPerField+1)
		for i := range parts {
			parts[i] = testPart{field: "documents", filename: "f.txt", content: "x"}
		}

		rec := serveUpload(t, multipartRequest(t, parts...), MultipleFiles("documents", 64), handler)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "5 MiB", formatBytes(model.MaxReceiptSize))
	assert.Equal(t, "2 KiB", formatBytes(2048))
	assert.Equal(t, "1500 bytes", formatBytes(1500))
}

func TestGettersWithoutValues(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.Nil(t, GetAuthUser(c))
	assert.Nil(t, GetUploadedFile(c))
	assert.Nil(t, GetUploadedFiles(c))
	assert.Empty(t, GetUserID(c))
	assert.NotNil(t, GetLogger(c))
}
