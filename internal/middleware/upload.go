package middleware

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/model"
)

const (
	// MaxFilesPerField bounds MultipleFiles.
	MaxFilesPerField = 10

	multipartMemory   = 32 << 20
	multipartOverhead = 1 << 20
)

// SingleFile reads exactly one file from the multipart field and attaches
// it for GetUploadedFile. Files larger than maxBytes are rejected.
func SingleFile(field string, maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			files, err := readFiles(c, field, maxBytes, 1)
			if err != nil {
				return err
			}

			c.Set(UploadedFileKey, files[0])
			return next(c)
		}
	}
}

// MultipleFiles reads up to MaxFilesPerField files from the multipart
// field and attaches them for GetUploadedFiles.
func MultipleFiles(field string, maxBytes int64) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			files, err := readFiles(c, field, maxBytes, MaxFilesPerField)
			if err != nil {
				return err
			}

			c.Set(UploadedFilesKey, files)
			return next(c)
		}
	}
}

func readFiles(c echo.Context, field string, maxBytes int64, maxFiles int) ([]*model.UploadedFile, error) {
	req := c.Request()

	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return nil, errs.NewBadRequestError("Request must be multipart/form-data", false, nil, nil, nil)
	}

	req.Body = http.MaxBytesReader(c.Response(), req.Body, maxBytes*int64(maxFiles)+multipartOverhead)

	if err := req.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fileTooLarge(field, maxBytes)
		}
		return nil, errs.NewBadRequestError("Invalid multipart payload", false, nil, nil, nil)
	}

	headers := req.MultipartForm.File[field]
	if len(headers) == 0 {
		return nil, errs.NewBadRequestError("File is required", false, nil, []errs.FieldError{
			{Field: field, Error: "is required"},
		}, nil)
	}
	if len(headers) > maxFiles {
		return nil, errs.NewBadRequestError("Too many files", false, nil, []errs.FieldError{
			{Field: field, Error: fmt.Sprintf("must contain at most %d files", maxFiles)},
		}, nil)
	}

	files := make([]*model.UploadedFile, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxBytes {
			return nil, fileTooLarge(field, maxBytes)
		}

		file, err := readFile(field, header)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}

func readFile(field string, header *multipart.FileHeader) (*model.UploadedFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	buffer, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	encoding := header.Header.Get("Content-Transfer-Encoding")
	if encoding == "" {
		encoding = "7bit"
	}

	mimeType := header.Header.Get(echo.HeaderContentType)
	if mimeType == "" {
		mimeType = http.DetectContentType(buffer)
	}

	return &model.UploadedFile{
		FieldName:    field,
		OriginalName: header.Filename,
		Encoding:     encoding,
		MIMEType:     mimeType,
		Size:         int64(len(buffer)),
		Buffer:       buffer,
	}, nil
}

func fileTooLarge(field string, maxBytes int64) error {
	return errs.NewBadRequestError("File too large", false, nil, []errs.FieldError{
		{Field: field, Error: "must not exceed " + formatBytes(maxBytes)},
	}, nil)
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20 && n%(1<<20) == 0:
		return fmt.Sprintf("%d MiB", n>>20)
	case n >= 1<<10 && n%(1<<10) == 0:
		return fmt.Sprintf("%d KiB", n>>10)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
