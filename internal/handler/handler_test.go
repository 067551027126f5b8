package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/dna-testing-api/internal/config"
	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/middleware"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
	"github.com/deppfellow/dna-testing-api/internal/sqlerr"
)

type memoryReviews struct {
	reviews map[uuid.UUID]*model.Review
}

func (m *memoryReviews) CreateReview(_ context.Context, review *model.Review) (*model.Review, error) {
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	m.reviews[review.ID] = review
	return review, nil
}

func (m *memoryReviews) GetReviewByID(_ context.Context, id uuid.UUID) (*model.Review, error) {
	review, ok := m.reviews[id]
	if !ok {
		return nil, sqlerr.WithTable(pgx.ErrNoRows, "reviews")
	}
	copied := *review
	return &copied, nil
}

func (m *memoryReviews) UpdateReview(_ context.Context, review *model.Review) (*model.Review, error) {
	m.reviews[review.ID] = review
	return review, nil
}

type memoryPayments struct {
	payments map[uuid.UUID]*model.SamplePayment
	receipts map[uuid.UUID]*model.ReceiptFile
}

func (m *memoryPayments) CreatePayment(_ context.Context, payment *model.SamplePayment) (*model.SamplePayment, error) {
	payment.ID = uuid.New()
	payment.CreatedAt = time.Now()
	m.payments[payment.ID] = payment
	return payment, nil
}

func (m *memoryPayments) GetPaymentByID(_ context.Context, id uuid.UUID) (*model.SamplePayment, error) {
	payment, ok := m.payments[id]
	if !ok {
		return nil, sqlerr.WithTable(pgx.ErrNoRows, "sample_payments")
	}
	return payment, nil
}

func (m *memoryPayments) AttachReceipt(_ context.Context, id uuid.UUID, file *model.UploadedFile) (*model.SamplePayment, error) {
	payment := m.payments[id]
	payment.Status = model.PaymentStatusReceived
	payment.Receipt = &model.Receipt{FileName: file.OriginalName, MIMEType: file.MIMEType, Size: file.Size, UploadedAt: time.Now()}
	m.receipts[id] = &model.ReceiptFile{FileName: file.OriginalName, MIMEType: file.MIMEType, Data: file.Buffer}
	return payment, nil
}

func (m *memoryPayments) GetReceipt(_ context.Context, id uuid.UUID) (*model.ReceiptFile, error) {
	receipt, ok := m.receipts[id]
	if !ok {
		return nil, sqlerr.WithTable(pgx.ErrNoRows, "sample_payments")
	}
	return receipt, nil
}

type memoryStats struct {
	daily []model.DailyLogStatistics
}

func (m *memoryStats) GetDailyStatistics(_ context.Context, _, _ *time.Time) ([]model.DailyLogStatistics, error) {
	return m.daily, nil
}

type testEnv struct {
	echo     *echo.Echo
	handlers *Handlers
	payments *memoryPayments
	user     *model.AuthUser
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zerolog.Nop()
	s := &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			App: config.AppConfig{
				Name:     config.DefaultAppName,
				Version:  config.DefaultAppVersion,
				DocsPath: config.DefaultDocsPath,
			},
		},
		Logger: &logger,
	}

	payments := &memoryPayments{payments: map[uuid.UUID]*model.SamplePayment{}, receipts: map[uuid.UUID]*model.ReceiptFile{}}
	services := &service.Services{
		Reviews:  service.NewReviewService(&memoryReviews{reviews: map[uuid.UUID]*model.Review{}}),
		Payments: service.NewPaymentService(payments, nil),
		Logs:     service.NewLogService(&memoryStats{}),
	}

	env := &testEnv{
		echo:     echo.New(),
		handlers: NewHandlers(s, services),
		payments: payments,
		user:     &model.AuthUser{ID: "user_1", Role: model.RoleCustomer},
	}
	env.echo.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler

	withUser := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if env.user != nil {
				c.Set(middleware.AuthUserKey, env.user)
				c.Set(middleware.UserIDKey, env.user.ID)
			}
			return next(c)
		}
	}

	h := env.handlers
	env.echo.GET("/", Handle(h.Index.Handler, h.Index.Index, http.StatusOK, &model.EmptyRequest{}))
	env.echo.GET("/api-docs", h.Index.ApiDocs)
	env.echo.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	v1 := env.echo.Group("/api/v1", withUser)
	v1.POST("/reviews", Handle(h.Reviews.Handler, h.Reviews.CreateReview, http.StatusCreated, &model.CreateReviewRequest{}))
	v1.PUT("/reviews/:id", Handle(h.Reviews.Handler, h.Reviews.UpdateReview, http.StatusOK, &model.UpdateReviewRequest{}))
	v1.POST("/sample-payments", Handle(h.Payments.Handler, h.Payments.CreatePayment, http.StatusCreated, &model.CreateSamplePaymentRequest{}))
	v1.POST("/sample-payments/:id/receipt",
		Handle(h.Payments.Handler, h.Payments.UploadReceipt, http.StatusOK, &model.UploadReceiptRequest{}),
		middleware.SingleFile(ReceiptField, model.MaxReceiptSize),
	)
	v1.GET("/sample-payments/:id/receipt", HandleFile(h.Payments.Handler, h.Payments.DownloadReceipt, http.StatusOK, &model.UploadReceiptRequest{}))
	v1.GET("/logs/statistics", Handle(h.Logs.Handler, h.Logs.GetStatistics, http.StatusOK, &model.GetLogStatisticsRequest{}))

	return env
}

func (env *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	env.echo.ServeHTTP(rec, req)
	return rec
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func decodeHTTPError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()

	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestIndex(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body model.IndexResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, config.DefaultAppName, body.Message)
	assert.Equal(t, config.DefaultAppVersion, body.Version)
	assert.Equal(t, "/docs", body.Documentation)
}

func TestApiDocsRedirects(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api-docs", nil))

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/docs", rec.Header().Get(echo.HeaderLocation))
}

func TestServeOpenAPIUI(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/docs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), echo.MIMETextHTML)
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")
}

func TestCreatePayment(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantErrors []errs.FieldError
	}{
		{
			name:       "below minimum",
			body:       `{"amount": 999}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []errs.FieldError{{Field: "amount", Error: "must be a number greater than or equal to 1000"}},
		},
		{
			name:       "missing amount",
			body:       `{"note": "first visit"}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []errs.FieldError{{Field: "amount", Error: "is required"}},
		},
		{
			name:       "wrong type",
			body:       `{"amount": "1000"}`,
			wantStatus: http.StatusBadRequest,
			wantErrors: []errs.FieldError{{Field: "amount", Error: "must be a number"}},
		},
		{name: "minimum", body: `{"amount": 1000}`, wantStatus: http.StatusCreated},
		{name: "fractional", body: `{"amount": 1000.5, "sample_id": "SMP-7"}`, wantStatus: http.StatusCreated},
		{name: "large amount", body: `{"amount": 1e15}`, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(jsonRequest(http.MethodPost, "/api/v1/sample-payments", tt.body))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantErrors != nil {
				assert.Equal(t, tt.wantErrors, decodeHTTPError(t, rec).Errors)
				return
			}

			var payment model.SamplePayment
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
			assert.Equal(t, model.PaymentStatusPending, payment.Status)
			assert.Equal(t, "user_1", payment.CreatedBy)
			assert.NotEqual(t, uuid.Nil, payment.ID)
		})
	}
}

func TestCreateReviewMissingComment(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/v1/reviews", `{"rating": 5, "appointment_id": "apt-1"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeHTTPError(t, rec)
	assert.Equal(t, []errs.FieldError{{Field: "comment", Error: "is required"}}, body.Errors)
}

func TestCreateReviewReportsEveryInvalidField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/v1/reviews", `{"comment": 5}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeHTTPError(t, rec)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "comment", Error: "must be a string"},
		{Field: "rating", Error: "is required"},
		{Field: "appointment_id", Error: "is required"},
	}, body.Errors)
}

func TestReviewLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/v1/reviews", `{"rating": 4, "comment": "quick results", "appointment_id": "apt-1"}`))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "user_1", created.CustomerID)

	update := `{"rating": 5, "comment": "even better", "appointment_id": "apt-1"}`

	env.user = &model.AuthUser{ID: "user_2", Role: model.RoleCustomer}
	rec = env.do(jsonRequest(http.MethodPut, "/api/v1/reviews/"+created.ID.String(), update))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	env.user = &model.AuthUser{ID: "user_1", Role: model.RoleCustomer}
	rec = env.do(jsonRequest(http.MethodPut, "/api/v1/reviews/"+created.ID.String(), update))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "even better", updated.Comment)
	assert.Equal(t, float64(5), updated.Rating)

	rec = env.do(jsonRequest(http.MethodPut, "/api/v1/reviews/"+uuid.NewString(), update))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(jsonRequest(http.MethodPut, "/api/v1/reviews/not-a-uuid", update))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id", decodeHTTPError(t, rec).Errors[0].Field)
}

func TestReviewRequiresUser(t *testing.T) {
	env := newTestEnv(t)
	env.user = nil

	rec := env.do(jsonRequest(http.MethodPost, "/api/v1/reviews", `{"rating": 4, "comment": "ok", "appointment_id": "apt-1"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func receiptRequest(t *testing.T, method, target string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(ReceiptField, "receipt.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.7"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func TestReceiptUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(jsonRequest(http.MethodPost, "/api/v1/sample-payments", `{"amount": 1500}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var payment model.SamplePayment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payment))
	target := "/api/v1/sample-payments/" + payment.ID.String() + "/receipt"

	rec = env.do(httptest.NewRequest(http.MethodGet, target, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(receiptRequest(t, http.MethodPost, "/api/v1/sample-payments/"+uuid.NewString()+"/receipt"))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(receiptRequest(t, http.MethodPost, target))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated model.SamplePayment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, model.PaymentStatusReceived, updated.Status)
	require.NotNil(t, updated.Receipt)
	assert.Equal(t, "receipt.pdf", updated.Receipt.FileName)
	assert.Equal(t, int64(8), updated.Receipt.Size)

	rec = env.do(httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename=receipt.pdf`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "%PDF-1.7", rec.Body.String())
}

func TestReceiptUploadWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("note", "forgot the file"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sample-payments/"+uuid.NewString()+"/receipt", &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := env.do(req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []errs.FieldError{{Field: ReceiptField, Error: "is required"}}, decodeHTTPError(t, rec).Errors)
}

func TestLogStatistics(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantField  string
	}{
		{name: "no bounds", query: "", wantStatus: http.StatusOK},
		{name: "date bounds", query: "?startDate=2024-01-01&endDate=2024-01-31", wantStatus: http.StatusOK},
		{name: "invalid start", query: "?startDate=not-a-date", wantStatus: http.StatusBadRequest, wantField: "startDate"},
		{name: "reversed", query: "?startDate=2024-02-01&endDate=2024-01-01", wantStatus: http.StatusBadRequest, wantField: "endDate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			rec := env.do(httptest.NewRequest(http.MethodGet, "/api/v1/logs/statistics"+tt.query, nil))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantField != "" {
				body := decodeHTTPError(t, rec)
				require.Len(t, body.Errors, 1)
				assert.Equal(t, tt.wantField, body.Errors[0].Field)
				return
			}

			var stats model.LogStatistics
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
			assert.NotNil(t, stats.Daily)
			assert.Zero(t, stats.Total)
		})
	}
}

func TestNewRequestIsFresh(t *testing.T) {
	witness := &model.CreateReviewRequest{Comment: "stale"}

	fresh := newRequest(witness)

	assert.NotSame(t, witness, fresh)
	assert.Empty(t, fresh.Comment)
}
