package handler

import (
	"mime"
	"reflect"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/middleware"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/validation"
)

// Handler carries the shared application dependencies of every handler.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint. Req is a pointer to a request struct so
// it can be bound; it is validated before the function runs.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// ResponseHandler writes a successful result and describes it for logs
// and traces.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {}

// FileResponseHandler sends a *model.ReceiptFile as an attachment.
type FileResponseHandler struct {
	status int
}

func (h FileResponseHandler) Handle(c echo.Context, result interface{}) error {
	file := result.(*model.ReceiptFile)

	c.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": file.FileName}))

	return c.Blob(h.status, file.MIMEType, file.Data)
}

func (h FileResponseHandler) GetOperation() string {
	return "handler_file"
}

func (h FileResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	file, ok := result.(*model.ReceiptFile)
	if txn == nil || !ok {
		return
	}

	txn.AddAttribute("file.name", file.FileName)
	txn.AddAttribute("file.content_type", file.MIMEType)
	txn.AddAttribute("file.size_bytes", len(file.Data))
}

// handleRequest binds and validates req, runs handler and writes the
// result through responseHandler. Timings are logged and attached to the
// New Relic transaction. Errors are returned untouched for the global
// error handler.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", c.Request().Method).
		Str("route", route).
		Logger()

	logger.Debug().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", time.Since(start)).
			Msg("handler execution failed")

		if txn != nil {
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		}
		return err
	}

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", time.Since(start).Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", time.Since(start)).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle adapts a typed JSON endpoint into an echo.HandlerFunc.
//
//	g.POST("/reviews", handler.Handle(h.Handler, h.CreateReview, http.StatusCreated, &model.CreateReviewRequest{}))
//
// req is only used as a type witness; a fresh value is bound per request.
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// HandleFile adapts an endpoint returning a stored file.
func HandleFile[Req validation.Validatable](
	h Handler,
	handler HandlerFunc[Req, *model.ReceiptFile],
	status int,
	req Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newRequest(req), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, FileResponseHandler{status: status})
	}
}

// authUser returns the user attached by RequireAuth.
func authUser(c echo.Context) (*model.AuthUser, error) {
	user := middleware.GetAuthUser(c)
	if user == nil {
		return nil, errs.NewUnauthorizedError("Unauthorized", false)
	}
	return user, nil
}

// newRequest returns a fresh value of the struct req points to, so
// concurrent requests never share a bound payload.
func newRequest[Req any](req Req) Req {
	t := reflect.TypeOf(req)
	if t == nil || t.Kind() != reflect.Pointer {
		return req
	}
	return reflect.New(t.Elem()).Interface().(Req)
}
