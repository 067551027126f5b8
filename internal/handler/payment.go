package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/dna-testing-api/internal/errs"
	"github.com/deppfellow/dna-testing-api/internal/middleware"
	"github.com/deppfellow/dna-testing-api/internal/model"
	"github.com/deppfellow/dna-testing-api/internal/server"
	"github.com/deppfellow/dna-testing-api/internal/service"
)

// ReceiptField is the multipart field carrying a payment receipt.
const ReceiptField = "receipt"

type PaymentHandler struct {
	Handler
	payments *service.PaymentService
}

func NewPaymentHandler(s *server.Server, payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		Handler:  NewHandler(s),
		payments: payments,
	}
}

// CreatePayment godoc
//
//	@Summary	Record a sample payment
//	@Tags		Payments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		model.CreateSamplePaymentRequest	true	"Payment"
//	@Success	201		{object}	model.SamplePayment
//	@Failure	400		{object}	errs.HTTPError
//	@Router		/api/v1/sample-payments [post]
func (h *PaymentHandler) CreatePayment(c echo.Context, req *model.CreateSamplePaymentRequest) (*model.SamplePayment, error) {
	user, err := authUser(c)
	if err != nil {
		return nil, err
	}

	return h.payments.CreatePayment(c.Request().Context(), user, req)
}

// UploadReceipt godoc
//
//	@Summary	Upload the receipt of a sample payment
//	@Tags		Payments
//	@Accept		multipart/form-data
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		string	true	"Payment ID"	format(uuid)
//	@Param		receipt	formData	file	true	"Receipt, at most 5 MiB"
//	@Success	200		{object}	model.SamplePayment
//	@Failure	400		{object}	errs.HTTPError
//	@Failure	403		{object}	errs.HTTPError
//	@Failure	404		{object}	errs.HTTPError
//	@Router		/api/v1/sample-payments/{id}/receipt [post]
func (h *PaymentHandler) UploadReceipt(c echo.Context, req *model.UploadReceiptRequest) (*model.SamplePayment, error) {
	file := middleware.GetUploadedFile(c)
	if file == nil {
		return nil, errs.NewBadRequestError("File is required", false, nil, []errs.FieldError{
			{Field: ReceiptField, Error: "is required"},
		}, nil)
	}

	user, err := authUser(c)
	if err != nil {
		return nil, err
	}

	return h.payments.UploadReceipt(c.Request().Context(), user, req, file)
}

// DownloadReceipt godoc
//
//	@Summary	Download the receipt of a sample payment
//	@Tags		Payments
//	@Produce	octet-stream
//	@Security	BearerAuth
//	@Param		id	path		string	true	"Payment ID"	format(uuid)
//	@Success	200	{file}		binary
//	@Failure	403	{object}	errs.HTTPError
//	@Failure	404	{object}	errs.HTTPError
//	@Router		/api/v1/sample-payments/{id}/receipt [get]
func (h *PaymentHandler) DownloadReceipt(c echo.Context, req *model.UploadReceiptRequest) (*model.ReceiptFile, error) {
	user, err := authUser(c)
	if err != nil {
		return nil, err
	}

	return h.payments.DownloadReceipt(c.Request().Context(), user, req)
}
