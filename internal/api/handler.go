package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/domain/dto"
	"github.com/guttosm/b3yield/internal/domain/models"
	"github.com/guttosm/b3yield/internal/instrument"
	"github.com/guttosm/b3yield/internal/middleware"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/quote"
	"github.com/guttosm/b3yield/internal/schedule"
	"github.com/guttosm/b3yield/internal/service"
	"github.com/guttosm/b3yield/internal/yield"
)

// Handler provides HTTP handlers for the pricing endpoints.
//
// Responsibilities:
//   - Bind and validate JSON bodies and query parameters
//   - Delegate pricing to the service layer
//   - Translate results into response DTOs
//   - Map domain errors to HTTP status codes
type Handler struct {
	svc service.PricingService
}

// NewHandler constructs a new Handler instance.
func NewHandler(svc service.PricingService) *Handler {
	return &Handler{svc: svc}
}

// statusFor maps service and domain errors to an HTTP status.
//
//   - 400: malformed input (missing fields, bad numbers, bad digit positions)
//   - 404: stored quotation not found
//   - 422: well-formed terms the methodology cannot price
//   - 504: request deadline exceeded
//   - 500: anything else
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, numeric.ErrDigitsOverflow),
		errors.Is(err, quote.ErrInvalidContext):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, instrument.ErrInvalidTerms),
		errors.Is(err, schedule.ErrIrregularPeriod),
		errors.Is(err, schedule.ErrInvalidSpan),
		errors.Is(err, yield.ErrInvalidYield),
		errors.Is(err, yield.ErrSettlement),
		errors.Is(err, calendar.ErrUnavailable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func fail(c *gin.Context, message string, err error) {
	middleware.AbortWithError(c, statusFor(err), message, err)
}

func badRequest(c *gin.Context, message string, err error) {
	middleware.AbortWithError(c, http.StatusBadRequest, message, err)
}

// PriceBill handles POST /api/v1/bills/price.
//
// PriceBill godoc
// @Summary      Price a bill
// @Description  Settlement price of a zero-coupon bill at a yield under the ANBIMA convention
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.PriceRequest    true  "Bill, settlement date and yield"
// @Success      200      {object}  dto.PriceResponse   "Success"
// @Failure      400      {object}  dto.ErrorResponse   "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse   "Cannot price"
// @Failure      500      {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/bills/price [post]
func (h *Handler) PriceBill(c *gin.Context) {
	h.price(c, instrument.KindBill)
}

// PriceBond handles POST /api/v1/bonds/price.
//
// PriceBond godoc
// @Summary      Price a bond
// @Description  Settlement price of a coupon bond at a yield under the ANBIMA convention
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.PriceRequest    true  "Bond, settlement date and yield"
// @Success      200      {object}  dto.PriceResponse   "Success"
// @Failure      400      {object}  dto.ErrorResponse   "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse   "Cannot price"
// @Failure      500      {object}  dto.ErrorResponse   "Internal Error"
// @Router       /api/v1/bonds/price [post]
func (h *Handler) PriceBond(c *gin.Context) {
	h.price(c, instrument.KindBond)
}

func (h *Handler) price(c *gin.Context, kind instrument.Kind) {
	var body dto.PriceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	if body.Instrument.Kind == "" {
		body.Instrument.Kind = string(kind)
	}
	if !strings.EqualFold(body.Instrument.Kind, string(kind)) {
		badRequest(c, "instrument kind does not match endpoint", errors.New("expected "+string(kind)))
		return
	}
	req, err := body.ToModel()
	if err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	res, err := h.svc.Price(c.Request.Context(), req)
	if err != nil {
		fail(c, "failed to price "+string(kind), err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPriceResponse(*res))
}

// BondCashFlows handles POST /api/v1/bonds/cashflows.
//
// BondCashFlows godoc
// @Summary      Cash-flow schedule
// @Description  Coupon schedule and business-day adjusted payments of an instrument
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.CashFlowsRequest   true  "Instrument terms"
// @Success      200      {object}  dto.CashFlowsResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse      "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse      "Invalid terms"
// @Failure      500      {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/bonds/cashflows [post]
func (h *Handler) BondCashFlows(c *gin.Context) {
	var body dto.CashFlowsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	if body.Instrument.Kind == "" {
		body.Instrument.Kind = string(instrument.KindBond)
	}
	spec, err := body.Instrument.ToSpec()
	if err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	kind, err := numeric.ParseKind(body.Numeric)
	if err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	res, err := h.svc.CashFlows(c.Request.Context(), spec, kind)
	if err != nil {
		fail(c, "failed to build cash flows", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCashFlowsResponse(*res))
}

// Yield handles POST /api/v1/yield.
//
// Yield godoc
// @Summary      Yield from price
// @Description  Yield that reproduces an observed settlement price (bills in closed form, bonds by bisection)
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.YieldRequest   true  "Instrument, settlement date and price"
// @Success      200      {object}  dto.YieldResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse  "No yield reproduces the price"
// @Failure      500      {object}  dto.ErrorResponse  "Internal Error"
// @Router       /api/v1/yield [post]
func (h *Handler) Yield(c *gin.Context) {
	var body dto.YieldRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	req, err := body.ToModel()
	if err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	res, err := h.svc.Yield(c.Request.Context(), req)
	if err != nil {
		fail(c, "failed to compute yield", err)
		return
	}
	c.JSON(http.StatusOK, dto.YieldResponse{
		Yield:       res.Yield,
		Numeric:     string(res.Numeric),
		Methodology: res.Methodology,
	})
}

// PriceBatch handles POST /api/v1/prices/batch.
//
// PriceBatch godoc
// @Summary      Batch pricing
// @Description  Prices up to 1000 instruments concurrently; results keep the request order
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.BatchPriceRequest   true  "Price requests"
// @Success      200      {object}  dto.BatchPriceResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse       "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse       "Cannot price"
// @Failure      500      {object}  dto.ErrorResponse       "Internal Error"
// @Router       /api/v1/prices/batch [post]
func (h *Handler) PriceBatch(c *gin.Context) {
	var body dto.BatchPriceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	reqs := make([]models.PriceRequest, 0, len(body.Items))
	for i, item := range body.Items {
		req, err := item.ToModel()
		if err != nil {
			badRequest(c, "invalid item "+strconv.Itoa(i), err)
			return
		}
		reqs = append(reqs, req)
	}

	res, err := h.svc.PriceBatch(c.Request.Context(), reqs)
	if err != nil {
		fail(c, "failed to price batch", err)
		return
	}
	out := dto.BatchPriceResponse{Results: make([]dto.PriceResponse, 0, len(res))}
	for _, r := range res {
		out.Results = append(out.Results, dto.NewPriceResponse(r))
	}
	c.JSON(http.StatusOK, out)
}

// Sweep handles POST /api/v1/sweep.
//
// Sweep godoc
// @Summary      Precision sweep
// @Description  Prices a bill across a yield range in float64 and decimal and reports where the gap grows
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request  body      dto.SweepRequest   true  "Bill, settlement date and yield range in percent"
// @Success      200      {object}  dto.SweepResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse  "Bad Request"
// @Failure      422      {object}  dto.ErrorResponse  "Cannot price"
// @Failure      504      {object}  dto.ErrorResponse  "Timeout"
// @Router       /api/v1/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	var body dto.SweepRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request body", err)
		return
	}
	if body.Instrument.Kind == "" {
		body.Instrument.Kind = string(instrument.KindBill)
	}
	req, err := body.ToModel()
	if err != nil {
		badRequest(c, "invalid request body", err)
		return
	}

	res, err := h.svc.Sweep(c.Request.Context(), req)
	if err != nil {
		fail(c, "failed to run sweep", err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSweepResponse(*res))
}

// GetQuotations handles GET /api/v1/quotations.
//
// Query Parameters:
//   - date (string, required): reference date in YYYY-MM-DD format.
//   - code (string, optional): instrument code; when set a single quotation is returned.
//
// GetQuotations godoc
// @Summary      Stored quotations
// @Description  Quotations priced from the daily ANBIMA rate files
// @Tags         quotations
// @Produce      json
// @Param        date  query     string  true   "Reference date in YYYY-MM-DD" example(2008-05-21)
// @Param        code  query     string  false  "Instrument code" example(LTN-20100701)
// @Success      200   {array}   dto.QuotationResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse      "Bad Request"
// @Failure      404   {object}  dto.ErrorResponse      "Not Found"
// @Failure      500   {object}  dto.ErrorResponse      "Internal Error"
// @Router       /api/v1/quotations [get]
func (h *Handler) GetQuotations(c *gin.Context) {
	date, err := dto.ParseDate("date", c.Query("date"))
	if err != nil {
		badRequest(c, "invalid date", err)
		return
	}
	ctx := c.Request.Context()

	if code := strings.TrimSpace(c.Query("code")); code != "" {
		q, err := h.svc.GetQuotation(ctx, code, date)
		if err != nil {
			fail(c, "failed to fetch quotation", err)
			return
		}
		c.JSON(http.StatusOK, []dto.QuotationResponse{dto.NewQuotationResponse(*q)})
		return
	}

	list, err := h.svc.ListQuotations(ctx, date)
	if err != nil {
		fail(c, "failed to fetch quotations", err)
		return
	}
	if len(list) == 0 {
		middleware.AbortWithError(c, http.StatusNotFound, "no data found", nil)
		return
	}
	out := make([]dto.QuotationResponse, 0, len(list))
	for _, q := range list {
		out = append(out, dto.NewQuotationResponse(q))
	}
	c.JSON(http.StatusOK, out)
}
