package api

import (
	"context"
	"net/http"

	"PortfolioSentinel/internal/portfolio"

	"github.com/gin-gonic/gin"
)

// Service is the portfolio behavior the handlers depend on.
type Service interface {
	Summary(ctx context.Context) (portfolio.Summary, error)
	AddHolding(ctx context.Context, in portfolio.NewHolding) error
	DeleteHolding(ctx context.Context, symbol string) error
	Candles(ctx context.Context) (portfolio.CandleView, error)
	Details(ctx context.Context, symbol string) (portfolio.Details, error)
}

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

type addHoldingReq struct {
	Symbol   string  `json:"symbol" binding:"required"`
	Quantity float64 `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price" binding:"required,gt=0"`
	Currency string  `json:"currency" binding:"required"`
}

func (hd *Handler) Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (hd *Handler) GetHoldings(ctx *gin.Context) {
	sum, err := hd.svc.Summary(ctx.Request.Context())
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, sum)
}

func (hd *Handler) AddHolding(ctx *gin.Context) {
	var req addHoldingReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.Error(err).SetType(gin.ErrorTypeBind)
		return
	}

	err := hd.svc.AddHolding(ctx.Request.Context(), portfolio.NewHolding{
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    req.Price,
		Currency: req.Currency,
	})
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (hd *Handler) DeleteHolding(ctx *gin.Context) {
	if err := hd.svc.DeleteHolding(ctx.Request.Context(), ctx.Param("symbol")); err != nil {
		ctx.Error(err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (hd *Handler) GetCandles(ctx *gin.Context) {
	view, err := hd.svc.Candles(ctx.Request.Context())
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, view)
}

func (hd *Handler) GetDetails(ctx *gin.Context) {
	d, err := hd.svc.Details(ctx.Request.Context(), ctx.Param("symbol"))
	if err != nil {
		ctx.Error(err)
		return
	}
	ctx.JSON(http.StatusOK, d)
}
