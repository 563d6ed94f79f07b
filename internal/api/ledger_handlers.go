package api

import (
	"errors"
	"net/http"

	"papertrade/internal/ledger"
	"papertrade/internal/metrics"
	"papertrade/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// buyRequest mirrors the body the mobile client already sends.
type buyRequest struct {
	Ticker   string          `json:"Ticker" binding:"required,ticker"`
	Name     string          `json:"Name"`
	Qty      int64           `json:"Qty" binding:"required"`
	AvgPrice decimal.Decimal `json:"AvgPrice"`
}

type sellRequest struct {
	Ticker    string          `json:"Ticker" binding:"required,ticker"`
	Qty       int64           `json:"Qty" binding:"required"`
	CurrPrice decimal.Decimal `json:"currPrice"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type watchlistRequest struct {
	Ticker string `json:"ticker" binding:"required,ticker"`
	Name   string `json:"name"`
}

// holdingResponse is a holding plus the existence flag the single-stock view
// checks before rendering the position card.
type holdingResponse struct {
	models.Holding
	Exist bool `json:"exist"`
}

// respondLedgerError maps settlement failures onto the status and message
// strings the client matches on. Only invalid input gets a 400; the rest
// keeps the legacy 500 envelope.
func (s *Server) respondLedgerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		respondError(c, http.StatusInternalServerError, "Insufficient Funds")
	case errors.Is(err, ledger.ErrInsufficientQty):
		respondError(c, http.StatusInternalServerError, "Insufficient Quantity")
	case errors.Is(err, ledger.ErrHoldingNotFound):
		respondError(c, http.StatusInternalServerError, "Item not found")
	case errors.Is(err, ledger.ErrWalletNotFound):
		respondError(c, http.StatusInternalServerError, "Wallet not found")
	case errors.Is(err, ledger.ErrInvalidArgument):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("Ledger operation failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) getWallet(c *gin.Context) {
	wallet, err := s.ledger.Wallet(c.Request.Context())
	if err != nil {
		s.respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": wallet, "err": ""})
}

func (s *Server) deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.Deposit(c.Request.Context(), req.Amount); err != nil {
		s.respondLedgerError(c, err)
		return
	}
	respondSuccess(c)
}

func (s *Server) getPortfolio(c *gin.Context) {
	holdings, err := s.ledger.Holdings(c.Request.Context())
	if err != nil {
		s.respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, holdings)
}

func (s *Server) getHolding(c *gin.Context) {
	holding, exists, err := s.ledger.Holding(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondLedgerError(c, err)
		return
	}
	// Absence is a normal outcome: a zero-value stub with exist=false.
	c.JSON(http.StatusOK, holdingResponse{Holding: holding, Exist: exists})
}

func (s *Server) buy(c *gin.Context) {
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := s.ledger.Buy(c.Request.Context(), req.Ticker, req.Name, req.Qty, req.AvgPrice)
	if err != nil {
		metrics.SettlementCounter.WithLabelValues("buy", "rejected").Inc()
		s.respondLedgerError(c, err)
		return
	}
	metrics.SettlementCounter.WithLabelValues("buy", "settled").Inc()
	respondSuccess(c)
}

func (s *Server) sell(c *gin.Context) {
	var req sellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	err := s.ledger.Sell(c.Request.Context(), req.Ticker, req.Qty, req.CurrPrice)
	if err != nil {
		metrics.SettlementCounter.WithLabelValues("sell", "rejected").Inc()
		s.respondLedgerError(c, err)
		return
	}
	metrics.SettlementCounter.WithLabelValues("sell", "settled").Inc()
	respondSuccess(c)
}

func (s *Server) getWatchlist(c *gin.Context) {
	items, err := s.ledger.Favorites(c.Request.Context())
	if err != nil {
		s.respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *Server) watchlistContains(c *gin.Context) {
	watched, err := s.ledger.IsFavorite(c.Request.Context(), c.Param("ticker"))
	if err != nil {
		s.respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"response": watched, "err": ""})
}

func (s *Server) addToWatchlist(c *gin.Context) {
	var req watchlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.ledger.AddFavorite(c.Request.Context(), req.Ticker, req.Name); err != nil {
		s.respondLedgerError(c, err)
		return
	}
	respondSuccess(c)
}

func (s *Server) removeFromWatchlist(c *gin.Context) {
	if err := s.ledger.RemoveFavorite(c.Request.Context(), c.Param("ticker")); err != nil {
		s.respondLedgerError(c, err)
		return
	}
	respondSuccess(c)
}
