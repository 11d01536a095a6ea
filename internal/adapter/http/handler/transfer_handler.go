package handler

import (
	"context"
	"net/http"

	"github.com/giomartinsdev/butecobot-reloaded/internal/adapter/http/dto"
	"github.com/giomartinsdev/butecobot-reloaded/internal/usecase"
)

// TransferService defines the behavior needed by TransferHandler.
type TransferService interface {
	Transfer(ctx context.Context, input usecase.TransferInput) (*usecase.TransferResult, error)
}

// AirplaneService defines the behavior needed to throw airplanes.
type AirplaneService interface {
	Distribute(ctx context.Context, input usecase.DistributeInput) ([]usecase.AirplaneGrant, error)
}

// TransferHandler handles coin movements between members.
type TransferHandler struct {
	transferUC TransferService
	airplaneUC AirplaneService
	retrier    Retrier
	throttle   *Throttle
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC TransferService, airplaneUC AirplaneService, retrier Retrier, throttle *Throttle) *TransferHandler {
	return &TransferHandler{
		transferUC: transferUC,
		airplaneUC: airplaneUC,
		retrier:    retrier,
		throttle:   throttle,
	}
}

// Create moves coins from one member to another.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.TransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.throttle.allow(w, r, req.FromAccountID, "transfer") {
		return
	}

	var result *usecase.TransferResult
	err := retry(r.Context(), h.retrier, func() error {
		var err error
		result, err = h.transferUC.Transfer(r.Context(), req.ToUseCaseInput())
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to create transfer", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransferFromUseCase(result))
}

// Airplane rolls an airplane for every listed member.
func (h *TransferHandler) Airplane(w http.ResponseWriter, r *http.Request) {
	var req dto.AirplaneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.SenderExternalID == "" {
		writeError(w, http.StatusBadRequest, "missing sender", "")
		return
	}
	if !h.throttle.allow(w, r, req.SenderExternalID, "airplane") {
		return
	}

	grants, err := h.airplaneUC.Distribute(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeDomainError(w, "failed to throw airplanes", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AirplaneFromUseCase(grants))
}
