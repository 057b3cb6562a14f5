package handler

import (
	"net/http"

	"github.com/osse101/posrelay/internal/domain"
)

// SaleResponse acknowledges a recorded ticket
type SaleResponse struct {
	Message string `json:"message"`
	ID      string `json:"id"`
	Stored  bool   `json:"stored"`
}

// SyncRequest carries tickets a register closed while offline
type SyncRequest struct {
	Tickets []domain.ClosedTicket `json:"tickets" validate:"required"`
}

// HandleListSales returns recent tickets, newest first
// @Summary List sales
// @Tags sales
// @Produce json
// @Success 200 {array} domain.ClosedTicket
// @Failure 500 {object} ErrorResponse
// @Router /api/sales [get]
func HandleListSales(svc SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tickets, err := svc.List(r.Context())
		if err != nil {
			respondServiceError(w, r, "List sales", err)
			return
		}
		respondJSON(w, http.StatusOK, tickets)
	}
}

// HandleRecordSale stores one closed ticket. Re-sending a known id is accepted
// and leaves the stored ticket unchanged.
// @Summary Record sale
// @Tags sales
// @Accept json
// @Produce json
// @Param request body domain.ClosedTicket true "Closed ticket"
// @Success 200 {object} SaleResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/sales [post]
func HandleRecordSale(svc SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var t domain.ClosedTicket
		if err := DecodeAndValidateRequest(r, w, &t, "Record sale"); err != nil {
			return
		}

		stored, err := svc.Record(r.Context(), t)
		if err != nil {
			respondServiceError(w, r, "Record sale", err)
			return
		}

		msg := MsgSaleSaved
		if !stored {
			msg = MsgSaleExisted
		}
		respondJSON(w, http.StatusOK, SaleResponse{Message: msg, ID: t.ID, Stored: stored})
	}
}

// HandleSync ingests a batch of tickets on a best-effort basis
// @Summary Bulk sync sales
// @Description Stores each ticket independently and broadcasts the batch as new_data
// @Tags sales
// @Accept json
// @Produce json
// @Param request body SyncRequest true "Tickets"
// @Success 200 {object} sales.SyncResult
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/sync [post]
func HandleSync(svc SalesService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SyncRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Sync sales"); err != nil {
			return
		}
		respondJSON(w, http.StatusOK, svc.Sync(r.Context(), req.Tickets))
	}
}
