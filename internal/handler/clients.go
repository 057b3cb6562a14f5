package handler

import (
	"net/http"

	"github.com/osse101/posrelay/internal/customer"
)

// HandleSearchClients finds customers by name or CUIT, ignoring case and accents
// @Summary Search clients
// @Tags clients
// @Produce json
// @Param q query string false "Name or CUIT fragment"
// @Success 200 {array} domain.Customer
// @Router /api/clients [get]
func HandleSearchClients(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Search(r.Context(), GetOptionalQueryParam(r, "q", ""))
		if err != nil {
			respondServiceError(w, r, "Search clients", err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// HandleSaveClient creates a customer or renames the one with the same CUIT
// @Summary Save client
// @Tags clients
// @Accept json
// @Produce json
// @Param request body customer.SaveInput true "Client"
// @Success 200 {object} domain.Customer
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/clients [post]
func HandleSaveClient(svc CustomerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req customer.SaveInput
		if err := DecodeAndValidateRequest(r, w, &req, "Save client"); err != nil {
			return
		}
		c, err := svc.Save(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, "Save client", err)
			return
		}
		respondJSON(w, http.StatusOK, c)
	}
}
