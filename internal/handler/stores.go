package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/posrelay/internal/stores"
)

// VerifyStoreRequest carries a store password typed at the register
type VerifyStoreRequest struct {
	Password string `json:"password" validate:"max=72"`
}

// VerifyStoreResponse reports a successful store unlock
type VerifyStoreResponse struct {
	Success bool `json:"success"`
}

// HandleListStores returns every store
// @Summary List stores
// @Tags stores
// @Produce json
// @Success 200 {array} domain.Store
// @Router /api/stores [get]
func HandleListStores(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			respondServiceError(w, r, "List stores", err)
			return
		}
		respondJSON(w, http.StatusOK, list)
	}
}

// HandleSaveStore creates or replaces a store
// @Summary Save store
// @Tags stores
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body stores.SaveInput true "Store"
// @Success 200 {object} domain.Store
// @Failure 400 {object} ValidationErrorResponse
// @Router /api/stores [post]
func HandleSaveStore(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stores.SaveInput
		if err := DecodeAndValidateRequest(r, w, &req, "Save store"); err != nil {
			return
		}
		store, err := svc.Save(r.Context(), req)
		if err != nil {
			respondServiceError(w, r, "Save store", err)
			return
		}
		respondJSON(w, http.StatusOK, store)
	}
}

// HandleDeleteStore removes a store
// @Summary Delete store
// @Tags stores
// @Produce json
// @Security BearerAuth
// @Param id path string true "Store id"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/stores/{id} [delete]
func HandleDeleteStore(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			respondServiceError(w, r, "Delete store", err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgStoreDeleted})
	}
}

// HandleVerifyStore checks a store password
// @Summary Verify store password
// @Tags stores
// @Accept json
// @Produce json
// @Param id path string true "Store id"
// @Param request body VerifyStoreRequest true "Password"
// @Success 200 {object} VerifyStoreResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/stores/{id}/verify [post]
func HandleVerifyStore(svc StoreService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyStoreRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Verify store"); err != nil {
			return
		}
		if err := svc.Verify(r.Context(), chi.URLParam(r, "id"), req.Password); err != nil {
			respondServiceError(w, r, "Verify store", err)
			return
		}
		respondJSON(w, http.StatusOK, VerifyStoreResponse{Success: true})
	}
}
