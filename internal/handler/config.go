package handler

import (
	"net/http"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/event"
)

// ServerInfo is advertised to registers so they can reach the relay on the LAN
type ServerInfo struct {
	IP        string
	Port      int
	PublicURL string
}

// ConfigResponse is the catalog as seen by a register.
// Categories is null when no global catalog was ever written and [] for a
// store without its own catalog.
type ConfigResponse struct {
	Categories domain.Catalog `json:"categories"`
	Version    int64          `json:"version"`
	StoreID    string         `json:"storeId,omitempty"`
	ServerIP   string         `json:"serverIp"`
	Port       int            `json:"port"`
	PublicURL  string         `json:"publicUrl,omitempty"`
}

// SaveConfigRequest replaces the catalog for a store, or the global one.
// BaseVersion is the version the editor loaded; when omitted the write is unconditional.
type SaveConfigRequest struct {
	Categories  *domain.Catalog `json:"categories" validate:"required"`
	StoreID     string          `json:"storeId,omitempty" validate:"omitempty,max=64,storeid"`
	BaseVersion *int64          `json:"baseVersion,omitempty" validate:"omitempty,min=0"`
}

// SaveConfigResponse reports the version written
type SaveConfigResponse struct {
	Message string `json:"message"`
	Version int64  `json:"version"`
	StoreID string `json:"storeId,omitempty"`
}

// HandleGetConfig returns the catalog for ?storeId= or the global catalog
// @Summary Get catalog
// @Description Returns the catalog of a store, or the global catalog when storeId is omitted
// @Tags config
// @Produce json
// @Param storeId query string false "Store id"
// @Success 200 {object} ConfigResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/config [get]
func HandleGetConfig(svc CatalogService, info ServerInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeID := GetOptionalQueryParam(r, "storeId", "")
		if storeID != "" && !storeIDPattern.MatchString(storeID) {
			respondError(w, http.StatusBadRequest, ErrMsgInvalidInputError)
			return
		}

		rec, err := svc.Get(r.Context(), storeID)
		if err != nil {
			respondServiceError(w, r, "Get config", err)
			return
		}

		respondJSON(w, http.StatusOK, ConfigResponse{
			Categories: rec.Categories,
			Version:    rec.Version,
			StoreID:    storeID,
			ServerIP:   info.IP,
			Port:       info.Port,
			PublicURL:  info.PublicURL,
		})
	}
}

// HandleSaveConfig persists a catalog and broadcasts config_updated.
// The route requires a master or admin token.
// @Summary Save catalog
// @Description Replaces a catalog. A stale baseVersion is rejected with 409.
// @Tags config
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveConfigRequest true "Catalog"
// @Success 200 {object} SaveConfigResponse
// @Failure 400 {object} ValidationErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/config [post]
func HandleSaveConfig(svc CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveConfigRequest
		if err := DecodeAndValidateRequest(r, w, &req, "Save config"); err != nil {
			return
		}

		rec, err := svc.Save(r.Context(), req.StoreID, *req.Categories, req.BaseVersion, event.SourceREST)
		if err != nil {
			respondServiceError(w, r, "Save config", err)
			return
		}

		respondJSON(w, http.StatusOK, SaveConfigResponse{
			Message: MsgConfigSaved,
			Version: rec.Version,
			StoreID: rec.StoreID,
		})
	}
}
