package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/port/usecases_port"
)

// FavoritesHandler обрабатывает закладки пользователя
type FavoritesHandler struct {
	addUC    usecases_port.AddFavoriteUseCasePort
	removeUC usecases_port.RemoveFavoriteUseCasePort
	listUC   usecases_port.ListFavoritesUseCasePort
}

// NewFavoritesHandler - конструктор.
func NewFavoritesHandler(
	addUC usecases_port.AddFavoriteUseCasePort,
	removeUC usecases_port.RemoveFavoriteUseCasePort,
	listUC usecases_port.ListFavoritesUseCasePort,
) *FavoritesHandler {
	return &FavoritesHandler{
		addUC:    addUC,
		removeUC: removeUC,
		listUC:   listUC,
	}
}

// ListFavorites обрабатывает GET /api/v1/favorites
func (h *FavoritesHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListFavorites"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	ads, total, err := h.listUC.Execute(r.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("List favorites use case failed", err, port.Fields{"user_id": userID})
		WriteDomainError(w, err)
		return
	}

	response := PaginatedFavoritesResponse{
		Data:   make([]AdResponse, len(ads)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, ad := range ads {
		response.Data[i] = toAdResponse(ad)
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// AddFavorite обрабатывает POST /api/v1/favorites
func (h *FavoritesHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddFavorite"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var reqDTO AddFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for add favorite", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if reqDTO.AdID <= 0 {
		WriteJSONError(w, http.StatusBadRequest, "ad_id must be a positive integer")
		return
	}

	if err := h.addUC.Execute(r.Context(), userID, reqDTO.AdID); err != nil {
		logger.Error("Add favorite use case failed", err, port.Fields{
			"user_id": userID,
			"ad_id":   reqDTO.AdID,
		})
		WriteDomainError(w, err)
		return
	}

	logger.Info("Ad added to favorites", port.Fields{"user_id": userID, "ad_id": reqDTO.AdID})
	w.WriteHeader(http.StatusCreated)
}

// RemoveFavorite обрабатывает DELETE /api/v1/favorites/{adID}
func (h *FavoritesHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveFavorite"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	adID, err := parseIDParam(r, "adID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid ad ID in URL")
		return
	}

	if err := h.removeUC.Execute(r.Context(), userID, adID); err != nil {
		logger.Error("Remove favorite use case failed", err, port.Fields{
			"user_id": userID,
			"ad_id":   adID,
		})
		WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
