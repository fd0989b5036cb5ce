package rest

import (
	"encoding/json"
	"net/http"
	"strconv"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

// SubscriptionsHandler обрабатывает CRUD подписок и паузу
type SubscriptionsHandler struct {
	addUC    usecases_port.AddSubscriptionUseCasePort
	updateUC usecases_port.UpdateSubscriptionUseCasePort
	removeUC usecases_port.RemoveSubscriptionUseCasePort
	listUC   usecases_port.ListSubscriptionsUseCasePort
	pauseUC  usecases_port.PauseSubscriptionsUseCasePort
}

// NewSubscriptionsHandler - конструктор.
func NewSubscriptionsHandler(
	addUC usecases_port.AddSubscriptionUseCasePort,
	updateUC usecases_port.UpdateSubscriptionUseCasePort,
	removeUC usecases_port.RemoveSubscriptionUseCasePort,
	listUC usecases_port.ListSubscriptionsUseCasePort,
	pauseUC usecases_port.PauseSubscriptionsUseCasePort,
) *SubscriptionsHandler {
	return &SubscriptionsHandler{
		addUC:    addUC,
		updateUC: updateUC,
		removeUC: removeUC,
		listUC:   listUC,
		pauseUC:  pauseUC,
	}
}

// ListSubscriptions обрабатывает GET /api/v1/subscriptions
func (h *SubscriptionsHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "ListSubscriptions"})

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

	filters, total, err := h.listUC.Execute(r.Context(), userID, limit, offset)
	if err != nil {
		logger.Error("List subscriptions use case failed", err, port.Fields{"user_id": userID})
		WriteDomainError(w, err)
		return
	}

	response := PaginatedSubscriptionsResponse{
		Data:   make([]SubscriptionResponse, len(filters)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for i, f := range filters {
		response.Data[i] = toSubscriptionResponse(f)
	}

	RespondWithJSON(w, http.StatusOK, response)
}

// AddSubscription обрабатывает POST /api/v1/subscriptions
func (h *SubscriptionsHandler) AddSubscription(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "AddSubscription"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var reqDTO SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for add subscription", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	filter := &domain.UserFilter{
		UserID:       userID,
		PropertyType: reqDTO.PropertyType,
		City:         reqDTO.City,
		RoomsCount:   reqDTO.RoomsCount,
		PriceMin:     reqDTO.PriceMin,
		PriceMax:     reqDTO.PriceMax,
	}

	if err := h.addUC.Execute(r.Context(), filter); err != nil {
		logger.Error("Add subscription use case failed", err, port.Fields{"user_id": userID})
		WriteDomainError(w, err)
		return
	}

	logger.Info("Subscription created", port.Fields{"user_id": userID, "subscription_id": filter.ID})
	RespondWithJSON(w, http.StatusCreated, toSubscriptionResponse(filter))
}

// UpdateSubscription обрабатывает PUT /api/v1/subscriptions/{subscriptionID}
func (h *SubscriptionsHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "UpdateSubscription"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	subscriptionID, err := parseIDParam(r, "subscriptionID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid subscription ID in URL")
		return
	}

	var reqDTO SubscriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for update subscription", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	filter := &domain.UserFilter{
		ID:           subscriptionID,
		UserID:       userID,
		PropertyType: reqDTO.PropertyType,
		City:         reqDTO.City,
		RoomsCount:   reqDTO.RoomsCount,
		PriceMin:     reqDTO.PriceMin,
		PriceMax:     reqDTO.PriceMax,
	}

	if err := h.updateUC.Execute(r.Context(), filter); err != nil {
		logger.Error("Update subscription use case failed", err, port.Fields{
			"user_id":         userID,
			"subscription_id": subscriptionID,
		})
		WriteDomainError(w, err)
		return
	}

	RespondWithJSON(w, http.StatusOK, toSubscriptionResponse(filter))
}

// RemoveSubscription обрабатывает DELETE /api/v1/subscriptions/{subscriptionID}
func (h *SubscriptionsHandler) RemoveSubscription(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RemoveSubscription"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	subscriptionID, err := parseIDParam(r, "subscriptionID")
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid subscription ID in URL")
		return
	}

	if err := h.removeUC.Execute(r.Context(), userID, subscriptionID); err != nil {
		logger.Error("Remove subscription use case failed", err, port.Fields{
			"user_id":         userID,
			"subscription_id": subscriptionID,
		})
		WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// PauseSubscription обрабатывает POST /api/v1/subscriptions/{subscriptionID}/pause
func (h *SubscriptionsHandler) PauseSubscription(w http.ResponseWriter, r *http.Request) {
	h.pause(w, r, false)
}

// PauseAllSubscriptions обрабатывает POST /api/v1/subscriptions/pause
func (h *SubscriptionsHandler) PauseAllSubscriptions(w http.ResponseWriter, r *http.Request) {
	h.pause(w, r, true)
}

func (h *SubscriptionsHandler) pause(w http.ResponseWriter, r *http.Request, all bool) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "PauseSubscription"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	// subscriptionID == 0 - пауза/возобновление всех подписок пользователя
	var subscriptionID int64
	if !all {
		var err error
		subscriptionID, err = parseIDParam(r, "subscriptionID")
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "Invalid subscription ID in URL")
			return
		}
	}

	var reqDTO PauseRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for pause subscription", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.pauseUC.Execute(r.Context(), userID, subscriptionID, reqDTO.Paused); err != nil {
		logger.Error("Pause subscriptions use case failed", err, port.Fields{
			"user_id":         userID,
			"subscription_id": subscriptionID,
			"paused":          reqDTO.Paused,
		})
		WriteDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}
