package rest

import (
	"encoding/json"
	"net/http"

	"realty-notify-system/internal/contextkeys"
	"realty-notify-system/internal/core/domain"
	"realty-notify-system/internal/core/port"
	"realty-notify-system/internal/core/port/usecases_port"
)

// UsersHandler обрабатывает регистрацию контактов и слияние аккаунтов
type UsersHandler struct {
	registerUC usecases_port.RegisterContactUseCasePort
	linkUC     usecases_port.LinkAccountsUseCasePort
}

// NewUsersHandler - конструктор.
func NewUsersHandler(
	registerUC usecases_port.RegisterContactUseCasePort,
	linkUC usecases_port.LinkAccountsUseCasePort,
) *UsersHandler {
	return &UsersHandler{
		registerUC: registerUC,
		linkUC:     linkUC,
	}
}

func parsePlatform(raw string) (domain.Platform, bool) {
	switch domain.Platform(raw) {
	case domain.PlatformTelegram, domain.PlatformViber, domain.PlatformWhatsapp:
		return domain.Platform(raw), true
	}
	return "", false
}

// RegisterContact обрабатывает POST /api/v1/users/contacts.
// Вызывается ботами при первом контакте пользователя: возвращает
// существующего пользователя или создает нового с пробным периодом.
func (h *UsersHandler) RegisterContact(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "RegisterContact"})

	var reqDTO RegisterContactRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for register contact", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	platform, ok := parsePlatform(reqDTO.Platform)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Unknown platform")
		return
	}
	if reqDTO.MessengerID == "" {
		WriteJSONError(w, http.StatusBadRequest, "messenger_id is required")
		return
	}

	user, err := h.registerUC.Execute(r.Context(), platform, reqDTO.MessengerID)
	if err != nil {
		logger.Error("Register contact use case failed", err, port.Fields{
			"platform": string(platform),
		})
		WriteDomainError(w, err)
		return
	}

	logger.Info("Contact registered", port.Fields{"user_id": user.ID, "platform": string(platform)})
	RespondWithJSON(w, http.StatusOK, toUserResponse(user))
}

// LinkAccounts обрабатывает POST /api/v1/users/links.
// Привязывает идентичность мессенджера к текущему пользователю; если она
// принадлежала другому пользователю, его подписки переносятся.
func (h *UsersHandler) LinkAccounts(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "LinkAccounts"})

	userID, ok := userIDFromContext(r.Context())
	if !ok {
		logger.Error("Invalid or missing user ID in context", nil, nil)
		WriteJSONError(w, http.StatusUnauthorized, "Invalid user ID in context")
		return
	}

	var reqDTO LinkAccountsRequest
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		logger.Warn("Failed to decode request body for link accounts", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	platform, ok := parsePlatform(reqDTO.Platform)
	if !ok {
		WriteJSONError(w, http.StatusBadRequest, "Unknown platform")
		return
	}
	if reqDTO.MessengerID == "" {
		WriteJSONError(w, http.StatusBadRequest, "messenger_id is required")
		return
	}

	if err := h.linkUC.Execute(r.Context(), userID, platform, reqDTO.MessengerID); err != nil {
		logger.Error("Link accounts use case failed", err, port.Fields{
			"user_id":  userID,
			"platform": string(platform),
		})
		WriteDomainError(w, err)
		return
	}

	logger.Info("Accounts linked", port.Fields{"user_id": userID, "platform": string(platform)})
	w.WriteHeader(http.StatusNoContent)
}
