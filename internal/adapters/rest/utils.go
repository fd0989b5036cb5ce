package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"realty-notify-system/internal/core/domain"
)

// WriteJSONError отправляет JSON-ответ с полем "error" и заданным статусом
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	json.NewEncoder(w).Encode(map[string]string{
		"error": message,
	})
}

// RespondWithJSON отправляет JSON-ответ
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "Failed to marshal JSON response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// WriteDomainError мапит доменные ошибки на HTTP-статусы
func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSubscriptionLimitReached),
		errors.Is(err, domain.ErrFavoritesLimitReached):
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSubscriptionNotFound),
		errors.Is(err, domain.ErrAdNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		WriteJSONError(w, http.StatusNotFound, err.Error())
	default:
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
