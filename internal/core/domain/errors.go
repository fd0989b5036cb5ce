package domain

import "errors"

// Ошибки бизнес-логики
var (
	ErrAdNotFound              = errors.New("ad not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrSubscriptionNotFound    = errors.New("subscription not found")
	ErrSubscriptionLimitReached = errors.New("subscription limit reached")
	ErrFavoritesLimitReached   = errors.New("favorites limit reached")
	ErrInvalidAd               = errors.New("invalid ad data")
	ErrNoLinkedPlatform        = errors.New("user has no linked messenger platform")

	// ErrPermanentDelivery помечает отказ платформы, который нельзя ретраить
	// (пользователь заблокировал бота, чат не найден, аккаунт деактивирован)
	ErrPermanentDelivery = errors.New("permanent delivery failure")
)
