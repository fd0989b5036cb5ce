package domain

import "time"

// Максимальное количество закладок на одного пользователя
const MaxFavoritesPerUser = 50

// Favorite закладка пользователя на объявление
type Favorite struct {
	ID        int64
	UserID    int64
	AdID      int64
	CreatedAt time.Time
}
