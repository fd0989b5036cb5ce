package domain

import "time"

// Максимальное количество подписок на одного пользователя
const MaxSubscriptionsPerUser = 20

// UserFilter одна подписка пользователя: набор критериев поиска.
// NULL-поле означает "любое значение" и никогда не исключает объявление.
type UserFilter struct {
	ID           int64
	UserID       int64
	PropertyType *string
	City         *string
	RoomsCount   []int // Пустой срез = любое количество комнат
	PriceMin     *float64
	PriceMax     *float64
	IsPaused     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Matches проверяет, удовлетворяет ли объявление всем заполненным критериям.
// Поля объединяются по AND; границы цен включительные.
func (f *UserFilter) Matches(ad *Ad) bool {
	if f.IsPaused {
		return false
	}

	if f.PropertyType != nil {
		if ad.PropertyType == nil || *ad.PropertyType != *f.PropertyType {
			return false
		}
	}

	if f.City != nil {
		if ad.City == nil || *ad.City != *f.City {
			return false
		}
	}

	if len(f.RoomsCount) > 0 {
		if ad.RoomsCount == nil {
			return false
		}
		found := false
		for _, rc := range f.RoomsCount {
			if rc == *ad.RoomsCount {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.PriceMin != nil && ad.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && ad.Price > *f.PriceMax {
		return false
	}

	return true
}
