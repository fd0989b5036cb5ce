package usecase

import (
	"context"
	"fmt"
	"time"

	"realty-notify-system/internal/core/domain"
)

// Ручные фейки портов для юнит-тестов use case'ов

type fakeAdStore struct {
	upsertCreated []*domain.Ad
	upsertStats   domain.IngestStats
	upsertErr     error
	ads           map[int64]*domain.Ad
}

func (f *fakeAdStore) UpsertAds(ctx context.Context, ads []*domain.Ad) ([]*domain.Ad, domain.IngestStats, error) {
	if f.upsertErr != nil {
		return nil, domain.IngestStats{}, f.upsertErr
	}
	if f.upsertCreated != nil {
		return f.upsertCreated, f.upsertStats, nil
	}
	return ads, domain.IngestStats{Created: len(ads)}, nil
}

func (f *fakeAdStore) FindByID(ctx context.Context, adID int64) (*domain.Ad, error) {
	if ad, ok := f.ads[adID]; ok {
		return ad, nil
	}
	return nil, domain.ErrAdNotFound
}

func (f *fakeAdStore) GetAdImages(ctx context.Context, adID int64) ([]string, error) {
	return nil, nil
}

type fakeSubscriptionStore struct {
	filters    []*domain.UserFilter
	findErr    error
	createErr  error
	created    []*domain.UserFilter
	transferred [][2]int64
}

func (f *fakeSubscriptionStore) FindActiveFilters(ctx context.Context, now time.Time) ([]*domain.UserFilter, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.filters, nil
}

func (f *fakeSubscriptionStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.UserFilter, int64, error) {
	var out []*domain.UserFilter
	for _, fl := range f.filters {
		if fl.UserID == userID {
			out = append(out, fl)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeSubscriptionStore) FindByID(ctx context.Context, subscriptionID int64) (*domain.UserFilter, error) {
	for _, fl := range f.filters {
		if fl.ID == subscriptionID {
			return fl, nil
		}
	}
	return nil, domain.ErrSubscriptionNotFound
}

func (f *fakeSubscriptionStore) Create(ctx context.Context, filter *domain.UserFilter) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, filter)
	return nil
}

func (f *fakeSubscriptionStore) Update(ctx context.Context, filter *domain.UserFilter) error { return nil }

func (f *fakeSubscriptionStore) Delete(ctx context.Context, userID, subscriptionID int64) error {
	return nil
}

func (f *fakeSubscriptionStore) SetPaused(ctx context.Context, userID, subscriptionID int64, paused bool) error {
	return nil
}

func (f *fakeSubscriptionStore) SetAllPaused(ctx context.Context, userID int64, paused bool) error {
	return nil
}

func (f *fakeSubscriptionStore) TransferOwnership(ctx context.Context, fromUserID, toUserID int64) error {
	f.transferred = append(f.transferred, [2]int64{fromUserID, toUserID})
	return nil
}

type fakeUserStore struct {
	users   map[int64]*domain.User
	deleted []int64
	linked  []string
}

func (f *fakeUserStore) FindByID(ctx context.Context, userID int64) (*domain.User, error) {
	if u, ok := f.users[userID]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserStore) FindByMessengerID(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error) {
	for _, u := range f.users {
		if id := u.MessengerID(platform); id != nil && *id == messengerID {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserStore) FindByIDs(ctx context.Context, userIDs []int64) ([]*domain.User, error) {
	var out []*domain.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserStore) CreateWithTrial(ctx context.Context, platform domain.Platform, messengerID string) (*domain.User, error) {
	freeUntil := time.Now().Add(domain.TrialPeriod)
	u := &domain.User{ID: int64(len(f.users) + 1), FreeUntil: &freeUntil}
	switch platform {
	case domain.PlatformTelegram:
		u.TelegramID = &messengerID
	case domain.PlatformViber:
		u.ViberID = &messengerID
	case domain.PlatformWhatsapp:
		u.WhatsappID = &messengerID
	}
	if f.users == nil {
		f.users = map[int64]*domain.User{}
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) LinkPlatform(ctx context.Context, userID int64, platform domain.Platform, messengerID string) error {
	f.linked = append(f.linked, fmt.Sprintf("%d:%s:%s", userID, platform, messengerID))
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, userID int64) error {
	f.deleted = append(f.deleted, userID)
	delete(f.users, userID)
	return nil
}

func (f *fakeUserStore) TouchLastActive(ctx context.Context, userID int64) error { return nil }

type fakeLedger struct {
	existing  map[string]bool // "userID/adID/platform" -> уже есть
	insertErr error
	inserted  []*domain.NotificationRecord
	sent      []string
	failed    []string
}

func ledgerKey(userID, adID int64, platform domain.Platform) string {
	return fmt.Sprintf("%d/%d/%s", userID, adID, platform)
}

func (f *fakeLedger) InsertIfAbsent(ctx context.Context, record *domain.NotificationRecord) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	key := ledgerKey(record.UserID, record.AdID, record.Platform)
	if f.existing[key] {
		return false, nil
	}
	if f.existing == nil {
		f.existing = map[string]bool{}
	}
	f.existing[key] = true
	f.inserted = append(f.inserted, record)
	return true, nil
}

func (f *fakeLedger) MarkSent(ctx context.Context, notificationID string) error {
	f.sent = append(f.sent, notificationID)
	return nil
}

func (f *fakeLedger) MarkFailed(ctx context.Context, notificationID string) error {
	f.failed = append(f.failed, notificationID)
	return nil
}

type fakeQueue struct {
	tasks      []*domain.SendTask
	enqueueErr error
}

func (f *fakeQueue) EnqueueSendTask(ctx context.Context, task *domain.SendTask) error {
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.tasks = append(f.tasks, task)
	return nil
}

type fakeMessenger struct {
	sendErr    error
	textSends  []string
	imageSends []string
}

func (f *fakeMessenger) SendText(ctx context.Context, recipientID, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.textSends = append(f.textSends, recipientID)
	return nil
}

func (f *fakeMessenger) SendImage(ctx context.Context, recipientID, imageURL, caption string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.imageSends = append(f.imageSends, recipientID)
	return nil
}

type fakeFavoriteStore struct {
	addErr  error
	added   [][2]int64
	removed [][2]int64
}

func (f *fakeFavoriteStore) Add(ctx context.Context, userID, adID int64) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.added = append(f.added, [2]int64{userID, adID})
	return nil
}

func (f *fakeFavoriteStore) Remove(ctx context.Context, userID, adID int64) error {
	f.removed = append(f.removed, [2]int64{userID, adID})
	return nil
}

func (f *fakeFavoriteStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*domain.Ad, int64, error) {
	return nil, 0, nil
}
