package port

import "context"

// MessengerPort тонкий примитив отправки для одной платформы.
// Реализации обязаны различать постоянные и временные отказы:
// постоянные оборачиваются в domain.ErrPermanentDelivery,
// временные возвращаются как есть и ретраятся очередью.
type MessengerPort interface {
	SendText(ctx context.Context, recipientID, text string) error
	SendImage(ctx context.Context, recipientID, imageURL, caption string) error
}
