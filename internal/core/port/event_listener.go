package port

import "context"

// EventListenerPort жизненный цикл входящего слушателя очереди
type EventListenerPort interface {
	Start(ctx context.Context) error
	Close() error
}
