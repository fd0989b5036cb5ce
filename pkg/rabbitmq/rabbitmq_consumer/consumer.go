package rabbitmq_consumer

import "context"

// Consumer общий контракт для всех типов потребителей пакета
type Consumer interface {
	StartConsuming(ctx context.Context) error
	Close() error
}
