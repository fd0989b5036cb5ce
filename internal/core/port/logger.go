package port

// Fields представляет структурированные данные для лога
type Fields map[string]interface{}

// LoggerPort определяет контракт для логирования в приложении.
// Ядро зависит только от этого интерфейса, а не от конкретной реализации.
type LoggerPort interface {
	Info(msg string, fields Fields)
	Warn(msg string, fields Fields)
	Error(msg string, err error, fields Fields)
	Debug(msg string, fields Fields)

	// WithFields возвращает новый логгер с постоянным набором полей
	WithFields(fields Fields) LoggerPort
}
