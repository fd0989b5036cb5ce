package constants

// Основной обменник системы
const AdsExchange = "ads_exchange"

// Имена очередей
const (
	QueueScrapedAds   = "scraped_ads"
	QueueSendTelegram = "send_telegram"
	QueueSendViber    = "send_viber"
	QueueSendWhatsapp = "send_whatsapp"
)

// Ключи маршрутизации
const (
	RoutingKeyScrapedAds = "ads.scraped"
	RoutingKeySendPrefix = "notify.send." // + platform
)

// Финальный DLX/DLQ, общие для всех очередей уведомлений
const (
	FinalDLXExchange   = "notify_final_dlx"
	FinalDLQ           = "notify_final_dlq"
	FinalDLQRoutingKey = "notify.dlq.key"
)

// Ретраи: у каждой очереди свой retry-обменник и wait-очередь
const (
	RetryExchangeSuffix = "_retry_exchange"
	WaitQueueSuffix     = "_wait_10s"
	RetryTTL            = 10000 // 10 секунд
	MaxRetries          = 3
)

// Параметры пакетного потребления scraped_ads
const (
	ScrapedAdsBatchSize      = 100
	ScrapedAdsBatchTimeoutMs = 10000
)
