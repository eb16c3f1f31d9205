package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fbpitch/internal/api"
	"fbpitch/internal/auth"
	"fbpitch/internal/cache"
	"fbpitch/internal/cart"
	"fbpitch/internal/checkout"
	"fbpitch/internal/config"
	"fbpitch/internal/database"
	"fbpitch/internal/metrics"
	"fbpitch/internal/notify"
	"fbpitch/internal/paypal"
	"fbpitch/internal/promo"
	"fbpitch/internal/sheets"
	"fbpitch/internal/tracing"
)

func main() {
	cfg := config.Get()

	// Трассировка и метрики
	shutdownTracer := tracing.InitTracerProvider("fbpitch")
	defer shutdownTracer()
	metrics.Init()

	// Инициализация хранилища
	db, err := database.Connect(cfg.Postgres.URL, "./internal/database/migrations")
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	storage := database.New(db)
	defer storage.Close()

	// Кэш каталога
	productCache := cache.NewLRUCache(cfg.Cache.Size)
	if err := cache.WarmUp(context.Background(), storage, productCache); err != nil {
		log.Printf("Ошибка при прогреве кэша: %v", err)
	}

	// Корзины живут в той же БД
	carts := cart.NewRepository(db)

	// Платежный шлюз и интеграции оператора
	gateway := paypal.NewClient(cfg.PayPal)
	sheetsClient, err := sheets.NewClient(cfg.Sheets)
	if err != nil {
		log.Fatalf("Ошибка инициализации Sheets-клиента: %v", err)
	}
	mailer := notify.NewMailer(cfg.SMTP)

	// Очередь уведомлений: продюсер в конвейере, консюмер в фоне
	producer := notify.NewProducer(cfg.Kafka)
	defer producer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	consumer := notify.NewConsumer(cfg.Kafka, mailer, sheetsClient)
	go consumer.Run(ctx)

	// Конвейер оформления и вспомогательные сервисы
	pipeline := checkout.NewPipeline(storage, carts, gateway, producer)
	promos := promo.NewResolver(storage)
	authService := auth.NewService(cfg.Auth)

	// Запуск HTTP-сервера
	server := api.NewServer(cfg.HTTP.Port, storage, productCache, carts, pipeline, promos, authService, producer)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Ошибка запуска HTTP-сервера: %v", err)
		}
	}()

	// Ожидание сигнала для корректного завершения работы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Println("Сервис останавливается...")
	cancel()
	log.Println("Сервис успешно остановлен.")
}
