package main

import (
	"context"
	"flag"
	"log"

	"fbpitch/internal/config"
	"fbpitch/internal/database"
	"fbpitch/internal/generator"
)

func main() {
	count := flag.Int("count", 20, "сколько товаров сгенерировать")
	flag.Parse()

	cfg := config.Get()

	db, err := database.Connect(cfg.Postgres.URL, "./internal/database/migrations")
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	storage := database.New(db)
	defer storage.Close()

	ctx := context.Background()
	for i := 0; i < *count; i++ {
		product := generator.NewProduct()
		if err := storage.CreateProduct(ctx, &product); err != nil {
			log.Fatalf("Ошибка сохранения товара %s: %v", product.Name, err)
		}
		log.Printf("Добавлен товар: %s (%s KD)", product.Name, product.Price.String())
	}
	log.Printf("Каталог наполнен: %d товаров.", *count)
}
