package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUCache_SetAndGet(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	val, found := cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value1", val)

	cache.Set(ctx, "key2", "value2")
	val, found = cache.Get(ctx, "key2")
	assertions.True(found)
	assertions.Equal("value2", val)

	// Оба элемента на месте
	val, found = cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value1", val)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	cache.Set(ctx, "key2", "value2")

	// Третий элемент вытесняет самый старый "key1"
	cache.Set(ctx, "key3", "value3")

	_, found := cache.Get(ctx, "key1")
	assertions.False(found, "key1 должен быть вытеснен")

	val, found := cache.Get(ctx, "key2")
	assertions.True(found)
	assertions.Equal("value2", val)

	val, found = cache.Get(ctx, "key3")
	assertions.True(found)
	assertions.Equal("value3", val)
}

func TestLRUCache_UsageUpdatesOrder(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	cache.Set(ctx, "key2", "value2")

	// Обращение к "key1" делает его самым свежим
	_, _ = cache.Get(ctx, "key1")

	// Теперь вытесняется "key2"
	cache.Set(ctx, "key3", "value3")

	_, found := cache.Get(ctx, "key2")
	assertions.False(found, "key2 должен быть вытеснен")

	_, found = cache.Get(ctx, "key1")
	assertions.True(found)
}

func TestLRUCache_Delete(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	cache.Delete(ctx, "key1")

	_, found := cache.Get(ctx, "key1")
	assertions.False(found)

	// Повторное удаление безопасно
	cache.Delete(ctx, "key1")
}

func TestLRUCache_ZeroCapacity(t *testing.T) {
	cache := NewLRUCache(0)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	_, found := cache.Get(ctx, "key1")
	assert.False(t, found)
}
