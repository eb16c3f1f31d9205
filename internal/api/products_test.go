package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	cache_mocks "fbpitch/internal/cache/mocks"
	db_mocks "fbpitch/internal/database/mocks"
	"fbpitch/internal/database"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// helperTestProduct - универсальный тестовый товар
var helperTestProduct = &model.Product{
	ID:         "prod-123",
	Name:       "Real Madrid Home 23/24",
	Price:      money.Fils(10000),
	Image:      "https://cdn.example.com/rm-home.jpg",
	Categories: []string{model.CategoryNewArrivals},
	League:     "La Liga",
}

// setupProductHandler - хелпер для инициализации хендлера и моков
func setupProductHandler(t *testing.T) (*gomock.Controller, *ProductHandler, *cache_mocks.MockCache, *db_mocks.MockStorage) {
	ctrl := gomock.NewController(t)
	mockCache := cache_mocks.NewMockCache(ctrl)
	mockStorage := db_mocks.NewMockStorage(ctrl)
	handler := NewProductHandler(mockStorage, mockCache)
	return ctrl, handler, mockCache, mockStorage
}

func TestProductHandler_List(t *testing.T) {
	ctrl, handler, _, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products?search=madrid", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().
		ListProducts(gomock.Any(), database.ProductFilter{Search: "madrid"}).
		Return([]model.Product{*helperTestProduct}, nil)

	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var products []model.Product
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &products))
	assert.Len(t, products, 1)
	assert.Equal(t, helperTestProduct.ID, products[0].ID)
}

func TestProductHandler_GetByID_CacheHit(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products?id=prod-123", nil)
	rr := httptest.NewRecorder()

	// Ожидаем вызов кэша
	mockCache.EXPECT().Get(gomock.Any(), "prod-123").Return(helperTestProduct, true)
	// Не ожидаем вызова БД
	mockStorage.EXPECT().GetProduct(gomock.Any(), gomock.Any()).Times(0)

	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProductHandler_GetByID_CacheMiss_DBHit(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products?id=prod-123", nil)
	rr := httptest.NewRecorder()

	// 1. Ожидаем промах кэша
	mockCache.EXPECT().Get(gomock.Any(), "prod-123").Return(nil, false)
	// 2. Ожидаем запрос к БД
	mockStorage.EXPECT().GetProduct(gomock.Any(), "prod-123").Return(helperTestProduct, nil)
	// 3. Ожидаем сохранение в кэш
	mockCache.EXPECT().Set(gomock.Any(), "prod-123", helperTestProduct).Times(1)

	handler.List(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products?id=missing", nil)
	rr := httptest.NewRecorder()

	mockCache.EXPECT().Get(gomock.Any(), "missing").Return(nil, false)
	mockStorage.EXPECT().GetProduct(gomock.Any(), "missing").Return(nil, database.ErrNotFound)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	handler.List(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductHandler_Create_MissingFields(t *testing.T) {
	ctrl, handler, _, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	// Нет image и league
	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Incomplete",
		"price":      "10.000",
		"categories": []string{model.CategoryRetro},
	})
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Times(0)

	handler.Create(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProductHandler_Create_GeneratesID(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	product := *helperTestProduct
	product.ID = ""
	body, _ := json.Marshal(product)
	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().CreateProduct(gomock.Any(), gomock.Any()).Return(nil)
	mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Times(1)

	handler.Create(rr, req)

	assertions.Equal(http.StatusOK, rr.Code)

	var created model.Product
	assertions.NoError(json.Unmarshal(rr.Body.Bytes(), &created))
	assertions.NotEmpty(created.ID, "id генерируется сервером")
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	ctrl, handler, _, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	body, _ := json.Marshal(helperTestProduct)
	req := httptest.NewRequest("PUT", "/api/products", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().UpdateProduct(gomock.Any(), gomock.Any()).Return(database.ErrNotFound)

	handler.Update(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductHandler_Delete_InvalidatesCache(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupProductHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("DELETE", "/api/products?id=prod-123", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().DeleteProduct(gomock.Any(), "prod-123").Return(nil)
	mockCache.EXPECT().Delete(gomock.Any(), "prod-123").Times(1)

	handler.Delete(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
