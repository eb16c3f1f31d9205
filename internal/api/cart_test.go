package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"fbpitch/internal/auth"
	cart_mocks "fbpitch/internal/cart/mocks"
	"fbpitch/internal/checkout"
	db_mocks "fbpitch/internal/database/mocks"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// withCustomer кладет клаймы покупателя в контекст запроса,
// как это делает auth-прослойка.
func withCustomer(req *http.Request, username string) *http.Request {
	claims := &auth.Claims{Username: username, Role: model.RoleUser}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func setupCartHandler(t *testing.T) (*gomock.Controller, *CartHandler, *cart_mocks.MockRepository, *db_mocks.MockStorage) {
	ctrl := gomock.NewController(t)
	mockCarts := cart_mocks.NewMockRepository(ctrl)
	mockStorage := db_mocks.NewMockStorage(ctrl)
	handler := NewCartHandler(mockCarts, mockStorage)
	return ctrl, handler, mockCarts, mockStorage
}

func TestCartHandler_Get_NoClaims(t *testing.T) {
	ctrl, handler, _, _ := setupCartHandler(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/cart", nil)
	rr := httptest.NewRecorder()

	handler.Get(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestCartHandler_Get_EmptyCart(t *testing.T) {
	ctrl, handler, mockCarts, _ := setupCartHandler(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := withCustomer(httptest.NewRequest("GET", "/api/cart", nil), "buyer1")
	rr := httptest.NewRecorder()

	// Пустая корзина - пустой список, не ошибка
	mockCarts.EXPECT().Load(gomock.Any(), "buyer1").Return(nil, nil)

	handler.Get(rr, req)

	assertions.Equal(http.StatusOK, rr.Code)

	var resp cartResponse
	assertions.NoError(json.Unmarshal(rr.Body.Bytes(), &resp))
	assertions.Empty(resp.Items)
	assertions.Equal(money.Fils(0), resp.Subtotal)
}

func TestCartHandler_Add_ServerSidePrice(t *testing.T) {
	ctrl, handler, mockCarts, mockStorage := setupCartHandler(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	product := &model.Product{
		ID:              "prod-123",
		Name:            "Milan Home 23/24",
		Price:           money.Fils(10000),
		Image:           "https://cdn.example.com/milan.jpg",
		Categories:      []string{model.CategoryNewArrivals},
		League:          "Serie A",
		ShowLongSleeves: true,
	}

	body, _ := json.Marshal(addRequest{
		ProductID: "prod-123",
		Options: checkout.Options{
			Size:      "M",
			Quality:   model.QualityPlayer,
			Sleeve:    model.SleeveShort,
			Instagram: "@buyer1",
		},
	})
	req := withCustomer(httptest.NewRequest("POST", "/api/cart", bytes.NewReader(body)), "buyer1")
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetProduct(gomock.Any(), "prod-123").Return(product, nil)
	mockCarts.EXPECT().Add(gomock.Any(), "buyer1", gomock.Any()).Return(nil)

	handler.Add(rr, req)

	assertions.Equal(http.StatusOK, rr.Code)

	var item model.LineItem
	assertions.NoError(json.Unmarshal(rr.Body.Bytes(), &item))
	// base 10.000 + Player Version 1.000
	assertions.Equal(money.Fils(11000), item.Price)
}

func TestCartHandler_Add_InvalidOptions(t *testing.T) {
	ctrl, handler, mockCarts, mockStorage := setupCartHandler(t)
	defer ctrl.Finish()

	product := &model.Product{
		ID:         "prod-123",
		Name:       "Milan Home 23/24",
		Price:      money.Fils(10000),
		Image:      "https://cdn.example.com/milan.jpg",
		Categories: []string{model.CategoryNewArrivals},
		League:     "Serie A",
	}

	// Размер не выбран
	body, _ := json.Marshal(addRequest{
		ProductID: "prod-123",
		Options:   checkout.Options{Quality: model.QualityFan, Sleeve: model.SleeveShort, Instagram: "@buyer1"},
	})
	req := withCustomer(httptest.NewRequest("POST", "/api/cart", bytes.NewReader(body)), "buyer1")
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetProduct(gomock.Any(), "prod-123").Return(product, nil)
	mockCarts.EXPECT().Add(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	handler.Add(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCartHandler_Remove_ByIndex(t *testing.T) {
	ctrl, handler, mockCarts, _ := setupCartHandler(t)
	defer ctrl.Finish()

	req := withCustomer(httptest.NewRequest("DELETE", "/api/cart?index=1", nil), "buyer1")
	rr := httptest.NewRecorder()

	mockCarts.EXPECT().Remove(gomock.Any(), "buyer1", 1).Return(nil)

	handler.Remove(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCartHandler_Remove_Clear(t *testing.T) {
	ctrl, handler, mockCarts, _ := setupCartHandler(t)
	defer ctrl.Finish()

	req := withCustomer(httptest.NewRequest("DELETE", "/api/cart", nil), "buyer1")
	rr := httptest.NewRecorder()

	mockCarts.EXPECT().Clear(gomock.Any(), "buyer1").Return(nil)

	handler.Remove(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}
