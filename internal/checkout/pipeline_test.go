package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	cart_mocks "fbpitch/internal/cart/mocks"
	db_mocks "fbpitch/internal/database/mocks"
	"fbpitch/internal/checkout/mocks"
	"fbpitch/internal/model"
	"fbpitch/internal/money"
)

// helperRequest - валидный COD-запрос для тестов.
func helperRequest() *SubmitRequest {
	return &SubmitRequest{
		Customer:      "buyer1",
		PaymentMethod: model.PaymentCOD,
		Amount:        money.Fils(15000),
		Address: model.Address{
			FirstName: "Dana",
			LastName:  "Al-Salem",
			Phone:     "51234567",
			Street:    "Block 4, Street 12",
			City:      "Salmiya",
			State:     "Hawalli",
		},
		Items: []model.LineItem{
			{
				ProductID: "p-1",
				Name:      "Barcelona Home 23/24",
				Size:      "M",
				Quality:   model.QualityPlayer,
				Sleeve:    model.SleeveLong,
				Patch:     "Champions League",
				Instagram: "@buyer1",
				Price:     money.Fils(15000),
			},
		},
	}
}

func setupPipeline(t *testing.T) (*gomock.Controller, *Pipeline, *db_mocks.MockStorage, *cart_mocks.MockRepository, *mocks.MockGateway, *mocks.MockNotifier) {
	ctrl := gomock.NewController(t)
	mockStorage := db_mocks.NewMockStorage(ctrl)
	mockCarts := cart_mocks.NewMockRepository(ctrl)
	mockGateway := mocks.NewMockGateway(ctrl)
	mockNotifier := mocks.NewMockNotifier(ctrl)
	pipeline := NewPipeline(mockStorage, mockCarts, mockGateway, mockNotifier)
	return ctrl, pipeline, mockStorage, mockCarts, mockGateway, mockNotifier
}

func TestSubmit_COD_Success(t *testing.T) {
	ctrl, pipeline, mockStorage, mockCarts, mockGateway, mockNotifier := setupPipeline(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := helperRequest()

	// COD не ходит в шлюз
	mockGateway.EXPECT().VerifyOrder(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	mockNotifier.EXPECT().EnqueueOrder(gomock.Any(), gomock.Any()).Return(nil)
	mockCarts.EXPECT().Clear(gomock.Any(), "buyer1").Return(nil)

	order, err := pipeline.Submit(context.Background(), req)
	assertions.NoError(err)
	assertions.True(strings.HasPrefix(order.OrderID, "COD-"), "id COD-заказа генерируется локально")
	assertions.Equal(model.PaymentCOD, order.PaymentMethod)
	assertions.Equal(req.Amount, order.Amount)
	assertions.Len(order.Items, 1)
}

func TestSubmit_InvalidPhone(t *testing.T) {
	ctrl, pipeline, mockStorage, _, _, _ := setupPipeline(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := helperRequest()
	req.Address.Phone = "41234567" // неверная первая цифра

	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Times(0)

	_, err := pipeline.Submit(context.Background(), req)
	assertions.Error(err)
	assertions.Equal(KindInvalidPhoneFormat, KindOf(err))
}

func TestSubmit_MissingAddressField(t *testing.T) {
	ctrl, pipeline, mockStorage, _, _, _ := setupPipeline(t)
	defer ctrl.Finish()

	req := helperRequest()
	req.Address.City = ""

	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Times(0)

	_, err := pipeline.Submit(context.Background(), req)
	assert.Equal(t, KindInvalidOrderData, KindOf(err))
}

func TestSubmit_PayPal_Verified(t *testing.T) {
	ctrl, pipeline, mockStorage, mockCarts, mockGateway, mockNotifier := setupPipeline(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := helperRequest()
	req.PaymentMethod = model.PaymentPayPal
	req.GatewayOrderID = "GW-789"

	mockGateway.EXPECT().VerifyOrder(gomock.Any(), "GW-789", req.Amount).Return(nil)
	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	mockNotifier.EXPECT().EnqueueOrder(gomock.Any(), gomock.Any()).Return(nil)
	mockCarts.EXPECT().Clear(gomock.Any(), "buyer1").Return(nil)

	order, err := pipeline.Submit(context.Background(), req)
	assertions.NoError(err)
	assertions.Equal("GW-789", order.OrderID)
}

func TestSubmit_PayPal_Unverified_NothingPersisted(t *testing.T) {
	ctrl, pipeline, mockStorage, mockCarts, mockGateway, mockNotifier := setupPipeline(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := helperRequest()
	req.PaymentMethod = model.PaymentPayPal
	req.GatewayOrderID = "GW-789"

	// Шлюз сообщает PENDING - конвейер останавливается до записи
	mockGateway.EXPECT().VerifyOrder(gomock.Any(), "GW-789", req.Amount).Return(errors.New(`статус заказа "PENDING"`))
	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Times(0)
	mockNotifier.EXPECT().EnqueueOrder(gomock.Any(), gomock.Any()).Times(0)
	mockCarts.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(0)

	_, err := pipeline.Submit(context.Background(), req)
	assertions.Error(err)
	assertions.Equal(KindPaymentUnverified, KindOf(err))
}

func TestSubmit_PersistenceFailure_NoNotifications(t *testing.T) {
	ctrl, pipeline, mockStorage, mockCarts, _, mockNotifier := setupPipeline(t)
	defer ctrl.Finish()
	assertions := assert.New(t)

	req := helperRequest()

	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
	// После ошибки записи уведомления не ставятся, корзина не трогается
	mockNotifier.EXPECT().EnqueueOrder(gomock.Any(), gomock.Any()).Times(0)
	mockCarts.EXPECT().Clear(gomock.Any(), gomock.Any()).Times(0)

	_, err := pipeline.Submit(context.Background(), req)
	assertions.Equal(KindServerError, KindOf(err))
}

func TestSubmit_NotifierFailure_DoesNotFailOrder(t *testing.T) {
	ctrl, pipeline, mockStorage, mockCarts, _, mockNotifier := setupPipeline(t)
	defer ctrl.Finish()

	req := helperRequest()

	mockStorage.EXPECT().SaveOrder(gomock.Any(), gomock.Any()).Return(nil)
	// Очередь недоступна - заказ все равно успешен
	mockNotifier.EXPECT().EnqueueOrder(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))
	mockCarts.EXPECT().Clear(gomock.Any(), "buyer1").Return(nil)

	order, err := pipeline.Submit(context.Background(), req)
	assert.NoError(t, err)
	assert.NotNil(t, order)
}

func TestSubmit_EmptyCart(t *testing.T) {
	ctrl, pipeline, _, _, _, _ := setupPipeline(t)
	defer ctrl.Finish()

	req := helperRequest()
	req.Items = nil

	_, err := pipeline.Submit(context.Background(), req)
	assert.Equal(t, KindInvalidOrderData, KindOf(err))
}
