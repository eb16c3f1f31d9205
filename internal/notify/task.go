// Package notify доставляет уведомления о событиях магазина: письмо
// оператору и строка в Google-таблице для заказов, письмо для сообщений
// обратной связи. Задачи идут через Kafka, чтобы оформление заказа не
// ждало почту и Sheets.
package notify

import (
	"fbpitch/internal/model"
)

// Виды задач уведомлений.
const (
	TaskOrder   = "order"
	TaskContact = "contact"
)

// Task - конверт задачи в топике уведомлений. Заполнено ровно одно из
// полей Order/Contact в зависимости от Kind.
type Task struct {
	Kind    string                `json:"kind" validate:"required,oneof=order contact"`
	Order   *model.Order          `json:"order,omitempty"`
	Contact *model.ContactMessage `json:"contact,omitempty"`
}
