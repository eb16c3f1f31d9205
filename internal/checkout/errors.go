package checkout

import "fmt"

// Kind - машинно-читаемый вид отказа конвейера.
type Kind string

const (
	KindInvalidOrderData   Kind = "invalid_order_data"
	KindInvalidPhoneFormat Kind = "invalid_phone_format"
	KindPaymentUnverified  Kind = "payment_verification_failed"
	KindServerError        Kind = "server_error"
)

// Error несет вид отказа и человекочитаемое сообщение для покупателя.
// Автоматических повторов нет: покупатель отправляет заказ заново.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// newError - внутренний конструктор ошибок конвейера.
func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf возвращает вид отказа или KindServerError для чужих ошибок.
func KindOf(err error) Kind {
	if pipelineErr, ok := err.(*Error); ok {
		return pipelineErr.Kind
	}
	return KindServerError
}
