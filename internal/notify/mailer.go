package notify

import (
	"fmt"
	"net/smtp"
	"strings"

	"fbpitch/internal/config"
	"fbpitch/internal/model"
)

// Mailer отправляет письма оператору магазина.
type Mailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	to       string
}

// NewMailer создает SMTP-отправитель из конфигурации.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		to:       cfg.NotifyTo,
	}
}

// SendOrderEmail отправляет оператору письмо о новом заказе.
func (m *Mailer) SendOrderEmail(order *model.Order) error {
	var body strings.Builder
	fmt.Fprintf(&body, "New order %s\r\n\r\n", order.OrderID)
	fmt.Fprintf(&body, "Customer: %s\r\n", order.Customer)
	fmt.Fprintf(&body, "Payment: %s\r\n", order.PaymentMethod)
	if order.PromoCode != "" {
		fmt.Fprintf(&body, "Promo: %s (-%d%%)\r\n", order.PromoCode, order.DiscountPercent)
	}
	fmt.Fprintf(&body, "Total: %s KD\r\n\r\n", order.Amount.String())
	for _, item := range order.Items {
		fmt.Fprintf(&body, "- %s | %s | %s", item.Name, item.Size, item.Quality)
		if item.Sleeve != "" {
			fmt.Fprintf(&body, " | %s", item.Sleeve)
		}
		if item.Patch != model.PatchNone && item.Patch != "" {
			fmt.Fprintf(&body, " | patch: %s", item.Patch)
		}
		if item.CustomName != "" {
			fmt.Fprintf(&body, " | name: %s", item.CustomName)
		}
		if item.AddShorts {
			body.WriteString(" | + shorts")
		}
		fmt.Fprintf(&body, " | %s KD\r\n", item.Price.String())
	}
	addr := order.Address
	fmt.Fprintf(&body, "\r\nDeliver to: %s %s, %s, %s, %s, phone %s\r\n",
		addr.FirstName, addr.LastName, addr.Street, addr.City, addr.State, addr.Phone)

	subject := fmt.Sprintf("New order %s", order.OrderID)
	return m.send(subject, body.String())
}

// SendContactEmail пересылает оператору сообщение обратной связи.
func (m *Mailer) SendContactEmail(msg *model.ContactMessage) error {
	body := fmt.Sprintf("From: %s <%s>\r\n\r\n%s\r\n", msg.Name, msg.Email, msg.Message)
	return m.send(fmt.Sprintf("Contact form message from %s", msg.Name), body)
}

func (m *Mailer) send(subject, body string) error {
	message := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, m.to, subject, body)
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	if err := smtp.SendMail(m.host+":"+m.port, auth, m.from, []string{m.to}, []byte(message)); err != nil {
		return fmt.Errorf("ошибка отправки письма: %w", err)
	}
	return nil
}
