package notify

import (
	"fmt"
	"strings"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Темы писем покупателю. Тексты — на языке магазина.
const (
	subjectPlaced   = "Потврда за нарачка – Спортска Опрема"
	subjectAccepted = "Вашата нарачка е прифатена"
	subjectDeclined = "Вашата нарачка не може да биде исполнета"
	subjectOperator = "Нова нарачка"
)

// RenderMessage возвращает тему и HTML-тело письма для сообщения outbox.
func RenderMessage(msg domain.OutboxMessage) (subject, body string, err error) {
	payload, err := domain.DecodeNotificationPayload(msg.Payload)
	if err != nil {
		return "", "", fmt.Errorf("decode notification payload: %w", err)
	}

	switch msg.Kind {
	case domain.NotificationOrderPlaced:
		return subjectPlaced, renderPlaced(payload), nil
	case domain.NotificationOrderAccepted:
		return subjectAccepted, renderAccepted(payload), nil
	case domain.NotificationOrderDeclined:
		return subjectDeclined, renderDeclined(payload), nil
	case domain.NotificationOperatorAlert:
		return subjectOperator, renderOperatorAlert(payload), nil
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", msg.Kind)
	}
}

// itemList строит HTML-перечень позиций: «Име: M (3), L (1)».
func itemList(items []domain.NotificationItem) string {
	var b strings.Builder
	for _, item := range items {
		sizeInfo := make([]string, 0, len(item.Sizes))
		for _, s := range item.Sizes {
			sizeInfo = append(sizeInfo, fmt.Sprintf("%s (%d)", s.Size, s.Quantity))
		}
		fmt.Fprintf(&b, "<li><strong>%s</strong>: %s</li>", item.Name, strings.Join(sizeInfo, ", "))
	}
	return b.String()
}

func renderPlaced(p domain.NotificationPayload) string {
	return fmt.Sprintf(`<div>
<p>Здраво %s,</p>
<p>Твојата нарачка е успешно примена. Еве го резимето:</p>
<ul>%s</ul>
<p><strong>Вкупна сума:</strong> %d ден</p>
<p>Ќе те контактираме наскоро за потврда и испорака.</p>
<p>Тимот на Спортска Опрема</p>
<p>-Ова е автоматска порака, ве молиме не одговарајте.</p>
</div>`, p.CustomerName, itemList(p.Items), p.TotalMinor)
}

func renderAccepted(p domain.NotificationPayload) string {
	return fmt.Sprintf(`<p>Почитуван(а) %s,</p>
<p>Вашата нарачка е прифатена и ќе биде испратена наскоро.</p>
<ul>%s</ul>
<p><strong>Вкупна сума:</strong> %d ден</p>
<p>Ви благодариме за довербата!</p>`, p.CustomerName, itemList(p.Items), p.TotalMinor)
}

func renderDeclined(p domain.NotificationPayload) string {
	return fmt.Sprintf(`<p>Почитуван(а) %s,</p>
<p>За жал, не можеме да ја испорачаме вашата нарачка во моментов.</p>
<p>Ве молиме обидете се повторно подоцна.</p>`, p.CustomerName)
}

func renderOperatorAlert(p domain.NotificationPayload) string {
	return fmt.Sprintf(`<p>Примена е нова нарачка %s од %s.</p>
<ul>%s</ul>
<p><strong>Вкупна сума:</strong> %d ден</p>`, p.OrderID, p.CustomerName, itemList(p.Items), p.TotalMinor)
}
