package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Spok95/smartspend/internal/domain/purchases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier posts a receipt to the admin chat after a purchase is saved.
type Notifier struct {
	api    API
	chatID int64
}

func NewNotifier(api API, chatID int64) *Notifier {
	return &Notifier{api: api, chatID: chatID}
}

func (n *Notifier) PurchaseSaved(_ context.Context, p purchases.Purchase, created bool) error {
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, receipt(p, created))); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	return nil
}

func receipt(p purchases.Purchase, created bool) string {
	verb := "updated"
	if created {
		verb = "recorded"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Purchase #%d %s\n", p.ID, verb)
	fmt.Fprintf(&sb, "Date: %s, user %d, shop %d\n", p.Date.Format("2006-01-02"), p.UserID, p.ShopID)
	for _, it := range p.Items {
		fmt.Fprintf(&sb, "- product %d: %s x %s = %s\n",
			it.ProductID, it.Quantity.String(), purchases.FormatMoney(it.UnitPrice), purchases.FormatMoney(it.Subtotal))
	}
	fmt.Fprintf(&sb, "Total: %s", purchases.FormatMoney(p.TotalAmount))
	return sb.String()
}
