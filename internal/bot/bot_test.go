package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Spok95/smartspend/internal/domain/purchases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
	sendErr error
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, f.sendErr
}

func (f *fakeAPI) GetUpdatesChan(_ tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) lastText(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, f.sent)
	m, ok := f.sent[len(f.sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok, "expected a text message, got %T", f.sent[len(f.sent)-1])
	return m.Text
}

type staticLister struct {
	list []purchases.Purchase
	err  error
}

func (s staticLister) List(_ context.Context) ([]purchases.Purchase, error) { return s.list, s.err }

const admin = int64(42)

func samplePurchase(id int64) purchases.Purchase {
	qty, price := decimal.NewFromInt(2), decimal.RequireFromString("3.50")
	sub := purchases.Subtotal(qty, price)
	return purchases.Purchase{
		ID: id, UserID: 1, ShopID: 2,
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount: sub,
		Items:       []purchases.Item{{ID: 1, PurchaseID: id, ProductID: 7, Quantity: qty, UnitPrice: price, Subtotal: sub}},
	}
}

func command(chatID int64, text string) *tgbotapi.Message {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: chatID},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}
}

func newTestBot(api *fakeAPI, l PurchaseLister) *Bot {
	return New(api, slog.New(slog.NewTextHandler(io.Discard, nil)), l, admin)
}

func TestLastCommand(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, staticLister{list: []purchases.Purchase{samplePurchase(3), samplePurchase(2), samplePurchase(1)}})

	b.handleCommand(context.Background(), command(admin, "/last 2"))
	text := api.lastText(t)
	assert.Contains(t, text, "#3 2024-05-01 shop 2: 7.00 (1 items)")
	assert.Contains(t, text, "#2")
	assert.NotContains(t, text, "#1")

	b.handleCommand(context.Background(), command(admin, "/last zero"))
	assert.Equal(t, "Usage: /last [count]", api.lastText(t))
}

func TestLastCommandEmptyAndFailing(t *testing.T) {
	api := &fakeAPI{}
	newTestBot(api, staticLister{}).handleCommand(context.Background(), command(admin, "/last"))
	assert.Equal(t, "No purchases yet.", api.lastText(t))

	newTestBot(api, staticLister{err: errors.New("db down")}).handleCommand(context.Background(), command(admin, "/last"))
	assert.Equal(t, "Could not load purchases.", api.lastText(t))
}

func TestExportCommandSendsDocument(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, staticLister{list: []purchases.Purchase{samplePurchase(1)}})

	b.handleCommand(context.Background(), command(admin, "/export"))
	require.Len(t, api.sent, 1)
	doc, ok := api.sent[0].(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Equal(t, admin, doc.ChatID)
	assert.Equal(t, "Purchases: 1", doc.Caption)
	fb, ok := doc.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.NotEmpty(t, fb.Bytes)
}

func TestForeignChatIsRefused(t *testing.T) {
	api := &fakeAPI{}
	b := newTestBot(api, staticLister{list: []purchases.Purchase{samplePurchase(1)}})
	b.handleCommand(context.Background(), command(7, "/last"))
	assert.Equal(t, "This bot only answers the admin chat.", api.lastText(t))
}

func TestRunStopsWhenUpdatesClose(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update, 2)}
	b := newTestBot(api, staticLister{})
	api.updates <- tgbotapi.Update{Message: command(admin, "/help")}
	api.updates <- tgbotapi.Update{Message: &tgbotapi.Message{Text: "hello", Chat: &tgbotapi.Chat{ID: admin}}}
	close(api.updates)

	require.NoError(t, b.Run(context.Background(), 1))
	require.Len(t, api.sent, 1)
	assert.Equal(t, helpText, api.lastText(t))
}

func TestRunHonoursContext(t *testing.T) {
	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, newTestBot(api, staticLister{}).Run(ctx, 1), context.Canceled)
}

func TestNotifierSendsReceipt(t *testing.T) {
	api := &fakeAPI{}
	n := NewNotifier(api, admin)

	require.NoError(t, n.PurchaseSaved(context.Background(), samplePurchase(9), true))
	text := api.lastText(t)
	assert.Contains(t, text, "Purchase #9 recorded")
	assert.Contains(t, text, "- product 7: 2 x 3.50 = 7.00")
	assert.Contains(t, text, "Total: 7.00")

	api.sendErr = errors.New("telegram down")
	err := n.PurchaseSaved(context.Background(), samplePurchase(9), false)
	require.Error(t, err)
	assert.Contains(t, api.lastText(t), "Purchase #9 updated")
}
