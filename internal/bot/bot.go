package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/Spok95/smartspend/internal/domain/purchases"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultLast = 5

// API is the subset of *tgbotapi.BotAPI the bot needs.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type PurchaseLister interface {
	List(ctx context.Context) ([]purchases.Purchase, error)
}

// Bot answers admin-chat commands about recorded purchases.
type Bot struct {
	api       API
	log       *slog.Logger
	purchases PurchaseLister
	adminChat int64
}

func New(api API, log *slog.Logger, list PurchaseLister, adminChatID int64) *Bot {
	return &Bot{api: api, log: log, purchases: list, adminChat: adminChatID}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			if upd.Message != nil && upd.Message.IsCommand() {
				b.handleCommand(ctx, upd.Message)
			}
		}
	}
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if chatID != b.adminChat {
		b.send(tgbotapi.NewMessage(chatID, "This bot only answers the admin chat."))
		return
	}

	switch msg.Command() {
	case "start", "help":
		b.send(tgbotapi.NewMessage(chatID, helpText))
	case "last":
		n := defaultLast
		if arg := strings.TrimSpace(msg.CommandArguments()); arg != "" {
			v, err := strconv.Atoi(arg)
			if err != nil || v <= 0 {
				b.send(tgbotapi.NewMessage(chatID, "Usage: /last [count]"))
				return
			}
			n = v
		}
		b.sendLast(ctx, chatID, n)
	case "export":
		if err := b.sendExport(ctx, chatID); err != nil {
			b.log.Error("export failed", "err", err)
			b.send(tgbotapi.NewMessage(chatID, "Export failed, see server logs."))
		}
	default:
		b.send(tgbotapi.NewMessage(chatID, "Unknown command. "+helpText))
	}
}

const helpText = "Commands: /last [count] shows recent purchases, /export sends an xlsx file."

func (b *Bot) sendLast(ctx context.Context, chatID int64, n int) {
	list, err := b.purchases.List(ctx)
	if err != nil {
		b.log.Error("list purchases", "err", err)
		b.send(tgbotapi.NewMessage(chatID, "Could not load purchases."))
		return
	}
	if len(list) == 0 {
		b.send(tgbotapi.NewMessage(chatID, "No purchases yet."))
		return
	}
	if len(list) > n {
		list = list[:n]
	}
	var sb strings.Builder
	for _, p := range list {
		fmt.Fprintf(&sb, "#%d %s shop %d: %s (%d items)\n",
			p.ID, p.Date.Format("2006-01-02"), p.ShopID, purchases.FormatMoney(p.TotalAmount), len(p.Items))
	}
	b.send(tgbotapi.NewMessage(chatID, strings.TrimRight(sb.String(), "\n")))
}

func (b *Bot) sendExport(ctx context.Context, chatID int64) error {
	list, err := b.purchases.List(ctx)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := purchases.WriteXLSX(&buf, list); err != nil {
		return err
	}

	doc := tgbotapi.FileBytes{
		Name:  fmt.Sprintf("purchases_%s.xlsx", time.Now().Format("20060102")),
		Bytes: buf.Bytes(),
	}
	msg := tgbotapi.NewDocument(chatID, doc)
	msg.Caption = fmt.Sprintf("Purchases: %d", len(list))
	b.send(msg)
	return nil
}
