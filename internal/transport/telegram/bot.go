package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sandevgo/wechatgpt/internal/config"
	"github.com/sandevgo/wechatgpt/internal/core"
	"github.com/sandevgo/wechatgpt/internal/service/chat"
	"github.com/sandevgo/wechatgpt/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

// Bot is an optional second transport feeding the same core handler.
// Telegram update IDs serve as event IDs, chat IDs as session IDs.
type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	handler *chat.Handler
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	handler *chat.Handler,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		handler: handler,
		ownerID: cfg.OwnerID,
	}

	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Only the owner may talk to the bot.
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if c.Sender().ID != bot.ownerID {
				return nil
			}
			return next(c)
		}
	})

	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)

	_ = c.Notify(tele.Typing)

	ev := core.InboundEvent{
		EventID:   "telegram-" + strconv.Itoa(c.Update().ID),
		SessionID: fmt.Sprintf("telegram-%d", c.Chat().ID),
		MessageID: "telegram-" + strconv.Itoa(c.Update().ID),
		Text:      strings.TrimSpace(c.Text()),
	}

	reply, err := b.handler.Handle(ctx, ev)
	if err != nil {
		if errors.Is(err, core.ErrStorageUnavailable) {
			logger.Error().Err(err).Msg("storage unavailable, dropping update")
			return err
		}
		logger.Error().Err(err).Msg("event handling failed")
		return c.Send(core.ReplyApology)
	}

	if reply == "" {
		return nil
	}
	return c.Send(reply)
}
