package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

const pollTimeout = 30 * time.Second

// CommandHandler is called when a user command is received. An empty reply
// sends nothing.
type CommandHandler func(ctx context.Context, command string) string

// TelegramNotifier sends messages via the Telegram Bot API and dispatches
// incoming commands to a handler.
type TelegramNotifier struct {
	ChatID string
	// RetryInterval is the first backoff delay of SendWithRetry.
	RetryInterval time.Duration

	bot     *bot.Bot
	handler CommandHandler
}

// NewTelegramNotifier creates a notifier with optional proxy support. Extra
// options are passed through to the bot client.
func NewTelegramNotifier(botToken, chatID, proxyURL string, handler CommandHandler, opts ...bot.Option) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: pollTimeout + 5*time.Second, Transport: transport}

	t := &TelegramNotifier{ChatID: chatID, RetryInterval: time.Second, handler: handler}
	options := append([]bot.Option{
		bot.WithSkipGetMe(),
		bot.WithHTTPClient(pollTimeout, client),
		bot.WithDefaultHandler(t.onUpdate),
	}, opts...)

	b, err := bot.New(botToken, options...)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	t.bot = b
	return t, nil
}

// Send sends a message to the configured chat.
func (t *TelegramNotifier) Send(ctx context.Context, text string) error {
	return t.sendTo(ctx, t.ChatID, text)
}

func (t *TelegramNotifier) sendTo(ctx context.Context, chatID any, text string) error {
	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: models.ParseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, text string, maxRetries int) error {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = t.RetryInterval
	eb.Multiplier = 2
	eb.RandomizationFactor = 0

	attempt := 0
	op := func() error {
		attempt++
		return t.Send(ctx, text)
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Int("max", maxRetries+1).
			Dur("retry_in", wait).Msg("telegram send failed")
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(eb, uint64(maxRetries)), ctx)
	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("all %d retries exhausted: %w", maxRetries+1, err)
	}
	return nil
}

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context) {
	log.Info().Msg("telegram polling started")
	t.bot.Start(ctx)
	log.Info().Msg("telegram polling stopped")
}

func (t *TelegramNotifier) onUpdate(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update.Message == nil || t.handler == nil {
		return
	}
	text := strings.TrimSpace(update.Message.Text)
	if text == "" {
		return
	}
	log.Info().Str("command", text).Int64("chat", update.Message.Chat.ID).Msg("received command")
	reply := t.handler(ctx, text)
	if reply == "" {
		return
	}
	if err := t.sendTo(ctx, update.Message.Chat.ID, reply); err != nil {
		log.Error().Err(err).Msg("send reply")
	}
}
