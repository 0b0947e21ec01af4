package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tg "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultApiHost = "api.telegram.org"

type Telegram struct {
	ApiHost string
	ChatID  int64
	Token   string
	// Endpoint overrides ApiHost with a full bot API format string.
	Endpoint string
}

func New(c map[string]string) (*Telegram, error) {
	t := &Telegram{
		ApiHost: c["telegram_apihost"],
		Token:   c["telegram_token"],
	}
	if t.Token == "" {
		return nil, errors.New("[telegram] telegram_token is required")
	}

	chatID, err := strconv.ParseInt(strings.TrimSpace(c["telegram_chatid"]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("[telegram] invalid telegram_chatid: %w", err)
	}
	t.ChatID = chatID

	return t, nil
}

func (t *Telegram) endpoint() string {
	if t.Endpoint != "" {
		return t.Endpoint
	}
	host := t.ApiHost
	if host == "" {
		host = defaultApiHost
	}
	return "https://" + host + "/bot%s/%s"
}

func (t *Telegram) Webhook(title string, content string) error {
	bot, err := tg.NewBotAPIWithAPIEndpoint(t.Token, t.endpoint())
	if err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}

	msg := tg.NewMessage(t.ChatID, fmt.Sprintf("#Route53DDNS\n%s\n%s", title, content))
	if _, err = bot.Send(msg); err != nil {
		return fmt.Errorf("[telegram] %w", err)
	}
	return nil
}
