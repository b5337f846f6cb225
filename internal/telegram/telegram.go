// Package telegram is the thin transport adapter over the Bot API.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client implements the bot.Messenger interface and feeds inbound text
// messages into a handler.
type Client struct {
	api *tgbotapi.BotAPI
}

// New authenticates against the Bot API.
func New(token string) (*Client, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram auth: %w", err)
	}
	return &Client{api: api}, nil
}

// Username returns the authenticated bot account name.
func (c *Client) Username() string {
	return c.api.Self.UserName
}

// SendMessage sends text with an optional reply keyboard.
func (c *Client) SendMessage(chat int64, text string, keyboard [][]string) error {
	msg := tgbotapi.NewMessage(chat, text)
	if keyboard != nil {
		rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
		for _, labels := range keyboard {
			row := make([]tgbotapi.KeyboardButton, 0, len(labels))
			for _, l := range labels {
				row = append(row, tgbotapi.NewKeyboardButton(l))
			}
			rows = append(rows, row)
		}
		markup := tgbotapi.NewReplyKeyboard(rows...)
		markup.ResizeKeyboard = true
		msg.ReplyMarkup = markup
	}
	_, err := c.api.Send(msg)
	return err
}

// SendDocument uploads a local file as a document.
func (c *Client) SendDocument(chat int64, path, caption string) error {
	doc := tgbotapi.NewDocument(chat, tgbotapi.FilePath(path))
	doc.Caption = caption
	_, err := c.api.Send(doc)
	return err
}

// Listen long-polls for updates and invokes handle for every inbound text
// message until ctx is done.
func (c *Client) Listen(ctx context.Context, handle func(user int64, text string)) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := c.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			c.api.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			if upd.Message == nil || upd.Message.Text == "" || upd.Message.From == nil {
				continue
			}
			handle(upd.Message.From.ID, upd.Message.Text)
		}
	}
}
