package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

// TelegramClient delivers best-effort notifications through the Telegram Bot
// API. An empty token degrades every send to a logged no-op, never an error.
type TelegramClient struct {
	token   string
	baseURL string
	client  *http.Client
}

func NewTelegramClient(token string) *TelegramClient {
	return &TelegramClient{
		token:   token,
		baseURL: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (t *TelegramClient) Configured() bool {
	return t != nil && t.token != ""
}

type telegramSendRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type telegramSendResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers one HTML-formatted message to a chat.
func (t *TelegramClient) SendMessage(chatID, text string) error {
	if !t.Configured() {
		log.Warn("telegram bot not configured, skipping notification")
		return nil
	}

	reqBody := telegramSendRequest{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}
	bodyBytes, _ := json.Marshal(reqBody)

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)
	resp, err := t.client.Post(url, "application/json", bytes.NewBuffer(bodyBytes))
	if err != nil {
		return fmt.Errorf("telegram request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	var sendResp telegramSendResponse
	if err := json.Unmarshal(respBody, &sendResp); err != nil {
		return fmt.Errorf("failed to decode telegram response: %w", err)
	}
	if !sendResp.OK {
		return fmt.Errorf("telegram api error: %s", sendResp.Description)
	}

	return nil
}
