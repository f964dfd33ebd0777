package telegram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"genstudio/internal/generation"
	"genstudio/internal/linking"
	"genstudio/internal/prompts"
	"genstudio/internal/users"
	"genstudio/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

const maxMessageRunes = 4096

const helpText = `Send me any text and I will write a response for you.

Commands:
/templates - list the built-in writing templates
/help - show this message

Link your web account from the site to keep history of your generations.`

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	HandleUpdate(r *http.Request) (*tgbotapi.Update, error)
}

type TextGenerator interface {
	GenerateText(ctx context.Context, sess generation.Session, req generation.Request) (generation.Outcome, error)
}

type Accounts interface {
	LinkTelegramAccount(ctx context.Context, userID string, telegramID int64) error
	FindByTelegramID(ctx context.Context, telegramID int64) (*users.Profile, error)
}

type LinkTokens interface {
	ValidateAndUseLinkToken(token string) (string, error)
}

type Handler struct {
	bot        botAPI
	self       tgbotapi.User
	text       TextGenerator
	accounts   Accounts
	links      LinkTokens
	credential string
	cfg        *config.Config
}

func NewHandler(cfg *config.Config, text TextGenerator, accounts Accounts, links LinkTokens) (*Handler, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("init telegram bot: %w", err)
	}

	logrus.Infof("Telegram bot started: %s", bot.Self.UserName)

	h := newHandler(bot, text, accounts, links, cfg.DefaultCredential())
	h.self = bot.Self
	h.cfg = cfg
	return h, nil
}

func newHandler(bot botAPI, text TextGenerator, accounts Accounts, links LinkTokens, credential string) *Handler {
	return &Handler{
		bot:        bot,
		text:       text,
		accounts:   accounts,
		links:      links,
		credential: credential,
	}
}

// SetupWebhook registers TELEGRAM_WEBHOOK_URL with Telegram. The URL must be
// publicly reachable and route to HandleWebhook.
func (h *Handler) SetupWebhook() error {
	webhookConfig, err := tgbotapi.NewWebhook(h.cfg.TelegramWebhookURL)
	if err != nil {
		return fmt.Errorf("build webhook config: %w", err)
	}

	if _, err := h.bot.Request(webhookConfig); err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	return nil
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	update, err := h.bot.HandleUpdate(r)
	if err != nil {
		logrus.Errorf("Failed to parse telegram update: %v", err)
		http.Error(w, "Bad update", http.StatusBadRequest)
		return
	}

	h.handleUpdate(r.Context(), *update)
}

func (h *Handler) BotName() string {
	return h.self.UserName
}

func (h *Handler) SendMessage(chatID int64, text string) error {
	for _, chunk := range splitMessage(text, maxMessageRunes) {
		if _, err := h.bot.Send(tgbotapi.NewMessage(chatID, chunk)); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
	}
	return nil
}

func splitMessage(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(runes) > limit {
		chunks = append(chunks, string(runes[:limit]))
		runes = runes[limit:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func (h *Handler) reply(chatID int64, text string) {
	if err := h.SendMessage(chatID, text); err != nil {
		logrus.Errorf("Failed to reply to chat %d: %v", chatID, err)
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	chatID := msg.Chat.ID

	switch {
	case strings.HasPrefix(msg.Text, "/start "):
		parts := strings.Fields(msg.Text)
		if len(parts) == 2 {
			h.handleLinkTokenStart(ctx, chatID, msg.From.ID, parts[1])
			return
		}
		h.reply(chatID, helpText)
	case msg.Text == "/start" || msg.Text == "/help":
		h.reply(chatID, helpText)
	case msg.Text == "/templates":
		h.reply(chatID, templateList())
	case strings.TrimSpace(msg.Text) == "":
		h.reply(chatID, "Please send a text prompt.")
	default:
		h.handleTextMessage(ctx, chatID, msg.From.ID, msg.Text)
	}
}

func templateList() string {
	var b strings.Builder
	b.WriteString("Available templates:\n")
	for _, t := range prompts.Templates() {
		fmt.Fprintf(&b, "\n%s (%s): %s", t.Title, t.ID, t.Description)
	}
	return b.String()
}

// identity returns the linked web user, or a bot-local id for unlinked chats.
func (h *Handler) identity(ctx context.Context, telegramID int64) string {
	p, err := h.accounts.FindByTelegramID(ctx, telegramID)
	if err == nil && p != nil {
		return p.UserID
	}
	if err != nil && !errors.Is(err, users.ErrUserNotFound) {
		logrus.Warnf("Failed to resolve telegram user %d: %v", telegramID, err)
	}
	return fmt.Sprintf("tg:%d", telegramID)
}

func (h *Handler) handleTextMessage(ctx context.Context, chatID, telegramID int64, text string) {
	if _, err := h.bot.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		logrus.Debugf("Failed to send typing action: %v", err)
	}

	sess := generation.Session{UserID: h.identity(ctx, telegramID), Credential: h.credential}
	out, err := h.text.GenerateText(ctx, sess, generation.Request{
		Prompt: text,
		Length: prompts.LengthMedium,
		Tone:   prompts.ToneProfessional,
	})
	if err != nil {
		h.reply(chatID, generation.UserMessage(err))
		return
	}
	h.reply(chatID, out.Text)
}

func (h *Handler) handleLinkTokenStart(ctx context.Context, chatID int64, telegramUserID int64, token string) {
	userID, err := h.links.ValidateAndUseLinkToken(token)
	if err != nil {
		logrus.Warnf("Link token rejected for telegram user %d: %v", telegramUserID, err)
		switch {
		case errors.Is(err, linking.ErrTokenNotFound):
			h.reply(chatID, "This link is invalid or has expired. Please generate a new one on the site.")
		case errors.Is(err, linking.ErrTokenAlreadyUsed):
			h.reply(chatID, "This link has already been used.")
		default:
			h.reply(chatID, "Could not process the link. Please try again later.")
		}
		return
	}

	if err := h.accounts.LinkTelegramAccount(ctx, userID, telegramUserID); err != nil {
		switch {
		case errors.Is(err, users.ErrTelegramIDAlreadyLinkedToOtherUser):
			h.reply(chatID, "This Telegram account is already linked to another profile.")
		case errors.Is(err, users.ErrTelegramIDAlreadyLinkedToThisUser):
			h.reply(chatID, "This Telegram account is already linked to your profile.")
		case errors.Is(err, users.ErrUserNotFound):
			h.reply(chatID, "The profile you are linking to was not found. Sign in on the site first.")
		default:
			h.reply(chatID, "Failed to link your Telegram account. Please try again later.")
		}
		return
	}

	h.reply(chatID, "Your Telegram account is now linked. Generations from this chat will appear in your history.")
	logrus.Infof("Telegram account %d linked to user %s", telegramUserID, userID)
}
