package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	appconfig "ytaudiobot/internal/config"
	"ytaudiobot/internal/models"
)

// BotClient talks to the Telegram Bot API with a long-lived bot token.
type BotClient struct {
	bot           *tgbotapi.BotAPI
	token         string
	updateTimeout int
}

func NewBotClient(cfg *appconfig.TelegramConfig) (*BotClient, error) {
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &BotClient{
		bot:           bot,
		token:         cfg.BotToken,
		updateTimeout: cfg.UpdateTimeout,
	}, nil
}

func (c *BotClient) Connect(ctx context.Context) error {
	me, err := c.bot.GetMe()
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram Bot API: %w", err)
	}
	fmt.Printf("Connected as bot: @%s\n", me.UserName)
	return nil
}

// Updates returns the long-poll channel of incoming events.
func (c *BotClient) Updates() tgbotapi.UpdatesChannel {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = c.updateTimeout
	return c.bot.GetUpdatesChan(u)
}

func (c *BotClient) SendText(chatID int64, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

func (c *BotClient) ReplyText(chatID int64, replyTo int, text string) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	sent, err := c.bot.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send reply: %w", err)
	}
	return sent.MessageID, nil
}

func (c *BotClient) EditText(chatID int64, messageID int, text string) error {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if _, err := c.bot.Send(edit); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

func (c *BotClient) SendAudio(chatID int64, artifact *models.AudioArtifact, caption string) error {
	audio := tgbotapi.NewAudio(chatID, tgbotapi.FilePath(artifact.Path))
	audio.Title = artifact.Title
	audio.Performer = artifact.Author
	audio.Duration = int(artifact.Duration.Seconds())
	audio.Caption = caption

	if _, err := c.bot.Send(audio); err != nil {
		return fmt.Errorf("failed to send audio: %w", err)
	}
	return nil
}

// DownloadDocument fetches a chat attachment into outputDir and returns the
// local path. The caller owns the file.
func (c *BotClient) DownloadDocument(ctx context.Context, doc *models.IncomingDocument, outputDir string) (string, error) {
	file, err := c.bot.GetFile(tgbotapi.FileConfig{FileID: doc.FileID})
	if err != nil {
		return "", fmt.Errorf("failed to get file info: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	localPath := filepath.Join(outputDir, fmt.Sprintf("doc_%s_%s", uuid.New().String(), filepath.Base(doc.FileName)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(c.token), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	out, err := os.Create(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(localPath)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return localPath, nil
}

func (c *BotClient) Ping(ctx context.Context) error {
	if _, err := c.bot.GetMe(); err != nil {
		return fmt.Errorf("telegram ping failed: %w", err)
	}
	return nil
}

func (c *BotClient) Close() error {
	c.bot.StopReceivingUpdates()
	return nil
}
