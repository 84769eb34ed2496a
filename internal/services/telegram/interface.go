package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytaudiobot/internal/models"
)

// ChatClient defines the interface for the chat transport
type ChatClient interface {
	Connect(ctx context.Context) error
	Updates() tgbotapi.UpdatesChannel
	SendText(chatID int64, text string) (messageID int, err error)
	ReplyText(chatID int64, replyTo int, text string) (messageID int, err error)
	EditText(chatID int64, messageID int, text string) error
	SendAudio(chatID int64, artifact *models.AudioArtifact, caption string) error
	DownloadDocument(ctx context.Context, doc *models.IncomingDocument, outputDir string) (string, error)
	Ping(ctx context.Context) error
	Close() error
}
