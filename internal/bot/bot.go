package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytaudiobot/internal/models"
	"ytaudiobot/internal/services/pipeline"
	"ytaudiobot/internal/services/telegram"
	"ytaudiobot/internal/services/youtube"
	"ytaudiobot/internal/utils"
)

const welcomeText = `🎵 YouTube Audio Bot

Send me a YouTube link and I'll convert it to MP3, send it back and keep a copy in cloud storage.

Supported links:
• youtube.com/watch?v=...
• youtu.be/...
• youtube.com/shorts/...

You can also send me a document (PDF, EPUB, ...) and I'll store it in the cloud folder.`

const helpText = `How to use:

🎵 YouTube to MP3:
1. Copy a video link from YouTube
2. Paste it here
3. Receive the audio file

📚 Document relay:
Send any file and it will be uploaded to the cloud folder.

Commands:
/start - start the bot
/help - show this help`

const unknownText = "🤔 Send me a YouTube link or a file to upload. Use /help for details."

// Bot reads chat updates and dispatches each message to the pipeline.
type Bot struct {
	chat     telegram.ChatClient
	youtube  youtube.YouTubeClient
	pipeline *pipeline.Pipeline
}

func New(chat telegram.ChatClient, yt youtube.YouTubeClient, pl *pipeline.Pipeline) *Bot {
	return &Bot{
		chat:     chat,
		youtube:  yt,
		pipeline: pl,
	}
}

// Run consumes the update channel until ctx is cancelled. Each message is
// handled in its own goroutine; requests share no mutable state.
func (b *Bot) Run(ctx context.Context) {
	updates := b.chat.Updates()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			go b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID

	switch {
	case message.IsCommand():
		b.handleCommand(ctx, chatID, message.Command())

	case message.Document != nil:
		doc := &models.IncomingDocument{
			ChatID:    chatID,
			MessageID: message.MessageID,
			FileID:    message.Document.FileID,
			FileName:  message.Document.FileName,
			MimeType:  message.Document.MimeType,
			FileSize:  int64(message.Document.FileSize),
		}
		b.pipeline.ProcessDocument(ctx, doc)

	case strings.TrimSpace(message.Text) != "":
		var userID int64
		if message.From != nil {
			userID = message.From.ID
		}
		msg := &models.IncomingMessage{
			ChatID:    chatID,
			UserID:    userID,
			MessageID: message.MessageID,
			Text:      strings.TrimSpace(message.Text),
		}
		if b.youtube.IsYouTubeURL(msg.Text) {
			b.pipeline.ProcessVideoLink(ctx, msg)
		} else {
			b.sendText(ctx, chatID, unknownText)
		}
	}
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command string) {
	switch command {
	case "start":
		b.sendText(ctx, chatID, welcomeText)
	case "help":
		b.sendText(ctx, chatID, helpText)
	default:
		b.sendText(ctx, chatID, unknownText)
	}
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) {
	if _, err := b.chat.SendText(chatID, text); err != nil {
		utils.LogWarn(ctx, "Failed to send message", utils.Fields{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}
