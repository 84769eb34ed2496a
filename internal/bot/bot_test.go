package bot

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"ytaudiobot/internal/config"
	"ytaudiobot/internal/models"
	"ytaudiobot/internal/services/pipeline"
	"ytaudiobot/internal/utils"
)

type fakeYouTube struct {
	downloadCalls int
}

func (f *fakeYouTube) IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com/watch?v=") || strings.Contains(url, "youtu.be/")
}

func (f *fakeYouTube) ParseVideoURL(url string) (*models.VideoReference, error) {
	if !f.IsYouTubeURL(url) {
		return nil, utils.NewInvalidLinkError(url)
	}
	return &models.VideoReference{VideoID: "dQw4w9WgXcQ", RawURL: url}, nil
}

func (f *fakeYouTube) DownloadAudio(ctx context.Context, ref *models.VideoReference, outputDir string) (*models.AudioArtifact, error) {
	f.downloadCalls++
	path := filepath.Join(outputDir, "yt_test.mp3")
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		return nil, err
	}
	return &models.AudioArtifact{Path: path, Title: "Test", Size: 3, CreatedAt: time.Now()}, nil
}

type fakeChat struct {
	texts     []string
	audioSent int
}

func (f *fakeChat) Connect(ctx context.Context) error { return nil }

func (f *fakeChat) Updates() tgbotapi.UpdatesChannel { return nil }

func (f *fakeChat) Ping(ctx context.Context) error { return nil }

func (f *fakeChat) Close() error { return nil }

func (f *fakeChat) SendText(chatID int64, text string) (int, error) {
	f.texts = append(f.texts, text)
	return len(f.texts), nil
}

func (f *fakeChat) ReplyText(chatID int64, replyTo int, text string) (int, error) {
	f.texts = append(f.texts, text)
	return len(f.texts), nil
}

func (f *fakeChat) EditText(chatID int64, messageID int, text string) error { return nil }

func (f *fakeChat) SendAudio(chatID int64, artifact *models.AudioArtifact, caption string) error {
	f.audioSent++
	return nil
}

func (f *fakeChat) DownloadDocument(ctx context.Context, doc *models.IncomingDocument, outputDir string) (string, error) {
	path := filepath.Join(outputDir, doc.FileName)
	if err := os.WriteFile(path, []byte("doc"), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

type fakeStorage struct {
	uploads []string
}

func (f *fakeStorage) Backend() string { return "fake" }

func (f *fakeStorage) Upload(ctx context.Context, name string, data io.Reader, contentType string) (*models.UploadResult, error) {
	if _, err := io.Copy(io.Discard, data); err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, name)
	return &models.UploadResult{FileID: "id", Backend: f.Backend()}, nil
}

func (f *fakeStorage) Ping(ctx context.Context) error { return nil }

func newTestBot(t *testing.T) (*Bot, *fakeYouTube, *fakeChat, *fakeStorage) {
	t.Helper()
	yt := &fakeYouTube{}
	chat := &fakeChat{}
	store := &fakeStorage{}
	cfg := &config.Config{
		Telegram: config.TelegramConfig{MaxAttachment: 50 * 1024 * 1024},
		Download: config.DownloadConfig{Dir: t.TempDir(), Timeout: time.Minute},
	}
	pl := pipeline.NewPipeline(yt, chat, store, cfg)
	return New(chat, yt, pl), yt, chat, store
}

func textMessage(text string) *tgbotapi.Message {
	msg := &tgbotapi.Message{
		MessageID: 100,
		From:      &tgbotapi.User{ID: 7},
		Chat:      &tgbotapi.Chat{ID: 42},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	}
	return msg
}

func TestHandleStartCommand(t *testing.T) {
	b, _, chat, _ := newTestBot(t)

	b.handleMessage(context.Background(), textMessage("/start"))

	if len(chat.texts) != 1 || !strings.Contains(chat.texts[0], "YouTube") {
		t.Errorf("expected welcome message, got %v", chat.texts)
	}
}

func TestHandleHelpCommand(t *testing.T) {
	b, _, chat, _ := newTestBot(t)

	b.handleMessage(context.Background(), textMessage("/help"))

	if len(chat.texts) != 1 || !strings.Contains(chat.texts[0], "/help") {
		t.Errorf("expected help message, got %v", chat.texts)
	}
}

func TestHandleNonLinkText(t *testing.T) {
	b, yt, chat, store := newTestBot(t)

	b.handleMessage(context.Background(), textMessage("hello"))

	if yt.downloadCalls != 0 {
		t.Error("plain text must not trigger a download")
	}
	if len(store.uploads) != 0 {
		t.Error("plain text must not trigger an upload")
	}
	if len(chat.texts) != 1 {
		t.Fatalf("expected one hint reply, got %d", len(chat.texts))
	}
}

func TestHandleVideoLink(t *testing.T) {
	b, yt, chat, store := newTestBot(t)

	b.handleMessage(context.Background(), textMessage("Check this out https://www.youtube.com/watch?v=dQw4w9WgXcQ"))

	if yt.downloadCalls != 1 {
		t.Errorf("expected 1 download, got %d", yt.downloadCalls)
	}
	if chat.audioSent != 1 {
		t.Errorf("expected 1 audio reply, got %d", chat.audioSent)
	}
	if len(store.uploads) != 1 {
		t.Errorf("expected 1 upload, got %d", len(store.uploads))
	}
}

func TestHandleDocument(t *testing.T) {
	b, _, _, store := newTestBot(t)

	msg := textMessage("")
	msg.Document = &tgbotapi.Document{
		FileID:   "doc-id",
		FileName: "book.pdf",
		MimeType: "application/pdf",
		FileSize: 1024,
	}

	b.handleMessage(context.Background(), msg)

	if len(store.uploads) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(store.uploads))
	}
	if store.uploads[0] != "book.pdf" {
		t.Errorf("unexpected upload name %q", store.uploads[0])
	}
}
