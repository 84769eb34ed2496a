package pipeline

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"ytaudiobot/internal/config"
	"ytaudiobot/internal/models"
	"ytaudiobot/internal/services/storage"
	"ytaudiobot/internal/services/telegram"
	"ytaudiobot/internal/services/youtube"
	"ytaudiobot/internal/utils"
)

// Pipeline runs one request through receive → download → transcode →
// reply → upload → cleanup. Requests share no state beyond the filesystem;
// artifact names are unique per request.
type Pipeline struct {
	youtube youtube.YouTubeClient
	chat    telegram.ChatClient
	storage storage.StorageInterface
	cfg     *config.Config
}

func NewPipeline(yt youtube.YouTubeClient, chat telegram.ChatClient, store storage.StorageInterface, cfg *config.Config) *Pipeline {
	return &Pipeline{
		youtube: yt,
		chat:    chat,
		storage: store,
		cfg:     cfg,
	}
}

// ProcessVideoLink handles a message carrying a YouTube URL. Any stage error
// is reported to the chat and returned; the artifact is removed on every
// exit path once it exists.
func (p *Pipeline) ProcessVideoLink(ctx context.Context, msg *models.IncomingMessage) error {
	ctx = utils.WithRequestID(ctx, utils.GenerateRequestID())
	ctx = utils.WithChatID(ctx, msg.ChatID)

	ref, err := p.youtube.ParseVideoURL(msg.Text)
	if err != nil {
		utils.LogWarn(ctx, "Rejected message without valid YouTube link", utils.Fields{
			"text": msg.Text,
		})
		p.reply(ctx, msg.ChatID, msg.MessageID, utils.UserMessage(err))
		return err
	}

	utils.LogInfo(ctx, "Processing video link", utils.Fields{
		"video_id": ref.VideoID,
		"status":   models.RequestStatusProcessing,
	})

	statusID := p.status(ctx, msg.ChatID, 0, "⏳ Downloading and converting the video...")

	dctx, cancel := context.WithTimeout(ctx, p.cfg.Download.Timeout)
	defer cancel()

	artifact, err := p.youtube.DownloadAudio(dctx, ref, p.cfg.Download.Dir)
	if err != nil {
		utils.LogError(ctx, "Failed to produce audio artifact", err, utils.Fields{
			"video_id": ref.VideoID,
			"code":     utils.CodeOf(err),
		})
		p.status(ctx, msg.ChatID, statusID, "❌ "+utils.UserMessage(err))
		return err
	}

	defer func() {
		if rmErr := os.Remove(artifact.Path); rmErr != nil {
			utils.LogWarn(ctx, "Failed to remove artifact", utils.Fields{
				"path":  artifact.Path,
				"error": rmErr.Error(),
			})
		}
		utils.LogInfo(ctx, "Request finished", utils.Fields{
			"video_id": ref.VideoID,
			"status":   models.RequestStatusDone,
		})
	}()

	// Chat delivery and cloud upload are independent side effects: a failed
	// or skipped send never blocks the upload.
	sent := false
	if artifact.Size <= p.cfg.Telegram.MaxAttachment {
		p.status(ctx, msg.ChatID, statusID, "📤 Sending the audio file...")
		if sendErr := p.chat.SendAudio(msg.ChatID, artifact, "🎵 "+artifact.Title); sendErr != nil {
			deliveryErr := utils.NewDeliveryError(sendErr)
			utils.LogError(ctx, "Failed to send audio to chat", deliveryErr, utils.Fields{
				"video_id": ref.VideoID,
				"size":     artifact.Size,
			})
		} else {
			sent = true
		}
	} else {
		p.status(ctx, msg.ChatID, statusID, fmt.Sprintf(
			"⚠️ File is too large for chat delivery (%.1fMB), uploading to cloud only...",
			float64(artifact.Size)/(1024*1024)))
	}

	p.status(ctx, msg.ChatID, statusID, "☁️ Uploading to cloud storage...")
	result, err := p.uploadArtifact(ctx, artifact)
	if err != nil {
		utils.LogError(ctx, "Failed to upload artifact", err, utils.Fields{
			"video_id": ref.VideoID,
			"backend":  p.storage.Backend(),
		})
		if sent {
			p.status(ctx, msg.ChatID, statusID, "✅ File sent.\n⚠️ "+utils.UserMessage(err))
		} else {
			p.status(ctx, msg.ChatID, statusID, "❌ "+utils.UserMessage(err))
		}
		return err
	}

	utils.LogInfo(ctx, "Uploaded artifact", utils.Fields{
		"video_id": ref.VideoID,
		"file_id":  result.FileID,
		"backend":  result.Backend,
	})

	switch {
	case sent && result.Link != "":
		p.status(ctx, msg.ChatID, statusID, fmt.Sprintf("✅ Done!\n• File sent to this chat\n• Cloud copy: %s", result.Link))
	case sent:
		p.status(ctx, msg.ChatID, statusID, "✅ Done!\n• File sent to this chat\n• Cloud copy stored")
	case result.Link != "":
		p.status(ctx, msg.ChatID, statusID, fmt.Sprintf("✅ Uploaded to cloud storage.\n🔗 %s", result.Link))
	default:
		p.status(ctx, msg.ChatID, statusID, "✅ Uploaded to cloud storage.")
	}

	return nil
}

// ProcessDocument relays a chat attachment to cloud storage.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc *models.IncomingDocument) error {
	ctx = utils.WithRequestID(ctx, utils.GenerateRequestID())
	ctx = utils.WithChatID(ctx, doc.ChatID)

	statusID := p.status(ctx, doc.ChatID, 0, fmt.Sprintf("📥 Fetching %s...", doc.FileName))

	dctx, cancel := context.WithTimeout(ctx, p.cfg.Download.Timeout)
	defer cancel()

	localPath, err := p.chat.DownloadDocument(dctx, doc, p.cfg.Download.Dir)
	if err != nil {
		fetchErr := utils.NewError(utils.ErrorCodeDownloadFailed,
			"failed to fetch document from chat",
			"Fetching the file failed. Please try again.",
			err)
		utils.LogError(ctx, "Failed to fetch document", fetchErr, utils.Fields{
			"file_name": doc.FileName,
		})
		p.status(ctx, doc.ChatID, statusID, "❌ "+utils.UserMessage(fetchErr))
		return fetchErr
	}

	defer func() {
		if rmErr := os.Remove(localPath); rmErr != nil {
			utils.LogWarn(ctx, "Failed to remove document", utils.Fields{
				"path":  localPath,
				"error": rmErr.Error(),
			})
		}
	}()

	p.status(ctx, doc.ChatID, statusID, "☁️ Uploading to cloud storage...")

	file, err := os.Open(localPath)
	if err != nil {
		openErr := utils.NewInternalError(err)
		p.status(ctx, doc.ChatID, statusID, "❌ "+utils.UserMessage(openErr))
		return openErr
	}
	defer file.Close()

	contentType := doc.MimeType
	if contentType == "" {
		contentType = mimeTypeFor(doc.FileName)
	}

	result, err := p.storage.Upload(ctx, sanitizeFileName(doc.FileName, filepath.Ext(doc.FileName)), file, contentType)
	if err != nil {
		uploadErr := utils.NewUploadError(err)
		utils.LogError(ctx, "Failed to upload document", uploadErr, utils.Fields{
			"file_name": doc.FileName,
			"backend":   p.storage.Backend(),
		})
		p.status(ctx, doc.ChatID, statusID, "❌ "+utils.UserMessage(uploadErr))
		return uploadErr
	}

	if result.Link != "" {
		p.status(ctx, doc.ChatID, statusID, fmt.Sprintf("✅ Uploaded %s\n🔗 %s", doc.FileName, result.Link))
	} else {
		p.status(ctx, doc.ChatID, statusID, fmt.Sprintf("✅ Uploaded %s", doc.FileName))
	}

	return nil
}

func (p *Pipeline) uploadArtifact(ctx context.Context, artifact *models.AudioArtifact) (*models.UploadResult, error) {
	file, err := os.Open(artifact.Path)
	if err != nil {
		return nil, utils.NewUploadError(fmt.Errorf("failed to open artifact: %w", err))
	}
	defer file.Close()

	name := sanitizeFileName(artifact.Title, ".mp3")
	result, err := p.storage.Upload(ctx, name, file, "audio/mpeg")
	if err != nil {
		return nil, utils.NewUploadError(err)
	}
	return result, nil
}

// status sends a status message on first call (messageID 0) and edits it on
// subsequent calls. Status delivery is best effort.
func (p *Pipeline) status(ctx context.Context, chatID int64, messageID int, text string) int {
	if messageID == 0 {
		id, err := p.chat.SendText(chatID, text)
		if err != nil {
			utils.LogWarn(ctx, "Failed to send status message", utils.Fields{
				"error": err.Error(),
			})
			return 0
		}
		return id
	}

	if err := p.chat.EditText(chatID, messageID, text); err != nil {
		utils.LogWarn(ctx, "Failed to edit status message", utils.Fields{
			"error": err.Error(),
		})
	}
	return messageID
}

func (p *Pipeline) reply(ctx context.Context, chatID int64, replyTo int, text string) {
	if _, err := p.chat.ReplyText(chatID, replyTo, text); err != nil {
		utils.LogWarn(ctx, "Failed to send reply", utils.Fields{
			"error": err.Error(),
		})
	}
}

func mimeTypeFor(fileName string) string {
	if t := mime.TypeByExtension(filepath.Ext(fileName)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// sanitizeFileName strips characters that are unsafe in file names and pins
// the extension.
func sanitizeFileName(name, ext string) string {
	invalidChars := []string{"/", "\\", ":", "*", "?", "\"", "<", ">", "|"}
	sanitized := strings.TrimSpace(name)
	for _, char := range invalidChars {
		sanitized = strings.ReplaceAll(sanitized, char, "_")
	}

	sanitized = strings.TrimSuffix(sanitized, filepath.Ext(sanitized))
	if sanitized == "" {
		sanitized = "file"
	}

	// Limit file name length
	if len(sanitized) > 200-len(ext) {
		sanitized = sanitized[:200-len(ext)]
	}

	return sanitized + ext
}
