package youtube

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kkdai/youtube/v2"

	"ytaudiobot/internal/models"
	"ytaudiobot/internal/utils"
)

type Client struct {
	client     *youtube.Client
	httpClient *http.Client
}

// NewClient creates a new YouTube client
func NewClient() *Client {
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	ytClient := &youtube.Client{
		HTTPClient: httpClient,
	}

	return &Client{
		client:     ytClient,
		httpClient: httpClient,
	}
}

// A link may appear anywhere in the message text, so the patterns are not
// anchored to the start of the string.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`https?://(www\.|m\.)?youtube\.com/watch\?v=[\w-]+`),
	regexp.MustCompile(`https?://(www\.|m\.)?youtube\.com/shorts/[\w-]+`),
	regexp.MustCompile(`https?://(www\.|m\.)?youtube\.com/embed/[\w-]+`),
	regexp.MustCompile(`https?://(www\.|m\.)?youtube\.com/v/[\w-]+`),
	regexp.MustCompile(`https?://youtu\.be/[\w-]+`),
}

var videoIDPattern = regexp.MustCompile(
	`https?://(?:www\.|m\.)?(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/shorts/|youtube\.com/embed/|youtube\.com/v/)([a-zA-Z0-9_-]{11})`)

// IsYouTubeURL checks if the provided text is a valid YouTube URL
func (c *Client) IsYouTubeURL(url string) bool {
	url = strings.TrimSpace(url)
	for _, pattern := range urlPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// ParseVideoURL extracts the video ID from a YouTube URL
func (c *Client) ParseVideoURL(url string) (*models.VideoReference, error) {
	url = strings.TrimSpace(url)
	if !c.IsYouTubeURL(url) {
		return nil, utils.NewInvalidLinkError(url)
	}

	matches := videoIDPattern.FindStringSubmatch(url)
	if len(matches) < 2 {
		return nil, utils.NewInvalidLinkError(url)
	}

	return &models.VideoReference{
		VideoID: matches[1],
		RawURL:  matches[0],
	}, nil
}

// DownloadAudio downloads the best audio-only stream for a video and
// transcodes it to MP3 using FFmpeg. The returned artifact path is unique
// per call so concurrent requests never collide on the filesystem.
func (c *Client) DownloadAudio(ctx context.Context, ref *models.VideoReference, outputDir string) (*models.AudioArtifact, error) {
	video, err := c.client.GetVideoContext(ctx, ref.VideoID)
	if err != nil {
		return nil, utils.NewDownloadError(fmt.Errorf("failed to get video %s: %w", ref.VideoID, err))
	}

	audioFormat := c.getBestAudioFormat(video.Formats)
	if audioFormat == nil {
		return nil, utils.NewDownloadError(fmt.Errorf("no audio format available for video %s", ref.VideoID))
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, utils.NewDownloadError(fmt.Errorf("failed to create download directory: %w", err))
	}

	base := fmt.Sprintf("yt_%s_%s", ref.VideoID, uuid.New().String())
	rawPath := filepath.Join(outputDir, base+".m4a")
	mp3Path := filepath.Join(outputDir, base+".mp3")

	if err := c.downloadStream(ctx, video, audioFormat, rawPath); err != nil {
		os.Remove(rawPath)
		return nil, utils.NewDownloadError(err)
	}

	// The raw stream is only needed as transcode input
	defer os.Remove(rawPath)

	if err := c.transcodeToMP3(ctx, rawPath, mp3Path); err != nil {
		os.Remove(mp3Path)
		return nil, utils.NewTranscodeError(err)
	}

	fileInfo, err := os.Stat(mp3Path)
	if err != nil {
		os.Remove(mp3Path)
		return nil, utils.NewTranscodeError(fmt.Errorf("transcoded file missing: %w", err))
	}

	return &models.AudioArtifact{
		Path:      mp3Path,
		Title:     video.Title,
		Author:    video.Author,
		Duration:  video.Duration,
		Size:      fileInfo.Size(),
		CreatedAt: time.Now(),
	}, nil
}

// getBestAudioFormat selects the highest-bitrate audio-only format
func (c *Client) getBestAudioFormat(formats youtube.FormatList) *youtube.Format {
	var bestFormat *youtube.Format
	var bestBitrate int

	for i, format := range formats {
		if format.MimeType == "" || !strings.Contains(format.MimeType, "audio") {
			continue
		}

		// Prefer mp4/m4a container
		if strings.Contains(format.MimeType, "mp4") || strings.Contains(format.MimeType, "m4a") {
			if bestFormat == nil || format.Bitrate > bestBitrate {
				bestFormat = &formats[i]
				bestBitrate = format.Bitrate
			}
		}
	}

	// Fallback to any audio format
	if bestFormat == nil {
		for i, format := range formats {
			if format.MimeType != "" && strings.Contains(format.MimeType, "audio") {
				if bestFormat == nil || format.Bitrate > bestBitrate {
					bestFormat = &formats[i]
					bestBitrate = format.Bitrate
				}
			}
		}
	}

	return bestFormat
}

// downloadStream downloads a stream to a file
func (c *Client) downloadStream(ctx context.Context, video *youtube.Video, format *youtube.Format, outputPath string) error {
	stream, _, err := c.client.GetStreamContext(ctx, video, format)
	if err != nil {
		return fmt.Errorf("failed to get stream: %w", err)
	}
	defer stream.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	_, err = io.Copy(file, stream)
	if err != nil {
		return fmt.Errorf("failed to write stream to file: %w", err)
	}

	return nil
}

// transcodeToMP3 converts the downloaded audio stream to MP3 using FFmpeg
func (c *Client) transcodeToMP3(ctx context.Context, inputPath, outputPath string) error {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", inputPath,
		"-vn", // Drop any video stream
		"-codec:a", "libmp3lame",
		"-b:a", "192k",
		"-y", // Overwrite output file
		outputPath,
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg failed: %w, output: %s", err, string(output))
	}

	return nil
}
