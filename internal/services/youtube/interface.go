package youtube

import (
	"context"

	"ytaudiobot/internal/models"
)

// YouTubeClient interface for YouTube operations
type YouTubeClient interface {
	// IsYouTubeURL checks if the provided text is a valid YouTube URL
	IsYouTubeURL(url string) bool

	// ParseVideoURL extracts the video ID from a YouTube URL
	ParseVideoURL(url string) (*models.VideoReference, error)

	// DownloadAudio fetches the best audio stream for a video and
	// transcodes it to a local MP3 file
	DownloadAudio(ctx context.Context, ref *models.VideoReference, outputDir string) (*models.AudioArtifact, error)
}
