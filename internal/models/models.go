package models

import "time"

// IncomingMessage is the normalized view of one chat message the bot acts on.
type IncomingMessage struct {
	ChatID    int64  `json:"chat_id"`
	UserID    int64  `json:"user_id"`
	MessageID int    `json:"message_id"`
	Text      string `json:"text"`
}

// VideoReference is a validated YouTube video extracted from a message.
type VideoReference struct {
	VideoID string `json:"video_id"`
	RawURL  string `json:"raw_url"`
}

// AudioArtifact is the locally produced MP3 file for one request. It is
// owned by the pipeline for the duration of the request and removed before
// the handler returns.
type AudioArtifact struct {
	Path      string        `json:"path"`
	Title     string        `json:"title"`
	Author    string        `json:"author"`
	Duration  time.Duration `json:"duration"`
	Size      int64         `json:"size"`
	CreatedAt time.Time     `json:"created_at"`
}

// UploadResult identifies the remote copy of an artifact.
type UploadResult struct {
	FileID  string `json:"file_id"`
	Link    string `json:"link,omitempty"`
	Backend string `json:"backend"`
}

// IncomingDocument describes a file attachment relayed to cloud storage.
type IncomingDocument struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
	FileID    string `json:"file_id"`
	FileName  string `json:"file_name"`
	MimeType  string `json:"mime_type"`
	FileSize  int64  `json:"file_size"`
}

// RequestStatus tracks a request through the pipeline. There are no
// intermediate persisted states: a request is either in flight or done.
type RequestStatus string

const (
	RequestStatusProcessing RequestStatus = "processing"
	RequestStatusDone       RequestStatus = "done"
)
