package storage

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	appconfig "ytaudiobot/internal/config"
	"ytaudiobot/internal/models"
)

// DriveStorage uploads files into one Google Drive folder using a
// credentials file loaded at startup.
type DriveStorage struct {
	service  *drive.Service
	folderID string
}

func NewDriveStorage(ctx context.Context, cfg *appconfig.DriveConfig) (*DriveStorage, error) {
	service, err := drive.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(drive.DriveFileScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &DriveStorage{
		service:  service,
		folderID: cfg.FolderID,
	}, nil
}

func (d *DriveStorage) Backend() string {
	return "drive"
}

func (d *DriveStorage) Upload(ctx context.Context, name string, data io.Reader, contentType string) (*models.UploadResult, error) {
	meta := &drive.File{
		Name:    name,
		Parents: []string{d.folderID},
	}

	created, err := d.service.Files.Create(meta).
		Media(data, googleapi.ContentType(contentType)).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload to Drive: %w", err)
	}

	link := created.WebViewLink
	if link == "" {
		link = fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id)
	}

	return &models.UploadResult{
		FileID:  created.Id,
		Link:    link,
		Backend: d.Backend(),
	}, nil
}

func (d *DriveStorage) Ping(ctx context.Context) error {
	_, err := d.service.About.Get().Fields("user").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("drive ping failed: %w", err)
	}
	return nil
}
