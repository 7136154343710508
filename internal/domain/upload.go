package domain

import "context"

// Upload folders. Object keys are folder/<userID>/<uuid>_<name>.
const (
	FolderAvatars      = "avatars"
	FolderProjects     = "projects"
	FolderTechnologies = "technologies"
	FolderDocuments    = "documents"
)

var UploadFolders = []string{FolderAvatars, FolderProjects, FolderTechnologies, FolderDocuments}

type UploadedFile struct {
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type DeleteUploadRequest struct {
	Path string `json:"path" validate:"required,max=512"`
}

// ObjectStorage is implemented by the Supabase Storage and S3 backends.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
}

type UploadUsecase interface {
	Upload(ctx context.Context, p *Principal, folder, filename string, data []byte) (*UploadedFile, error)
	Delete(ctx context.Context, p *Principal, req *DeleteUploadRequest) error
}

// UploadQuota limits how many files one user may upload per window.
type UploadQuota interface {
	AllowUpload(ctx context.Context, userID string) (allowed bool, retryAfterSeconds int, err error)
}

// MalwareScanner returns the matched signature name, or "" for clean data.
type MalwareScanner interface {
	Scan(ctx context.Context, data []byte) (threat string, err error)
}
