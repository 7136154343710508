package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/imaging"
	"portfolio-backend/pkg/security"
)

var (
	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	// folderExtensions is the per-folder extension whitelist.
	folderExtensions = map[string][]string{
		domain.FolderAvatars:      imageExtensions,
		domain.FolderProjects:     imageExtensions,
		domain.FolderTechnologies: append(slices.Clone(imageExtensions), ".svg"),
		domain.FolderDocuments:    append(slices.Clone(imageExtensions), ".pdf", ".docx", ".txt"),
	}
)

type uploadUsecase struct {
	storage  domain.ObjectStorage
	quota    domain.UploadQuota
	scanner  domain.MalwareScanner
	audit    *security.AuditLogger
	log      *slog.Logger
	maxBytes int64
}

func NewUploadUsecase(
	storage domain.ObjectStorage,
	quota domain.UploadQuota,
	scanner domain.MalwareScanner,
	audit *security.AuditLogger,
	log *slog.Logger,
	maxMB int,
) domain.UploadUsecase {
	if maxMB <= 0 {
		maxMB = 5
	}
	return &uploadUsecase{
		storage:  storage,
		quota:    quota,
		scanner:  scanner,
		audit:    audit,
		log:      log,
		maxBytes: int64(maxMB) << 20,
	}
}

func (u *uploadUsecase) Upload(ctx context.Context, p *domain.Principal, folder, filename string, data []byte) (*domain.UploadedFile, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}
	allowed, ok := folderExtensions[folder]
	if !ok {
		return nil, apperror.BadRequest("folder must be one of: " + strings.Join(domain.UploadFolders, ", "))
	}
	// Technology icons are public site assets
	if folder == domain.FolderTechnologies && !p.IsAdmin() {
		return nil, apperror.Forbidden("only admins may upload to " + folder)
	}
	if len(data) == 0 {
		return nil, apperror.BadRequest("file is empty")
	}
	if int64(len(data)) > u.maxBytes {
		return nil, apperror.New(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds the %d MB limit", u.maxBytes>>20), nil)
	}

	result, err := security.ValidateFile(filename, data, allowed)
	if err != nil {
		u.audit.LogUploadRejected(ctx, p.ID, filename, err.Error())
		return nil, apperror.BadRequest(err.Error())
	}

	// Scanning happens on the original bytes; a nil scanner skips it
	if u.scanner != nil {
		threat, err := u.scanner.Scan(ctx, data)
		if err != nil {
			u.log.Error("malware scan failed", "error", err, "user_id", p.ID)
			return nil, apperror.ServiceUnavailable("file scanning is unavailable, try again later", err)
		}
		if threat != "" {
			u.audit.LogUploadRejected(ctx, p.ID, filename, "malware: "+threat)
			return nil, apperror.BadRequest("file was rejected by the malware scan")
		}
	}

	// Only files that passed validation count against the quota
	permitted, retry, err := u.quota.AllowUpload(ctx, p.ID)
	if err != nil {
		u.log.Warn("upload quota check failed", "error", err)
	}
	if !permitted {
		return nil, apperror.TooManyRequests(fmt.Sprintf("upload limit reached, retry in %d seconds", retry))
	}

	name := security.SanitizeFilename(filename)
	contentType := result.DetectedMIME
	if result.IsImage {
		compressed, err := imaging.Compress(data, imaging.DefaultMaxDimension, imaging.DefaultQuality)
		if err != nil {
			u.audit.LogUploadRejected(ctx, p.ID, filename, "undecodable image")
			return nil, apperror.BadRequest("image could not be processed")
		}
		data = compressed
		contentType = "image/jpeg"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	}

	key := fmt.Sprintf("%s/%s/%s_%s", folder, p.ID, uuid.NewString(), name)
	if err := u.storage.Upload(ctx, key, data, contentType); err != nil {
		return nil, providerError(err)
	}

	return &domain.UploadedFile{
		Path:        key,
		URL:         u.storage.PublicURL(key),
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Delete lets users remove keys under their own <folder>/<userID>/ prefix;
// admins may remove any key.
func (u *uploadUsecase) Delete(ctx context.Context, p *domain.Principal, req *domain.DeleteUploadRequest) error {
	if err := requirePrincipal(p); err != nil {
		return err
	}
	key := strings.TrimPrefix(strings.TrimSpace(req.Path), "/")
	if key == "" || strings.Contains(key, "..") {
		return apperror.BadRequest("invalid path")
	}

	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || !slices.Contains(domain.UploadFolders, parts[0]) {
		return apperror.BadRequest("invalid path")
	}
	if parts[1] != p.ID && !p.IsAdmin() {
		return apperror.Forbidden("you do not own this file")
	}

	if err := u.storage.Remove(ctx, key); err != nil {
		return providerError(err)
	}
	return nil
}
