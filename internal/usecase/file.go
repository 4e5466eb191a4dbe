package usecase

import (
	"archive/zip"
	"bytes"
	"compress/flate"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/ybalashov/bimvault/internal/domain"
)

const defaultContentType = "application/octet-stream"

// FileUsecase maintains file identity across content and name changes: a
// row's id, owning project and extension never change after creation.
type FileUsecase struct {
	files      FileRepository
	collisions CollisionRepository
	access     *AccessUsecase
	signal     EventPublisher
}

func NewFileUsecase(files FileRepository, collisions CollisionRepository, access *AccessUsecase, signal EventPublisher) *FileUsecase {
	return &FileUsecase{files: files, collisions: collisions, access: access, signal: signal}
}

func fileExt(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// Upload stores each payload as a new file row owned by the project.
func (uc *FileUsecase) Upload(ctx context.Context, callerID, projectID uint, uploads []domain.FileUpload) ([]domain.ProjectFile, error) {
	if _, err := uc.access.Authorize(ctx, projectID, callerID, domain.AccessEdit); err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, domain.ValidationError{Message: "no files uploaded"}
	}

	files := make([]domain.ProjectFile, 0, len(uploads))
	for _, upload := range uploads {
		contentType := upload.ContentType
		if strings.TrimSpace(contentType) == "" {
			contentType = defaultContentType
		}
		files = append(files, domain.ProjectFile{
			FileName:    upload.FileName,
			FileData:    upload.Data,
			ContentType: contentType,
		})
	}

	saved, err := uc.files.AddFiles(ctx, projectID, files)
	if err != nil {
		return nil, err
	}

	for _, file := range saved {
		// IFC models would be analyzed for clashes here; no algorithm has
		// ever shipped, so only stale rows are cleared for the idle surface.
		if fileExt(file.FileName) == ".ifc" {
			if err := uc.collisions.DeleteByFile(ctx, file.ID); err != nil {
				return nil, err
			}
		}
		uc.publish(ctx, domain.EventFileUploaded, file.ProjectID, file.ID, callerID)
	}

	return saved, nil
}

// Replace overwrites a file's content. The incoming payload's own filename
// must carry the same extension as the stored file; the stored name and the
// row identity survive unchanged.
func (uc *FileUsecase) Replace(ctx context.Context, callerID, fileID uint, upload domain.FileUpload) (domain.ProjectFile, error) {
	existing, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return domain.ProjectFile{}, err
	}
	if _, err := uc.access.Authorize(ctx, existing.ProjectID, callerID, domain.AccessEdit); err != nil {
		return domain.ProjectFile{}, err
	}

	existingExt := fileExt(existing.FileName)
	newExt := fileExt(upload.FileName)
	if existingExt != newExt {
		return domain.ProjectFile{}, domain.ValidationError{
			Message: fmt.Sprintf("file extension must be the same. Expected: %s, got: %s", existingExt, newExt),
		}
	}

	contentType := upload.ContentType
	if strings.TrimSpace(contentType) == "" {
		contentType = defaultContentType
	}

	if err := uc.files.UpdateContent(ctx, fileID, upload.Data, contentType); err != nil {
		return domain.ProjectFile{}, err
	}

	uc.publish(ctx, domain.EventFileReplaced, existing.ProjectID, fileID, callerID)

	existing.FileData = upload.Data
	existing.ContentType = contentType
	existing.LastModified = time.Now().UTC()
	return existing, nil
}

// Rename changes only the stored name. A bare name inherits the current
// extension; a differing extension is rejected.
func (uc *FileUsecase) Rename(ctx context.Context, callerID, fileID uint, newName string) (string, error) {
	existing, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return "", err
	}
	if _, err := uc.access.Authorize(ctx, existing.ProjectID, callerID, domain.AccessEdit); err != nil {
		return "", err
	}

	newName = strings.TrimSpace(newName)
	if newName == "" {
		return "", domain.ValidationError{Message: "new file name cannot be empty"}
	}

	if filepath.Ext(newName) == "" {
		newName += filepath.Ext(existing.FileName)
	}

	existingExt := fileExt(existing.FileName)
	newExt := fileExt(newName)
	if existingExt != newExt {
		return "", domain.ValidationError{
			Message: fmt.Sprintf("file extension must be the same. Expected: %s, got: %s", existingExt, newExt),
		}
	}

	if err := uc.files.UpdateName(ctx, fileID, newName); err != nil {
		return "", err
	}

	uc.publish(ctx, domain.EventFileRenamed, existing.ProjectID, fileID, callerID)
	return newName, nil
}

func (uc *FileUsecase) Delete(ctx context.Context, callerID, fileID uint) error {
	existing, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if _, err := uc.access.Authorize(ctx, existing.ProjectID, callerID, domain.AccessEdit); err != nil {
		return err
	}

	if err := uc.files.Delete(ctx, fileID); err != nil {
		return err
	}

	uc.publish(ctx, domain.EventFileDeleted, existing.ProjectID, fileID, callerID)
	return nil
}

// Download returns the raw blob with its name and content type.
func (uc *FileUsecase) Download(ctx context.Context, callerID, fileID uint) (domain.ProjectFile, error) {
	file, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return domain.ProjectFile{}, err
	}
	if _, err := uc.access.Authorize(ctx, file.ProjectID, callerID, domain.AccessView); err != nil {
		return domain.ProjectFile{}, err
	}

	if strings.TrimSpace(file.ContentType) == "" {
		file.ContentType = defaultContentType
	}
	return file, nil
}

func (uc *FileUsecase) List(ctx context.Context, callerID, projectID uint) ([]domain.FileInfo, error) {
	if _, err := uc.access.Authorize(ctx, projectID, callerID, domain.AccessView); err != nil {
		return nil, err
	}
	return uc.files.ListInfoByProject(ctx, projectID)
}

// BulkDownload packages every file of the project into one zip archive,
// entry names matching stored file names, fastest compression. An empty
// project yields a valid empty archive.
func (uc *FileUsecase) BulkDownload(ctx context.Context, callerID, projectID uint) ([]byte, string, error) {
	if _, err := uc.access.Authorize(ctx, projectID, callerID, domain.AccessView); err != nil {
		return nil, "", err
	}

	files, err := uc.files.ListByProject(ctx, projectID)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestSpeed)
	})

	for _, file := range files {
		entry, err := zw.Create(file.FileName)
		if err != nil {
			zw.Close()
			return nil, "", err
		}
		if _, err := entry.Write(file.FileData); err != nil {
			zw.Close()
			return nil, "", err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("project_%d_files.zip", projectID)
	return buf.Bytes(), name, nil
}

// Collisions lists persisted clash rows for a file. Nothing populates them.
func (uc *FileUsecase) Collisions(ctx context.Context, callerID, fileID uint) ([]domain.IfcCollision, error) {
	file, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.access.Authorize(ctx, file.ProjectID, callerID, domain.AccessView); err != nil {
		return nil, err
	}
	return uc.collisions.ListByFile(ctx, fileID)
}

func (uc *FileUsecase) publish(ctx context.Context, eventType string, projectID, fileID, actorID uint) {
	if uc.signal == nil {
		return
	}
	err := uc.signal.Publish(ctx, domain.Event{
		Type:      eventType,
		ProjectID: projectID,
		FileID:    fileID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			slog.String("error", err.Error()),
			slog.String("module", "file"),
		)
	}
}
