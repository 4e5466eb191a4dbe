package usecase

import (
	"context"

	"github.com/ybalashov/bimvault/internal/domain"
)

// UserRepository defines persistence/lookup for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByID(ctx context.Context, id uint) (domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int64, error)
}

// ProjectRepository defines storage operations for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project domain.Project) (domain.Project, error)
	GetByID(ctx context.Context, id uint) (domain.Project, error)
	UpdateTitle(ctx context.Context, id uint, title string) error
	Delete(ctx context.Context, id uint) error
	ListByUser(ctx context.Context, userID uint) ([]domain.Project, error)
	ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int64, error)
}

// AccessRepository defines storage operations for the access ledger.
type AccessRepository interface {
	Get(ctx context.Context, projectID, userID uint) (domain.ProjectAccess, error)
	Upsert(ctx context.Context, access domain.ProjectAccess) error
	Delete(ctx context.Context, projectID, userID uint) error
	ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectAccess, error)
}

// FileRepository defines storage operations for project files.
type FileRepository interface {
	AddFiles(ctx context.Context, projectID uint, files []domain.ProjectFile) ([]domain.ProjectFile, error)
	GetByID(ctx context.Context, id uint) (domain.ProjectFile, error)
	UpdateContent(ctx context.Context, id uint, data []byte, contentType string) error
	UpdateName(ctx context.Context, id uint, name string) error
	Delete(ctx context.Context, id uint) error
	ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectFile, error)
	ListInfoByProject(ctx context.Context, projectID uint) ([]domain.FileInfo, error)
}

// CommentRepository defines storage operations for file comments.
type CommentRepository interface {
	Create(ctx context.Context, comment domain.Comment) (domain.Comment, error)
	GetByID(ctx context.Context, id uint) (domain.Comment, error)
	ListByFile(ctx context.Context, fileID uint) ([]domain.Comment, error)
	Update(ctx context.Context, comment domain.Comment) error
	Delete(ctx context.Context, id uint) error
}

// CollisionRepository backs the idle IFC clash surface.
type CollisionRepository interface {
	ListByFile(ctx context.Context, fileID uint) ([]domain.IfcCollision, error)
	DeleteByFile(ctx context.Context, fileID uint) error
}

// EventPublisher fans project events out to realtime listeners.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TokenIssuer mints bearer credentials for authenticated users.
type TokenIssuer interface {
	Issue(user domain.User) (string, error)
}
