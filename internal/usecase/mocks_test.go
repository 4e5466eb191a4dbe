package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ybalashov/bimvault/internal/domain"
)

// In-memory repositories backing the usecase tests.

type memUsers struct {
	seq   uint
	users map[uint]domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[uint]domain.User{}}
}

func (m *memUsers) Create(ctx context.Context, user domain.User) (domain.User, error) {
	for _, u := range m.users {
		if u.Login == user.Login || u.Email == user.Email {
			return domain.User{}, domain.ConflictError{Message: "user already exists"}
		}
	}
	m.seq++
	user.ID = m.seq
	m.users[user.ID] = user
	return user, nil
}

func (m *memUsers) GetByID(ctx context.Context, id uint) (domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return domain.User{}, domain.NotFoundError{Resource: "user"}
	}
	return user, nil
}

func (m *memUsers) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	for _, user := range m.users {
		if user.Login == identifier || user.Email == identifier {
			return user, nil
		}
	}
	return domain.User{}, domain.NotFoundError{Resource: "user"}
}

func (m *memUsers) ExistsByLoginOrEmail(ctx context.Context, login, email string) (bool, error) {
	for _, user := range m.users {
		if user.Login == login || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *memUsers) List(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	ids := make([]int, 0, len(m.users))
	for id := range m.users {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)

	users := []domain.User{}
	for i, id := range ids {
		if i < offset || len(users) >= limit {
			continue
		}
		users = append(users, m.users[uint(id)])
	}
	return users, int64(len(m.users)), nil
}

type memProjects struct {
	seq      uint
	projects map[uint]domain.Project
	ledger   *memLedger
}

func newMemProjects(ledger *memLedger) *memProjects {
	return &memProjects{projects: map[uint]domain.Project{}, ledger: ledger}
}

func (m *memProjects) Create(ctx context.Context, project domain.Project) (domain.Project, error) {
	m.seq++
	project.ID = m.seq
	project.CreatedAt = time.Now().UTC()
	project.LastModified = project.CreatedAt
	m.projects[project.ID] = project
	if m.ledger != nil {
		_ = m.ledger.Upsert(ctx, domain.ProjectAccess{
			ProjectID:   project.ID,
			UserID:      project.CreatorID,
			AccessLevel: domain.AccessAdmin,
		})
	}
	return project, nil
}

func (m *memProjects) GetByID(ctx context.Context, id uint) (domain.Project, error) {
	project, ok := m.projects[id]
	if !ok {
		return domain.Project{}, domain.NotFoundError{Resource: "project"}
	}
	return project, nil
}

func (m *memProjects) UpdateTitle(ctx context.Context, id uint, title string) error {
	project, ok := m.projects[id]
	if !ok {
		return domain.NotFoundError{Resource: "project"}
	}
	project.Title = title
	project.LastModified = time.Now().UTC()
	m.projects[id] = project
	return nil
}

func (m *memProjects) Delete(ctx context.Context, id uint) error {
	if _, ok := m.projects[id]; !ok {
		return domain.NotFoundError{Resource: "project"}
	}
	delete(m.projects, id)
	return nil
}

func (m *memProjects) ListByUser(ctx context.Context, userID uint) ([]domain.Project, error) {
	result := []domain.Project{}
	for _, project := range m.projects {
		if project.CreatorID == userID {
			result = append(result, project)
			continue
		}
		if m.ledger != nil {
			if _, err := m.ledger.Get(ctx, project.ID, userID); err == nil {
				result = append(result, project)
			}
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memProjects) ListAll(ctx context.Context, offset, limit int) ([]domain.Project, int64, error) {
	all := []domain.Project{}
	for _, project := range m.projects {
		all = append(all, project)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	result := []domain.Project{}
	for i, project := range all {
		if i < offset || len(result) >= limit {
			continue
		}
		result = append(result, project)
	}
	return result, int64(len(all)), nil
}

type memLedger struct {
	seq    uint
	grants map[string]domain.ProjectAccess
}

func newMemLedger() *memLedger {
	return &memLedger{grants: map[string]domain.ProjectAccess{}}
}

func ledgerKey(projectID, userID uint) string {
	return fmt.Sprintf("%d:%d", projectID, userID)
}

func (m *memLedger) Get(ctx context.Context, projectID, userID uint) (domain.ProjectAccess, error) {
	grant, ok := m.grants[ledgerKey(projectID, userID)]
	if !ok {
		return domain.ProjectAccess{}, domain.NotFoundError{Resource: "project access"}
	}
	return grant, nil
}

func (m *memLedger) Upsert(ctx context.Context, access domain.ProjectAccess) error {
	key := ledgerKey(access.ProjectID, access.UserID)
	if existing, ok := m.grants[key]; ok {
		access.ID = existing.ID
	} else {
		m.seq++
		access.ID = m.seq
	}
	access.GrantedAt = time.Now().UTC()
	m.grants[key] = access
	return nil
}

func (m *memLedger) Delete(ctx context.Context, projectID, userID uint) error {
	delete(m.grants, ledgerKey(projectID, userID))
	return nil
}

func (m *memLedger) ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectAccess, error) {
	result := []domain.ProjectAccess{}
	for _, grant := range m.grants {
		if grant.ProjectID == projectID {
			result = append(result, grant)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

type memFiles struct {
	seq   uint
	files map[uint]domain.ProjectFile
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[uint]domain.ProjectFile{}}
}

func (m *memFiles) AddFiles(ctx context.Context, projectID uint, files []domain.ProjectFile) ([]domain.ProjectFile, error) {
	saved := make([]domain.ProjectFile, 0, len(files))
	now := time.Now().UTC()
	for _, file := range files {
		m.seq++
		file.ID = m.seq
		file.ProjectID = projectID
		file.CreatedAt = now
		file.LastModified = now
		m.files[file.ID] = file
		saved = append(saved, file)
	}
	return saved, nil
}

func (m *memFiles) GetByID(ctx context.Context, id uint) (domain.ProjectFile, error) {
	file, ok := m.files[id]
	if !ok {
		return domain.ProjectFile{}, domain.NotFoundError{Resource: "file"}
	}
	return file, nil
}

func (m *memFiles) UpdateContent(ctx context.Context, id uint, data []byte, contentType string) error {
	file, ok := m.files[id]
	if !ok {
		return domain.NotFoundError{Resource: "file"}
	}
	file.FileData = data
	file.ContentType = contentType
	file.LastModified = time.Now().UTC()
	m.files[id] = file
	return nil
}

func (m *memFiles) UpdateName(ctx context.Context, id uint, name string) error {
	file, ok := m.files[id]
	if !ok {
		return domain.NotFoundError{Resource: "file"}
	}
	file.FileName = name
	file.LastModified = time.Now().UTC()
	m.files[id] = file
	return nil
}

func (m *memFiles) Delete(ctx context.Context, id uint) error {
	if _, ok := m.files[id]; !ok {
		return domain.NotFoundError{Resource: "file"}
	}
	delete(m.files, id)
	return nil
}

func (m *memFiles) ListByProject(ctx context.Context, projectID uint) ([]domain.ProjectFile, error) {
	result := []domain.ProjectFile{}
	for _, file := range m.files {
		if file.ProjectID == projectID {
			result = append(result, file)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *memFiles) ListInfoByProject(ctx context.Context, projectID uint) ([]domain.FileInfo, error) {
	files, _ := m.ListByProject(ctx, projectID)
	infos := make([]domain.FileInfo, 0, len(files))
	for _, file := range files {
		infos = append(infos, domain.FileInfo{
			ID:           file.ID,
			FileName:     file.FileName,
			CreatedAt:    file.CreatedAt,
			LastModified: file.LastModified,
		})
	}
	return infos, nil
}

type memComments struct {
	seq      uint
	comments map[uint]domain.Comment
}

func newMemComments() *memComments {
	return &memComments{comments: map[uint]domain.Comment{}}
}

func (m *memComments) Create(ctx context.Context, comment domain.Comment) (domain.Comment, error) {
	m.seq++
	comment.ID = m.seq
	comment.CreatedAt = time.Now().UTC()
	comment.LastModified = comment.CreatedAt
	m.comments[comment.ID] = comment
	return comment, nil
}

func (m *memComments) GetByID(ctx context.Context, id uint) (domain.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return domain.Comment{}, domain.NotFoundError{Resource: "comment"}
	}
	return comment, nil
}

func (m *memComments) ListByFile(ctx context.Context, fileID uint) ([]domain.Comment, error) {
	result := []domain.Comment{}
	for _, comment := range m.comments {
		if comment.FileID == fileID {
			result = append(result, comment)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (m *memComments) Update(ctx context.Context, comment domain.Comment) error {
	existing, ok := m.comments[comment.ID]
	if !ok {
		return domain.NotFoundError{Resource: "comment"}
	}
	existing.Text = comment.Text
	existing.ElementName = comment.ElementName
	existing.ElementID = comment.ElementID
	existing.LastModified = time.Now().UTC()
	m.comments[comment.ID] = existing
	return nil
}

func (m *memComments) Delete(ctx context.Context, id uint) error {
	if _, ok := m.comments[id]; !ok {
		return domain.NotFoundError{Resource: "comment"}
	}
	delete(m.comments, id)
	return nil
}

type memCollisions struct {
	cleared []uint
}

func (m *memCollisions) ListByFile(ctx context.Context, fileID uint) ([]domain.IfcCollision, error) {
	return []domain.IfcCollision{}, nil
}

func (m *memCollisions) DeleteByFile(ctx context.Context, fileID uint) error {
	m.cleared = append(m.cleared, fileID)
	return nil
}

type memPublisher struct {
	events []domain.Event
}

func (m *memPublisher) Publish(ctx context.Context, event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

type staticTokens struct{}

func (staticTokens) Issue(user domain.User) (string, error) {
	return fmt.Sprintf("token-%d", user.ID), nil
}
