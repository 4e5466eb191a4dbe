package domain

import "time"

// User is an account identity. Identity is immutable once created.
type User struct {
	ID              uint   `json:"id"`
	Login           string `json:"login"`
	DisplayName     string `json:"userName"`
	Surname         string `json:"userSurname"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	CompanyName     string `json:"companyName"`
	CompanyPosition string `json:"companyPosition"`
}

// Project owns a collection of files and explicit access grants.
// CreatorID is immutable; the creator always holds implicit Admin rights.
type Project struct {
	ID           uint      `json:"id"`
	CreatorID    uint      `json:"creatorId"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// ProjectSummary is a project annotated with the caller's effective level.
type ProjectSummary struct {
	Project
	AccessLevel AccessLevel `json:"accessLevel"`
}

// ProjectAccess is one explicit (project, user, level) grant.
// At most one grant exists per (project, user) pair.
type ProjectAccess struct {
	ID          uint        `json:"id"`
	ProjectID   uint        `json:"projectId"`
	UserID      uint        `json:"userId"`
	AccessLevel AccessLevel `json:"accessLevel"`
	GrantedAt   time.Time   `json:"grantedAt"`
	User        *User       `json:"user,omitempty"`
}

// ProjectFile is a stored blob owned by exactly one project.
// Its ID and owning project never change; renames and content
// replacements keep the row and must keep the extension.
type ProjectFile struct {
	ID           uint      `json:"id"`
	ProjectID    uint      `json:"projectId"`
	FileName     string    `json:"fileName"`
	FileData     []byte    `json:"-"`
	ContentType  string    `json:"contentType"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// FileInfo is the listing view of a ProjectFile, without the blob.
type FileInfo struct {
	ID           uint      `json:"id"`
	FileName     string    `json:"fileName"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
}

// FileUpload is one incoming file payload.
type FileUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Comment is attached to exactly one file and authored by exactly one user.
type Comment struct {
	ID           uint      `json:"id"`
	FileID       uint      `json:"fileId"`
	UserID       uint      `json:"userId"`
	Text         string    `json:"text"`
	ElementName  string    `json:"elementName"`
	ElementID    int       `json:"elementId"`
	CreatedAt    time.Time `json:"createdAt"`
	LastModified time.Time `json:"lastModified"`
	User         *User     `json:"user,omitempty"`
}

// IfcCollision is a persisted-but-never-populated placeholder: the legacy
// system declared IFC clash detection but shipped no algorithm. The table
// and its read surface are kept for API compatibility.
type IfcCollision struct {
	ID          uint   `json:"id"`
	FileID      uint   `json:"fileId"`
	ElementA    string `json:"elementA"`
	ElementB    string `json:"elementB"`
	Description string `json:"description"`
}
