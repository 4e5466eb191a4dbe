package models

import (
	"time"
)

type User struct {
	ID              uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Login           string `json:"login" gorm:"type:text;uniqueIndex;not null"`
	DisplayName     string `json:"userName" gorm:"type:text"`
	Surname         string `json:"userSurname" gorm:"type:text"`
	Email           string `json:"email" gorm:"type:text;uniqueIndex;not null"`
	PasswordHash    string `json:"-" gorm:"type:text;not null"`
	CompanyName     string `json:"companyName" gorm:"type:text"`
	CompanyPosition string `json:"companyPosition" gorm:"type:text"`
}

type Project struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	CreatorID    uint      `json:"creatorId" gorm:"index;not null;<-:create"`
	Creator      User      `json:"-" gorm:"foreignKey:CreatorID"`
	Title        string    `json:"title" gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	LastModified time.Time `json:"lastModified" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type ProjectAccess struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID   uint      `json:"projectId" gorm:"uniqueIndex:idx_project_user;not null"`
	Project     Project   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	UserID      uint      `json:"userId" gorm:"uniqueIndex:idx_project_user;index;not null"`
	User        User      `json:"-" gorm:"foreignKey:UserID"`
	AccessLevel string    `json:"accessLevel" gorm:"type:text;not null"`
	GrantedAt   time.Time `json:"grantedAt" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type ProjectFile struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	ProjectID    uint      `json:"projectId" gorm:"index;not null;<-:create"`
	Project      Project   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	FileName     string    `json:"fileName" gorm:"type:varchar(255);not null"`
	FileData     []byte    `json:"-" gorm:"type:bytea"`
	ContentType  string    `json:"contentType" gorm:"type:varchar(100);not null"`
	CreatedAt    time.Time `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	LastModified time.Time `json:"lastModified" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

type Comment struct {
	ID           uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	FileID       uint        `json:"fileId" gorm:"index;not null"`
	File         ProjectFile `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE;"`
	UserID       uint        `json:"userId" gorm:"index;not null"`
	User         User        `json:"-" gorm:"foreignKey:UserID"`
	Text         string      `json:"text" gorm:"type:varchar(1000);not null"`
	ElementName  string      `json:"elementName" gorm:"type:varchar(255)"`
	ElementID    int         `json:"elementId"`
	CreatedAt    time.Time   `json:"createdAt" gorm:"->;<-:create;type:timestamp with time zone;not null;default:clock_timestamp()"`
	LastModified time.Time   `json:"lastModified" gorm:"type:timestamp with time zone;not null;default:clock_timestamp()"`
}

// IfcCollision rows are never produced by any analysis. The table stays so
// clients reading the clash endpoints keep working.
type IfcCollision struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	FileID      uint        `json:"fileId" gorm:"index;not null"`
	File        ProjectFile `json:"-" gorm:"foreignKey:FileID;constraint:OnDelete:CASCADE;"`
	ElementA    string      `json:"elementA" gorm:"type:text;not null"`
	ElementB    string      `json:"elementB" gorm:"type:text;not null"`
	Description string      `json:"description" gorm:"type:text"`
}
