package domain

import (
	"strconv"
	"time"
)

// Event types published on a project's realtime channel.
const (
	EventFileUploaded   = "file.uploaded"
	EventFileRenamed    = "file.renamed"
	EventFileReplaced   = "file.replaced"
	EventFileDeleted    = "file.deleted"
	EventCommentCreated = "comment.created"
)

// Event is one realtime notification scoped to a project.
type Event struct {
	Type      string    `json:"type"`
	ProjectID uint      `json:"projectId"`
	FileID    uint      `json:"fileId,omitempty"`
	ActorID   uint      `json:"actorId"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectChannel names the redis pub/sub channel for a project's events.
func ProjectChannel(projectID uint) string {
	return "project:" + strconv.FormatUint(uint64(projectID), 10)
}
