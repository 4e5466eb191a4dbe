package usecase

import (
	"context"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ybalashov/bimvault/internal/domain"
)

// CommentInput carries the mutable comment fields. Updates replace all of
// them wholesale; there is no partial merge.
type CommentInput struct {
	Text        string `json:"text"`
	ElementName string `json:"elementName"`
	ElementID   int    `json:"elementId"`
}

func (in CommentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required, validation.Length(1, 1000)),
		validation.Field(&in.ElementName, validation.Length(0, 255)),
	)
}

type CommentUsecase struct {
	comments CommentRepository
	files    FileRepository
	access   *AccessUsecase
	signal   EventPublisher
}

func NewCommentUsecase(comments CommentRepository, files FileRepository, access *AccessUsecase, signal EventPublisher) *CommentUsecase {
	return &CommentUsecase{comments: comments, files: files, access: access, signal: signal}
}

func (uc *CommentUsecase) Create(ctx context.Context, callerID, fileID uint, input CommentInput) (domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return domain.Comment{}, domain.ValidationError{Message: err.Error()}
	}

	file, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return domain.Comment{}, err
	}
	if _, err := uc.access.Authorize(ctx, file.ProjectID, callerID, domain.AccessView); err != nil {
		return domain.Comment{}, err
	}

	comment, err := uc.comments.Create(ctx, domain.Comment{
		FileID:      fileID,
		UserID:      callerID,
		Text:        input.Text,
		ElementName: input.ElementName,
		ElementID:   input.ElementID,
	})
	if err != nil {
		return domain.Comment{}, err
	}

	uc.publish(ctx, file.ProjectID, fileID, callerID)
	return comment, nil
}

func (uc *CommentUsecase) Get(ctx context.Context, callerID, commentID uint) (domain.Comment, error) {
	comment, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, err
	}

	file, err := uc.files.GetByID(ctx, comment.FileID)
	if err != nil {
		return domain.Comment{}, err
	}
	if _, err := uc.access.Authorize(ctx, file.ProjectID, callerID, domain.AccessView); err != nil {
		return domain.Comment{}, err
	}

	return comment, nil
}

// ListByFile returns a file's comments, newest first.
func (uc *CommentUsecase) ListByFile(ctx context.Context, callerID, fileID uint) ([]domain.Comment, error) {
	file, err := uc.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.access.Authorize(ctx, file.ProjectID, callerID, domain.AccessView); err != nil {
		return nil, err
	}

	return uc.comments.ListByFile(ctx, fileID)
}

// Update replaces the comment's fields. Author-only.
func (uc *CommentUsecase) Update(ctx context.Context, callerID, commentID uint, input CommentInput) (domain.Comment, error) {
	if err := input.Validate(); err != nil {
		return domain.Comment{}, domain.ValidationError{Message: err.Error()}
	}

	comment, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return domain.Comment{}, err
	}
	if comment.UserID != callerID {
		return domain.Comment{}, domain.ForbiddenError{Message: "only comment author can update the comment"}
	}

	comment.Text = input.Text
	comment.ElementName = input.ElementName
	comment.ElementID = input.ElementID

	if err := uc.comments.Update(ctx, comment); err != nil {
		return domain.Comment{}, err
	}

	return uc.comments.GetByID(ctx, commentID)
}

// Delete removes the comment. Author-only.
func (uc *CommentUsecase) Delete(ctx context.Context, callerID, commentID uint) error {
	comment, err := uc.comments.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != callerID {
		return domain.ForbiddenError{Message: "only comment author can delete the comment"}
	}

	return uc.comments.Delete(ctx, commentID)
}

func (uc *CommentUsecase) publish(ctx context.Context, projectID, fileID, actorID uint) {
	if uc.signal == nil {
		return
	}
	err := uc.signal.Publish(ctx, domain.Event{
		Type:      domain.EventCommentCreated,
		ProjectID: projectID,
		FileID:    fileID,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			slog.String("error", err.Error()),
			slog.String("module", "comment"),
		)
	}
}
