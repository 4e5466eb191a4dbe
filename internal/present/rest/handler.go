package rest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/ybalashov/bimvault/internal/domain"
	"github.com/ybalashov/bimvault/internal/present/rest/middleware"
	"github.com/ybalashov/bimvault/internal/present/rest/presenter"
	"github.com/ybalashov/bimvault/internal/service"
	"github.com/ybalashov/bimvault/internal/usecase"
)

type Handler struct {
	auth     *usecase.AuthUsecase
	projects *usecase.ProjectUsecase
	access   *usecase.AccessUsecase
	files    *usecase.FileUsecase
	comments *usecase.CommentUsecase
	signal   *service.SignalService
}

func NewHandler(
	auth *usecase.AuthUsecase,
	projects *usecase.ProjectUsecase,
	access *usecase.AccessUsecase,
	files *usecase.FileUsecase,
	comments *usecase.CommentUsecase,
	signal *service.SignalService,
) *Handler {
	return &Handler{
		auth:     auth,
		projects: projects,
		access:   access,
		files:    files,
		comments: comments,
		signal:   signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	api := e.Group("/api", authMiddleware.IdentifyIdentity)

	api.POST("/auth/login", h.handleLogin)
	api.POST("/auth/register", h.handleRegister)

	protected := api.Group("", authMiddleware.RequireAuth)
	protected.GET("/auth/getinfo", h.handleGetInfo)

	protected.GET("/project", h.handleListProjects)
	protected.GET("/project/list", h.handleListAllProjects)
	protected.GET("/project/users", h.handleListUsers)
	protected.GET("/project/:id", h.handleGetProject)
	protected.POST("/project", h.handleCreateProject)
	protected.PUT("/project/:id", h.handleUpdateProject)
	protected.DELETE("/project/:id", h.handleDeleteProject)

	protected.POST("/project/:projectId/files", h.handleUploadFiles)
	protected.GET("/project/:projectId/files", h.handleListFiles)
	protected.GET("/project/:projectId/files/download", h.handleBulkDownload)
	protected.GET("/project/files/:fileId/download", h.handleDownloadFile)
	protected.PUT("/project/files/:fileId", h.handleReplaceFile)
	protected.PUT("/project/files/:fileId/rename", h.handleRenameFile)
	protected.DELETE("/project/files/:fileId", h.handleDeleteFile)
	protected.GET("/project/files/:fileId/collisions", h.handleFileCollisions)

	protected.POST("/project/:projectId/access", h.handleGrantAccess)
	protected.GET("/project/:projectId/access", h.handleListAccess)
	protected.DELETE("/project/:projectId/access/:userId", h.handleRevokeAccess)

	protected.POST("/project/files/:fileId/comments", h.handleCreateComment)
	protected.GET("/project/files/:fileId/comments", h.handleListComments)
	protected.GET("/project/comments/:commentId", h.handleGetComment)
	protected.PUT("/project/comments/:commentId", h.handleUpdateComment)
	protected.DELETE("/project/comments/:commentId", h.handleDeleteComment)

	protected.GET("/realtime", h.handleRealtime)
}

// --- auth ---

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	result, err := h.auth.Login(ctx, req.Login, req.Password)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{
		"success": true,
		"data": echo.Map{
			"token":  result.Token,
			"userId": result.User.ID,
		},
	})
}

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	var req usecase.RegisterInput
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	result, err := h.auth.Register(ctx, req)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{
		"success": true,
		"data": echo.Map{
			"token":  result.Token,
			"userId": result.User.ID,
		},
	})
}

func (h *Handler) handleGetInfo(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := queryUint(c, "id")
	if err != nil {
		requester, _ := middleware.RequesterID(c)
		id = requester
	}

	user, err := h.auth.GetInfo(ctx, id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, user)
}

// --- projects ---

func (h *Handler) handleListProjects(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := queryUint(c, "userId")
	if err != nil {
		userID, _ = middleware.RequesterID(c)
	}

	projects, err := h.projects.ListForUser(ctx, userID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, projects)
}

func (h *Handler) handleListAllProjects(c echo.Context) error {
	ctx := c.Request().Context()

	skip, take := paging(c)
	page, err := h.projects.ListAll(ctx, skip, take)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, page)
}

func (h *Handler) handleListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	skip, take := paging(c)
	page, err := h.projects.ListUsers(ctx, skip, take)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, page)
}

func (h *Handler) handleGetProject(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	id, err := paramUint(c, "id")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	project, err := h.projects.Get(ctx, requester, id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, project)
}

type projectRequest struct {
	Title string `json:"title"`
}

func (h *Handler) handleCreateProject(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	project, err := h.projects.Create(ctx, requester, req.Title)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, project)
}

func (h *Handler) handleUpdateProject(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	id, err := paramUint(c, "id")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	var req projectRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	if err := h.projects.Update(ctx, requester, id, req.Title); err != nil {
		return presenter.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) handleDeleteProject(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	id, err := paramUint(c, "id")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	if err := h.projects.Delete(ctx, requester, id); err != nil {
		return presenter.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- files ---

func (h *Handler) handleUploadFiles(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return presenter.BadRequestMessage(c, "multipart form expected")
	}

	uploads, err := readUploads(form.File["files"])
	if err != nil {
		return presenter.Error(c, err)
	}

	saved, err := h.files.Upload(ctx, requester, projectID, uploads)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{
		"message": fmt.Sprintf("%d files uploaded successfully.", len(saved)),
	})
}

func (h *Handler) handleListFiles(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	files, err := h.files.List(ctx, requester, projectID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, files)
}

func (h *Handler) handleBulkDownload(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	archive, name, err := h.files.BulkDownload(ctx, requester, projectID)
	if err != nil {
		return presenter.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, name))
	return c.Blob(http.StatusOK, "application/zip", archive)
}

func (h *Handler) handleDownloadFile(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	file, err := h.files.Download(ctx, requester, fileID)
	if err != nil {
		return presenter.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, file.FileName))
	return c.Blob(http.StatusOK, file.ContentType, file.FileData)
}

func (h *Handler) handleReplaceFile(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return presenter.BadRequestMessage(c, "multipart form expected")
	}

	headers := form.File["newFile"]
	if len(headers) == 0 {
		return presenter.BadRequestMessage(c, "no file provided")
	}
	if len(headers) > 1 {
		return presenter.BadRequestMessage(c, "only one file allowed")
	}

	uploads, err := readUploads(headers)
	if err != nil {
		return presenter.Error(c, err)
	}

	file, err := h.files.Replace(ctx, requester, fileID, uploads[0])
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{
		"message":  "File updated successfully.",
		"fileId":   file.ID,
		"fileName": file.FileName,
	})
}

type renameFileRequest struct {
	NewFileName string `json:"newFileName"`
}

func (h *Handler) handleRenameFile(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	var req renameFileRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	name, err := h.files.Rename(ctx, requester, fileID, req.NewFileName)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, echo.Map{
		"message":  "File renamed successfully.",
		"fileName": name,
	})
}

func (h *Handler) handleDeleteFile(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	if err := h.files.Delete(ctx, requester, fileID); err != nil {
		return presenter.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) handleFileCollisions(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	collisions, err := h.files.Collisions(ctx, requester, fileID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, collisions)
}

// --- access ---

type accessRequest struct {
	UserID      uint   `json:"userId"`
	AccessLevel string `json:"accessLevel"`
}

func (h *Handler) handleGrantAccess(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	var req accessRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	level, err := domain.ParseAccessLevel(req.AccessLevel)
	if err != nil {
		return presenter.Error(c, err)
	}

	if err := h.access.Grant(ctx, requester, projectID, req.UserID, level); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"message": "Project access updated successfully."})
}

func (h *Handler) handleListAccess(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}

	accesses, err := h.access.List(ctx, requester, projectID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, accesses)
}

func (h *Handler) handleRevokeAccess(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	projectID, err := paramUint(c, "projectId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid project id")
	}
	userID, err := paramUint(c, "userId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid user id")
	}

	if err := h.access.Revoke(ctx, requester, projectID, userID); err != nil {
		return presenter.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- comments ---

func (h *Handler) handleCreateComment(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	var req usecase.CommentInput
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	comment, err := h.comments.Create(ctx, requester, fileID, req)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, comment)
}

func (h *Handler) handleListComments(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	fileID, err := paramUint(c, "fileId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid file id")
	}

	comments, err := h.comments.ListByFile(ctx, requester, fileID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, comments)
}

func (h *Handler) handleGetComment(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	commentID, err := paramUint(c, "commentId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid comment id")
	}

	comment, err := h.comments.Get(ctx, requester, commentID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, comment)
}

func (h *Handler) handleUpdateComment(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	commentID, err := paramUint(c, "commentId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid comment id")
	}

	var req usecase.CommentInput
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "malformed request body")
	}

	comment, err := h.comments.Update(ctx, requester, commentID, req)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, comment)
}

func (h *Handler) handleDeleteComment(c echo.Context) error {
	ctx := c.Request().Context()
	requester, _ := middleware.RequesterID(c)

	commentID, err := paramUint(c, "commentId")
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid comment id")
	}

	if err := h.comments.Delete(ctx, requester, commentID); err != nil {
		return presenter.Error(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- realtime ---

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type realtimeRequest struct {
	Type     string `json:"type"`
	Projects []uint `json:"projects"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		slog.Error(
			"Failed to upgrade WebSocket",
			slog.String("error", err.Error()),
			slog.String("module", "socket"),
		)
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	input := make(chan []uint)
	output := make(chan domain.Event)

	go h.signal.Realtime(ctx, input, output)

	go func() {
		defer cancel()
		for {
			var req realtimeRequest
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						slog.DebugContext(
							ctx, "WebSocket closed",
							slog.String("error", wsErr.Error()),
							slog.String("module", "socket"),
						)
					}
				} else {
					slog.ErrorContext(
						ctx, "Error reading message",
						slog.String("error", err.Error()),
						slog.String("module", "socket"),
					)
				}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- req.Projects:
				case <-ctx.Done():
					return
				}
			case "h": // heartbeat
				// do nothing
			default:
				slog.InfoContext(
					ctx, "Unknown request type",
					slog.String("type", req.Type),
					slog.String("module", "socket"),
				)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				slog.ErrorContext(
					ctx, "Error writing message",
					slog.String("error", err.Error()),
					slog.String("module", "socket"),
				)
				return nil
			}
		}
	}
}

// --- helpers ---

func paramUint(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func queryUint(c echo.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.QueryParam(name), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func paging(c echo.Context) (int, int) {
	skip, err := strconv.Atoi(c.QueryParam("skip"))
	if err != nil || skip < 0 {
		skip = 0
	}
	take, err := strconv.Atoi(c.QueryParam("take"))
	if err != nil || take <= 0 {
		take = 10
	}
	return skip, take
}

func readUploads(headers []*multipart.FileHeader) ([]domain.FileUpload, error) {
	uploads := make([]domain.FileUpload, 0, len(headers))
	for _, header := range headers {
		src, err := header.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, domain.FileUpload{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return uploads, nil
}
