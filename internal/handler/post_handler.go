package handler

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/olagu/console/internal/common"
	"github.com/olagu/console/internal/domain"
	"github.com/olagu/console/internal/middleware"
	"github.com/olagu/console/internal/service"
	"github.com/olagu/console/pkg/ginutil"
	"github.com/olagu/console/pkg/storage"
)

const proofKeyPrefix = "posts"

// PostHandler handles post submission and review
type PostHandler struct {
	service       service.PostService
	uploader      storage.Uploader
	maxImageBytes int64
}

// NewPostHandler creates a new PostHandler. uploader may be nil, in which case
// only JSON submissions with image URIs are accepted.
func NewPostHandler(service service.PostService, uploader storage.Uploader, maxImageBytes int64) *PostHandler {
	_ = RegisterValidators()
	return &PostHandler{service: service, uploader: uploader, maxImageBytes: maxImageBytes}
}

// Submit godoc
// @Summary      Submit a post
// @Description  Submits proof images for a game account. JSON bodies carry image URIs; multipart bodies carry image files.
// @Tags         posts
// @Accept       json,mpfd
// @Produce      json
// @Param        request  body      domain.SubmitPostRequest  true  "Submission"
// @Success      201  {object}  common.V2Response{data=domain.Post}
// @Failure      400  {object}  common.V2Response
// @Failure      409  {object}  common.V2Response
// @Router       /posts [post]
func (h *PostHandler) Submit(c *gin.Context) {
	var req domain.SubmitPostRequest

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := h.bindMultipart(c, &req); err != nil {
			common.HandleError(c, err, "Failed to upload images")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	post, err := h.service.Submit(c.Request.Context(), req.GameID, req.Image168, req.ImageDC)
	middleware.RecordWorkflowEvent("post_submit", err)
	if err != nil {
		common.HandleError(c, err, "Failed to submit post")
		return
	}
	common.V2Created(c, post)
}

func (h *PostHandler) bindMultipart(c *gin.Context, req *domain.SubmitPostRequest) error {
	if h.uploader == nil {
		return fmt.Errorf("%w: image upload is not configured", common.ErrUnavailable)
	}

	req.GameID = strings.TrimSpace(c.PostForm("game_id"))
	if !ValidGameID(req.GameID) {
		return common.Validationf("invalid game id")
	}

	var err error
	if req.Image168, err = h.uploadField(c, "image_168"); err != nil {
		return err
	}
	if req.ImageDC, err = h.uploadField(c, "image_dc"); err != nil {
		return err
	}
	return nil
}

func (h *PostHandler) uploadField(c *gin.Context, field string) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return "", common.Validationf("%s image is required", field)
	}
	if err := h.checkImage(fh); err != nil {
		return "", common.Validationf("%s: %v", field, err)
	}

	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := storage.GenerateKey(proofKeyPrefix, fh.Filename, time.Now())
	res, err := h.uploader.Upload(c.Request.Context(), key, f, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", field, err)
	}
	return res.URL, nil
}

func (h *PostHandler) checkImage(fh *multipart.FileHeader) error {
	if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
		return fmt.Errorf("only image files are allowed")
	}
	if h.maxImageBytes > 0 && fh.Size > h.maxImageBytes {
		return fmt.Errorf("file exceeds %d bytes", h.maxImageBytes)
	}
	return nil
}

// ListPending godoc
// @Summary      Pending posts
// @Tags         admin-posts
// @Produce      json
// @Success      200  {object}  common.V2Response{data=[]domain.Post}
// @Failure      401  {object}  common.V2Response
// @Router       /admin/posts/pending [get]
func (h *PostHandler) ListPending(c *gin.Context) {
	posts, err := h.service.ListPending(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		common.HandleError(c, err, "Failed to fetch posts")
		return
	}
	common.V2Success(c, posts)
}

// Review godoc
// @Summary      Approve or reject a post
// @Description  Approval registers the account as eligible first; the post stays pending if that fails.
// @Tags         admin-posts
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Post ID"
// @Param        request  body      domain.ReviewPostRequest  true  "Decision"
// @Success      200  {object}  common.V2Response{data=domain.Post}
// @Failure      400  {object}  common.V2Response
// @Failure      404  {object}  common.V2Response
// @Failure      502  {object}  common.V2Response
// @Router       /admin/posts/{id}/review [patch]
func (h *PostHandler) Review(c *gin.Context) {
	id, err := ginutil.ParamInt64(c, "id")
	if err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid post ID", nil)
		return
	}

	var req domain.ReviewPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.V2ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	post, err := h.service.Review(c.Request.Context(), middleware.GetSession(c), id, req.Status)
	middleware.RecordWorkflowEvent("post_review", err)
	if err != nil {
		common.HandleError(c, err, "Failed to review post")
		return
	}
	common.V2Success(c, post)
}
