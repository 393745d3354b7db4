package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dogami567/noval-for-one/internal/platform/storage"
	"github.com/dogami567/noval-for-one/internal/transport/http/response"
)

// UploadHandler pushes admin-submitted images into object storage and hands
// back the public URL for the row's image field.
type UploadHandler struct {
	storage *storage.SupabaseClient
}

type UploadRequest struct {
	Entity      string `json:"entity"`
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Base64      string `json:"base64"`
}

var uploadExtByContentType = map[string]string{
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

var bucketByEntity = map[string]string{
	"location":  "locations",
	"character": "characters",
	"place":     "places",
	"story":     "stories",
}

func NewUploadHandler(storageClient *storage.SupabaseClient) *UploadHandler {
	return &UploadHandler{storage: storageClient}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	if h.storage == nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "后端未配置对象存储")
		return
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "参数缺失")
		return
	}
	if req.Entity == "" || req.ID == "" || req.Filename == "" || req.ContentType == "" || req.Base64 == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "参数缺失")
		return
	}

	bucket, ok := bucketByEntity[req.Entity]
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "不支持的实体类型")
		return
	}

	ext, ok := uploadExtByContentType[strings.ToLower(req.ContentType)]
	if !ok {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "不支持的图片类型（仅 jpg/png/webp）")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Base64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "图片数据无法解析")
		return
	}

	// Characters get a portrait, everything else a cover; keyed by row id so
	// re-uploads replace in place.
	fileName := "cover." + ext
	if req.Entity == "character" {
		fileName = "portrait." + ext
	}
	path := req.ID + "/" + fileName

	publicURL, err := h.storage.Upload(c.Request.Context(), bucket, path, req.ContentType, data)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "图片上传失败，请稍后再试")
		return
	}

	// The admin client reads the URL off the top level, not the envelope.
	c.JSON(http.StatusOK, gin.H{"publicUrl": publicURL})
}
