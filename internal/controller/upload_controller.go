package controller

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"colpy_backend/internal/service"
	"colpy_backend/internal/util"
	"colpy_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadSize = 500 << 20 // 500MB

type UploadController struct {
	StorageService *service.StorageService
}

func NewUploadController(storageService *service.StorageService) *UploadController {
	return &UploadController{StorageService: storageService}
}

// Upload godoc
// @Summary 上传课程资源
// @Description 支持图片、视频、PDF；视频会附带 ffprobe 元数据
// @Tags 上传
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   file formData file true "文件"
// @Success 201 {object} util.Response{data=object} "上传成功"
// @Failure 400 {object} util.Response "文件类型不支持或超限"
// @Router /api/upload [post]
func (c *UploadController) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "缺少文件")
		return
	}
	if fileHeader.Size > maxUploadSize {
		util.BadRequest(ctx, "文件超过大小限制")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	mimeType, err := util.ValidateMimeType(file, []string{util.MimeImage, util.MimeVideo, util.MimePDF})
	if err != nil {
		util.BadRequest(ctx, "不支持的文件类型: "+mimeType)
		return
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	filename := fmt.Sprintf("%d-%s%s", time.Now().Unix(), uuid.New().String(), ext)

	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, mimeType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	resp := gin.H{
		"url":      url,
		"filename": filename,
		"mimeType": mimeType,
		"size":     fileHeader.Size,
	}

	// 视频补充时长和分辨率，探测失败不阻塞上传
	if util.IsVideo(mimeType) {
		if info := probeUploadedVideo(ctx, fileHeader, ext); info != nil {
			resp["video"] = info
		}
	}

	util.Created(ctx, resp)
}

// probeUploadedVideo 把上传内容落到临时文件跑 ffprobe
func probeUploadedVideo(ctx *gin.Context, fileHeader *multipart.FileHeader, ext string) *util.VideoInfo {
	tmp := filepath.Join(os.TempDir(), "colpy-probe-"+uuid.New().String()+ext)
	if err := ctx.SaveUploadedFile(fileHeader, tmp); err != nil {
		logger.Log.Warn("video probe temp file failed", zap.Error(err))
		return nil
	}
	defer os.Remove(tmp)

	info, err := util.GetVideoInfo(tmp)
	if err != nil {
		logger.Log.Warn("video probe failed", zap.Error(err))
		return nil
	}
	return info
}
