package controllers

import (
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/harut-11/Emotional/apperrors"
)

// ImageController 已上传图片的读取控制器
type ImageController struct {
	uploadDir string
}

func NewImageController(uploadDir string) *ImageController {
	return &ImageController{uploadDir: uploadDir}
}

// ServeImage 返回指定文件名的图片，不存在时返回404
func (ic *ImageController) ServeImage(c *gin.Context) {
	// 只取basename，防止路径穿越
	filename := filepath.Base(c.Param("filename"))
	fullPath := filepath.Join(ic.uploadDir, filename)

	if _, err := os.Stat(fullPath); err != nil {
		respondError(c, apperrors.ErrNotFound, "图片不存在")
		return
	}

	c.File(fullPath)
}
