package utils

import (
	"fmt"
	"path/filepath"
	"strings"
)

// 允许上传的图片扩展名（小写），大小写不敏感
var allowedImageExts = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ImageExt 返回文件名的小写扩展名（不含点）及是否在允许列表内
func ImageExt(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext, allowedImageExts[ext]
}

// NewImageFilename 生成防碰撞的随机文件名，绝不直接使用用户提供的文件名
func NewImageFilename(ext string) string {
	return fmt.Sprintf("%s.%s", GenerateID(), ext)
}
