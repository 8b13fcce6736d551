package services

import (
	"fmt"
	"image/jpeg"
	"log"
	"mime/multipart"
	"strings"

	"playlight-backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	maxLogoBytes       = 100 * 1024
	maxCoverImageBytes = 250 * 1024
	maxCoverVideoBytes = 3 * 1024 * 1024
)

// UploadService validates media files and pushes them to the third-party
// storage bucket. Responses carry the public CDN URL to store on the game.
type UploadService struct{}

func NewUploadService() *UploadService {
	return &UploadService{}
}

// validateJPEG checks format and exact pixel dimensions without decoding
// the full image.
func validateJPEG(fileHeader *multipart.FileHeader, width, height int) error {
	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	cfg, err := jpeg.DecodeConfig(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Image must be in JPEG format.")
	}
	if cfg.Width != width || cfg.Height != height {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Image dimensions must be %dx%d pixels.", width, height))
	}
	return nil
}

func (s *UploadService) upload(c *fiber.Ctx, prefix string, maxBytes int64, validate func(*multipart.FileHeader) error) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	if fileHeader.Size > maxBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "File too large."})
	}

	if err := validate(fileHeader); err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Upload validation failed."})
	}

	name := c.FormValue("name", "game")
	ext := "." + strings.ToLower(strings.TrimPrefix(fileExt(fileHeader.Filename), "."))
	key := utils.ObjectKey(prefix, name, ext)

	url, err := utils.UploadFileToR2(fileHeader, key)
	if err != nil {
		log.Printf("❌ [UPLOAD] %s upload failed: %v", prefix, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload file."})
	}

	return c.JSON(fiber.Map{"url": url})
}

func fileExt(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx:]
	}
	return ".bin"
}

// UploadLogo accepts a 500x500 JPEG up to 100 KB.
func (s *UploadService) UploadLogo(c *fiber.Ctx) error {
	return s.upload(c, "logos", maxLogoBytes, func(fh *multipart.FileHeader) error {
		return validateJPEG(fh, 500, 500)
	})
}

// UploadCoverImage accepts an 800x1200 JPEG up to 250 KB.
func (s *UploadService) UploadCoverImage(c *fiber.Ctx) error {
	return s.upload(c, "covers", maxCoverImageBytes, func(fh *multipart.FileHeader) error {
		return validateJPEG(fh, 800, 1200)
	})
}

// UploadCoverVideo accepts an MP4 up to 3 MB.
func (s *UploadService) UploadCoverVideo(c *fiber.Ctx) error {
	return s.upload(c, "videos", maxCoverVideoBytes, func(fh *multipart.FileHeader) error {
		contentType := fh.Header.Get("Content-Type")
		if contentType != "video/mp4" && !strings.HasSuffix(strings.ToLower(fh.Filename), ".mp4") {
			return fiber.NewError(fiber.StatusBadRequest, "Video must be in MP4 format.")
		}
		return nil
	})
}
