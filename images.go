package bitebybits

import (
	"bytes"
	"database/sql"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"golang.org/x/image/draw"
)

const (
	maxImageWidth = 1200
	jpegQuality   = 80
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes an image from src, downscales it to maxImageWidth if
// wider, and re-encodes it as JPEG under a uuid-based filename.
func processImage(src io.Reader) (filename string, w, h int, data []byte, err error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return "", 0, 0, nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h = bounds.Dx(), bounds.Dy()

	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
		w = maxImageWidth
		h = newH
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return "", 0, 0, nil, fmt.Errorf("encode jpeg: %w", err)
	}

	return uuid.New().String() + ".jpg", w, h, buf.Bytes(), nil
}

// handleImageUpload attaches an uploaded image to a post, with its title,
// author, and optional description.
func (a *App) handleImageUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	postID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}
	post, err := a.Store.GetPost(postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	filename, w, h, data, err := processImage(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	title := strings.TrimSpace(c.FormValue("image_title"))
	if title == "" {
		title = strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	}
	img := PostImage{
		PostID:      post.ID,
		Filename:    filename,
		Title:       title,
		Author:      strings.TrimSpace(c.FormValue("image_author")),
		Description: strings.TrimSpace(c.FormValue("image_description")),
		Width:       w,
		Height:      h,
	}
	if err := a.Store.SaveImage(&img); err != nil {
		return err
	}

	return a.renderAdminPost(c, post, "image uploaded")
}

func (a *App) handleImageDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusNotFound)
	}

	img, err := a.Store.DeleteImage(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	// Ignore a missing file; the row is already gone.
	_ = os.Remove(filepath.Join(a.Config.StaticDir, uploadsSubdir, img.Filename))

	post, err := a.Store.GetPost(img.PostID)
	if err != nil {
		return err
	}
	return a.renderAdminPost(c, post, "image removed")
}

// removeImageFiles deletes the stored files for all of a post's images.
func (a *App) removeImageFiles(postID int64) error {
	images, err := a.Store.ImagesForPost(postID)
	if err != nil {
		return err
	}
	for _, img := range images {
		_ = os.Remove(filepath.Join(a.Config.StaticDir, uploadsSubdir, img.Filename))
	}
	return nil
}
