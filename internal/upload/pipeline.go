package upload

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

const (
	// MaxFileSize is the upload ceiling (20 MiB).
	MaxFileSize = 20 << 20

	// ThumbnailMaxDim bounds the longest side of generated thumbnails.
	ThumbnailMaxDim = 200

	genericBinaryType = "application/octet-stream"
)

var (
	ErrDeniedExtension = errors.New("file extension not allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrUnknownMime     = errors.New("could not determine file type")
)

// Executable and script extensions are refused outright, before any
// bytes touch the upload directory.
var deniedExtensions = map[string]bool{
	".exe": true,
	".bat": true,
	".cmd": true,
	".com": true,
	".msi": true,
	".scr": true,
	".sh":  true,
	".ps1": true,
	".vbs": true,
	".js":  true,
	".jar": true,
}

// Pipeline validates, stores and derives metadata for uploaded files.
type Pipeline struct {
	root string
	log  *zap.Logger
}

func NewPipeline(root string, log *zap.Logger) *Pipeline {
	return &Pipeline{root: root, log: log}
}

// Store runs the full pipeline for one upload. Validation happens
// before any write; a validation failure therefore never leaves bytes
// behind. Image decode or thumbnail failure after the primary write is
// tolerated: the original stays, the returned record simply carries no
// dimensions or thumbnail.
func (p *Pipeline) Store(userID uint, originalName, declaredType string, data []byte) (*FileMeta, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if deniedExtensions[ext] {
		return nil, ErrDeniedExtension
	}

	mimeType := resolveMimeType(declaredType, ext, data)
	if mimeType == "" {
		return nil, ErrUnknownMime
	}

	if int64(len(data)) > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	// Files are namespaced by uploader and year/month so retention
	// sweeps can work on whole directories.
	now := time.Now()
	dir := filepath.Join(p.root,
		strconv.FormatUint(uint64(userID), 10),
		fmt.Sprintf("%04d", now.Year()),
		fmt.Sprintf("%02d", int(now.Month())),
	)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}

	name := uuid.NewString() + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write upload: %w", err)
	}

	meta := &FileMeta{
		Path:     path,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}

	if strings.HasPrefix(mimeType, "image/") {
		p.attachImageMeta(meta, dir, name, data)
	}

	return meta, nil
}

func (p *Pipeline) attachImageMeta(meta *FileMeta, dir, name string, data []byte) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.log.Warn("failed to decode uploaded image",
			zap.String("path", meta.Path),
			zap.Error(err),
		)
		return
	}

	bounds := img.Bounds()
	meta.Width = bounds.Dx()
	meta.Height = bounds.Dy()

	thumbPath := filepath.Join(dir, "thumb_"+strings.TrimSuffix(name, filepath.Ext(name))+".jpg")
	if err := writeThumbnail(thumbPath, img); err != nil {
		p.log.Warn("failed to generate thumbnail",
			zap.String("path", meta.Path),
			zap.Error(err),
		)
		return
	}
	meta.ThumbnailPath = thumbPath
}

// writeThumbnail scales img into a box of ThumbnailMaxDim on the longest
// side, preserving aspect ratio, and writes it as JPEG.
func writeThumbnail(path string, img image.Image) error {
	w, h := thumbnailSize(img.Bounds().Dx(), img.Bounds().Dy())

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 80}); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func thumbnailSize(origW, origH int) (int, int) {
	if origW <= ThumbnailMaxDim && origH <= ThumbnailMaxDim {
		return origW, origH
	}
	scale := float64(ThumbnailMaxDim) / float64(origW)
	if origH > origW {
		scale = float64(ThumbnailMaxDim) / float64(origH)
	}
	w := int(math.Round(float64(origW) * scale))
	h := int(math.Round(float64(origH) * scale))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// resolveMimeType trusts a declared type unless it is absent or the
// generic binary type, then probes the extension, then sniffs content.
// Returns "" when nothing conclusive is found.
func resolveMimeType(declared, ext string, data []byte) string {
	if declared != "" && declared != genericBinaryType {
		return declared
	}
	if byExt := mime.TypeByExtension(ext); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	if sniffed := mimetype.Detect(data).String(); sniffed != genericBinaryType {
		if parsed, _, err := mime.ParseMediaType(sniffed); err == nil {
			return parsed
		}
	}
	return ""
}
