package upload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadFileMeta = errors.New("malformed file metadata record")

// FileMeta describes a stored upload. It travels between the upload
// endpoint and send-file as a pipe-delimited record:
//
//	path|mimeType|size|width|height|duration|thumbnailPath
//
// Width, height, duration and thumbnailPath are empty when not
// applicable. Duration is always empty for now; audio/video probing is
// not implemented.
type FileMeta struct {
	Path          string
	MimeType      string
	Size          int64
	Width         int
	Height        int
	Duration      string
	ThumbnailPath string
}

func (m *FileMeta) String() string {
	width := ""
	if m.Width > 0 {
		width = strconv.Itoa(m.Width)
	}
	height := ""
	if m.Height > 0 {
		height = strconv.Itoa(m.Height)
	}
	return fmt.Sprintf("%s|%s|%d|%s|%s|%s|%s",
		m.Path, m.MimeType, m.Size, width, height, m.Duration, m.ThumbnailPath)
}

// ParseFileMeta reverses FileMeta.String.
func ParseFileMeta(record string) (*FileMeta, error) {
	parts := strings.Split(record, "|")
	if len(parts) < 6 {
		return nil, ErrBadFileMeta
	}
	if parts[0] == "" || parts[1] == "" {
		return nil, ErrBadFileMeta
	}

	size, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, ErrBadFileMeta
	}

	meta := &FileMeta{
		Path:     parts[0],
		MimeType: parts[1],
		Size:     size,
		Duration: parts[5],
	}
	if parts[3] != "" {
		if meta.Width, err = strconv.Atoi(parts[3]); err != nil {
			return nil, ErrBadFileMeta
		}
	}
	if parts[4] != "" {
		if meta.Height, err = strconv.Atoi(parts[4]); err != nil {
			return nil, ErrBadFileMeta
		}
	}
	if len(parts) > 6 {
		meta.ThumbnailPath = parts[6]
	}
	return meta, nil
}
