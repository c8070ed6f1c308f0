package video

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Encoder accepts frames in order. Close finalizes the output; Abort
// discards it and is a no-op after a successful Close.
type Encoder interface {
	WriteFrame(img image.Image) error
	Close() error
	Abort() error
}

var (
	_ Encoder = (*gifEncoder)(nil)
	_ Encoder = (*ffmpegEncoder)(nil)
)

type Options struct {
	FPS    int
	Width  int
	Height int
	// FFmpegPath overrides the ffmpeg binary looked up on PATH.
	FFmpegPath string
}

var containers = map[string]string{
	".mp4":  "mp4",
	".mov":  "mov",
	".mkv":  "matroska",
	".webm": "webm",
}

// Formats lists the supported output extensions.
func Formats() []string {
	exts := []string{".gif"}
	for ext := range containers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func Create(path string, opts Options) (Encoder, error) {
	if opts.FPS <= 0 {
		return nil, encodingErr("fps must be positive, got %d", opts.FPS)
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, encodingErr("frame size must be positive, got %dx%d", opts.Width, opts.Height)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".gif" {
		return newGIF(path, opts)
	}
	if format, ok := containers[ext]; ok {
		return newFFmpeg(path, format, ext, opts)
	}
	return nil, encodingErr("unsupported output format %q (available: %v)", ext, Formats())
}

func encodingErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrEncodingFailure, fmt.Sprintf(format, args...))
}

// partialFile reserves a hidden temp file in the target directory.
type partialFile struct {
	final string
	tmp   string
	done  bool
}

func newPartialFile(path string) (*partialFile, *os.File, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.partial")
	if err != nil {
		return nil, nil, encodingErr("create temp output: %v", err)
	}
	return &partialFile{final: path, tmp: f.Name()}, f, nil
}

func (p *partialFile) commit() error {
	if err := os.Rename(p.tmp, p.final); err != nil {
		os.Remove(p.tmp)
		p.done = true
		return encodingErr("finalize %s: %v", p.final, err)
	}
	p.done = true
	return nil
}

func (p *partialFile) discard() error {
	if p.done {
		return nil
	}
	p.done = true
	if err := os.Remove(p.tmp); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
