package video

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

type ffmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *bytes.Buffer
	out    *partialFile
	bounds image.Rectangle
	frame  *image.RGBA
	closed bool
}

func codecArgs(ext string) []string {
	if ext == ".webm" {
		return []string{"-c:v", "libvpx-vp9", "-pix_fmt", "yuv420p"}
	}
	return []string{"-c:v", "libx264", "-pix_fmt", "yuv420p"}
}

func ffmpegArgs(format, ext, output string, opts Options) []string {
	args := []string{
		"-hide_banner", "-loglevel", "error", "-y",
		"-f", "rawvideo",
		"-pix_fmt", "rgba",
		"-s", fmt.Sprintf("%dx%d", opts.Width, opts.Height),
		"-r", strconv.Itoa(opts.FPS),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
	}
	args = append(args, codecArgs(ext)...)
	return append(args, "-f", format, output)
}

func newFFmpeg(path, format, ext string, opts Options) (*ffmpegEncoder, error) {
	bin := opts.FFmpegPath
	if bin == "" {
		bin = "ffmpeg"
	}
	resolved, err := exec.LookPath(bin)
	if err != nil {
		return nil, encodingErr("ffmpeg not available: %v", err)
	}

	out, f, err := newPartialFile(path)
	if err != nil {
		return nil, err
	}
	f.Close()

	cmd := exec.Command(resolved, ffmpegArgs(format, ext, out.tmp, opts)...)
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr
	cmd.Stdout = io.Discard

	stdin, err := cmd.StdinPipe()
	if err != nil {
		out.discard()
		return nil, encodingErr("ffmpeg stdin: %v", err)
	}
	if err := cmd.Start(); err != nil {
		out.discard()
		return nil, encodingErr("start ffmpeg: %v", err)
	}

	bounds := image.Rect(0, 0, opts.Width, opts.Height)
	return &ffmpegEncoder{
		cmd:    cmd,
		stdin:  stdin,
		stderr: stderr,
		out:    out,
		bounds: bounds,
		frame:  image.NewRGBA(bounds),
	}, nil
}

func (e *ffmpegEncoder) WriteFrame(img image.Image) error {
	if e.closed {
		return encodingErr("write to closed ffmpeg encoder")
	}
	src, ok := img.(*image.RGBA)
	if !ok || src.Bounds() != e.bounds || src.Stride != 4*e.bounds.Dx() {
		draw.Draw(e.frame, e.bounds, img, img.Bounds().Min, draw.Src)
		src = e.frame
	}
	if _, err := e.stdin.Write(src.Pix); err != nil {
		// stderr is only safe to read after Wait
		return encodingErr("write frame: %v", err)
	}
	return nil
}

func (e *ffmpegEncoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		e.out.discard()
		return encodingErr("ffmpeg: %v%s", err, e.stderrTail())
	}
	return e.out.commit()
}

func (e *ffmpegEncoder) Abort() error {
	if !e.closed {
		e.closed = true
		e.stdin.Close()
		if e.cmd.Process != nil {
			e.cmd.Process.Kill()
		}
		e.cmd.Wait()
	}
	return e.out.discard()
}

func (e *ffmpegEncoder) stderrTail() string {
	msg := strings.TrimSpace(e.stderr.String())
	if msg == "" {
		return ""
	}
	lines := strings.Split(msg, "\n")
	return ": " + lines[len(lines)-1]
}
