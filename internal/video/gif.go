package video

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
)

// gif delays are in hundredths of a second.
const maxGIFFPS = 100

// GIFBufferBytes estimates the memory a GIF encode of frames frames holds
// until Close: image/gif writes the whole animation at once, one byte per
// pixel per frame.
func GIFBufferBytes(width, height, frames int) int64 {
	return int64(width) * int64(height) * int64(frames)
}

type gifEncoder struct {
	out    *partialFile
	file   *os.File
	anim   gif.GIF
	fps    int
	bounds image.Rectangle
	closed bool
}

func newGIF(path string, opts Options) (*gifEncoder, error) {
	if opts.FPS > maxGIFFPS {
		return nil, encodingErr("gif supports at most %d fps, got %d", maxGIFFPS, opts.FPS)
	}
	out, f, err := newPartialFile(path)
	if err != nil {
		return nil, err
	}
	return &gifEncoder{
		out:    out,
		file:   f,
		anim:   gif.GIF{LoopCount: 0},
		fps:    opts.FPS,
		bounds: image.Rect(0, 0, opts.Width, opts.Height),
	}, nil
}

func (g *gifEncoder) WriteFrame(img image.Image) error {
	if g.closed {
		return encodingErr("write to closed gif encoder")
	}
	frame := image.NewPaletted(g.bounds, palette.Plan9)
	draw.Draw(frame, g.bounds, img, img.Bounds().Min, draw.Src)

	g.anim.Image = append(g.anim.Image, frame)
	g.anim.Delay = append(g.anim.Delay, g.nextDelay())
	return nil
}

// nextDelay carries the rounding remainder so n frames last n/fps seconds.
func (g *gifEncoder) nextDelay() int {
	n := len(g.anim.Delay)
	return (n+1)*100/g.fps - n*100/g.fps
}

func (g *gifEncoder) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true

	if len(g.anim.Image) == 0 {
		g.file.Close()
		g.out.discard()
		return encodingErr("no frames to encode")
	}
	if err := gif.EncodeAll(g.file, &g.anim); err != nil {
		g.file.Close()
		g.out.discard()
		return encodingErr("encode gif: %v", err)
	}
	if err := g.file.Close(); err != nil {
		g.out.discard()
		return encodingErr("close gif: %v", err)
	}
	g.anim.Image = nil
	return g.out.commit()
}

func (g *gifEncoder) Abort() error {
	if !g.closed {
		g.closed = true
		g.file.Close()
	}
	g.anim.Image = nil
	return g.out.discard()
}
