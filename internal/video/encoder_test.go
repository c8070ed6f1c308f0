package video_test

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"runtime"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/render"
	"github.com/san-kum/pendsim/internal/video"
)

func solidFrame(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func dirEntries(dir string) []string {
	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func writeScript(dir, name, body string) string {
	path := filepath.Join(dir, name)
	Expect(os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755)).To(Succeed())
	return path
}

var _ = Describe("Create", func() {
	var dir string

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
	})

	It("rejects unknown extensions", func() {
		_, err := video.Create(filepath.Join(dir, "out.avi"), video.Options{FPS: 60, Width: 8, Height: 8})
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
		Expect(dirEntries(dir)).To(BeEmpty())
	})

	It("rejects a non-positive frame rate", func() {
		_, err := video.Create(filepath.Join(dir, "out.gif"), video.Options{FPS: 0, Width: 8, Height: 8})
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
	})

	It("rejects an empty frame size", func() {
		_, err := video.Create(filepath.Join(dir, "out.gif"), video.Options{FPS: 30, Width: 0, Height: 8})
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
	})

	It("reports a missing ffmpeg as an encoding failure", func() {
		_, err := video.Create(filepath.Join(dir, "out.mp4"), video.Options{
			FPS: 60, Width: 8, Height: 8, FFmpegPath: "pendsim-no-such-ffmpeg",
		})
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
		Expect(err.Error()).To(ContainSubstring("ffmpeg not available"))
		Expect(dirEntries(dir)).To(BeEmpty())
	})

	It("lists the supported formats", func() {
		Expect(video.Formats()).To(ConsistOf(".gif", ".mkv", ".mov", ".mp4", ".webm"))
	})
})

var _ = Describe("GIF encoder", func() {
	var (
		dir  string
		path string
	)

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		path = filepath.Join(dir, "pendulum.gif")
	})

	It("writes every frame with delays summing to the run length", func() {
		enc, err := video.Create(path, video.Options{FPS: 60, Width: 16, Height: 16})
		Expect(err).NotTo(HaveOccurred())
		defer enc.Abort()

		for i := 0; i < 60; i++ {
			Expect(enc.WriteFrame(solidFrame(16, 16, color.White))).To(Succeed())
		}
		Expect(enc.Close()).To(Succeed())

		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		anim, err := gif.DecodeAll(f)
		Expect(err).NotTo(HaveOccurred())
		Expect(anim.Image).To(HaveLen(60))

		total := 0
		for _, d := range anim.Delay {
			Expect(d).To(BeNumerically(">=", 1))
			total += d
		}
		Expect(total).To(Equal(100))
	})

	It("keeps rendered colors", func() {
		canvas, err := render.NewCanvas(40, 40, 1, render.DefaultStyle())
		Expect(err).NotTo(HaveOccurred())

		enc, err := video.Create(path, video.Options{FPS: 30, Width: 40, Height: 40})
		Expect(err).NotTo(HaveOccurred())
		defer enc.Abort()

		Expect(enc.WriteFrame(canvas.Draw(render.Origin, render.Project(1, 0)))).To(Succeed())
		Expect(enc.Close()).To(Succeed())

		f, err := os.Open(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		img, err := gif.Decode(f)
		Expect(err).NotTo(HaveOccurred())

		r, g, b, _ := img.At(1, 1).RGBA()
		Expect([]uint32{r, g, b}).To(Equal([]uint32{0xffff, 0xffff, 0xffff}))
		r, g, b, _ = img.At(20, 20).RGBA()
		Expect([]uint32{r, g, b}).To(Equal([]uint32{0, 0, 0}))
	})

	It("leaves nothing behind when aborted", func() {
		enc, err := video.Create(path, video.Options{FPS: 60, Width: 8, Height: 8})
		Expect(err).NotTo(HaveOccurred())

		Expect(enc.WriteFrame(solidFrame(8, 8, color.Black))).To(Succeed())
		Expect(dirEntries(dir)).To(HaveLen(1))

		Expect(enc.Abort()).To(Succeed())
		Expect(dirEntries(dir)).To(BeEmpty())
		Expect(enc.Abort()).To(Succeed())
	})

	It("does not remove the finished file on a deferred abort", func() {
		enc, err := video.Create(path, video.Options{FPS: 60, Width: 8, Height: 8})
		Expect(err).NotTo(HaveOccurred())
		Expect(enc.WriteFrame(solidFrame(8, 8, color.Black))).To(Succeed())
		Expect(enc.Close()).To(Succeed())
		Expect(enc.Abort()).To(Succeed())

		Expect(dirEntries(dir)).To(ConsistOf("pendulum.gif"))
	})

	It("fails to close without frames", func() {
		enc, err := video.Create(path, video.Options{FPS: 60, Width: 8, Height: 8})
		Expect(err).NotTo(HaveOccurred())

		Expect(enc.Close()).To(MatchError(dynamo.ErrEncodingFailure))
		Expect(dirEntries(dir)).To(BeEmpty())
	})

	It("estimates the frame buffer held until close", func() {
		Expect(video.GIFBufferBytes(480, 480, 1001)).To(BeEquivalentTo(230630400))
		Expect(video.GIFBufferBytes(16, 16, 0)).To(BeZero())
	})

	It("refuses frame rates gif delays cannot express", func() {
		_, err := video.Create(path, video.Options{FPS: 120, Width: 8, Height: 8})
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
	})
})

var _ = Describe("ffmpeg encoder", func() {
	var dir string

	BeforeEach(func() {
		if runtime.GOOS == "windows" {
			Skip("fake ffmpeg is a shell script")
		}
		dir = GinkgoT().TempDir()
	})

	It("streams raw RGBA frames and renames the output on close", func() {
		// The last argument is the output path.
		bin := writeScript(dir, "fake-ffmpeg", "for last; do :; done\ncat > \"$last\"\n")
		out := filepath.Join(dir, "pendulum.mp4")

		enc, err := video.Create(out, video.Options{FPS: 60, Width: 4, Height: 3, FFmpegPath: bin})
		Expect(err).NotTo(HaveOccurred())
		defer enc.Abort()

		for i := 0; i < 5; i++ {
			Expect(enc.WriteFrame(solidFrame(4, 3, color.White))).To(Succeed())
		}
		Expect(enc.Close()).To(Succeed())

		info, err := os.Stat(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(info.Size()).To(BeEquivalentTo(5 * 4 * 3 * 4))
		Expect(dirEntries(dir)).To(ConsistOf("fake-ffmpeg", "pendulum.mp4"))
	})

	It("converts frames that are not RGBA", func() {
		bin := writeScript(dir, "fake-ffmpeg", "for last; do :; done\ncat > \"$last\"\n")
		out := filepath.Join(dir, "pendulum.webm")

		enc, err := video.Create(out, video.Options{FPS: 30, Width: 2, Height: 2, FFmpegPath: bin})
		Expect(err).NotTo(HaveOccurred())
		defer enc.Abort()

		gray := image.NewGray(image.Rect(0, 0, 2, 2))
		Expect(enc.WriteFrame(gray)).To(Succeed())
		Expect(enc.Close()).To(Succeed())

		data, err := os.ReadFile(out)
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255, 0, 0, 0, 255}))
	})

	It("surfaces ffmpeg failures and removes the partial output", func() {
		bin := writeScript(dir, "fake-ffmpeg", "cat > /dev/null\necho 'codec not found' >&2\nexit 1\n")
		out := filepath.Join(dir, "pendulum.mp4")

		enc, err := video.Create(out, video.Options{FPS: 60, Width: 4, Height: 4, FFmpegPath: bin})
		Expect(err).NotTo(HaveOccurred())

		Expect(enc.WriteFrame(solidFrame(4, 4, color.Black))).To(Succeed())
		err = enc.Close()
		Expect(err).To(MatchError(dynamo.ErrEncodingFailure))
		Expect(err.Error()).To(ContainSubstring("codec not found"))
		Expect(dirEntries(dir)).To(ConsistOf("fake-ffmpeg"))
	})

	It("kills ffmpeg and removes the partial output on abort", func() {
		bin := writeScript(dir, "fake-ffmpeg", "for last; do :; done\ncat > \"$last\"\n")
		out := filepath.Join(dir, "pendulum.mkv")

		enc, err := video.Create(out, video.Options{FPS: 60, Width: 4, Height: 4, FFmpegPath: bin})
		Expect(err).NotTo(HaveOccurred())
		Expect(enc.WriteFrame(solidFrame(4, 4, color.Black))).To(Succeed())

		Expect(enc.Abort()).To(Succeed())
		Expect(dirEntries(dir)).To(ConsistOf("fake-ffmpeg"))
	})
})
