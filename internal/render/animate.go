package render

import (
	"context"
	"image"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Surface draws one frame from the pivot and bob positions.
type Surface interface {
	Draw(pivot, bob Point) image.Image
}

// FrameSink consumes rendered frames in order.
type FrameSink interface {
	WriteFrame(img image.Image) error
}

type Animator struct {
	Surface Surface
	Sink    FrameSink
	// OnFrame, when set, is called after each frame is written.
	OnFrame func(frame, total int)
}

// Run projects the trajectory once and writes one frame per sample. It
// stops at the first sink error or when ctx is canceled.
func (a *Animator) Run(ctx context.Context, traj dynamo.Trajectory, length float64) error {
	frames := Frames(traj, length)
	for i, bob := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := a.Sink.WriteFrame(a.Surface.Draw(Origin, bob)); err != nil {
			return err
		}
		if a.OnFrame != nil {
			a.OnFrame(i+1, len(frames))
		}
	}
	return nil
}
