// Package video encodes rendered frames into an animation file.
//
// [Create] picks an encoder from the output extension: ".gif" is encoded in
// process with image/gif, while ".mp4", ".mov", ".mkv" and ".webm" are piped
// as raw RGBA to an ffmpeg child process.
//
// GIF frames are buffered until Close (see [GIFBufferBytes]); a 1001 frame
// run at 480x480 holds about 230 MB. Use a smaller size or ffmpeg output for
// long runs.
//
// Output is written to a hidden temp file next to the target and renamed on
// [Encoder.Close], so a failed or interrupted run never leaves a truncated
// video behind:
//
//	enc, err := video.Create("out.mp4", video.Options{FPS: 60, Width: 480, Height: 480})
//	if err != nil {
//	    return err
//	}
//	defer enc.Abort()
//	// WriteFrame...
//	return enc.Close()
package video
