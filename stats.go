package holo

import "time"

// FrameStats counts work submitted during one frame. Reset at BeginFrame,
// readable after EndFrame.
type FrameStats struct {
	Volumes        int
	DrawCalls      int
	TextureUploads int
	ClipPushes     int
	FrameTime      time.Duration
}

type statsTracker struct {
	current    FrameStats
	frameStart time.Time
}

func (s *statsTracker) begin() {
	s.current = FrameStats{}
	s.frameStart = time.Now()
}

func (s *statsTracker) end() FrameStats {
	s.current.FrameTime = time.Since(s.frameStart)
	return s.current
}
