package feature

import "sync"

// Renderer redraws a feature after its active channels changed. It is only
// called for features whose Recompute reported a change.
type Renderer interface {
	Render(f Feature)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(f Feature)

func (fn RendererFunc) Render(f Feature) { fn(f) }

// Frame is a snapshot of one render call.
type Frame struct {
	ID       string        `json:"id" yaml:"id"`
	Kind     string        `json:"kind" yaml:"kind"`
	Channels []ChannelView `json:"channels" yaml:"channels"`
	Lanes    []Lane        `json:"lanes" yaml:"lanes"`
}

// Snapshot captures the current render state of f.
func Snapshot(f Feature) Frame {
	return Frame{
		ID:       f.ID(),
		Kind:     f.Kind().String(),
		Channels: f.State().ChannelViews(),
		Lanes:    Lanes(f),
	}
}

// Recorder is a Renderer that keeps a snapshot of every render call.
type Recorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *Recorder) Render(f Feature) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, Snapshot(f))
}

// Frames returns the recorded frames in call order.
func (r *Recorder) Frames() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Reset drops the recorded frames and returns them.
func (r *Recorder) Reset() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.frames
	r.frames = nil
	return out
}
