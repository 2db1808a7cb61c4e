package track

// Handle is the single owner of an AudioTrack. Tracks change owner only by
// moving handles (Take, Reset) or by releasing them (Release); there is no
// way to share a handle's track. Always pass handles by pointer.
//
// A nil *Handle behaves like an empty one. Reset on a nil handle has
// nowhere to store the track, so it leaves src untouched.
type Handle struct {
	t AudioTrack
}

// NewHandle takes ownership of t. A nil track gives an empty handle.
func NewHandle(t AudioTrack) *Handle {
	if t == nil {
		return &Handle{}
	}
	return &Handle{t: t}
}

// Valid reports whether the handle owns a track.
func (h *Handle) Valid() bool {
	return h != nil && h.t != nil
}

// Get returns the owned track without giving up ownership, or nil.
func (h *Handle) Get() AudioTrack {
	if h == nil {
		return nil
	}
	return h.t
}

// Must returns the owned track. It panics with ErrEmptyHandle when the handle
// is empty.
func (h *Handle) Must() AudioTrack {
	if !h.Valid() {
		panic(ErrEmptyHandle)
	}
	return h.t
}

// Release gives up ownership and returns the track. The caller becomes
// responsible for closing it.
func (h *Handle) Release() AudioTrack {
	if h == nil {
		return nil
	}
	t := h.t
	h.t = nil
	return t
}

// Take moves the track into a new handle, leaving h empty.
func (h *Handle) Take() *Handle {
	return &Handle{t: h.Release()}
}

// Reset closes the currently owned track and takes src's track, leaving src
// empty. Resetting a handle from itself does nothing.
func (h *Handle) Reset(src *Handle) {
	if h == nil || h == src {
		return
	}
	h.Close()
	h.t = src.Release()
}

// Close closes the owned track, if any, and empties the handle.
func (h *Handle) Close() {
	if h == nil || h.t == nil {
		return
	}
	h.t.Close()
	h.t = nil
}
