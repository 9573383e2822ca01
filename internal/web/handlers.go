package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/animate"
	"github.com/cjeanneret/PolarGo/internal/logic/disk"
	"github.com/cjeanneret/PolarGo/internal/snapshot"
)

// SpinRequest is the body of POST /spin.
type SpinRequest struct {
	Spin float64 `json:"spin"`
}

// PointerRequest is the body of POST /route.
type PointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ActivateRequest is the body of POST /activate.
type ActivateRequest struct {
	ID string `json:"id"`
}

// DiskSummary is returned by GET /config.
type DiskSummary struct {
	Side           float64 `json:"side"`
	Spin           float64 `json:"spin"`
	Speed          string  `json:"speed"`
	MsPerRev       int     `json:"ms_per_revolution"`
	Items          int     `json:"items"`
	SnapOnActivate bool    `json:"snap_on_activate"`
	DebugLevel     int     `json:"debug_level"`
}

// LayoutResponse is returned by GET /layout.
type LayoutResponse struct {
	Side   float64      `json:"side"`
	Spin   float64      `json:"spin"`
	Frames []disk.Frame `json:"frames"`
}

// RouteResponse is returned by POST /route.
type RouteResponse struct {
	Dispatch disk.Dispatch `json:"dispatch"`
	// Snap is set when the pointer hit an orbiting item and snapping is on.
	Snap *SnapResponse `json:"snap,omitempty"`
}

// SnapResponse describes a started snap animation.
type SnapResponse struct {
	ItemID     string  `json:"item_id"`
	From       float64 `json:"from"`
	Target     float64 `json:"target"`
	DurationMs int64   `json:"duration_ms"`
}

// Handlers holds dependencies for HTTP handlers.
//
// The disk is not safe for concurrent use, so every access goes through mu.
type Handlers struct {
	Broadcaster    *StatusBroadcaster
	Animator       *animate.Animator
	SnapOnActivate bool

	mu   sync.Mutex
	disk *disk.Disk

	animMu    sync.Mutex
	animating bool
	cancel    context.CancelFunc

	staticFS fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If d is nil, every disk endpoint returns 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, d *disk.Disk, animator *animate.Animator, snapOnActivate bool, staticFS fs.FS) *Handlers {
	if animator == nil {
		animator = animate.NewAnimator(0)
	}
	return &Handlers{
		Broadcaster:    broadcaster,
		Animator:       animator,
		SnapOnActivate: snapOnActivate,
		disk:           d,
		staticFS:       staticFS,
	}
}

// ValidatePointer rejects non-finite pointer coordinates.
func ValidatePointer(p PointerRequest) error {
	if !finite(p.X) || !finite(p.Y) {
		return fmt.Errorf("x and y must be finite numbers")
	}
	return nil
}

// ValidateSpin rejects non-finite spin values.
func ValidateSpin(s SpinRequest) error {
	if !finite(s.Spin) {
		return fmt.Errorf("spin must be a finite number")
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// withDisk runs fn under the disk lock. It writes 503 and returns false when
// no disk is configured.
func (h *Handlers) withDisk(w http.ResponseWriter, fn func(d *disk.Disk)) bool {
	if h.disk == nil {
		http.Error(w, "disk not configured", http.StatusServiceUnavailable)
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	fn(h.disk)
	return true
}

// HandleConfig returns a summary of the disk.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	var summary DiskSummary
	ok := h.withDisk(w, func(d *disk.Disk) {
		summary = DiskSummary{
			Side:           d.Side(),
			Spin:           d.Spin(),
			Speed:          d.Speed().String(),
			MsPerRev:       d.Speed().MillisPerRevolution(),
			Items:          d.Len(),
			SnapOnActivate: h.SnapOnActivate,
			DebugLevel:     debug.Level(),
		}
	})
	if ok {
		writeJSON(w, http.StatusOK, summary)
	}
}

// HandleLayout returns the paint frames of every item.
func (h *Handlers) HandleLayout(w http.ResponseWriter, r *http.Request) {
	var resp LayoutResponse
	ok := h.withDisk(w, func(d *disk.Disk) {
		resp = LayoutResponse{Side: d.Side(), Spin: d.Spin(), Frames: d.Frames()}
	})
	if ok {
		writeJSON(w, http.StatusOK, resp)
	}
}

// HandleSpin handles POST /spin to set an absolute spin.
func (h *Handlers) HandleSpin(w http.ResponseWriter, r *http.Request) {
	var req SpinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidateSpin(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if h.disk == nil {
		http.Error(w, "disk not configured", http.StatusServiceUnavailable)
		return
	}
	if err := h.setSpin(req.Spin); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	h.Broadcaster.BroadcastSpin(req.Spin)
	writeJSON(w, http.StatusOK, req)
}

// setSpin applies an absolute spin unless an animation owns the disk. The
// animation lock is held for the whole write so no snap can start halfway.
func (h *Handlers) setSpin(v float64) error {
	h.animMu.Lock()
	defer h.animMu.Unlock()
	if h.animating {
		return errBusy
	}
	h.mu.Lock()
	h.disk.SetSpin(v)
	h.mu.Unlock()
	return nil
}

// HandleRoute handles POST /route: hit-test a pointer-down event. When it
// lands on an orbiting item and snapping is enabled, the disk starts
// rotating that item to 0°.
func (h *Handlers) HandleRoute(w http.ResponseWriter, r *http.Request) {
	var req PointerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := ValidatePointer(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var dispatch disk.Dispatch
	if !h.withDisk(w, func(d *disk.Disk) { dispatch = d.Dispatch(req.X, req.Y) }) {
		return
	}
	h.Broadcaster.BroadcastRoute(dispatch.ItemID)

	resp := RouteResponse{Dispatch: dispatch}
	if !dispatch.OnContainer() && h.SnapOnActivate {
		snap, err := h.startSnap(dispatch.ItemID)
		if err == nil {
			resp.Snap = snap
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleActivate handles POST /activate to snap an item to 0°.
func (h *Handlers) HandleActivate(w http.ResponseWriter, r *http.Request) {
	var req ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if h.disk == nil {
		http.Error(w, "disk not configured", http.StatusServiceUnavailable)
		return
	}

	snap, err := h.startSnap(req.ID)
	switch {
	case errors.Is(err, disk.ErrNotRotatable):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, errBusy):
		http.Error(w, err.Error(), http.StatusConflict)
		return
	case err != nil:
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusAccepted, snap)
}

// HandleSnapshot renders the disk as PNG.
func (h *Handlers) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	var (
		frames []disk.Frame
		side   float64
	)
	if !h.withDisk(w, func(d *disk.Disk) { frames, side = d.Frames(), d.Side() }) {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	if err := snapshot.Encode(w, snapshot.Render(frames, side)); err != nil {
		log.Printf("snapshot: %v", err)
	}
}

var errBusy = errors.New("spin animation in progress")

// startSnap computes the snap for id and animates it in the background.
func (h *Handlers) startSnap(id string) (*SnapResponse, error) {
	h.animMu.Lock()
	defer h.animMu.Unlock()
	if h.animating {
		return nil, errBusy
	}

	h.mu.Lock()
	snap, err := h.disk.Activate(id)
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.animating = true
	h.cancel = cancel

	go func() {
		defer func() {
			cancel()
			h.animMu.Lock()
			h.animating = false
			h.cancel = nil
			h.animMu.Unlock()
		}()

		params := animate.SpinParams{From: snap.From, Delta: snap.Delta, Duration: snap.Duration}
		err := h.Animator.Spin(ctx, params, func(v float64) {
			h.mu.Lock()
			h.disk.SetSpin(v)
			h.mu.Unlock()
			h.Broadcaster.BroadcastSpin(v)
		})
		if err != nil {
			h.Broadcaster.Broadcast("error", "Spin animation stopped: "+err.Error())
			return
		}
		h.mu.Lock()
		h.disk.WrapSpin()
		h.mu.Unlock()
		h.Broadcaster.Broadcast("info", fmt.Sprintf("Item %s at 0°", id))
	}()

	return &SnapResponse{
		ItemID:     snap.ItemID,
		From:       snap.From,
		Target:     snap.Target,
		DurationMs: snap.Duration.Milliseconds(),
	}, nil
}

func (h *Handlers) isAnimating() bool {
	h.animMu.Lock()
	defer h.animMu.Unlock()
	return h.animating
}

// StopAnimation cancels a running animation, if any.
func (h *Handlers) StopAnimation() {
	h.animMu.Lock()
	defer h.animMu.Unlock()
	if h.cancel != nil {
		h.cancel()
	}
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
