// Command polarterm shows a disk in the terminal. Click an item to route the
// pointer through the hit-tester and snap it to 0°.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/golang/geo/r2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/cjeanneret/PolarGo/internal/config"
	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/animate"
	"github.com/cjeanneret/PolarGo/internal/logic/disk"
	"github.com/cjeanneret/PolarGo/internal/logic/spin"
)

const (
	spinStep    = 5.0 // degrees per arrow key
	statusLines = 1
)

var palette = []tcell.Color{
	tcell.ColorRed, tcell.ColorOrange, tcell.ColorYellow, tcell.ColorGreen,
	tcell.ColorDarkCyan, tcell.ColorRoyalBlue, tcell.ColorMediumPurple,
}

type app struct {
	screen   tcell.Screen
	disk     *disk.Disk
	animator *animate.Animator
	snap     bool

	// animation frames are applied on the UI goroutine
	spinCh chan float64
	doneCh chan error
	cancel context.CancelFunc

	status    string
	audioInit bool
}

func newApp(d *disk.Disk, animator *animate.Animator, snap bool) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	a := &app{
		screen:   screen,
		disk:     d,
		animator: animator,
		snap:     snap,
		spinCh:   make(chan float64, 16),
		doneCh:   make(chan error, 1),
		status:   "click an item, ←/→ spin, w wrap, +/- speed, q quit",
	}
	if err := a.initAudio(); err != nil {
		// Non-fatal, the disk works without sound
		debug.Info("Audio initialization failed: %v", err)
	}
	return a, nil
}

func (a *app) initAudio() error {
	sampleRate := beep.SampleRate(44100)
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		a.audioInit = true
	}
	return err
}

func (a *app) playClick() {
	if !a.audioInit {
		return
	}
	sampleRate := beep.SampleRate(44100)
	sine, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(40*time.Millisecond), sine))
}

func (a *app) view() view {
	w, h := a.screen.Size()
	return newView(w, h-statusLines, a.disk.Side())
}

func (a *app) draw() {
	a.screen.Clear()
	v := a.view()
	frames := a.disk.Frames()
	face := tcell.StyleDefault.Background(tcell.ColorDarkSlateGray)

	for cy := 0; cy < v.rows; cy++ {
		for cx := 0; cx < v.cols; cx++ {
			p := v.toDisk(cx, cy)
			if !v.insideDisk(p) {
				continue
			}
			i := frameAt(frames, p)
			if i < 0 {
				a.screen.SetContent(cx, cy, ' ', nil, face)
				continue
			}
			color := palette[i%len(palette)]
			if frames[i].Fixed {
				color = tcell.ColorSilver
			}
			st := tcell.StyleDefault.Background(color).Foreground(tcell.ColorBlack)
			if !frames[i].Active {
				st = st.Dim(true)
			}
			a.screen.SetContent(cx, cy, labelRune(frames[i], p), nil, st)
		}
	}

	_, h := a.screen.Size()
	line := fmt.Sprintf("spin %7.2f°  speed %s  %s", a.disk.Spin(), a.disk.Speed(), a.status)
	for i, r := range []rune(line) {
		a.screen.SetContent(i, h-1, r, nil, tcell.StyleDefault.Reverse(true))
	}
	a.screen.Show()
}

// labelRune puts the first letter of the label at the frame's pivot.
func labelRune(f disk.Frame, p r2.Point) rune {
	c := f.Pivot()
	if len(f.Label) > 0 && p.Sub(c).Norm() < 6 {
		return []rune(f.Label)[0]
	}
	return ' '
}

func (a *app) animating() bool {
	return a.cancel != nil
}

func (a *app) click(cx, cy int) {
	p := a.view().toDisk(cx, cy)
	disp := a.disk.Dispatch(p.X, p.Y)
	if disp.OnContainer() {
		a.status = fmt.Sprintf("container (%.1f, %.1f)", disp.Point.X, disp.Point.Y)
		return
	}
	a.playClick()
	a.status = fmt.Sprintf("%s (%.1f, %.1f)", a.disk.Label(disp.ItemID), disp.Point.X, disp.Point.Y)
	if !a.snap || a.animating() {
		return
	}
	snap, err := a.disk.Activate(disp.ItemID)
	if err != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	go func() {
		a.doneCh <- a.animator.Spin(ctx, animate.SpinParams{
			From: snap.From, Delta: snap.Delta, Duration: snap.Duration,
		}, func(v float64) { a.spinCh <- v })
	}()
}

func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if a.animating() {
			return true
		}
		switch {
		case ev.Key() == tcell.KeyLeft:
			a.disk.SetSpin(a.disk.Spin() - spinStep)
		case ev.Key() == tcell.KeyRight:
			a.disk.SetSpin(a.disk.Spin() + spinStep)
		case ev.Key() == tcell.KeyRune && ev.Rune() == 'w':
			a.disk.WrapSpin()
		case ev.Key() == tcell.KeyRune && ev.Rune() == '+':
			a.disk.SetSpeed(stepSpeed(a.disk.Speed(), 1))
		case ev.Key() == tcell.KeyRune && ev.Rune() == '-':
			a.disk.SetSpeed(stepSpeed(a.disk.Speed(), -1))
		}

	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			x, y := ev.Position()
			a.click(x, y)
		}

	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) run() {
	ticker := time.NewTicker(a.animator.Interval())
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- a.screen.PollEvent()
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !a.handleInput(ev) {
				return
			}

		case v := <-a.spinCh:
			a.disk.SetSpin(v)

		case err := <-a.doneCh:
			// drain frames sent before the animation returned
			for len(a.spinCh) > 0 {
				a.disk.SetSpin(<-a.spinCh)
			}
			if err == nil {
				a.disk.WrapSpin()
			}
			a.cancel()
			a.cancel = nil

		case <-ticker.C:
			a.draw()
		}
	}
}

func (a *app) cleanup() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.audioInit {
		speaker.Close()
	}
	a.screen.Fini()
}

// stepSpeed moves dir presets faster (+1) or slower (-1), saturating at the ends.
func stepSpeed(s spin.Speed, dir int) spin.Speed {
	presets := spin.Presets()
	i := 0
	for j, p := range presets {
		if p == s {
			i = j
		}
	}
	i += dir
	if i < 0 {
		i = 0
	}
	if i >= len(presets) {
		i = len(presets) - 1
	}
	return presets[i]
}

func main() {
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	logPath := flag.String("log", "", "write debug output to this file")
	flag.Parse()

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		log.Fatalf("invalid config path: %v", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// the screen owns stdout
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			log.Fatalf("open log: %v", err)
		}
		defer f.Close()
		out = f
	}
	debug.SetOutput(out)
	debug.Init(cfg.Defaults.DebugLevel)

	d := disk.FromConfig(cfg)
	a, err := newApp(d, animate.NewAnimator(cfg.FrameInterval()), cfg.SnapOnActivate())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer a.cleanup()

	a.run()
}
