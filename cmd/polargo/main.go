package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/cjeanneret/PolarGo/internal/config"
	"github.com/cjeanneret/PolarGo/internal/debug"
	"github.com/cjeanneret/PolarGo/internal/logic/animate"
	"github.com/cjeanneret/PolarGo/internal/logic/disk"
	"github.com/cjeanneret/PolarGo/internal/logic/spin"
	"github.com/cjeanneret/PolarGo/internal/snapshot"
	"github.com/cjeanneret/PolarGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web inspector on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	spinFlag := flag.String("spin", "", "override initial spin in degrees")
	speedFlag := flag.String("speed", "", "override spin speed (slowest, slower, slow, normal, fast, faster, fastest)")
	routeFlag := flag.String("route", "", "hit-test a pointer at \"x,y\" and print the receiver")
	activate := flag.String("activate", "", "snap the given item to 0° before other actions")
	snapshotPath := flag.String("snapshot", "", "write a PNG of the disk to this path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := config.ValidateConfigPath(*cfgPath); err != nil {
		fatal("invalid config path", err)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fatal("load config failed", err)
	}

	if err := applyOverrides(cfg, *spinFlag, *speedFlag); err != nil {
		fatal("invalid CLI override", err)
	}

	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)

	debug.Step(1, "Building disk")
	d := disk.FromConfig(cfg)
	debug.Value("Speed", d.Speed())
	debug.PrintStruct("Disk config", cfg.Disk)
	animator := animate.NewAnimator(cfg.FrameInterval())

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		srv := web.NewServer(webAddr, broadcaster, d, animator, cfg.SnapOnActivate())
		if err := srv.Run(ctx); err != nil {
			fatal("web server", err)
		}
		return
	}

	if *activate != "" {
		debug.Step(2, "Activating "+*activate)
		if err := runActivate(ctx, d, animator, *activate); err != nil {
			fatal("activate failed", err)
		}
		fmt.Printf("spin: %.2f°\n", d.Spin())
	}

	if *routeFlag != "" {
		x, y, err := parsePoint(*routeFlag)
		if err != nil {
			fatal("invalid -route", err)
		}
		fmt.Println(describeDispatch(d.Dispatch(x, y)))
	}

	if *snapshotPath != "" {
		debug.Step(3, "Writing snapshot")
		if err := snapshot.WritePNG(*snapshotPath, d.Frames(), d.Side()); err != nil {
			fatal("snapshot failed", err)
		}
		debug.Info("Snapshot written to %s", *snapshotPath)
	}

	if *activate == "" && *routeFlag == "" && *snapshotPath == "" {
		debug.Summary(debug.Fmt("Disk frames (spin %.2f°)", d.Spin()))
		for _, f := range d.Frames() {
			fmt.Printf("%-12s left=%7.2f top=%7.2f %6.1fx%-6.1f rotation=%7.2f°\n",
				f.ID, f.Left, f.Top, f.Width, f.Height, f.Rotation)
		}
	}
}

// fatal records err on the debug stream before exiting.
func fatal(context string, err error) {
	debug.Error(err)
	log.Fatalf("%s: %v", context, err)
}

// runActivate snaps item id to 0° and waits for the animation to finish.
func runActivate(ctx context.Context, d *disk.Disk, animator *animate.Animator, id string) error {
	snap, err := d.Activate(id)
	if err != nil {
		return err
	}
	err = animator.Spin(ctx, animate.SpinParams{
		From:     snap.From,
		Delta:    snap.Delta,
		Duration: snap.Duration,
	}, d.SetSpin)
	if err != nil {
		return err
	}
	d.WrapSpin()
	return nil
}

// applyOverrides mutates cfg with CLI overrides. Empty strings mean "use config".
func applyOverrides(cfg *config.Config, spinStr, speedStr string) error {
	if spinStr != "" {
		v, err := strconv.ParseFloat(spinStr, 64)
		if err != nil {
			return fmt.Errorf("spin: %w", err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("spin must be a finite number, got %g", v)
		}
		cfg.Disk.Spin = v
	}
	if speedStr != "" {
		s, err := spin.ParseSpeed(speedStr)
		if err != nil {
			return err
		}
		cfg.Disk.SpinSpeedMs = s.MillisPerRevolution()
	}
	return nil
}

// parsePoint parses "x,y" into finite coordinates.
func parsePoint(s string) (float64, float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected \"x,y\", got %q", s)
	}
	var xy [2]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return 0, 0, fmt.Errorf("coordinate %q: %w", p, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, 0, fmt.Errorf("coordinate %q is not finite", p)
		}
		xy[i] = v
	}
	return xy[0], xy[1], nil
}

func describeDispatch(disp disk.Dispatch) string {
	if disp.OnContainer() {
		return fmt.Sprintf("container at (%.2f, %.2f)", disp.Point.X, disp.Point.Y)
	}
	return fmt.Sprintf("%s at (%.2f, %.2f)", disp.ItemID, disp.Point.X, disp.Point.Y)
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
