package spin

import (
	"fmt"
	"strings"
	"time"
)

// Speed is a spinning speed expressed in milliseconds per revolution.
type Speed int

const (
	Slowest Speed = 10000
	Slower  Speed = 8000
	Slow    Speed = 5000
	Normal  Speed = 3000
	Fast    Speed = 2500
	Faster  Speed = 2000
	Fastest Speed = 1000
)

var speedNames = []struct {
	name  string
	speed Speed
}{
	{"slowest", Slowest},
	{"slower", Slower},
	{"slow", Slow},
	{"normal", Normal},
	{"fast", Fast},
	{"faster", Faster},
	{"fastest", Fastest},
}

// Presets returns every preset from slowest to fastest.
func Presets() []Speed {
	out := make([]Speed, len(speedNames))
	for i, s := range speedNames {
		out[i] = s.speed
	}
	return out
}

// SpeedOf returns the preset with exactly ms milliseconds per revolution,
// or Normal if there is none.
func SpeedOf(ms int) Speed {
	for _, s := range speedNames {
		if int(s.speed) == ms {
			return s.speed
		}
	}
	return Normal
}

// ParseSpeed looks a preset up by name (case-insensitive).
func ParseSpeed(name string) (Speed, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, s := range speedNames {
		if s.name == name {
			return s.speed, nil
		}
	}
	return Normal, fmt.Errorf("unknown spin speed %q", name)
}

// MillisPerRevolution returns the raw value.
func (s Speed) MillisPerRevolution() int {
	return int(s)
}

// Revolution returns the time of one full turn.
func (s Speed) Revolution() time.Duration {
	return time.Duration(s) * time.Millisecond
}

func (s Speed) String() string {
	for _, n := range speedNames {
		if n.speed == s {
			return n.name
		}
	}
	return fmt.Sprintf("%dms/rev", int(s))
}
