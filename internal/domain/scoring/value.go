package scoring

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vaerl/trophy-be/internal/domain/game"
)

// Value is a parsed result: an elapsed time for time games or a point count
// for points games. Values of different kinds never compare.
type Value struct {
	kind     game.Kind
	duration time.Duration
	points   int
}

func TimeValue(d time.Duration) Value {
	return Value{kind: game.KindTime, duration: d}
}

func PointsValue(n int) Value {
	return Value{kind: game.KindPoints, points: n}
}

func (v Value) Kind() game.Kind {
	return v.kind
}

func (v Value) Duration() time.Duration {
	return v.duration
}

func (v Value) Points() int {
	return v.points
}

// Compare orders v against other by rank: negative when v ranks ahead.
// Shorter times and higher point counts rank ahead.
func (v Value) Compare(other Value) int {
	if v.kind != other.kind {
		panic(fmt.Sprintf("scoring: compare %q value with %q value", v.kind, other.kind))
	}
	if v.kind == game.KindTime {
		return cmp.Compare(v.duration, other.duration)
	}
	return cmp.Compare(other.points, v.points)
}

func (v Value) Equal(other Value) bool {
	return v == other
}

func (v Value) String() string {
	if v.kind != game.KindTime {
		return strconv.Itoa(v.points)
	}

	d := v.duration
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	ms := (d % time.Second) / time.Millisecond

	var out string
	if h > 0 {
		out = fmt.Sprintf("%d:%02d:%02d", h, m, s)
	} else {
		out = fmt.Sprintf("%02d:%02d", m, s)
	}
	if ms > 0 {
		out += fmt.Sprintf(".%03d", ms)
	}
	return out
}

// ParseValue parses raw result text for a game of the given kind.
//
// Points results are signed integers. Time results are MM:SS or HH:MM:SS with
// an optional fraction of up to three digits on the seconds field. Errors are
// marked with ErrParse.
func ParseValue(raw string, kind game.Kind) (Value, error) {
	text := strings.TrimSpace(raw)
	switch kind {
	case game.KindPoints:
		n, err := strconv.Atoi(text)
		if err != nil {
			return Value{}, errors.Mark(errors.Wrapf(err, "parse %q as points", raw), ErrParse)
		}
		return PointsValue(n), nil
	case game.KindTime:
		d, err := parseElapsed(text)
		if err != nil {
			return Value{}, errors.Mark(errors.Wrapf(err, "parse %q as time", raw), ErrParse)
		}
		return TimeValue(d), nil
	default:
		return Value{}, errors.Wrapf(ErrParse, "unknown game kind %q", kind)
	}
}

// The leading field is bounded so that adding the lower fields cannot
// overflow time.Duration.
const (
	maxElapsedHours   = int(math.MaxInt64/int64(time.Hour)) - 1
	maxElapsedMinutes = int(math.MaxInt64/int64(time.Minute)) - 1
)

func parseElapsed(text string) (time.Duration, error) {
	fields := strings.Split(text, ":")
	if len(fields) < 2 || len(fields) > 3 {
		return 0, errors.Newf("want MM:SS or HH:MM:SS, got %d field(s)", len(fields))
	}

	secText, fracText, hasFrac := strings.Cut(fields[len(fields)-1], ".")
	secs, err := parseField(secText)
	if err != nil {
		return 0, errors.Wrap(err, "seconds")
	}
	if secs >= 60 {
		return 0, errors.Newf("seconds out of range: %d", secs)
	}

	var frac time.Duration
	if hasFrac {
		if len(fracText) == 0 || len(fracText) > 3 {
			return 0, errors.Newf("fraction must have 1 to 3 digits, got %q", fracText)
		}
		n, err := parseField(fracText)
		if err != nil {
			return 0, errors.Wrap(err, "fraction")
		}
		for i := len(fracText); i < 3; i++ {
			n *= 10
		}
		frac = time.Duration(n) * time.Millisecond
	}

	var total time.Duration
	if len(fields) == 3 {
		hours, err := parseField(fields[0])
		if err != nil {
			return 0, errors.Wrap(err, "hours")
		}
		mins, err := parseField(fields[1])
		if err != nil {
			return 0, errors.Wrap(err, "minutes")
		}
		if mins >= 60 {
			return 0, errors.Newf("minutes out of range: %d", mins)
		}
		if hours > maxElapsedHours {
			return 0, errors.Newf("hours out of range: %d", hours)
		}
		total = time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute
	} else {
		mins, err := parseField(fields[0])
		if err != nil {
			return 0, errors.Wrap(err, "minutes")
		}
		if mins > maxElapsedMinutes {
			return 0, errors.Newf("minutes out of range: %d", mins)
		}
		total = time.Duration(mins) * time.Minute
	}

	return total + time.Duration(secs)*time.Second + frac, nil
}

func parseField(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty field")
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, errors.Newf("non-digit %q in %q", r, s)
		}
	}
	return strconv.Atoi(s)
}
