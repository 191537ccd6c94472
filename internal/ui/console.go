package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/casaval/posio/internal/leaderboard"
)

// Console is a terminal rendition of all view surfaces. Guesses are typed as
// "lat lng" lines; markers, status and the leaderboard are written as plain
// lines. It exists so the client runs without a map widget; a graphical
// frontend would provide its own implementations.
type Console struct {
	logger *slog.Logger
	out    io.Writer

	mu      sync.Mutex
	capture bool
	clicks  chan Click
}

func NewConsole(logger *slog.Logger, out io.Writer) *Console {
	return &Console{
		logger: logger,
		out:    out,
		clicks: make(chan Click, 1),
	}
}

// ReadInput parses "lat lng" lines from scanner into clicks until input is
// exhausted or ctx is cancelled. The scanner is owned by the caller so the
// name prompt and the click reader share one buffer. Lines arriving while
// capture is disabled are dropped.
func (c *Console) ReadInput(ctx context.Context, scanner *bufio.Scanner) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		// Stays blocked in Read after cancellation; there is no portable way
		// to unblock a stdin read, so it dies with the process.
		defer close(lines)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			click, err := parseClick(line)
			if err != nil {
				fmt.Fprintln(c.out, err)
				continue
			}

			c.mu.Lock()
			open := c.capture
			c.mu.Unlock()
			if !open {
				fmt.Fprintln(c.out, "answers are closed, wait for the next turn")
				continue
			}

			select {
			case c.clicks <- click:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func parseClick(line string) (Click, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Click{}, fmt.Errorf("type your guess as: <lat> <lng>")
	}
	lat, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return Click{}, fmt.Errorf("bad latitude %q", fields[0])
	}
	lng, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Click{}, fmt.Errorf("bad longitude %q", fields[1])
	}
	return Click{Lat: lat, Lng: lng}, nil
}

func (c *Console) PlaceMarker(m Marker) {
	fmt.Fprintf(c.out, "[%s] %.4f, %.4f", m.Kind, m.Lat, m.Lng)
	if m.Popup != "" {
		fmt.Fprintf(c.out, " — %s", m.Popup)
	}
	fmt.Fprintln(c.out)
}

func (c *Console) ClearMarkers() {
	c.logger.Debug("markers cleared")
}

func (c *Console) SetClickCapture(enabled bool) {
	c.mu.Lock()
	c.capture = enabled
	c.mu.Unlock()
	if enabled {
		fmt.Fprintln(c.out, "answers open: type <lat> <lng>")
	}
}

func (c *Console) Clicks() <-chan Click { return c.clicks }

func (c *Console) Start(d time.Duration) {
	fmt.Fprintf(c.out, "%.0f seconds to answer\n", d.Seconds())
}

func (c *Console) Reset() {
	c.logger.Debug("countdown reset")
}

func (c *Console) SetStatus(markup string) {
	fmt.Fprintln(c.out, markup)
}

func (c *Console) SetScore(value int) {
	fmt.Fprintf(c.out, "\rscore: %d", value)
}

func (c *Console) SetRows(rows []leaderboard.Row) {
	fmt.Fprintln(c.out, "--- leaderboard ---")
	for _, row := range rows {
		fmt.Fprintf(c.out, "%2d. %-20s %.0f\n", row.Position, row.Name, row.Score)
	}
}
