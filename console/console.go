// Package console provides the leveled, colored output streams the
// strategies report through: Out, Err, Info and Notif.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func New() *Console {
	return &Console{w: os.Stdout}
}

// NewWriter directs all output to w. Used by tests to capture output.
func NewWriter(w io.Writer) *Console {
	return &Console{w: w}
}

func (c *Console) line(tag, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ts := time.Now().Format("15:04:05")
	fmt.Fprintf(c.w, "%s %s %s\n", ts, tag, msg)
}

// Out is the plain output stream.
func (c *Console) Out(format string, a ...any) {
	c.line("     ", fmt.Sprintf(format, a...))
}

// Err reports errors and safety violations.
func (c *Console) Err(format string, a ...any) {
	c.line(red("ERROR"), fmt.Sprintf(format, a...))
}

// Info reports order submissions and closures.
func (c *Console) Info(format string, a ...any) {
	c.line(cyan("INFO "), fmt.Sprintf(format, a...))
}

// Notif reports run-level notifications such as the stop summary.
func (c *Console) Notif(format string, a ...any) {
	c.line(yellow("NOTIF"), fmt.Sprintf(format, a...))
}
