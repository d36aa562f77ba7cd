package browser

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
)

// Capturer writes screenshot + page HTML pairs at named checkpoints for
// postmortem debugging. Failures are logged and swallowed; a capture must
// never abort the run it is documenting.
type Capturer struct {
	insp Inspector
	dir  string
	log  *slog.Logger
}

// NewCapturer returns nil when dir is empty, and nil Capturers no-op.
func NewCapturer(insp Inspector, dir string, log *slog.Logger) *Capturer {
	if dir == "" {
		return nil
	}
	return &Capturer{insp: insp, dir: dir, log: log}
}

// SavePoint stores <dir>/<name>.png and <dir>/<name>.html.
func (c *Capturer) SavePoint(ctx context.Context, name string) {
	if c == nil {
		return
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		c.log.Error("debug capture: create dir", "dir", c.dir, "error", err)
		return
	}

	if png, err := c.insp.Screenshot(ctx); err != nil {
		c.log.Error("debug capture: screenshot", "name", name, "error", err)
	} else if err := os.WriteFile(filepath.Join(c.dir, name+".png"), png, 0o644); err != nil {
		c.log.Error("debug capture: write screenshot", "name", name, "error", err)
	}

	if html, err := c.insp.HTML(ctx); err != nil {
		c.log.Error("debug capture: page html", "name", name, "error", err)
	} else if err := os.WriteFile(filepath.Join(c.dir, name+".html"), []byte(html), 0o644); err != nil {
		c.log.Error("debug capture: write html", "name", name, "error", err)
	} else {
		c.log.Debug("debug capture saved", "name", name)
	}
}
