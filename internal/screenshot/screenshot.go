// Package screenshot captures the screen via the platform's grabber and
// converts between base64 payloads and data URLs. Capture failures are
// expected under headless or restricted environments and are always treated
// as non-fatal by callers.
package screenshot

import (
	"context"
	"encoding/base64"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Capturer produces one screen capture as a base64-encoded image string with
// no data-URI prefix.
type Capturer interface {
	Capture(ctx context.Context) (string, error)
}

// CaptureFunc adapts a function to the Capturer interface.
type CaptureFunc func(ctx context.Context) (string, error)

func (f CaptureFunc) Capture(ctx context.Context) (string, error) { return f(ctx) }

// grabber is one platform screen-capture command. The output path is appended
// to args.
type grabber struct {
	name string
	args []string
}

func platformGrabbers() []grabber {
	if runtime.GOOS == "darwin" {
		return []grabber{{name: "screencapture", args: []string{"-x"}}}
	}
	return []grabber{
		{name: "gnome-screenshot", args: []string{"-f"}},
		{name: "import", args: []string{"-window", "root"}},
		{name: "scrot", args: nil},
	}
}

// CommandCapturer shells out to the first available platform screen grabber
// and returns its PNG output base64 encoded.
type CommandCapturer struct {
	grabbers []grabber
}

// NewCommandCapturer returns a capturer using the platform's grabbers.
func NewCommandCapturer() *CommandCapturer {
	return &CommandCapturer{grabbers: platformGrabbers()}
}

// Capture writes a capture to a temp file, encodes it, and cleans up.
func (c *CommandCapturer) Capture(ctx context.Context) (string, error) {
	path := filepath.Join(os.TempDir(), "givefeedback-"+uuid.NewString()+".png")
	defer os.Remove(path)

	var lastErr error
	for _, g := range c.grabbers {
		bin, err := exec.LookPath(g.name)
		if err != nil {
			lastErr = err
			continue
		}
		args := append(append([]string{}, g.args...), path)
		cmd := exec.CommandContext(ctx, bin, args...)
		if out, err := cmd.CombinedOutput(); err != nil {
			lastErr = errors.Wrapf(err, "%s: %s", g.name, strings.TrimSpace(string(out)))
			continue
		}
		return EncodeFile(path)
	}
	if lastErr == nil {
		lastErr = errors.New("no screen capture tool found")
	}
	return "", errors.Wrap(lastErr, "capture screen")
}

// EncodeFile reads an image file and returns its base64 encoding.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "read image")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DataURL wraps a bare base64 payload as a displayable PNG data URL. Payloads
// that already carry a data-URI prefix pass through unchanged.
func DataURL(b64 string) string {
	if strings.HasPrefix(b64, "data:") {
		return b64
	}
	return "data:image/png;base64," + b64
}

// StripDataURL removes any leading data-URI prefix so only the raw base64
// payload is stored.
func StripDataURL(s string) string {
	if !strings.HasPrefix(s, "data:") {
		return s
	}
	if i := strings.Index(s, ","); i >= 0 {
		return s[i+1:]
	}
	return s
}
