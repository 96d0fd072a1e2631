package juncture

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"runtime"

	jerrors "github.com/randalmurphal/juncture/errors"
)

// Navigator sends the end user to a URL.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// availabilityChecker is implemented by navigators that can tell before
// any remote call whether navigation is possible.
type availabilityChecker interface {
	Available() error
}

// BrowserNavigator opens URLs in the system browser.
//
// On Linux and the BSDs it requires a graphical session (DISPLAY or
// WAYLAND_DISPLAY) and xdg-open. The zero value is ready to use.
type BrowserNavigator struct {
	goos     string
	getenv   func(string) string
	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

// NewBrowserNavigator returns a navigator for the current platform.
func NewBrowserNavigator() *BrowserNavigator {
	return &BrowserNavigator{}
}

func (b *BrowserNavigator) platform() string {
	if b.goos != "" {
		return b.goos
	}
	return runtime.GOOS
}

func (b *BrowserNavigator) env(key string) string {
	if b.getenv != nil {
		return b.getenv(key)
	}
	return os.Getenv(key)
}

func (b *BrowserNavigator) launcher() (string, []string, error) {
	switch goos := b.platform(); goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		if b.env("DISPLAY") == "" && b.env("WAYLAND_DISPLAY") == "" {
			return "", nil, fmt.Errorf("no graphical session: %w", jerrors.ErrNoBrowsingContext)
		}
		return "xdg-open", nil, nil
	case "darwin":
		return "open", nil, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler"}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform %s: %w", goos, jerrors.ErrNoBrowsingContext)
	}
}

// Available reports whether a browser can be opened, without opening one.
func (b *BrowserNavigator) Available() error {
	name, _, err := b.launcher()
	if err != nil {
		return err
	}

	lookPath := b.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	if _, err := lookPath(name); err != nil {
		return fmt.Errorf("browser launcher %s not found: %w", name, jerrors.ErrNoBrowsingContext)
	}
	return nil
}

// Navigate opens rawURL in the system browser. Only http and https URLs are
// accepted. The launcher is started and not waited for.
func (b *BrowserNavigator) Navigate(_ context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parse authorization URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("refusing to open URL with scheme %q", u.Scheme)
	}

	if err := b.Available(); err != nil {
		return err
	}
	name, args, err := b.launcher()
	if err != nil {
		return err
	}

	// The browser must outlive ctx, so the command is not bound to it.
	cmd := exec.Command(name, append(args, rawURL)...)
	start := b.start
	if start == nil {
		start = (*exec.Cmd).Start
	}
	if err := start(cmd); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

type responseNavigator struct {
	w http.ResponseWriter
	r *http.Request
}

// ResponseNavigator returns a Navigator for server-rendered apps: it answers
// the in-flight request r with a 303 See Other to the URL.
func ResponseNavigator(w http.ResponseWriter, r *http.Request) Navigator {
	return responseNavigator{w: w, r: r}
}

func (n responseNavigator) Available() error {
	if n.w == nil || n.r == nil {
		return fmt.Errorf("no in-flight response: %w", jerrors.ErrNoBrowsingContext)
	}
	return nil
}

func (n responseNavigator) Navigate(_ context.Context, target string) error {
	if err := n.Available(); err != nil {
		return err
	}
	http.Redirect(n.w, n.r, target, http.StatusSeeOther)
	return nil
}

// checkNavigator fails early when nav cannot navigate at all.
func checkNavigator(op string, nav Navigator) error {
	if nav == nil {
		return &jerrors.EnvironmentError{
			Op:      op,
			Message: "no navigator configured",
			Err:     jerrors.ErrNoBrowsingContext,
		}
	}
	if checker, ok := nav.(availabilityChecker); ok {
		if err := checker.Available(); err != nil {
			return environmentError(op, err)
		}
	}
	return nil
}

func environmentError(op string, err error) error {
	if jerrors.IsEnvironment(err) {
		return err
	}
	return &jerrors.EnvironmentError{
		Op:      op,
		Message: "cannot navigate to authorization URL",
		Err:     err,
	}
}
