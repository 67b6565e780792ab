package shell

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// Help pages.
const (
	HelpHome          = "http://oxyplot.codeplex.com"
	HelpDocumentation = "http://oxyplot.codeplex.com/documentation"
)

// ErrClipboardUnsupported is returned when no clipboard utility is available.
var ErrClipboardUnsupported = errors.New("clipboard is not supported on this system")

// Opener reveals files and opens web pages.
type Opener interface {
	// OpenFolder opens the directory containing path.
	OpenFolder(path string) error

	// OpenURL opens url in the default browser.
	OpenURL(url string) error
}

// Clipboard receives copied content.
type Clipboard interface {
	WriteText(text string) error
}

// Browser opens files and URLs with the platform's default handler.
type Browser struct {
	// Output receives the handler's stdout and stderr. Nil discards it.
	Output io.Writer
}

// NewBrowser creates a Browser that discards handler output.
func NewBrowser() *Browser {
	return &Browser{Output: io.Discard}
}

// OpenFolder opens the directory containing path.
func (b *Browser) OpenFolder(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return b.open(openFile, filepath.Dir(abs))
}

// OpenURL opens url in the default browser.
func (b *Browser) OpenURL(url string) error {
	return b.open(openURL, url)
}

// Handlers of pkg/browser, replaced in tests.
var (
	openFile = browser.OpenFile
	openURL  = browser.OpenURL
)

// redirectMu guards the package level output writers of pkg/browser. It is
// held until the handler returns so its output reaches this Browser.
var redirectMu sync.Mutex

func (b *Browser) open(fn func(string) error, arg string) error {
	out := b.Output
	if out == nil {
		out = io.Discard
	}
	redirectMu.Lock()
	defer redirectMu.Unlock()
	browser.Stdout = out
	browser.Stderr = out
	return fn(arg)
}

// NopOpener ignores every request.
type NopOpener struct{}

// OpenFolder does nothing.
func (NopOpener) OpenFolder(string) error { return nil }

// OpenURL does nothing.
func (NopOpener) OpenURL(string) error { return nil }

// SystemClipboard writes to the operating system clipboard.
type SystemClipboard struct{}

// WriteText replaces the clipboard content with text.
func (SystemClipboard) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnsupported
	}
	return clipboard.WriteAll(text)
}

// MemoryClipboard keeps the last copied text in memory.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

// WriteText stores text.
func (c *MemoryClipboard) WriteText(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// Text returns the last stored text.
func (c *MemoryClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// PNGDataURI encodes PNG data as a data URI so bitmaps can travel through
// a text clipboard.
func PNGDataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
