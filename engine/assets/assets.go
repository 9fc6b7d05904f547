package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/modelview/engine/core"
)

const DefaultPathTemplate = "/assets/%s"

type LocatorConfig struct {
	// Dir is enumerated for model files when set.
	Dir string
	// Static names are always listed first, in the given order.
	Static []string
	// PathTemplate turns a file name into a URL, e.g. "/assets/%s".
	PathTemplate string
}

// Locator keeps the list of model files the viewer can offer.
type Locator struct {
	config LocatorConfig

	mutex      sync.RWMutex
	static     []string
	discovered map[string]struct{}

	fsnotify *fsnotify.Watcher
	isClosed bool
	done     chan struct{}
}

func NewLocator(config LocatorConfig) (*Locator, error) {
	if config.PathTemplate == "" {
		config.PathTemplate = DefaultPathTemplate
	}

	l := &Locator{
		config:     config,
		discovered: make(map[string]struct{}),
		done:       make(chan struct{}),
	}

	seen := make(map[string]struct{})
	for _, name := range config.Static {
		if Classify(name) == FormatUnknown {
			core.LogWarn("skipping asset '%s': unsupported format", name)
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		l.static = append(l.static, name)
	}

	if config.Dir != "" {
		if err := l.enumerate(); err != nil {
			return nil, err
		}
	}

	if len(l.List()) == 0 {
		core.LogWarn("no model assets found")
	}
	return l, nil
}

// enumerate walks Dir and records every file with a known format.
func (l *Locator) enumerate() error {
	return filepath.WalkDir(l.config.Dir, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		l.handleFileEvent(walkPath)
		return nil
	})
}

// List returns the available file names: static entries first, then the
// discovered ones sorted by name.
func (l *Locator) List() []string {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	out := append([]string(nil), l.static...)
	var extra []string
	for name := range l.discovered {
		if !containsString(l.static, name) {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func (l *Locator) Descriptors() []AssetDescriptor {
	names := l.List()
	out := make([]AssetDescriptor, 0, len(names))
	for _, name := range names {
		out = append(out, Describe(name))
	}
	return out
}

func (l *Locator) Contains(name string) bool {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	if _, ok := l.discovered[name]; ok {
		return true
	}
	return containsString(l.static, name)
}

// Describe returns the descriptor for a listed asset.
func (l *Locator) Describe(name string) (AssetDescriptor, error) {
	if !l.Contains(name) {
		return AssetDescriptor{}, fmt.Errorf("%s: %w", name, core.ErrAssetNotFound)
	}
	return Describe(name), nil
}

// URL derives the asset URL from the configured path template. Every path
// segment of name is escaped so that names holding '#', '%' or '?' survive
// url.Parse in the fetcher.
func (l *Locator) URL(name string) string {
	segments := strings.Split(filepath.ToSlash(name), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf(l.config.PathTemplate, strings.Join(segments, "/"))
}

// FileName returns the unescaped last path segment of an asset URL.
func FileName(assetURL string) string {
	base := path.Base(assetURL)
	if name, err := url.PathUnescape(base); err == nil {
		return name
	}
	return base
}

// PathPrefix is the part of the path template before the file name.
func (l *Locator) PathPrefix() string {
	prefix, _, _ := strings.Cut(l.config.PathTemplate, "%s")
	return prefix
}

// Watch keeps the list in sync with Dir until ctx ends or Close is called.
func (l *Locator) Watch(ctx context.Context) error {
	if l.config.Dir == "" {
		return errors.New("locator has no asset directory to watch")
	}

	l.mutex.Lock()
	if l.isClosed {
		l.mutex.Unlock()
		return errors.New("locator already closed")
	}
	if l.fsnotify != nil {
		l.mutex.Unlock()
		return errors.New("locator already watching")
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		l.mutex.Unlock()
		return err
	}
	l.fsnotify = fsWatch
	l.mutex.Unlock()

	if err := l.watchRecursive(l.config.Dir); err != nil {
		return err
	}

	go l.start(ctx)
	return nil
}

func (l *Locator) Close() error {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if l.isClosed {
		return nil
	}
	l.isClosed = true
	close(l.done)
	if l.fsnotify != nil {
		return l.fsnotify.Close()
	}
	return nil
}

func (l *Locator) start(ctx context.Context) {
	for {
		select {
		case e, ok := <-l.fsnotify.Events:
			if !ok {
				return
			}
			l.handleEvent(e)

		case e, ok := <-l.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher: %s", e.Error())

		case <-ctx.Done():
			_ = l.Close()
			return

		case <-l.done:
			return
		}
	}
}

func (l *Locator) handleEvent(e fsnotify.Event) {
	changed := false

	s, err := os.Stat(e.Name)
	if err == nil && s.IsDir() {
		if e.Op&fsnotify.Create != 0 {
			if err := l.watchRecursive(e.Name); err != nil {
				core.LogWarn("asset watcher: %s", err.Error())
			}
			changed = true
		}
	} else if e.Op&(fsnotify.Create|fsnotify.Write) != 0 {
		changed = l.handleFileEvent(e.Name)
	}

	// A removed path cannot be stat'ed so drop anything under it.
	if e.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		changed = l.removeAsset(e.Name) || changed
	}

	if changed {
		core.EventFire(core.EventContext{
			Type:   core.EVENT_CODE_ASSETS_CHANGED,
			Sender: l,
			Data:   l.List(),
		})
	}
}

// watchRecursive adds path and all directories below it to the watch list and
// records the files already present.
func (l *Locator) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return l.fsnotify.Add(walkPath)
		}
		l.handleFileEvent(walkPath)
		return nil
	})
}

// handleFileEvent records a created or modified file. Returns true when the
// list changed.
func (l *Locator) handleFileEvent(path string) bool {
	name, ok := l.relative(path)
	if !ok || Classify(name) == FormatUnknown {
		return false
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, exists := l.discovered[name]; exists {
		return false
	}
	l.discovered[name] = struct{}{}
	core.LogDebug("asset discovered: %s", name)
	return true
}

// Remove the asset, or every asset under a removed directory, from the index.
func (l *Locator) removeAsset(path string) bool {
	name, ok := l.relative(path)
	if !ok {
		return false
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()

	removed := false
	for existing := range l.discovered {
		if existing == name || strings.HasPrefix(existing, name+"/") {
			delete(l.discovered, existing)
			core.LogDebug("asset removed: %s", existing)
			removed = true
		}
	}
	return removed
}

func (l *Locator) relative(path string) (string, bool) {
	rel, err := filepath.Rel(l.config.Dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
