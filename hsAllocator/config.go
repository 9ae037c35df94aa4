package hsAllocator

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// config holds the effective values of the allocator's tunables. Every
// engine file reads through an Allocator's cfg instead of the exported
// HeapPrealloc/MmapThreshold constants directly, so a config file can
// override them for tuning or test harnesses without a rebuild. Alignment
// is never tunable: too much of the descriptor layout assumes 8.
type config struct {
	heapPrealloc  uintptr
	mmapThreshold uintptr
}

func defaultConfig() config {
	return config{heapPrealloc: HeapPrealloc, mmapThreshold: MmapThreshold}
}

// fileConfig is the on-disk shape read by LoadConfig.
type fileConfig struct {
	HeapPreallocBytes  int `json:"heap_prealloc_bytes"`
	MmapThresholdBytes int `json:"mmap_threshold_bytes"`
}

// LoadConfig reads tunable overrides from a JSON file and applies them to
// a. A missing or malformed file is logged and otherwise ignored. A bad
// tuning file must never prevent the allocator from working, so this never
// returns an error for the caller to fumble.
func (a *Allocator) LoadConfig(path string) {
	applyConfigFile(a, path)
}

// WatchConfig behaves like LoadConfig, but keeps watching path for writes
// and re-applies it on every change, for long-running tools that want to
// retune MmapThreshold without a restart. The returned stop function closes the underlying watcher; it is
// always safe to call, and safe to call more than once.
func (a *Allocator) WatchConfig(path string) (stop func(), err error) {
	applyConfigFile(a, path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return func() {}, err
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return func() {}, err
	}

	done := make(chan struct{})
	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					applyConfigFile(a, path)
				}
			case werr, ok := <-watcher.Errors:
				if !ok {
					return
				}
				Error("config watch error for %s: %v", path, werr)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			watcher.Close()
		})
	}, nil
}

func applyConfigFile(a *Allocator, path string) {
	raw, err := os.ReadFile(path)
	if err != nil {
		Error("config: could not read %s, keeping current tunables: %v", path, err)
		return
	}

	var fc fileConfig
	if err := json.Unmarshal(raw, &fc); err != nil {
		Error("config: malformed %s, keeping current tunables: %v", path, err)
		return
	}

	if fc.HeapPreallocBytes > 0 {
		a.cfg.heapPrealloc = roundUp(uintptr(fc.HeapPreallocBytes), Alignment)
	}
	if fc.MmapThresholdBytes > 0 {
		a.cfg.mmapThreshold = roundUp(uintptr(fc.MmapThresholdBytes), Alignment)
	}
	Info("config: applied heap_prealloc=%d mmap_threshold=%d", a.cfg.heapPrealloc, a.cfg.mmapThreshold)
}
