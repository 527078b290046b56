package xdcli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"oss.terrastruct.com/xdsketch/lib/xmain"
)

const (
	// settle is the quiet period after the last event before a recompile.
	settle = 16 * time.Millisecond
	// rescan is how often modification times are compared, for editors that replace
	// files without the watch noticing.
	rescan = 10 * time.Second

	maxRetry = 16 * time.Second
)

// watcher recompiles whenever one of the inputs changes. A failed compile is logged and the
// previous output kept.
type watcher struct {
	ms   *xmain.State
	opts compileOpts

	fw      *fsnotify.Watcher
	modTime map[string]time.Time
	pending map[string]struct{}
	runs    int
}

func newWatcher(ms *xmain.State, opts compileOpts) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &watcher{
		ms:      ms,
		opts:    opts,
		fw:      fw,
		modTime: make(map[string]time.Time),
		pending: make(map[string]struct{}),
	}, nil
}

// run returns when ctx is done or the file system watch breaks.
func (w *watcher) run(ctx context.Context) (err error) {
	defer func() {
		if cerr := w.fw.Close(); err == nil {
			err = cerr
		}
	}()

	for _, fp := range w.opts.inputPaths {
		mt, err := w.watch(ctx, fp)
		if err != nil {
			return err
		}
		w.modTime[fp] = mt
	}
	w.ms.Log.Info.Printf("compiling %s...", humanPaths(w.ms, w.opts.inputPaths))
	w.recompile(ctx)

	debounce := time.NewTimer(settle)
	if !debounce.Stop() {
		<-debounce.C
	}
	ticker := time.NewTicker(rescan)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fw.Events:
			if !ok {
				return errors.New("file system watch closed")
			}
			w.ms.Log.Debug.Printf("file system event %v", ev)
			changed, err := w.touched(ctx, ev.Name, ev.Op == fsnotify.Chmod)
			if err != nil {
				return err
			}
			if changed {
				w.pending[ev.Name] = struct{}{}
				debounce.Reset(settle)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return errors.New("file system watch closed")
			}
			w.ms.Log.Error.Printf("file system watch: %v", err)
		case <-debounce.C:
			if len(w.pending) == 0 {
				continue
			}
			changed := maps.Keys(w.pending)
			slices.Sort(changed)
			w.pending = make(map[string]struct{})
			w.ms.Log.Info.Printf("%s changed: recompiling...", humanPaths(w.ms, changed))
			w.recompile(ctx)
		case <-ticker.C:
			stale := false
			for _, fp := range w.opts.inputPaths {
				changed, err := w.touched(ctx, fp, true)
				if err != nil {
					return err
				}
				stale = stale || changed
			}
			if stale {
				w.recompile(ctx)
			}
		}
	}
}

// touched rewatches fp and reports whether its content may have changed. With byTime, only
// a new modification time counts as a change, as for a Chmod event or a rescan.
func (w *watcher) touched(ctx context.Context, fp string, byTime bool) (bool, error) {
	mt, err := w.watch(ctx, fp)
	if err != nil {
		return false, err
	}
	last, seen := w.modTime[fp]
	w.modTime[fp] = mt
	if byTime {
		return !seen || !mt.Equal(last), nil
	}
	return true, nil
}

// watch adds fp to the watch list and returns its modification time. An editor replacing
// fp can make it vanish for a moment, so failures are retried with backoff until ctx is
// done.
func (w *watcher) watch(ctx context.Context, fp string) (time.Time, error) {
	wait := settle
	for {
		err := w.fw.Add(fp)
		if err == nil {
			var fi os.FileInfo
			fi, err = os.Stat(fp)
			if err == nil {
				return fi.ModTime(), nil
			}
		}
		if wait >= time.Second {
			w.ms.Log.Warn.Printf("failed to watch %s, retrying in %v: %v", w.ms.HumanPath(fp), wait, err)
		}

		t := time.NewTimer(wait)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return time.Time{}, ctx.Err()
		}
		switch {
		case wait < time.Second:
			wait = time.Second
		case wait < maxRetry:
			wait *= 2
		}
	}
}

func (w *watcher) recompile(ctx context.Context) {
	prefix := ""
	if w.runs > 0 {
		prefix = "re"
	}
	w.runs++
	if err := compile(ctx, w.ms, w.opts); err != nil {
		w.ms.Log.Error.Printf("failed to %scompile: %v", prefix, err)
	}
}
