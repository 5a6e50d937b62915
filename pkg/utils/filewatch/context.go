package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// UntilModifyContext derives a context that is canceled once any of the
// target paths is modified (written, created, removed, renamed or chmodded).
//
// # Args
//
// - ctx: parent context.
//
// - path ...string: paths to be watched. Watching a directory covers its
// direct entries.
//
// # Returns
//
// - context.Context: canceled at the first modification. Its cause
// (context.Cause) names the modified path and the operation.
//
// - func(): stop watching and release the watcher.
//
// - error: error caused when it fails to start watching.
// If error is not nil, both of the context and the cancel function are nil.
func UntilModifyContext(ctx context.Context, path ...string) (context.Context, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	cctx, cancel := context.WithCancelCause(ctx)
	for _, p := range path {
		if err := watcher.Add(p); err != nil {
			cancel(err)
			watcher.Close()
			return nil, nil, err
		}
	}

	go func() {
		defer watcher.Close()

		select {
		case <-cctx.Done():
		case event, ok := <-watcher.Events:
			if ok {
				cancel(fmt.Errorf("%s is updated (%s)", event.Name, event.Op))
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
