package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/Whale619/novel-site/site"
	"github.com/Whale619/novel-site/state"
)

const shutdownTimeout = 5 * time.Second

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("serve")

	dir := cmd.Args().Get(0)
	if len(dir) == 0 {
		dir = site.DefaultDestination(env.Cfg.Site.Title)
	}
	if dir, err = filepath.Abs(dir); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Mailformed command line, too many sites", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}
	if listen := cmd.String("listen"); len(listen) > 0 {
		env.Cfg.Server.Listen = listen
	}

	var events *Broadcaster
	src := cmd.String("watch")
	if len(src) > 0 {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
		// site is regenerated from source, whatever was there is replaced
		env.Overwrite = true
		if _, err := site.Build(ctx, src, dir, log); err != nil {
			return fmt.Errorf("unable to build site: %w", err)
		}
		events = NewBroadcaster()
	}

	srv, err := New(dir, env.Cfg, events, log)
	if err != nil {
		return fmt.Errorf("unable to serve site: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	if events != nil {
		var mu sync.Mutex
		rebuild := func() {
			mu.Lock()
			defer mu.Unlock()
			log.Info("Rebuilding site", zap.String("source", src))
			if _, err := site.Build(ctx, src, dir, log); err != nil {
				log.Error("Unable to rebuild site", zap.Error(err))
				return
			}
			events.Broadcast(reloadMsg)
		}
		wg.Go(func() {
			if err := Watch(ctx, src, env.Cfg.Server.WatchDebounce, rebuild, log); err != nil {
				log.Error("Watching stopped", zap.Error(err))
			}
		})
	}

	hs := &http.Server{
		Addr:              env.Cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// open event streams end with the program
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	wg.Go(func() {
		<-ctx.Done()
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		if err := hs.Shutdown(sctx); err != nil {
			log.Warn("Unable to shutdown server cleanly", zap.Error(err))
		}
	})

	log.Info("Serving site", zap.String("site", dir), zap.String("listen", "http://"+env.Cfg.Server.Listen))
	err = hs.ListenAndServe()
	cancel()
	wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
