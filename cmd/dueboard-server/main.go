package main

import (
	"context"
	"flag"

	"dueboard/lib/configutil"
	"dueboard/lib/serviceutil"
	"dueboard/lib/telemetry"
	"dueboard/services/deadlines"
	"dueboard/services/httpapi"
	"dueboard/services/ingest"
	"dueboard/services/notifier"

	"golang.org/x/sync/errgroup"
)

type Config struct {
	Http     HttpConfig     `json:"http"`
	Store    StoreConfig    `json:"store"`
	Ingest   IngestConfig   `json:"ingest"`
	Notifier NotifierConfig `json:"notifier"`
}

type HttpConfig struct {
	Port        int    `json:"port"`
	AuthEnabled bool   `json:"auth_enabled"`
	AuthToken   string `json:"auth_token"`
}

type IngestConfig struct {
	DropDir           string `json:"drop_dir"`
	RemoveAfterIngest bool   `json:"remove_after_ingest"`
}

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(*verbose)
	tel, err := telemetry.SetupFromEnv(ctx, "dueboard-server")
	if err != nil {
		serviceutil.Fatal("setup telemetry", err)
	}
	defer tel.Shutdown(context.Background())

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Http.Port == 0 {
		cfg.Http.Port = 8000
	}

	store, err := OpenStore(cfg.Store)
	if err != nil {
		serviceutil.Fatal("open store", err)
	}
	defer store.Close()

	engine := deadlines.NewService(store, deadlines.Options{})

	delivery, err := InitNotifier(cfg.Notifier)
	if err != nil {
		serviceutil.Fatal("init notifier", err)
	}
	scheduler := notifier.NewService(engine, delivery, notifier.Options{
		TickInterval: cfg.Notifier.TickInterval(),
	})

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		engine.RunSweepDaemon(ctx)
		return nil
	})
	group.Go(func() error {
		scheduler.RunDaemon(ctx)
		return nil
	})
	if cfg.Ingest.DropDir != "" {
		watcher := ingest.NewService(engine, ingest.Options{
			DropDir:           cfg.Ingest.DropDir,
			RemoveAfterIngest: cfg.Ingest.RemoveAfterIngest,
		})
		group.Go(func() error {
			return watcher.Watch(ctx)
		})
	}
	group.Go(func() error {
		router := httpapi.NewRouter(engine, cfg.Http.AuthEnabled, cfg.Http.AuthToken)
		return serviceutil.StartHttpServer(ctx, cfg.Http.Port, router)
	})

	err = group.Wait()
	if err != nil {
		serviceutil.Fatal("server exited", err)
	}
}
