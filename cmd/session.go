package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/afero"
	"github.com/urfave/cli"
	"github.com/xplore-go/xplore/internal/config"
	"github.com/xplore-go/xplore/internal/store"
	"github.com/xplore-go/xplore/pkg/logger"
	"github.com/xplore-go/xplore/pkg/xapi"
)

var (
	loadConfig           = config.NewConfig
	openStore            = store.Open
	appFs                = afero.NewOsFs()
	logOutput  io.Writer = os.Stderr
)

// session bundles what every command needs: settings, a client and the
// store its cookies come from.
type session struct {
	cfg    *config.Config
	log    logger.Logger
	client *xapi.Client
	store  store.Store
}

func newSession(ctx *cli.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	applyGlobalFlags(ctx, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	l, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	client, err := xapi.NewClient(cfg.ClientOptions(l))
	if err != nil {
		l.Close()
		return nil, err
	}
	opts := cfg.StoreOptions()
	opts.Fs = appFs
	st, err := openStore(opts)
	if err != nil {
		l.Close()
		return nil, err
	}
	return &session{cfg: cfg, log: l, client: client, store: st}, nil
}

// newLogger logs to logOutput and, with a log file configured, to that file
// as well.
func newLogger(cfg *config.Config) (logger.Logger, error) {
	level, _ := logger.ParseLevel(cfg.LogLevel)
	console := logger.NewLeveledLogger(log.New(logOutput, "xplore: ", log.LstdFlags), level)
	if cfg.LogFile == "" {
		return console, nil
	}
	f, err := appFs.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return logger.NewMultiLogger(console, logger.NewFileLogger(f, level)), nil
}

func applyGlobalFlags(ctx *cli.Context, cfg *config.Config) {
	if ctx.GlobalIsSet("proxy") {
		cfg.Proxy = ctx.GlobalString("proxy")
	}
	if ctx.GlobalIsSet("log-level") {
		cfg.LogLevel = ctx.GlobalString("log-level")
	}
	if ctx.GlobalIsSet("log-file") {
		cfg.LogFile = ctx.GlobalString("log-file")
	}
	if ctx.GlobalIsSet("store") {
		cfg.Store.Kind = ctx.GlobalString("store")
	}
	if ctx.GlobalIsSet("config-dir") {
		cfg.ConfigDir = ctx.GlobalString("config-dir")
	}
}

// restore loads the saved cookies into the jar. Without a saved session
// the configured cookie string, if any, seeds the jar instead.
func (s *session) restore(ctx context.Context) error {
	pairs, err := s.store.Load(ctx)
	if err == nil {
		s.client.Jar().BulkReplace(pairs)
		s.log.Debug("restored %d cookies", len(pairs))
		return nil
	}
	if !errors.Is(err, store.ErrNoSession) {
		return err
	}
	if s.cfg.CookieString != "" {
		s.log.Debug("seeding session from cookie string")
		return s.client.SetCookieString(s.cfg.CookieString)
	}
	return nil
}

func (s *session) save(ctx context.Context) error {
	return s.store.Save(ctx, s.client.Jar().Pairs())
}

func (s *session) close() {
	if c, ok := s.store.(io.Closer); ok {
		c.Close()
	}
	s.log.Close()
}

// commandContext is cancelled on interrupt.
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
