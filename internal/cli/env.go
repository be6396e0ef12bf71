package cli

import (
	"context"
	"errors"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/llehouerou/hush/internal/assets"
	"github.com/llehouerou/hush/internal/auth"
	"github.com/llehouerou/hush/internal/config"
	"github.com/llehouerou/hush/internal/icons"
	"github.com/llehouerou/hush/internal/launch"
	"github.com/llehouerou/hush/internal/log"
	"github.com/llehouerou/hush/internal/mpris"
	"github.com/llehouerou/hush/internal/notify"
	"github.com/llehouerou/hush/internal/playback"
	"github.com/llehouerou/hush/internal/player"
	"github.com/llehouerou/hush/internal/sound"
	"github.com/llehouerou/hush/internal/store"
)

// env is the wired application shared by every command.
type env struct {
	cfg      *config.Config
	log      *logrus.Logger
	store    *store.Store
	session  *auth.Session
	catalog  *sound.Catalog
	resolver *assets.Resolver
	ctrl     *playback.Controller
	launcher *launch.Launcher
	desktop  *notify.Desktop
	mpris    *mpris.Adapter

	closers []io.Closer
}

type envOptions struct {
	// audio wires the engine, controller and system integrations.
	audio bool
}

func newEnv(ctx context.Context, opts envOptions) (_ *env, err error) {
	e := &env{catalog: sound.Default()}
	defer func() {
		if err != nil {
			e.Close()
		}
	}()

	e.cfg, err = config.Load()
	if err != nil {
		return nil, err
	}
	if iconsFlag != "" {
		e.cfg.Icons = iconsFlag
	}
	icons.Init(e.cfg.Icons)

	logCfg := e.cfg.GetLogConfig()
	if logLevelFlag != "" {
		logCfg.Level = logLevelFlag
	}
	logger, logFile, err := log.Setup(log.Options{Level: logCfg.Level, File: logCfg.File})
	if err != nil {
		return nil, err
	}
	e.log = logger
	e.closers = append(e.closers, logFile)

	e.store, err = store.OpenDefault()
	if err != nil {
		return nil, err
	}
	e.closers = append(e.closers, e.store)

	e.session, err = auth.NewSession(ctx, e.store)
	if err != nil {
		return nil, err
	}
	e.session.Subscribe(func(userID string, signedIn bool) {
		e.log.WithFields(logrus.Fields{"user": userID, "signed_in": signedIn}).Info("session changed")
	})

	if !opts.audio {
		return e, nil
	}

	storage := e.cfg.GetStorageConfig()
	e.resolver = assets.New(assets.Config{
		Bucket:   storage.Bucket,
		BaseURL:  storage.BaseURL,
		CacheDir: storage.CacheDir,
		Logger:   e.log,
	})
	e.closers = append(e.closers, e.resolver)

	audio := e.cfg.GetAudioConfig()
	engine := player.NewBeepEngine(player.EngineConfig{
		SampleRate: audio.SampleRate,
		Buffer:     audio.Buffer(),
		Logger:     e.log,
	})
	e.ctrl = playback.New(engine, playback.Options{
		History:  e.store,
		Identity: e.session,
		Logger:   e.log,
	})
	e.closers = append(e.closers, e.ctrl)

	volumes, err := e.store.Volumes(ctx)
	if err != nil {
		e.log.WithError(err).Warn("load volumes failed")
	}
	for id, level := range volumes {
		e.ctrl.SetVolume(id, level)
	}

	e.launcher = launch.New(e.ctrl, e.resolver, e.log)

	if e.cfg.NotificationsEnabled() {
		n, nerr := notify.New()
		if nerr != nil {
			e.log.WithError(nerr).Warn("desktop notifications unavailable")
		} else {
			e.desktop = notify.NewDesktop(n, e.log)
		}
	}

	e.mpris, err = mpris.New(e.ctrl, e.log)
	if err != nil {
		e.log.WithError(err).Warn("mpris unavailable")
	} else {
		e.closers = append(e.closers, e.mpris)
	}

	return e, nil
}

func (e *env) timerMinutes() int {
	return e.cfg.GetTimerConfig().DefaultMinutes
}

// userID returns the signed-in user or an error telling how to sign in.
func (e *env) userID() (string, error) {
	id, ok := e.session.UserID()
	if !ok {
		return "", errNotSignedIn
	}
	return id, nil
}

// Close releases everything in reverse order of acquisition.
func (e *env) Close() error {
	if e.desktop != nil {
		e.desktop.Dismiss()
	}
	var errs []error
	for i := len(e.closers) - 1; i >= 0; i-- {
		if err := e.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.closers = nil
	return errors.Join(errs...)
}

var errNotSignedIn = errors.New("not signed in, run 'hush login <user>' first")
