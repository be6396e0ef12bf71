//go:build linux

// Package mpris exposes the player on the session bus so media keys and
// desktop widgets can control it.
package mpris

import (
	"github.com/quarckster/go-mpris-server/pkg/server"
	"github.com/sirupsen/logrus"
)

// Adapter connects the playback controller to MPRIS over D-Bus.
type Adapter struct {
	server *server.Server
}

// New creates and starts a new MPRIS adapter.
func New(ctrl Controller, log logrus.FieldLogger) (*Adapter, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Adapter{
		server: server.NewServer("hush", &rootAdapter{}, &playerAdapter{ctrl: ctrl}),
	}

	go func() {
		if err := a.server.Listen(); err != nil {
			log.WithError(err).Warn("mpris server stopped")
		}
	}()

	return a, nil
}

// Close stops the adapter and releases D-Bus resources.
func (a *Adapter) Close() error {
	return a.server.Stop()
}
