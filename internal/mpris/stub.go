//go:build !linux

// Package mpris exposes the player on the session bus so media keys and
// desktop widgets can control it.
package mpris

import "github.com/sirupsen/logrus"

// Adapter is a no-op on non-Linux platforms.
type Adapter struct{}

// New returns a no-op adapter on non-Linux platforms.
func New(_ Controller, _ logrus.FieldLogger) (*Adapter, error) {
	return &Adapter{}, nil
}

// Close is a no-op on non-Linux platforms.
func (a *Adapter) Close() error {
	return nil
}
