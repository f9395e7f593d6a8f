package visionfeed

import (
	"context"

	"github.com/park285/boardwatch/pkg/syncdto"
)

// FrameCallback receives every decoded occupancy frame.
type FrameCallback func(frame *syncdto.Frame)

// StateCallback observes connection state transitions.
type StateCallback func(state ConnState)

type ConnState int

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateReconnecting:
		return "reconnecting"
	case StateFailed:
		return "failed"
	default:
		return "disconnected"
	}
}

// Feed is the vision service connection.
type Feed interface {
	Connect(ctx context.Context) error
	OnFrame(cb FrameCallback) int
	RemoveFrameCallback(id int)
	OnStateChange(cb StateCallback) int
	RemoveStateCallback(id int)
	Close(ctx context.Context) error
}
