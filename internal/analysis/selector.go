package analysis

import (
	"context"
	"sync/atomic"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

type Prober interface {
	Analyzer
	Probe(ctx context.Context) error
}

// Selector holds the analyzer currently in use. The remote classifier is
// installed only after a successful probe.
type Selector struct {
	remote  Prober
	local   Analyzer
	current atomic.Pointer[analyzerBox]
	probes  atomic.Int64
}

type analyzerBox struct {
	a      Analyzer
	remote bool
}

func NewSelector(remote Prober, local Analyzer) *Selector {
	if local == nil {
		local = NewLocal()
	}
	s := &Selector{remote: remote, local: local}
	s.current.Store(&analyzerBox{a: local})
	return s
}

// Reprobe checks remote capability and swaps the active analyzer.
// It reports whether the remote classifier is active afterwards.
func (s *Selector) Reprobe(ctx context.Context) bool {
	s.probes.Add(1)
	if s.remote == nil {
		return false
	}
	prev := s.current.Load()
	if err := s.remote.Probe(ctx); err != nil {
		s.current.Store(&analyzerBox{a: s.local})
		if prev.remote {
			logutil.GetLogger(ctx).Warn("remote analyzer unreachable, switch to local", zap.String("remote", s.remote.Name()), zap.Error(err))
		} else {
			logutil.GetLogger(ctx).Debug("remote analyzer still unavailable", zap.Error(err))
		}
		return false
	}
	s.current.Store(&analyzerBox{a: NewFallback(s.remote, s.local), remote: true})
	if !prev.remote {
		logutil.GetLogger(ctx).Info("remote analyzer available", zap.String("remote", s.remote.Name()))
	}
	return true
}

func (s *Selector) Current() Analyzer {
	return s.current.Load().a
}

func (s *Selector) RemoteActive() bool {
	return s.current.Load().remote
}

func (s *Selector) Probes() int64 {
	return s.probes.Load()
}
