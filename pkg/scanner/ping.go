package scanner

import (
	"context"
	"sync"
	"time"

	"github.com/go-ping/ping"
)

// Pinger abstracts the ping library so liveness probing is testable
// without raw sockets.
type Pinger interface {
	Run() error
	Stop()
	Statistics() *ping.Statistics

	SetPrivileged(bool)
	SetCount(int)
	SetTimeout(time.Duration)
	GetTimeout() time.Duration
}

type pingerFactoryFunc func(addr string) (Pinger, error)

func defaultPingerFactory(addr string) (Pinger, error) {
	p, err := ping.NewPinger(addr)
	if err != nil {
		return nil, err
	}
	return &realPingerAdapter{p: p}, nil
}

// pingHosts probes every target concurrently and returns the subset that
// answered at least one echo request, preserving input order.
func (c *Collector) pingHosts(ctx context.Context, targets []string) []string {
	alive := make([]bool, len(targets))
	var wg sync.WaitGroup
	sem := make(chan struct{}, c.cfg.Concurrency)

	for i, target := range targets {
		select {
		case <-ctx.Done():
			c.logger.Info().Int("checked", i).Msg("Liveness probing canceled")
			wg.Wait()
			return collectAlive(targets, alive)
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, addr string) {
			defer wg.Done()
			defer func() { <-sem }()

			pinger, err := c.pingerFactory(addr)
			if err != nil {
				c.logger.Debug().Str("host", addr).Err(err).Msg("Failed to create pinger")
				return
			}
			pinger.SetPrivileged(c.cfg.Privileged)
			pinger.SetCount(c.cfg.PingCount)
			pinger.SetTimeout(c.cfg.Timeout)

			// Run does not observe the parent context on its own, so stop
			// the pinger when the surrounding operation dies.
			opCtx, opCancel := context.WithTimeout(ctx, pinger.GetTimeout()+500*time.Millisecond)
			defer opCancel()
			go func() {
				<-opCtx.Done()
				pinger.Stop()
			}()

			if err := pinger.Run(); err != nil {
				c.logger.Debug().Str("host", addr).Err(err).Msg("Pinger run failed")
				return
			}
			if stats := pinger.Statistics(); stats.PacketsRecv > 0 {
				alive[idx] = true
			}
		}(i, target)
	}

	wg.Wait()
	return collectAlive(targets, alive)
}

func collectAlive(targets []string, alive []bool) []string {
	var out []string
	for i, ok := range alive {
		if ok {
			out = append(out, targets[i])
		}
	}
	return out
}

// realPingerAdapter wraps github.com/go-ping/ping.Pinger to implement the
// Pinger interface.
type realPingerAdapter struct {
	p *ping.Pinger
}

func (r *realPingerAdapter) Run() error                   { return r.p.Run() }
func (r *realPingerAdapter) Stop()                        { r.p.Stop() }
func (r *realPingerAdapter) Statistics() *ping.Statistics { return r.p.Statistics() }

func (r *realPingerAdapter) SetPrivileged(v bool)       { r.p.SetPrivileged(v) }
func (r *realPingerAdapter) SetCount(n int)             { r.p.Count = n }
func (r *realPingerAdapter) SetTimeout(d time.Duration) { r.p.Timeout = d }
func (r *realPingerAdapter) GetTimeout() time.Duration  { return r.p.Timeout }
