package prefetch

import (
	"context"
	"log/slog"

	"tgcanon/pkg/canon"
)

// Report summarizes one warm-up pass.
type Report struct {
	Requested int
	Fetched   int
	// Misses lists the peers the fetcher could not resolve.
	Misses []canon.PeerID
}

// Warmer pushes the peer references collected during normalization through a
// Fetcher so the cache is hot before consumers render the messages.
type Warmer struct {
	fetcher Fetcher[canon.PeerID, PeerRecord]
	log     *slog.Logger
}

// NewWarmer builds a Warmer over the given fetcher.
func NewWarmer(fetcher Fetcher[canon.PeerID, PeerRecord], log *slog.Logger) *Warmer {
	if log == nil {
		log = slog.Default()
	}

	return &Warmer{fetcher: fetcher, log: log}
}

// Warm fetches every distinct peer once, in first-seen order. Unresolvable
// peers are reported, not fatal: a miss means the consumer renders a
// placeholder until the peer record arrives.
func (w *Warmer) Warm(ctx context.Context, peers []canon.PeerID) (Report, error) {
	seen := make(map[canon.PeerID]struct{}, len(peers))
	report := Report{}

	for _, peer := range peers {
		if _, ok := seen[peer]; ok {
			continue
		}
		seen[peer] = struct{}{}
		report.Requested++

		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := w.fetcher.Fetch(ctx, peer); err != nil {
			w.log.Debug("peer prefetch miss",
				slog.String("peer", peer.String()), slog.String("error", err.Error()))
			report.Misses = append(report.Misses, peer)
			continue
		}
		report.Fetched++
	}

	return report, nil
}
