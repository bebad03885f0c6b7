package resolve

import "github.com/poiesic/concierge/core"

// ResolveMonitor provides hooks to observe the resolution process.
// Implement this interface to track intermediate steps during a resolve.
type ResolveMonitor interface {
	Start(query, city string)
	AfterTierFetch(tier core.Tier, count int)
	FetchFailed(source string, err error)
	AfterSemanticSearch(hits int)
	AfterScoring(candidates, relevant int)
	TierPromoted(fromTier core.Tier)
	Finish(resolution *Resolution)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                  {}
func (n *noopMonitor) AfterTierFetch(_ core.Tier, _ int)  {}
func (n *noopMonitor) FetchFailed(_ string, _ error)      {}
func (n *noopMonitor) AfterSemanticSearch(_ int)          {}
func (n *noopMonitor) AfterScoring(_, _ int)              {}
func (n *noopMonitor) TierPromoted(_ core.Tier)           {}
func (n *noopMonitor) Finish(_ *Resolution)               {}
