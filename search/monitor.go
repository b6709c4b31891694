package search

import "github.com/brightpool/assetvault/core"

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterKeywordSearch(ids []uint64)
	AfterSemanticSearch(ids []uint64)
	KeywordAndSemanticHit(asset *core.Asset)
	KeywordHit(asset *core.Asset)
	SemanticHit(asset *core.Asset)
	Finish(results []*core.RankedAsset)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                        {}
func (n *noopMonitor) AfterKeywordSearch(_ []uint64)         {}
func (n *noopMonitor) AfterSemanticSearch(_ []uint64)        {}
func (n *noopMonitor) KeywordAndSemanticHit(_ *core.Asset)   {}
func (n *noopMonitor) KeywordHit(_ *core.Asset)              {}
func (n *noopMonitor) SemanticHit(_ *core.Asset)             {}
func (n *noopMonitor) Finish(_ []*core.RankedAsset)          {}
