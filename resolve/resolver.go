// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package resolve orchestrates a single turn's data gathering and ranking:
// parallel tier fetches, semantic search, scoring, and tier promotion.
package resolve

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/concierge/ai"
	"github.com/poiesic/concierge/core"
	"github.com/poiesic/concierge/geo"
	"github.com/poiesic/concierge/inventory"
	"github.com/poiesic/concierge/query"
	"github.com/poiesic/concierge/rank"
)

const (
	// browseFillTarget is how many results a browse turn pads up to.
	browseFillTarget = 8

	// relevanceFloor is the minimum score for a candidate to count toward
	// top-tier sufficiency.
	relevanceFloor = 2.0

	// strongMatchFloor is the score at least one top-tier candidate must
	// reach for the tier to keep primary placement.
	strongMatchFloor = 3.5

	// sufficientCount is how many top-tier candidates must clear the
	// relevance floor.
	sufficientCount = 2

	// supplementLimit caps lower-tier supplements when the top tier holds.
	supplementLimit = 2

	// primaryLimit caps the primary list after tier promotion.
	primaryLimit = 3

	// moreOptionsLimit caps the secondary "more options" list.
	moreOptionsLimit = 5

	// semanticFetchCount and semanticFetchThreshold control the snippet
	// fetch. The threshold sits below the scorer's override point so
	// borderline evidence still reaches the scorer.
	semanticFetchCount     = 20
	semanticFetchThreshold = 0.60
)

// Request carries one turn's resolution inputs.
type Request struct {
	Query        string
	City         string
	UserLocation *core.Location
	Intent       *core.IntentResult
	Facets       query.Facets
	Browse       core.BrowseMode
	BrowseOffset int
}

// Resolution is the ranked outcome of a resolve.
type Resolution struct {
	// Primaries are the businesses the answer leads with.
	Primaries []*core.ScoredBusiness

	// Supplements are secondary "more options" mentions.
	Supplements []*core.ScoredBusiness

	// Promoted is true when lower tiers took primary placement because
	// the top tier had no sufficiently relevant candidates.
	Promoted bool

	// Browse is true when the turn ran in browse mode.
	Browse bool

	// NextBrowseOffset is the pagination offset to store for a
	// subsequent "more" request.
	NextBrowseOffset int

	// AvailableOffers is the count of approved offers in the city.
	AvailableOffers int

	// SemanticHits are the raw snippets the semantic provider returned.
	SemanticHits []*core.KnowledgeSnippet
}

// Resolver gathers and ranks candidates for a turn.
type Resolver struct {
	businesses inventory.BusinessStore
	offers     inventory.OfferStore
	searcher   ai.SemanticSearcher
	pool       *ants.Pool
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithPoolSize sets the worker pool size for parallel fetches.
// Default is 8.
func WithPoolSize(size int) Option {
	return func(r *Resolver) error {
		if size < 1 {
			size = 1
		}
		if r.pool != nil {
			r.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		r.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithClock overrides the time source. Used by tests exercising the
// open-now metadata.
func WithClock(now func() time.Time) Option {
	return func(r *Resolver) error {
		if now != nil {
			r.now = now
		}
		return nil
	}
}

// NewResolver creates a resolver over the given stores and searcher.
func NewResolver(
	businesses inventory.BusinessStore,
	offers inventory.OfferStore,
	searcher ai.SemanticSearcher,
	opts ...Option,
) (*Resolver, error) {
	if businesses == nil {
		return nil, ErrBusinessStoreRequired
	}
	if offers == nil {
		return nil, ErrOfferStoreRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}

	pool, err := ants.NewPool(8)
	if err != nil {
		return nil, err
	}

	r := &Resolver{
		businesses: businesses,
		offers:     offers,
		searcher:   searcher,
		pool:       pool,
		logger:     slog.Default().With("component", "resolver"),
		now:        func() time.Time { return time.Now().UTC() },
	}

	for _, opt := range opts {
		if optErr := opt(r); optErr != nil {
			r.Release()
			return nil, optErr
		}
	}

	return r, nil
}

// Release releases the worker pool.
// The resolver should not be used after calling Release.
func (r *Resolver) Release() {
	if r.pool != nil {
		r.pool.Release()
	}
}

// Resolve gathers and ranks candidates for the request.
func (r *Resolver) Resolve(ctx context.Context, req *Request) (*Resolution, error) {
	return r.ResolveWithMonitor(ctx, req, nil)
}

// ResolveWithMonitor resolves with observation hooks.
// The monitor receives callbacks at each stage of the resolution.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, req *Request, monitor ResolveMonitor) (*Resolution, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if req.City == "" {
		return nil, ErrCityRequired
	}

	monitor.Start(req.Query, req.City)

	fetched := r.fetchAll(ctx, req, monitor)

	if req.Browse.Active() || !req.Intent.HasIntent() {
		resolution := r.resolveBrowse(req, fetched)
		monitor.Finish(resolution)
		return resolution, nil
	}

	resolution := r.resolveIntent(req, fetched, monitor)
	monitor.Finish(resolution)
	return resolution, nil
}

// fetchResult collects the outcome of the parallel fetch phase.
type fetchResult struct {
	tiers      map[core.Tier][]*core.BusinessRecord
	snippets   []*core.KnowledgeSnippet
	offerCount int
}

// fetchAll runs the tier, semantic, and offer-count reads in parallel.
// A failed source degrades to empty rather than failing the turn.
func (r *Resolver) fetchAll(ctx context.Context, req *Request, monitor ResolveMonitor) *fetchResult {
	result := &fetchResult{
		tiers: make(map[core.Tier][]*core.BusinessRecord, len(core.AllTiers)),
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	run := func(task func()) {
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			task()
		}); err != nil {
			wg.Done()
			r.logger.Warn("fetch task rejected, running inline", "err", err)
			task()
		}
	}

	for _, tier := range core.AllTiers {
		run(func() {
			records, err := r.businesses.ListByTier(ctx, req.City, tier)
			if err != nil {
				r.logger.Warn("tier fetch failed", "tier", tier, "city", req.City, "err", err)
				monitor.FetchFailed("tier:"+tier.String(), err)
				return
			}
			mu.Lock()
			result.tiers[tier] = records
			mu.Unlock()
			monitor.AfterTierFetch(tier, len(records))
		})
	}

	// Semantic search only feeds intent scoring; browse mode fills by
	// popularity and never consults it.
	if !req.Browse.Active() && req.Intent.HasIntent() {
		run(func() {
			snippets, err := r.searcher.Search(ctx, req.Query, req.City, semanticFetchCount, semanticFetchThreshold)
			if err != nil {
				r.logger.Warn("semantic search failed", "city", req.City, "err", err)
				monitor.FetchFailed("semantic", err)
				return
			}
			mu.Lock()
			result.snippets = snippets
			mu.Unlock()
			monitor.AfterSemanticSearch(len(snippets))
		})
	}

	run(func() {
		count, err := r.offers.CountApprovedOffers(ctx, req.City)
		if err != nil {
			r.logger.Warn("offer count failed", "city", req.City, "err", err)
			monitor.FetchFailed("offers", err)
			return
		}
		mu.Lock()
		result.offerCount = count
		mu.Unlock()
	})

	wg.Wait()
	return result
}

// resolveBrowse pads the result set to the fill target by popularity.
// No relevance filtering applies.
func (r *Resolver) resolveBrowse(req *Request, fetched *fetchResult) *Resolution {
	commercial := dedupe(append(
		append([]*core.BusinessRecord{}, fetched.tiers[core.TierPaid]...),
		fetched.tiers[core.TierClaimedFree]...))

	unclaimed := append([]*core.BusinessRecord{}, fetched.tiers[core.TierUnclaimed]...)
	sort.Slice(unclaimed, func(i, j int) bool {
		return popularityLess(unclaimed[i], unclaimed[j])
	})

	offset := 0
	if req.Browse == core.BrowseMore {
		offset = req.BrowseOffset
	}
	if offset > len(unclaimed) {
		offset = len(unclaimed)
	}

	picked := commercial
	taken := 0
	for _, b := range unclaimed[offset:] {
		if len(picked) >= browseFillTarget {
			break
		}
		picked = append(picked, b)
		taken++
	}

	scored := r.attach(picked, req)
	sort.SliceStable(scored, func(i, j int) bool {
		return browseLess(scored[i], scored[j])
	})

	return &Resolution{
		Primaries:        scored,
		Browse:           true,
		NextBrowseOffset: offset + taken,
		AvailableOffers:  fetched.offerCount,
		SemanticHits:     fetched.snippets,
	}
}

// resolveIntent scores every candidate and applies the tier sufficiency
// test to decide placement.
func (r *Resolver) resolveIntent(req *Request, fetched *fetchResult, monitor ResolveMonitor) *Resolution {
	all := dedupe(append(
		append(
			append([]*core.BusinessRecord{}, fetched.tiers[core.TierPaid]...),
			fetched.tiers[core.TierClaimedFree]...),
		fetched.tiers[core.TierUnclaimed]...))

	byBusiness := snippetsByBusiness(fetched.snippets)

	relevant := make([]*core.ScoredBusiness, 0, len(all))
	for _, b := range all {
		knowledgeText, similarity := bestEvidence(byBusiness[b.Id])
		score := rank.Score(b, req.Intent, knowledgeText, similarity, req.Facets)
		if score <= 0 {
			continue
		}
		relevant = append(relevant, &core.ScoredBusiness{
			Business:   b,
			Score:      score,
			Similarity: similarity,
			Knowledge:  knowledgeText,
		})
	}
	monitor.AfterScoring(len(all), len(relevant))

	sort.SliceStable(relevant, func(i, j int) bool {
		return intentLess(relevant[i], relevant[j], req.UserLocation)
	})

	resolution := &Resolution{
		AvailableOffers: fetched.offerCount,
		SemanticHits:    fetched.snippets,
	}

	var topTier, lower []*core.ScoredBusiness
	for _, sb := range relevant {
		if sb.Business.Tier == core.TierPaid {
			topTier = append(topTier, sb)
		} else {
			lower = append(lower, sb)
		}
	}

	if tierSufficient(topTier) {
		resolution.Primaries = topTier
		if len(lower) > supplementLimit {
			lower = lower[:supplementLimit]
		}
		resolution.Supplements = lower
	} else {
		// Top tier can't answer this: promote whatever is relevant,
		// regardless of tier, so paid placement never buries a better
		// match.
		resolution.Promoted = len(relevant) > 0 && len(lower) > 0
		if resolution.Promoted {
			monitor.TierPromoted(lower[0].Business.Tier)
		}
		primaries := relevant
		if len(primaries) > primaryLimit {
			resolution.Supplements = primaries[primaryLimit:]
			primaries = primaries[:primaryLimit]
			if len(resolution.Supplements) > moreOptionsLimit {
				resolution.Supplements = resolution.Supplements[:moreOptionsLimit]
			}
		}
		resolution.Primaries = primaries
	}

	r.decorate(resolution, req)
	return resolution
}

// tierSufficient reports whether the top tier keeps primary placement.
func tierSufficient(topTier []*core.ScoredBusiness) bool {
	relevantCount := 0
	strong := false
	for _, sb := range topTier {
		if sb.Score >= relevanceFloor {
			relevantCount++
		}
		if sb.Score >= strongMatchFloor {
			strong = true
		}
	}
	return relevantCount >= sufficientCount && strong
}

// attach wraps plain records as scored businesses for browse results.
func (r *Resolver) attach(records []*core.BusinessRecord, req *Request) []*core.ScoredBusiness {
	scored := make([]*core.ScoredBusiness, len(records))
	for i, b := range records {
		scored[i] = &core.ScoredBusiness{Business: b}
	}
	r.decorateScored(scored, req)
	return scored
}

// decorate attaches reason tags and meta to every result in a resolution.
func (r *Resolver) decorate(resolution *Resolution, req *Request) {
	combined := append(append([]*core.ScoredBusiness{}, resolution.Primaries...), resolution.Supplements...)
	r.decorateScored(combined, req)
}

func (r *Resolver) decorateScored(scored []*core.ScoredBusiness, req *Request) {
	siblings := make([]*core.BusinessRecord, len(scored))
	for i, sb := range scored {
		siblings[i] = sb.Business
	}
	now := r.now()
	for _, sb := range scored {
		sb.Reason = rank.Tag(sb.Business, req.UserLocation, siblings, now)
		sb.Meta = rank.Meta(sb.Business, req.UserLocation, now)
	}
}

// snippetsByBusiness groups snippets by their owning business.
// City-wide snippets (BusinessId 0) carry no per-business evidence.
func snippetsByBusiness(snippets []*core.KnowledgeSnippet) map[core.ID][]*core.KnowledgeSnippet {
	grouped := make(map[core.ID][]*core.KnowledgeSnippet)
	for _, snippet := range snippets {
		if snippet.BusinessId == 0 {
			continue
		}
		grouped[snippet.BusinessId] = append(grouped[snippet.BusinessId], snippet)
	}
	return grouped
}

// bestEvidence picks the strongest snippet for a business and merges the
// snippet text for keyword matching.
func bestEvidence(snippets []*core.KnowledgeSnippet) (string, float64) {
	if len(snippets) == 0 {
		return "", 0
	}
	var best float64
	var parts []string
	for _, snippet := range snippets {
		if snippet.Similarity > best {
			best = snippet.Similarity
		}
		parts = append(parts, snippet.Title, snippet.Content)
	}
	return strings.Join(parts, " "), best
}

// dedupe keeps one record per ID, preferring the higher-priority tier.
func dedupe(records []*core.BusinessRecord) []*core.BusinessRecord {
	seen := make(map[core.ID]*core.BusinessRecord, len(records))
	order := make([]core.ID, 0, len(records))
	for _, b := range records {
		existing, ok := seen[b.Id]
		if !ok {
			seen[b.Id] = b
			order = append(order, b.Id)
			continue
		}
		if b.Tier.Priority() < existing.Tier.Priority() {
			seen[b.Id] = b
		}
	}
	out := make([]*core.BusinessRecord, 0, len(order))
	for _, id := range order {
		out = append(out, seen[id])
	}
	return out
}

// popularityLess orders by rating desc, review count desc, name asc.
func popularityLess(a, b *core.BusinessRecord) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	if a.ReviewCount != b.ReviewCount {
		return a.ReviewCount > b.ReviewCount
	}
	return a.Name < b.Name
}

// browseLess orders browse results: rating desc, tier priority asc,
// distance asc.
func browseLess(a, b *core.ScoredBusiness) bool {
	if a.Business.Rating != b.Business.Rating {
		return a.Business.Rating > b.Business.Rating
	}
	if a.Business.Tier != b.Business.Tier {
		return a.Business.Tier.Priority() < b.Business.Tier.Priority()
	}
	return distanceOf(a) < distanceOf(b)
}

// intentLess orders intent results: score desc, tier priority asc,
// rating desc, distance asc.
func intentLess(a, b *core.ScoredBusiness, userLoc *core.Location) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if a.Business.Tier != b.Business.Tier {
		return a.Business.Tier.Priority() < b.Business.Tier.Priority()
	}
	if a.Business.Rating != b.Business.Rating {
		return a.Business.Rating > b.Business.Rating
	}
	return recordDistance(a.Business, userLoc) < recordDistance(b.Business, userLoc)
}

func distanceOf(sb *core.ScoredBusiness) float64 {
	if sb.Meta.DistanceMeters >= 0 {
		return sb.Meta.DistanceMeters
	}
	return geoUnknown
}

const geoUnknown = 1e12

func recordDistance(b *core.BusinessRecord, userLoc *core.Location) float64 {
	if userLoc == nil || b.Location == nil {
		return geoUnknown
	}
	return geo.Distance(*userLoc, *b.Location)
}
