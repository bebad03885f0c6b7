package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Tier is the commercial status of a business record.
// Lower priority values are shown first.
type Tier int

const (
	// TierPaid is a business on a paid subscription.
	TierPaid Tier = iota + 1
	// TierClaimedFree is a business claimed by its owner on the free plan.
	TierClaimedFree
	// TierUnclaimed is a public directory entry nobody has claimed.
	TierUnclaimed
)

// Priority returns the ranking priority of the tier. Lower sorts first.
func (t Tier) Priority() int {
	return int(t)
}

func (t Tier) String() string {
	switch t {
	case TierPaid:
		return "paid"
	case TierClaimedFree:
		return "claimed_free"
	case TierUnclaimed:
		return "unclaimed"
	default:
		return "unknown"
	}
}

// AllTiers lists every tier in priority order.
var AllTiers = []Tier{TierPaid, TierClaimedFree, TierUnclaimed}

// ParseTier converts a tier name to a Tier value.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return TierPaid, nil
	case "claimed_free", "claimed":
		return TierClaimedFree, nil
	case "unclaimed", "":
		return TierUnclaimed, nil
	default:
		return 0, ErrInvalidTier
	}
}

// Location is a WGS84 coordinate pair.
type Location struct {
	Lat float64
	Lng float64
}

// DayHours is an opening window for a single weekday, in "15:04" form.
// An empty Open means the business is closed that day.
type DayHours struct {
	Open  string
	Close string
}

// Hours maps lowercase weekday names ("monday"…"sunday") to opening windows.
// Days without an entry are treated as closed.
type Hours map[string]DayHours

// BusinessRecord is a directory entry for a local business.
type BusinessRecord struct {
	Id              ID
	Name            string
	Category        string // raw category from the source feed
	SystemCategory  string // normalized category used for matching
	DisplayCategory string // human-facing category label
	Tagline         string
	Description     string
	City            string
	Location        *Location
	Rating          float64
	ReviewCount     int
	Hours           Hours
	Phone           string
	Website         string
	Tier            Tier // derived from the subscription source, never inferred here
	InsertedAt      time.Time
	UpdatedAt       time.Time
}

// CategoryText returns every category form joined for keyword matching.
func (b *BusinessRecord) CategoryText() string {
	return strings.ToLower(b.Category + " " + b.SystemCategory + " " + b.DisplayCategory)
}

// KnowledgeType tags the kind of content a knowledge snippet carries.
type KnowledgeType string

const (
	KnowledgeMenu    KnowledgeType = "menu"
	KnowledgeOffer   KnowledgeType = "offer"
	KnowledgeEvent   KnowledgeType = "event"
	KnowledgeGeneral KnowledgeType = "general"
)

// KnowledgeSnippet is free-text content associated with zero or one business.
// A zero BusinessId marks a city-wide snippet. Snippets are fetched per query
// by the semantic provider and never persisted by the query core.
type KnowledgeSnippet struct {
	Id         ID
	BusinessId ID // 0 = city-wide
	City       string
	Title      string
	Content    string
	Type       KnowledgeType
	Similarity float64 // populated by the semantic provider, in [0,1]
	Vector     []float32
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Offer is an authoritative promotional offer row.
// Only approved offers are ever shown to users.
type Offer struct {
	Id           ID
	BusinessId   ID
	BusinessName string
	City         string
	Title        string
	Description  string
	Discount     string // e.g. "20% off mains"
	ValidUntil   time.Time
	Approved     bool
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// Event is an authoritative event row.
type Event struct {
	Id           ID
	BusinessId   ID
	BusinessName string
	City         string
	Title        string
	Description  string
	Venue        string
	Starts       time.Time
	Approved     bool
	InsertedAt   time.Time
	UpdatedAt    time.Time
}

// IntentResult is the outcome of lexical intent detection on a query.
type IntentResult struct {
	Categories []string // matched canonical categories
	Keywords   []string // matched attribute keywords
	Negated    []string // categories the user explicitly excluded
	Confidence float64
}

// HasIntent reports whether any category or keyword was detected.
// Without intent the scorer falls back to semantic evidence only.
func (r *IntentResult) HasIntent() bool {
	return r != nil && (len(r.Categories) > 0 || len(r.Keywords) > 0)
}

// BrowseMode classifies a turn's browse behaviour.
type BrowseMode int

const (
	// BrowseOff means the query is a targeted request.
	BrowseOff BrowseMode = iota
	// BrowseNew means the query starts a fresh browse ("show me all cafes").
	BrowseNew
	// BrowseMore means the query continues the previous browse ("more", "next").
	BrowseMore
)

// Active reports whether the turn runs in browse-fill mode.
func (m BrowseMode) Active() bool {
	return m == BrowseNew || m == BrowseMore
}

// ReasonType identifies why a business is shown.
type ReasonType string

const (
	ReasonSponsored     ReasonType = "sponsored"
	ReasonFeatured      ReasonType = "featured"
	ReasonPerfectRating ReasonType = "perfect_rating"
	ReasonTopRated      ReasonType = "top_rated"
	ReasonMostReviewed  ReasonType = "most_reviewed"
	ReasonClosest       ReasonType = "closest"
	ReasonNearby        ReasonType = "nearby"
	ReasonHighlyRated   ReasonType = "highly_rated"
	ReasonHiddenGem     ReasonType = "hidden_gem"
	ReasonOpenNow       ReasonType = "open_now"
	ReasonSolidChoice   ReasonType = "solid_choice"
	ReasonLocalSpot     ReasonType = "local_spot"
)

// ReasonTag is the single "why this result" label attached to a business
// for one turn.
type ReasonTag struct {
	Type  ReasonType
	Label string
}

// ResultMeta carries presentation metadata for one result.
// It is always well-formed: DistanceMeters is -1 when unknown and
// OpenNow is false when hours are missing.
type ResultMeta struct {
	OpenNow        bool
	DistanceMeters float64
	RatingBadge    string
}

// ScoredBusiness is a candidate business with its per-turn relevance score,
// reason tag and presentation metadata. A score of zero means excluded,
// not merely low priority.
type ScoredBusiness struct {
	Business   *BusinessRecord
	Score      float64
	Similarity float64 // best semantic similarity backing the score, if any
	Knowledge  string  // free-text evidence used during scoring, if any
	Reason     ReasonTag
	Meta       ResultMeta
}
