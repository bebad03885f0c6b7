package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessRecordRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	record := BusinessRecord{
		Id:              IDFromContent("smoke & barrel"),
		Name:            "Smoke & Barrel",
		Category:        "BBQ Restaurant",
		SystemCategory:  "restaurant_bbq",
		DisplayCategory: "Barbecue",
		Tagline:         "Low and slow since 2011",
		City:            "harborview",
		Location:        &Location{Lat: 51.5033, Lng: -0.1196},
		Rating:          4.7,
		ReviewCount:     412,
		Hours: Hours{
			"monday": {Open: "11:00", Close: "22:00"},
			"friday": {Open: "11:00", Close: "23:30"},
		},
		Phone:      "+44 20 7946 0812",
		Website:    "https://smokeandbarrel.example",
		Tier:       TierPaid,
		InsertedAt: now,
		UpdatedAt:  now,
	}

	buf := make([]byte, BusinessRecordMUS.Size(record))
	n := BusinessRecordMUS.Marshal(record, buf)
	assert.Equal(t, len(buf), n)

	got, read, err := BusinessRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, record, got)
}

func TestBusinessRecordRoundTrip_SparseRecord(t *testing.T) {
	// Directory feeds often lack location, hours and contact data.
	record := BusinessRecord{
		Name: "Corner Bakery",
		City: "harborview",
		Tier: TierUnclaimed,
	}

	buf := make([]byte, BusinessRecordMUS.Size(record))
	BusinessRecordMUS.Marshal(record, buf)

	got, _, err := BusinessRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, got.Location)
	assert.Nil(t, got.Hours)
	assert.Equal(t, record.Name, got.Name)
}

func TestBusinessRecordRoundTrip_NonCanonicalHoursKey(t *testing.T) {
	// Feeds sometimes deliver capitalized day names. Only canonical
	// lowercase keys are stored, and the record stays readable.
	record := BusinessRecord{
		Name: "Daybreak Diner",
		City: "harborview",
		Tier: TierClaimedFree,
		Hours: Hours{
			"Monday":  {Open: "07:00", Close: "14:00"},
			"tuesday": {Open: "07:00", Close: "14:00"},
		},
	}

	buf := make([]byte, BusinessRecordMUS.Size(record))
	n := BusinessRecordMUS.Marshal(record, buf)
	assert.Equal(t, len(buf), n)

	got, read, err := BusinessRecordMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, n, read)
	assert.Equal(t, Hours{"tuesday": {Open: "07:00", Close: "14:00"}}, got.Hours)
}

func TestOfferRoundTrip(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	offer := Offer{
		Id:           IDFromContent("offer:ribs"),
		BusinessId:   IDFromContent("smoke & barrel"),
		BusinessName: "Smoke & Barrel",
		City:         "harborview",
		Title:        "Rib Tuesday",
		Discount:     "20% off full racks",
		ValidUntil:   now.Add(72 * time.Hour),
		Approved:     true,
		InsertedAt:   now,
		UpdatedAt:    now,
	}

	buf := make([]byte, OfferMUS.Size(offer))
	OfferMUS.Marshal(offer, buf)

	got, _, err := OfferMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, offer, got)
}

func TestSnippetRoundTrip(t *testing.T) {
	snippet := KnowledgeSnippet{
		Id:         IDFromContent("snippet:menu"),
		BusinessId: IDFromContent("smoke & barrel"),
		City:       "harborview",
		Title:      "Menu highlights",
		Content:    "Slow-smoked ribs, burnt ends, vegan jackfruit bun",
		Type:       KnowledgeMenu,
		Vector:     []float32{0.12, -0.5, 0.83},
	}

	buf := make([]byte, KnowledgeSnippetMUS.Size(snippet))
	KnowledgeSnippetMUS.Marshal(snippet, buf)

	got, _, err := KnowledgeSnippetMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, snippet.Content, got.Content)
	assert.Equal(t, snippet.Vector, got.Vector)
	// Similarity is query-time state and is not stored.
	assert.Zero(t, got.Similarity)
}

func TestEventRoundTrip(t *testing.T) {
	event := Event{
		Id:           IDFromContent("event:quiz"),
		BusinessName: "The Brass Lantern",
		City:         "harborview",
		Title:        "Quiz night",
		Venue:        "Back room",
		Starts:       time.Now().UTC().Truncate(time.Microsecond).Add(48 * time.Hour),
		Approved:     true,
	}

	buf := make([]byte, EventMUS.Size(event))
	EventMUS.Marshal(event, buf)

	got, _, err := EventMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, event, got)
}
