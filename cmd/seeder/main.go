package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/concierge"
	"github.com/poiesic/concierge/core"
)

var (
	dbPath   = flag.String("db", "./concierge_db", "path to BadgerDB database directory")
	city     = flag.String("city", "Harborview", "city to seed")
	runEmbed = flag.Bool("embed", false, "embed knowledge snippets after seeding (requires a running embedding host)")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func businesses(city string) []*core.BusinessRecord {
	return []*core.BusinessRecord{
		{Name: "Olympia Greek Grill", Category: "Greek Restaurant", DisplayCategory: "Greek Taverna",
			Tagline: "Charcoal souvlaki and family recipes", City: city, Tier: core.TierPaid,
			Rating: 4.6, ReviewCount: 214, Phone: "555-0101", Website: "https://olympiagrill.example",
			Location: &core.Location{Lat: 47.6097, Lng: -122.3331}},
		{Name: "The Copper Kettle", Category: "Cafe", DisplayCategory: "Specialty Coffee",
			Tagline: "Single-origin roasts, all-day brunch", City: city, Tier: core.TierPaid,
			Rating: 4.4, ReviewCount: 388, Phone: "555-0102", Website: "https://copperkettle.example",
			Location: &core.Location{Lat: 47.6081, Lng: -122.3352}},
		{Name: "Bambino's Pizzeria", Category: "Pizza Restaurant",
			Tagline: "Wood-fired Neapolitan pies", City: city, Tier: core.TierPaid,
			Rating: 4.5, ReviewCount: 156, Phone: "555-0103",
			Location: &core.Location{Lat: 47.6122, Lng: -122.3301}},
		{Name: "Harbor Thai Kitchen", Category: "Thai Restaurant", City: city,
			Tier: core.TierClaimedFree, Rating: 4.3, ReviewCount: 97, Phone: "555-0104",
			Location: &core.Location{Lat: 47.6069, Lng: -122.3401}},
		{Name: "Green Fork", Category: "Vegetarian Restaurant", City: city,
			Tier: core.TierClaimedFree, Rating: 4.7, ReviewCount: 68,
			Location: &core.Location{Lat: 47.6103, Lng: -122.3365}},
		{Name: "Athens Corner", Category: "Greek Restaurant", City: city,
			Tier: core.TierUnclaimed, Rating: 4.8, ReviewCount: 83,
			Location: &core.Location{Lat: 47.6055, Lng: -122.3322}},
		{Name: "The Anchor", Category: "Pub", City: city,
			Tier: core.TierUnclaimed, Rating: 4.2, ReviewCount: 301,
			Location: &core.Location{Lat: 47.6041, Lng: -122.3389}},
		{Name: "Sakura Sushi Bar", Category: "Sushi Restaurant", City: city,
			Tier: core.TierUnclaimed, Rating: 4.6, ReviewCount: 142,
			Location: &core.Location{Lat: 47.6117, Lng: -122.3344}},
		{Name: "Mornings Bakery", Category: "Bakery", City: city,
			Tier: core.TierUnclaimed, Rating: 4.9, ReviewCount: 57,
			Location: &core.Location{Lat: 47.6088, Lng: -122.3312}},
		{Name: "La Cantina", Category: "Mexican Restaurant", City: city,
			Tier: core.TierUnclaimed, Rating: 4.1, ReviewCount: 203,
			Location: &core.Location{Lat: 47.6073, Lng: -122.3356}},
	}
}

func offers(city string) []*core.Offer {
	return []*core.Offer{
		{BusinessName: "Olympia Greek Grill", City: city, Title: "Weekday lunch special",
			Description: "Any gyro plate with a drink", Discount: "20% off mains",
			ValidUntil: time.Now().AddDate(0, 1, 0), Approved: true},
		{BusinessName: "The Copper Kettle", City: city, Title: "Early bird brunch",
			Discount:   "2 for 1 pastries before 9am",
			ValidUntil: time.Now().AddDate(0, 0, 14), Approved: true},
		{BusinessName: "Bambino's Pizzeria", City: city, Title: "Family night",
			Discount:   "Free garlic bread with two pizzas",
			ValidUntil: time.Now().AddDate(0, 0, 30), Approved: false},
	}
}

func events(city string) []*core.Event {
	nextFriday := time.Now().AddDate(0, 0, (int(time.Friday)-int(time.Now().Weekday())+7)%7)
	return []*core.Event{
		{BusinessName: "The Anchor", City: city, Title: "Quiz Night", Venue: "The Anchor",
			Description: "Weekly pub quiz, teams of up to six",
			Starts:      nextFriday.Add(19 * time.Hour), Approved: true},
		{BusinessName: "Olympia Greek Grill", City: city, Title: "Live Bouzouki Evening",
			Venue:  "Olympia Greek Grill",
			Starts: nextFriday.AddDate(0, 0, 1).Add(20 * time.Hour), Approved: true},
	}
}

// snippets returns city knowledge keyed by business name; the caller links
// the stored business IDs before writing.
func snippets(city string) map[string][]*core.KnowledgeSnippet {
	return map[string][]*core.KnowledgeSnippet{
		"Olympia Greek Grill": {
			{City: city, Title: "Gluten-free menu", Type: core.KnowledgeMenu,
				Content: "Dedicated gluten-free fryer and a full gluten-free menu including pita."},
		},
		"Athens Corner": {
			{City: city, Title: "Hidden gem", Type: core.KnowledgeGeneral,
				Content: "Tiny family-run spot; the slow-roasted lamb sells out most evenings."},
		},
		"Green Fork": {
			{City: city, Title: "Vegan options", Type: core.KnowledgeMenu,
				Content: "Fully plant-based kitchen with seasonal tasting plates and oat-milk desserts."},
		},
		"The Anchor": {
			{City: city, Title: "Dog friendly", Type: core.KnowledgeGeneral,
				Content: "Dogs welcome in the back garden; water bowls and treats at the bar."},
		},
		"Harbor Thai Kitchen": {
			{City: city, Title: "Spice levels", Type: core.KnowledgeGeneral,
				Content: "Ask for Thai-hot only if you mean it. Mild versions of every curry available."},
		},
	}
}

func main() {
	assistant, err := concierge.Open(*dbPath)
	if err != nil {
		panic(err)
	}
	defer assistant.Close()

	ctx := context.Background()

	records, err := assistant.BusinessStore().PutBusinesses(ctx, businesses(*city)...)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded businesses", "count", len(records), "city", *city)

	byName := make(map[string]core.ID, len(records))
	for _, record := range records {
		byName[record.Name] = record.Id
	}

	offerRows := offers(*city)
	for _, offer := range offerRows {
		offer.BusinessId = byName[offer.BusinessName]
	}
	if _, err := assistant.OfferStore().PutOffers(ctx, offerRows...); err != nil {
		panic(err)
	}
	slog.Info("seeded offers", "count", len(offerRows))

	eventRows := events(*city)
	for _, event := range eventRows {
		event.BusinessId = byName[event.BusinessName]
	}
	if _, err := assistant.EventStore().PutEvents(ctx, eventRows...); err != nil {
		panic(err)
	}
	slog.Info("seeded events", "count", len(eventRows))

	var snippetRows []*core.KnowledgeSnippet
	for name, rows := range snippets(*city) {
		for _, snippet := range rows {
			snippet.BusinessId = byName[name]
			snippetRows = append(snippetRows, snippet)
		}
	}
	if _, err := assistant.SnippetStore().PutSnippets(ctx, snippetRows...); err != nil {
		panic(err)
	}
	slog.Info("seeded snippets", "count", len(snippetRows))

	if *runEmbed {
		pipeline, err := assistant.NewKnowledgePipeline()
		if err != nil {
			panic(err)
		}
		defer pipeline.Release()

		count, err := pipeline.EmbedCity(ctx, *city)
		if err != nil {
			panic(err)
		}
		slog.Info("embedded snippets", "count", count)
	}
}
