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


package core

// Hand-written MUS serializers for the stored domain types.
// Field order is part of the on-disk format; append new fields at the end.

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// IDMUS serializes IDs as varint-encoded uint64 values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

// timeMUS serializes timestamps as Unix microseconds.
type timeMUS struct{}

func (timeMUS) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeMUS) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeMUS) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

var timeSer = timeMUS{}

// locationMUS serializes an optional Location as a presence flag plus coordinates.
type locationMUS struct{}

func (locationMUS) Marshal(loc *Location, bs []byte) (n int) {
	n = ord.Bool.Marshal(loc != nil, bs)
	if loc == nil {
		return n
	}
	n += varint.Float64.Marshal(loc.Lat, bs[n:])
	n += varint.Float64.Marshal(loc.Lng, bs[n:])
	return n
}

func (locationMUS) Unmarshal(bs []byte) (*Location, int, error) {
	present, n, err := ord.Bool.Unmarshal(bs)
	if err != nil || !present {
		return nil, n, err
	}
	loc := &Location{}
	var n1 int
	loc.Lat, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	loc.Lng, n1, err = varint.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return nil, n, err
	}
	return loc, n, nil
}

func (locationMUS) Size(loc *Location) (size int) {
	size = ord.Bool.Size(loc != nil)
	if loc != nil {
		size += varint.Float64.Size(loc.Lat)
		size += varint.Float64.Size(loc.Lng)
	}
	return size
}

var locationSer = locationMUS{}

// hoursMUS serializes opening hours as a length-prefixed list of
// (day, open, close) triples. Only canonical lowercase weekday keys are
// stored; the count prefix covers exactly the entries emitted, so a map
// carrying stray keys still round-trips.
type hoursMUS struct{}

func (hoursMUS) Marshal(h Hours, bs []byte) (n int) {
	n = varint.Int.Marshal(canonicalHourCount(h), bs)
	for _, day := range weekdayOrder {
		window, ok := h[day]
		if !ok {
			continue
		}
		n += ord.String.Marshal(day, bs[n:])
		n += ord.String.Marshal(window.Open, bs[n:])
		n += ord.String.Marshal(window.Close, bs[n:])
	}
	return n
}

func (hoursMUS) Unmarshal(bs []byte) (Hours, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}
	h := make(Hours, count)
	for i := 0; i < count; i++ {
		var day, open, close string
		var n1 int
		day, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		open, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		close, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
		h[day] = DayHours{Open: open, Close: close}
	}
	return h, n, nil
}

func (hoursMUS) Size(h Hours) (size int) {
	size = varint.Int.Size(canonicalHourCount(h))
	for _, day := range weekdayOrder {
		window, ok := h[day]
		if !ok {
			continue
		}
		size += ord.String.Size(day)
		size += ord.String.Size(window.Open)
		size += ord.String.Size(window.Close)
	}
	return size
}

var hoursSer = hoursMUS{}

// weekdayOrder fixes map iteration order so marshaling is deterministic.
var weekdayOrder = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func canonicalHourCount(h Hours) int {
	count := 0
	for _, day := range weekdayOrder {
		if _, ok := h[day]; ok {
			count++
		}
	}
	return count
}

// vectorMUS serializes embedding vectors as length-prefixed float32 lists.
type vectorMUS struct{}

func (vectorMUS) Marshal(v []float32, bs []byte) (n int) {
	n = varint.Int.Marshal(len(v), bs)
	for _, f := range v {
		n += varint.Float32.Marshal(f, bs[n:])
	}
	return n
}

func (vectorMUS) Unmarshal(bs []byte) ([]float32, int, error) {
	count, n, err := varint.Int.Unmarshal(bs)
	if err != nil {
		return nil, n, err
	}
	if count == 0 {
		return nil, n, nil
	}
	v := make([]float32, count)
	for i := 0; i < count; i++ {
		var n1 int
		v[i], n1, err = varint.Float32.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return nil, n, err
		}
	}
	return v, n, nil
}

func (vectorMUS) Size(v []float32) (size int) {
	size = varint.Int.Size(len(v))
	for _, f := range v {
		size += varint.Float32.Size(f)
	}
	return size
}

var vectorSer = vectorMUS{}

// BusinessRecordMUS serializes BusinessRecord values.
var BusinessRecordMUS = businessRecordMUS{}

type businessRecordMUS struct{}

func (businessRecordMUS) Marshal(r BusinessRecord, bs []byte) (n int) {
	n = IDMUS.Marshal(r.Id, bs)
	n += ord.String.Marshal(r.Name, bs[n:])
	n += ord.String.Marshal(r.Category, bs[n:])
	n += ord.String.Marshal(r.SystemCategory, bs[n:])
	n += ord.String.Marshal(r.DisplayCategory, bs[n:])
	n += ord.String.Marshal(r.Tagline, bs[n:])
	n += ord.String.Marshal(r.Description, bs[n:])
	n += ord.String.Marshal(r.City, bs[n:])
	n += locationSer.Marshal(r.Location, bs[n:])
	n += varint.Float64.Marshal(r.Rating, bs[n:])
	n += varint.Int.Marshal(r.ReviewCount, bs[n:])
	n += hoursSer.Marshal(r.Hours, bs[n:])
	n += ord.String.Marshal(r.Phone, bs[n:])
	n += ord.String.Marshal(r.Website, bs[n:])
	n += varint.Int.Marshal(int(r.Tier), bs[n:])
	n += timeSer.Marshal(r.InsertedAt, bs[n:])
	n += timeSer.Marshal(r.UpdatedAt, bs[n:])
	return n
}

func (businessRecordMUS) Unmarshal(bs []byte) (r BusinessRecord, n int, err error) {
	var n1 int
	if r.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return r, n1, err
	}
	n = n1
	strs := []*string{
		&r.Name, &r.Category, &r.SystemCategory, &r.DisplayCategory,
		&r.Tagline, &r.Description, &r.City,
	}
	for _, s := range strs {
		if *s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return r, n + n1, err
		}
		n += n1
	}
	if r.Location, n1, err = locationSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Rating, n1, err = varint.Float64.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.ReviewCount, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Hours, n1, err = hoursSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Phone, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.Website, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	var tier int
	if tier, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	r.Tier = Tier(tier)
	n += n1
	if r.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	if r.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return r, n + n1, err
	}
	n += n1
	return r, n, nil
}

func (businessRecordMUS) Size(r BusinessRecord) (size int) {
	size = IDMUS.Size(r.Id)
	size += ord.String.Size(r.Name)
	size += ord.String.Size(r.Category)
	size += ord.String.Size(r.SystemCategory)
	size += ord.String.Size(r.DisplayCategory)
	size += ord.String.Size(r.Tagline)
	size += ord.String.Size(r.Description)
	size += ord.String.Size(r.City)
	size += locationSer.Size(r.Location)
	size += varint.Float64.Size(r.Rating)
	size += varint.Int.Size(r.ReviewCount)
	size += hoursSer.Size(r.Hours)
	size += ord.String.Size(r.Phone)
	size += ord.String.Size(r.Website)
	size += varint.Int.Size(int(r.Tier))
	size += timeSer.Size(r.InsertedAt)
	size += timeSer.Size(r.UpdatedAt)
	return size
}

// OfferMUS serializes Offer values.
var OfferMUS = offerMUS{}

type offerMUS struct{}

func (offerMUS) Marshal(o Offer, bs []byte) (n int) {
	n = IDMUS.Marshal(o.Id, bs)
	n += IDMUS.Marshal(o.BusinessId, bs[n:])
	n += ord.String.Marshal(o.BusinessName, bs[n:])
	n += ord.String.Marshal(o.City, bs[n:])
	n += ord.String.Marshal(o.Title, bs[n:])
	n += ord.String.Marshal(o.Description, bs[n:])
	n += ord.String.Marshal(o.Discount, bs[n:])
	n += timeSer.Marshal(o.ValidUntil, bs[n:])
	n += ord.Bool.Marshal(o.Approved, bs[n:])
	n += timeSer.Marshal(o.InsertedAt, bs[n:])
	n += timeSer.Marshal(o.UpdatedAt, bs[n:])
	return n
}

func (offerMUS) Unmarshal(bs []byte) (o Offer, n int, err error) {
	var n1 int
	if o.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return o, n1, err
	}
	n = n1
	if o.BusinessId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return o, n + n1, err
	}
	n += n1
	strs := []*string{&o.BusinessName, &o.City, &o.Title, &o.Description, &o.Discount}
	for _, s := range strs {
		if *s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return o, n + n1, err
		}
		n += n1
	}
	if o.ValidUntil, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return o, n + n1, err
	}
	n += n1
	if o.Approved, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return o, n + n1, err
	}
	n += n1
	if o.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return o, n + n1, err
	}
	n += n1
	if o.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return o, n + n1, err
	}
	n += n1
	return o, n, nil
}

func (offerMUS) Size(o Offer) (size int) {
	size = IDMUS.Size(o.Id)
	size += IDMUS.Size(o.BusinessId)
	size += ord.String.Size(o.BusinessName)
	size += ord.String.Size(o.City)
	size += ord.String.Size(o.Title)
	size += ord.String.Size(o.Description)
	size += ord.String.Size(o.Discount)
	size += timeSer.Size(o.ValidUntil)
	size += ord.Bool.Size(o.Approved)
	size += timeSer.Size(o.InsertedAt)
	size += timeSer.Size(o.UpdatedAt)
	return size
}

// EventMUS serializes Event values.
var EventMUS = eventMUS{}

type eventMUS struct{}

func (eventMUS) Marshal(e Event, bs []byte) (n int) {
	n = IDMUS.Marshal(e.Id, bs)
	n += IDMUS.Marshal(e.BusinessId, bs[n:])
	n += ord.String.Marshal(e.BusinessName, bs[n:])
	n += ord.String.Marshal(e.City, bs[n:])
	n += ord.String.Marshal(e.Title, bs[n:])
	n += ord.String.Marshal(e.Description, bs[n:])
	n += ord.String.Marshal(e.Venue, bs[n:])
	n += timeSer.Marshal(e.Starts, bs[n:])
	n += ord.Bool.Marshal(e.Approved, bs[n:])
	n += timeSer.Marshal(e.InsertedAt, bs[n:])
	n += timeSer.Marshal(e.UpdatedAt, bs[n:])
	return n
}

func (eventMUS) Unmarshal(bs []byte) (e Event, n int, err error) {
	var n1 int
	if e.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return e, n1, err
	}
	n = n1
	if e.BusinessId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	strs := []*string{&e.BusinessName, &e.City, &e.Title, &e.Description, &e.Venue}
	for _, s := range strs {
		if *s, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return e, n + n1, err
		}
		n += n1
	}
	if e.Starts, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.Approved, n1, err = ord.Bool.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	if e.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return e, n + n1, err
	}
	n += n1
	return e, n, nil
}

func (eventMUS) Size(e Event) (size int) {
	size = IDMUS.Size(e.Id)
	size += IDMUS.Size(e.BusinessId)
	size += ord.String.Size(e.BusinessName)
	size += ord.String.Size(e.City)
	size += ord.String.Size(e.Title)
	size += ord.String.Size(e.Description)
	size += ord.String.Size(e.Venue)
	size += timeSer.Size(e.Starts)
	size += ord.Bool.Size(e.Approved)
	size += timeSer.Size(e.InsertedAt)
	size += timeSer.Size(e.UpdatedAt)
	return size
}

// KnowledgeSnippetMUS serializes KnowledgeSnippet values.
// Similarity is per-query state and is not stored.
var KnowledgeSnippetMUS = knowledgeSnippetMUS{}

type knowledgeSnippetMUS struct{}

func (knowledgeSnippetMUS) Marshal(s KnowledgeSnippet, bs []byte) (n int) {
	n = IDMUS.Marshal(s.Id, bs)
	n += IDMUS.Marshal(s.BusinessId, bs[n:])
	n += ord.String.Marshal(s.City, bs[n:])
	n += ord.String.Marshal(s.Title, bs[n:])
	n += ord.String.Marshal(s.Content, bs[n:])
	n += ord.String.Marshal(string(s.Type), bs[n:])
	n += vectorSer.Marshal(s.Vector, bs[n:])
	n += timeSer.Marshal(s.InsertedAt, bs[n:])
	n += timeSer.Marshal(s.UpdatedAt, bs[n:])
	return n
}

func (knowledgeSnippetMUS) Unmarshal(bs []byte) (s KnowledgeSnippet, n int, err error) {
	var n1 int
	if s.Id, n1, err = IDMUS.Unmarshal(bs); err != nil {
		return s, n1, err
	}
	n = n1
	if s.BusinessId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	strs := []*string{&s.City, &s.Title, &s.Content}
	for _, p := range strs {
		if *p, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return s, n + n1, err
		}
		n += n1
	}
	var typ string
	if typ, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	s.Type = KnowledgeType(typ)
	n += n1
	if s.Vector, n1, err = vectorSer.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.InsertedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	if s.UpdatedAt, n1, err = timeSer.Unmarshal(bs[n:]); err != nil {
		return s, n + n1, err
	}
	n += n1
	return s, n, nil
}

func (knowledgeSnippetMUS) Size(s KnowledgeSnippet) (size int) {
	size = IDMUS.Size(s.Id)
	size += IDMUS.Size(s.BusinessId)
	size += ord.String.Size(s.City)
	size += ord.String.Size(s.Title)
	size += ord.String.Size(s.Content)
	size += ord.String.Size(string(s.Type))
	size += vectorSer.Size(s.Vector)
	size += timeSer.Size(s.InsertedAt)
	size += timeSer.Size(s.UpdatedAt)
	return size
}
