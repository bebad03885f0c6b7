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


package inventory

import (
	"github.com/poiesic/concierge/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalBusinessRecord serializes a BusinessRecord to bytes.
func MarshalBusinessRecord(record *core.BusinessRecord) []byte {
	buf := make([]byte, core.BusinessRecordMUS.Size(*record))
	core.BusinessRecordMUS.Marshal(*record, buf)
	return buf
}

// UnmarshalBusinessRecord deserializes a BusinessRecord from bytes.
func UnmarshalBusinessRecord(data []byte) (*core.BusinessRecord, error) {
	record, _, err := core.BusinessRecordMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// MarshalOffer serializes an Offer to bytes.
func MarshalOffer(offer *core.Offer) []byte {
	buf := make([]byte, core.OfferMUS.Size(*offer))
	core.OfferMUS.Marshal(*offer, buf)
	return buf
}

// UnmarshalOffer deserializes an Offer from bytes.
func UnmarshalOffer(data []byte) (*core.Offer, error) {
	offer, _, err := core.OfferMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

// MarshalEvent serializes an Event to bytes.
func MarshalEvent(event *core.Event) []byte {
	buf := make([]byte, core.EventMUS.Size(*event))
	core.EventMUS.Marshal(*event, buf)
	return buf
}

// UnmarshalEvent deserializes an Event from bytes.
func UnmarshalEvent(data []byte) (*core.Event, error) {
	event, _, err := core.EventMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// MarshalSnippet serializes a KnowledgeSnippet to bytes.
func MarshalSnippet(snippet *core.KnowledgeSnippet) []byte {
	buf := make([]byte, core.KnowledgeSnippetMUS.Size(*snippet))
	core.KnowledgeSnippetMUS.Marshal(*snippet, buf)
	return buf
}

// UnmarshalSnippet deserializes a KnowledgeSnippet from bytes.
func UnmarshalSnippet(data []byte) (*core.KnowledgeSnippet, error) {
	snippet, _, err := core.KnowledgeSnippetMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &snippet, nil
}
