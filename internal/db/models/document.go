package models

import (
	"encoding/json"
	"fmt"
)

// Group identifies one of the four fixed account partitions ("tabs").
type Group string

const (
	Tab1 Group = "tab1"
	Tab2 Group = "tab2"
	Tab3 Group = "tab3"
	Tab4 Group = "tab4"
)

// Groups lists every group in display order.
var Groups = []Group{Tab1, Tab2, Tab3, Tab4}

// DocumentKey names the whole document in key/value backends, matching the
// browser local-storage key of earlier versions.
const DocumentKey = "bankAccounts"

// DefaultGroup is used by read endpoints when no group is given.
const DefaultGroup = Tab1

// Valid reports whether g is one of the fixed groups.
func (g Group) Valid() bool {
	for _, known := range Groups {
		if g == known {
			return true
		}
	}
	return false
}

// DefaultLabel is the display name used when config does not set one.
func (g Group) DefaultLabel() string {
	for i, known := range Groups {
		if g == known {
			return fmt.Sprintf("Database %d", i+1)
		}
	}
	return string(g)
}

// Document is the whole persisted state: every group with its ordered accounts.
type Document map[Group][]Account

// NewDocument returns a document with all four groups present and empty.
func NewDocument() Document {
	doc := make(Document, len(Groups))
	for _, g := range Groups {
		doc[g] = []Account{}
	}
	return doc
}

// Accounts returns the list for g; unknown or missing groups yield an empty list.
func (d Document) Accounts(g Group) []Account {
	if list, ok := d[g]; ok && list != nil {
		return list
	}
	return []Account{}
}

// Normalize fills in any missing fixed group with an empty list.
func (d Document) Normalize() Document {
	if d == nil {
		return NewDocument()
	}
	for _, g := range Groups {
		if d[g] == nil {
			d[g] = []Account{}
		}
	}
	return d
}

// Clone deep-copies the document so callers can mutate it freely.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for g, list := range d {
		cp := make([]Account, len(list))
		for i, a := range list {
			cp[i] = a.Clone()
		}
		out[g] = cp
	}
	return out
}

// DecodeDocument parses a stored document and normalizes it.
func DecodeDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Normalize(), nil
}

// EncodeDocument renders the document as indented JSON.
func EncodeDocument(doc Document) ([]byte, error) {
	return json.MarshalIndent(doc.Normalize(), "", "  ")
}
