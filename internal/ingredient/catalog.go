package ingredient

import (
	"context"
	"sort"
	"strings"
	"unicode/utf8"
)

// MinReverseMatchRunes is the shortest token that may match by being
// contained in a longer catalog name. Shorter fragments are OCR noise.
const MinReverseMatchRunes = 3

// Catalog is an immutable, ordered snapshot of ingredient records.
type Catalog struct {
	entries []catalogEntry
}

type catalogEntry struct {
	record Record
	// names holds the lowercased canonical name followed by the lowercased aliases.
	names []string
}

// NewCatalog builds a snapshot ordered by ascending record ID. Records with
// equal IDs keep their input order.
func NewCatalog(records []Record) *Catalog {
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	entries := make([]catalogEntry, 0, len(sorted))
	for _, record := range sorted {
		names := make([]string, 0, len(record.Aliases)+1)
		for _, name := range append([]string{record.CanonicalName}, record.Aliases...) {
			lowered := strings.ToLower(strings.TrimSpace(name))
			if lowered == "" {
				continue
			}
			names = append(names, lowered)
		}
		entries = append(entries, catalogEntry{record: record, names: names})
	}
	return &Catalog{entries: entries}
}

// Snapshot lets a fixed Catalog act as a Provider.
func (c *Catalog) Snapshot(context.Context) (*Catalog, error) {
	return c, nil
}

// Len reports the number of records in the snapshot.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Records returns the records in catalog order.
func (c *Catalog) Records() []Record {
	if c == nil {
		return nil
	}
	records := make([]Record, 0, len(c.entries))
	for _, entry := range c.entries {
		records = append(records, entry.record)
	}
	return records
}

// Match resolves each token to at most one record. Tokens without a match
// are dropped; the result follows token order.
func (c *Catalog) Match(tokens []string) []Record {
	matched := make([]Record, 0, len(tokens))
	for _, token := range tokens {
		if record, ok := c.MatchToken(token); ok {
			matched = append(matched, record)
		}
	}
	return matched
}

// MatchToken finds the record whose canonical name or alias overlaps the
// token the most. A name overlaps by its own length when it is contained in
// the token and by the token's length when the token is contained in it.
// Ties go to the earlier record, and within a record to the canonical name.
func (c *Catalog) MatchToken(token string) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	needle := strings.ToLower(strings.TrimSpace(token))
	if needle == "" {
		return Record{}, false
	}
	needleLen := utf8.RuneCountInString(needle)

	best := -1
	bestOverlap := 0
	for idx, entry := range c.entries {
		for _, name := range entry.names {
			overlap := 0
			switch {
			case strings.Contains(needle, name):
				overlap = utf8.RuneCountInString(name)
			case needleLen >= MinReverseMatchRunes && strings.Contains(name, needle):
				overlap = needleLen
			}
			if overlap > bestOverlap {
				best = idx
				bestOverlap = overlap
			}
		}
	}
	if best < 0 {
		return Record{}, false
	}
	return c.entries[best].record, true
}

// Search returns records whose canonical name or any alias contains query,
// ignoring case. A blank query returns every record.
func (c *Catalog) Search(query string) []Record {
	if c == nil {
		return nil
	}
	needle := strings.ToLower(strings.TrimSpace(query))
	results := make([]Record, 0)
	for _, entry := range c.entries {
		if needle == "" {
			results = append(results, entry.record)
			continue
		}
		for _, name := range entry.names {
			if strings.Contains(name, needle) {
				results = append(results, entry.record)
				break
			}
		}
	}
	return results
}

// Lookup returns the record with the given ID.
func (c *Catalog) Lookup(id uint) (Record, bool) {
	if c == nil {
		return Record{}, false
	}
	for _, entry := range c.entries {
		if entry.record.ID == id {
			return entry.record, true
		}
	}
	return Record{}, false
}
