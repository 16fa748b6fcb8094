// Package store provides the bidirectional external⇄short ID mapping, the
// per-document field-length tables and their running averages, and
// optional verbatim field storage for search results.
package store

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sync"

	lexerrors "github.com/gcbaptista/lexidex/internal/errors"
	"github.com/gcbaptista/lexidex/model"
)

func init() {
	gob.Register([]interface{}{})
	gob.Register(map[string]interface{}{})
	gob.Register([]string{})
	gob.Register(float64(0))
	gob.Register(false)
}

// fieldAccumulator tracks the running sum and live-document count behind
// one field's average length, per invariant 4 (the mean is recomputed
// incrementally rather than recomputed from scratch on every query).
type fieldAccumulator struct {
	Sum   int
	Count int
}

func (a fieldAccumulator) average() float64 {
	if a.Count == 0 {
		return 0
	}
	return float64(a.Sum) / float64(a.Count)
}

// DocStore is the bookkeeping satellite to the InvertedIndex: it owns the
// external-ID↔short-ID mapping, per-(short_id,field_id) lengths, each
// field's running average length, and optionally stored field values.
type DocStore struct {
	Mu sync.RWMutex

	numFields int

	externalToShort map[string]uint32
	shortToExternal map[uint32]string
	nextShortID     uint32

	fieldLength map[uint32][]int
	fieldAvg    []fieldAccumulator

	storedFields map[uint32]model.Document
}

// New returns an empty DocStore declared over numFields fields.
func New(numFields int) *DocStore {
	return &DocStore{
		numFields:       numFields,
		externalToShort: make(map[string]uint32),
		shortToExternal: make(map[uint32]string),
		fieldLength:     make(map[uint32][]int),
		fieldAvg:        make([]fieldAccumulator, numFields),
		storedFields:    make(map[uint32]model.Document),
	}
}

// Allocate assigns a fresh short ID to externalID. Returns DuplicateIDError
// if externalID is already live.
func (ds *DocStore) Allocate(externalID string) (uint32, error) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	if _, exists := ds.externalToShort[externalID]; exists {
		return 0, lexerrors.NewDuplicateIDError(externalID)
	}

	id := ds.nextShortID
	ds.nextShortID++
	ds.externalToShort[externalID] = id
	ds.shortToExternal[id] = externalID
	return id, nil
}

// ShortID looks up the short ID currently assigned to an external ID.
func (ds *DocStore) ShortID(externalID string) (uint32, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	id, ok := ds.externalToShort[externalID]
	return id, ok
}

// ExternalID looks up the external ID currently assigned to a short ID.
// False once the document has been discarded or removed.
func (ds *DocStore) ExternalID(shortID uint32) (string, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	ext, ok := ds.shortToExternal[shortID]
	return ext, ok
}

// IsLive reports whether shortID still has a current external-ID mapping
// (invariant 3: live short IDs are exactly those counted in documents_count).
func (ds *DocStore) IsLive(shortID uint32) bool {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	_, ok := ds.shortToExternal[shortID]
	return ok
}

// DocumentsCount returns the number of live documents.
func (ds *DocStore) DocumentsCount() int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return len(ds.shortToExternal)
}

// NextShortID returns the short ID that would be allocated next.
func (ds *DocStore) NextShortID() uint32 {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	return ds.nextShortID
}

// SetFieldLength records the unique-token length a field produced for a
// document, folding it into that field's running average (invariant 4/5).
// Safe to call only once per (shortID, fieldID) during a single add.
func (ds *DocStore) SetFieldLength(shortID uint32, fieldID, length int) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	lengths, ok := ds.fieldLength[shortID]
	if !ok {
		lengths = make([]int, ds.numFields)
		ds.fieldLength[shortID] = lengths
	}
	lengths[fieldID] = length

	if length > 0 {
		ds.fieldAvg[fieldID].Sum += length
		ds.fieldAvg[fieldID].Count++
	}
}

// FieldLength returns the length recorded for (shortID, fieldID), or 0 if
// none was recorded (the field produced no tokens, or the document is
// discarded).
func (ds *DocStore) FieldLength(shortID uint32, fieldID int) int {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	lengths, ok := ds.fieldLength[shortID]
	if !ok || fieldID >= len(lengths) {
		return 0
	}
	return lengths[fieldID]
}

// AvgFieldLength returns the running mean length for fieldID across live
// documents that populated it.
func (ds *DocStore) AvgFieldLength(fieldID int) float64 {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	if fieldID < 0 || fieldID >= len(ds.fieldAvg) {
		return 0
	}
	return ds.fieldAvg[fieldID].average()
}

// SetStoredFields retains fields verbatim for shortID, for return with
// search results.
func (ds *DocStore) SetStoredFields(shortID uint32, fields model.Document) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()
	ds.storedFields[shortID] = fields
}

// StoredFields returns the verbatim fields retained for shortID, if any.
func (ds *DocStore) StoredFields(shortID uint32) (model.Document, bool) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()
	fields, ok := ds.storedFields[shortID]
	return fields, ok
}

// Discard drops shortID's ID mapping, stored fields, and field-length
// entries, folding the loss back out of each populated field's running
// average. It does not touch postings — that is the InvertedIndex's and
// the vacuum pass's job. Returns NotIndexedError if externalID is not live.
func (ds *DocStore) Discard(externalID string) (uint32, error) {
	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	shortID, ok := ds.externalToShort[externalID]
	if !ok {
		return 0, lexerrors.NewNotIndexedError(externalID)
	}

	delete(ds.externalToShort, externalID)
	delete(ds.shortToExternal, shortID)
	delete(ds.storedFields, shortID)

	if lengths, ok := ds.fieldLength[shortID]; ok {
		for fieldID, length := range lengths {
			if length > 0 {
				ds.fieldAvg[fieldID].Sum -= length
				ds.fieldAvg[fieldID].Count--
			}
		}
		delete(ds.fieldLength, shortID)
	}

	return shortID, nil
}

// gobDocumentStoreData is a helper struct for Gob encoding/decoding
// DocStore data. It excludes the mutex.
type gobDocumentStoreData struct {
	NumFields       int
	ExternalToShort map[string]uint32
	ShortToExternal map[uint32]string
	NextShortID     uint32
	FieldLength     map[uint32][]int
	FieldAvg        []fieldAccumulator
	StoredFields    map[uint32]model.Document
}

// GobEncode implements gob.GobEncoder for DocStore.
func (ds *DocStore) GobEncode() ([]byte, error) {
	ds.Mu.RLock()
	defer ds.Mu.RUnlock()

	// Normalize []interface{} field values to []string where possible, so
	// gob doesn't need every concrete type pre-registered.
	storable := make(map[uint32]model.Document, len(ds.storedFields))
	for id, doc := range ds.storedFields {
		storable[id] = normalizeForGob(doc)
	}

	data := gobDocumentStoreData{
		NumFields:       ds.numFields,
		ExternalToShort: ds.externalToShort,
		ShortToExternal: ds.shortToExternal,
		NextShortID:     ds.nextShortID,
		FieldLength:     ds.fieldLength,
		FieldAvg:        ds.fieldAvg,
		StoredFields:    storable,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(data); err != nil {
		return nil, fmt.Errorf("failed to gob encode document store data: %w", err)
	}
	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder for DocStore.
func (ds *DocStore) GobDecode(data []byte) error {
	decoded := gobDocumentStoreData{}
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&decoded); err != nil {
		return fmt.Errorf("failed to gob decode document store data: %w", err)
	}

	ds.Mu.Lock()
	defer ds.Mu.Unlock()

	ds.numFields = decoded.NumFields
	ds.externalToShort = decoded.ExternalToShort
	ds.shortToExternal = decoded.ShortToExternal
	ds.nextShortID = decoded.NextShortID
	ds.fieldLength = decoded.FieldLength
	ds.fieldAvg = decoded.FieldAvg
	ds.storedFields = decoded.StoredFields

	if ds.externalToShort == nil {
		ds.externalToShort = make(map[string]uint32)
	}
	if ds.shortToExternal == nil {
		ds.shortToExternal = make(map[uint32]string)
	}
	if ds.fieldLength == nil {
		ds.fieldLength = make(map[uint32][]int)
	}
	if ds.fieldAvg == nil {
		ds.fieldAvg = make([]fieldAccumulator, ds.numFields)
	}
	if ds.storedFields == nil {
		ds.storedFields = make(map[uint32]model.Document)
	}
	return nil
}

func normalizeForGob(doc model.Document) model.Document {
	out := make(model.Document, len(doc))
	for k, val := range doc {
		if items, ok := val.([]interface{}); ok {
			if strs, ok := asStringSlice(items); ok {
				out[k] = strs
				continue
			}
		}
		out[k] = val
	}
	return out
}

func asStringSlice(items []interface{}) ([]string, bool) {
	strs := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		strs = append(strs, s)
	}
	return strs, true
}
