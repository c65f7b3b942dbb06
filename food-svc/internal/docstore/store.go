// Package docstore is a small hierarchical document store: collections of JSON
// documents addressed by slash-separated paths, with subcollections nested under
// documents (restaurants/r1/menu/i1/orders).
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
)

var (
	ErrNotFound      = errors.New("document not found")
	ErrAlreadyExists = errors.New("document already exists")
)

// Collection joins path segments into a collection path.
func Collection(segments ...string) string {
	return strings.Join(segments, "/")
}

// Ref addresses a single document inside a collection.
type Ref struct {
	Collection string
	ID         string
}

func Doc(collection, id string) Ref {
	return Ref{Collection: collection, ID: id}
}

func (r Ref) Path() string {
	return r.Collection + "/" + r.ID
}

// Sub returns the path of a subcollection nested under this document.
func (r Ref) Sub(name string) string {
	return r.Path() + "/" + name
}

// ParseRef splits a full document path produced by Ref.Path.
func ParseRef(path string) (Ref, bool) {
	i := strings.LastIndex(path, "/")
	if i <= 0 || i == len(path)-1 {
		return Ref{}, false
	}
	return Ref{Collection: path[:i], ID: path[i+1:]}, true
}

type Document struct {
	ID   string
	Data json.RawMessage
}

func (d Document) DataTo(v any) error {
	return json.Unmarshal(d.Data, v)
}

// Has reports whether field is present with a non-null value.
func (d Document) Has(field string) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.Data, &fields); err != nil {
		return false
	}
	raw, ok := fields[field]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type Reader interface {
	Get(ctx context.Context, ref Ref) (Document, error)
	List(ctx context.Context, collection string) ([]Document, error)
	// Where returns the documents of collection whose field equals value.
	Where(ctx context.Context, collection, field string, value any) ([]Document, error)
}

type Writer interface {
	// Set creates or replaces the document.
	Set(ctx context.Context, ref Ref, v any) error
	// Create writes the document only if it does not exist yet.
	Create(ctx context.Context, ref Ref, v any) error
	// Add stores v under a generated id and returns it.
	Add(ctx context.Context, collection string, v any) (string, error)
	// Update merges the named top-level fields into an existing document.
	Update(ctx context.Context, ref Ref, fields map[string]any) error
	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, ref Ref) error
}

type Tx interface {
	Reader
	Writer
}

type Store interface {
	Reader
	Writer
	// RunTransaction applies every write made through tx atomically. Reads inside
	// the transaction lock the documents they return until commit.
	RunTransaction(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

func encode(v any) (json.RawMessage, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return raw, nil
	}
	return json.Marshal(v)
}

func merge(data json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	current := map[string]json.RawMessage{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &current); err != nil {
			return nil, err
		}
	}
	for name, value := range fields {
		raw, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		current[name] = raw
	}
	return json.Marshal(current)
}
