// Package snapshot exports serialized documents to disk or S3.
package snapshot

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/vango-dev/minidom/internal/config"
	"github.com/vango-dev/minidom/pkg/dom"
)

// Ext is appended to snapshot names to form object names.
const Ext = ".html"

var nameRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Store persists serialized documents by name.
type Store interface {
	// Put stores data under name and returns where it was written.
	Put(ctx context.Context, name string, data []byte) (string, error)

	// Get returns the data stored under name.
	Get(ctx context.Context, name string) ([]byte, error)

	// List returns stored names in lexical order.
	List(ctx context.Context) ([]string, error)
}

// Snapshot is a serialized document.
type Snapshot struct {
	Name  string
	HTML  []byte
	Taken time.Time
}

// Capture serializes doc. An empty name is replaced by a timestamp.
func Capture(doc *dom.Document, name string) (*Snapshot, error) {
	now := time.Now().UTC()
	if name == "" {
		name = now.Format("20060102T150405.000000000Z")
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	out, err := doc.HTML()
	if err != nil {
		return nil, fmt.Errorf("snapshot: serialize: %w", err)
	}
	return &Snapshot{Name: name, HTML: []byte(out), Taken: now}, nil
}

// Save captures doc and writes it to store.
func Save(ctx context.Context, store Store, doc *dom.Document, name string) (string, error) {
	s, err := Capture(doc, name)
	if err != nil {
		return "", err
	}
	return store.Put(ctx, s.Name, s.HTML)
}

// ValidateName rejects names that could escape the store's directory or
// prefix.
func ValidateName(name string) error {
	if !nameRe.MatchString(name) {
		return fmt.Errorf("snapshot: invalid name %q", name)
	}
	return nil
}

// New returns the store selected by cfg.
func New(cfg config.SnapshotConfig) (Store, error) {
	switch cfg.Store {
	case "", "disk":
		return NewDiskStore(cfg.Dir), nil
	case "s3":
		if cfg.Bucket == "" {
			return nil, fmt.Errorf("snapshot: s3 store requires a bucket")
		}
		return NewS3Store(NewS3Client(cfg), cfg.Bucket, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("snapshot: unknown store %q", cfg.Store)
	}
}
