// Package catalog talks to the external library service. The repositories
// never verify that a book or tag exists; that check lives here and is the
// calling service's responsibility.
package catalog

import "context"

// Client answers existence questions against the library catalog.
type Client interface {
	// HasBook reports whether the catalog knows the given book.
	HasBook(ctx context.Context, bookID uint32) (bool, error)
	// HasBookTag reports whether the catalog knows the given tag.
	HasBookTag(ctx context.Context, tagKind, tagName string) (bool, error)
}
