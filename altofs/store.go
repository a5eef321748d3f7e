package altofs

import "fmt"

// PageStore is the in-memory dense array of fixed-size pages indexed by
// VDA, plus the geometry used to interpret them. It owns all page memory
// for the image's lifetime; it is not thread-safe and callers must
// serialize concurrent access externally.
type PageStore struct {
	Geometry Geometry
	pages    []Page
}

// NewPageStore validates geometry and allocates L zero-initialized pages.
func NewPageStore(geom Geometry) (*PageStore, error) {
	if err := geom.Validate(); err != nil {
		return nil, err
	}
	return &PageStore{
		Geometry: geom,
		pages:    make([]Page, geom.NumPages()),
	}, nil
}

// NumPages returns L, the total number of pages in the store.
func (ps *PageStore) NumPages() uint32 {
	return uint32(len(ps.pages))
}

// Page returns a borrowed pointer to the page at vda. Callers other than
// this package's I/O, trim, and allocation routines must treat it as
// read-only.
func (ps *PageStore) Page(vda uint32) (*Page, error) {
	if vda >= ps.NumPages() {
		return nil, fmt.Errorf("%w: vda %d >= L %d", ErrInvalidArgument, vda, ps.NumPages())
	}
	return &ps.pages[vda], nil
}

// RDAOf returns the real disk address a live page at vda is expected to
// carry in its header.
func (ps *PageStore) RDAOf(vda uint32) (uint16, error) {
	return ps.Geometry.VDAToRDA(vda)
}
