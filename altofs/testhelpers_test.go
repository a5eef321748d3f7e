package altofs

import "testing"

// smallGeometry is large enough to hold a root directory, a subdirectory,
// and a couple of small files without needing the full 4872-page default.
func smallGeometry() Geometry {
	return Geometry{NumCylinders: 4, NumHeads: 1, NumSectors: 8}
}

// newTestStore returns a blank, freshly formatted store: every page has a
// correct header and is marked free, as if an allocator had already swept
// it once. Tests lay specific leaders/chains on top and can rely on every
// other VDA being available to FindFreePage.
func newTestStore(t *testing.T) *PageStore {
	t.Helper()
	ps, err := NewPageStore(smallGeometry())
	if err != nil {
		t.Fatalf("NewPageStore: %v", err)
	}
	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		setHeader(t, ps, vda)
		p, err := ps.Page(vda)
		if err != nil {
			t.Fatalf("Page(%d): %v", vda, err)
		}
		p.Label.Version = VersionFree
	}
	return ps
}

// setHeader writes the expected (0, RDA(vda)) header onto the page at vda.
func setHeader(t *testing.T, ps *PageStore, vda uint32) {
	t.Helper()
	rda, err := ps.RDAOf(vda)
	if err != nil {
		t.Fatalf("RDAOf(%d): %v", vda, err)
	}
	p, err := ps.Page(vda)
	if err != nil {
		t.Fatalf("Page(%d): %v", vda, err)
	}
	p.Header = Header{Word0: 0, RDA: rda}
}

func writePascalString(data *[512]byte, off int, s string) {
	data[off] = byte(len(s))
	copy(data[off+1:], s)
}

// makeLeader initializes vda as a leader page for a file with the given
// serial number, version, and filename, with no data pages attached yet.
func makeLeader(t *testing.T, ps *PageStore, vda uint32, sn SerialNumber, version uint16, filename string) {
	t.Helper()
	setHeader(t, ps, vda)
	p, err := ps.Page(vda)
	if err != nil {
		t.Fatalf("Page(%d): %v", vda, err)
	}
	p.Label = Label{
		NextRDA:        0,
		PrevRDA:        0,
		NumBytes:       PageDataSize,
		FilePageNumber: 0,
		Version:        version,
		SerialNumber:   sn,
	}
	writePascalString(&p.Data, offFilename, filename)
}

// appendDataPage links a new data page of vda onto the chain whose tail is
// tailVDA (a leader or a previously-appended data page), writing content
// into it and updating nbytes.
func appendDataPage(t *testing.T, ps *PageStore, tailVDA, vda uint32, content []byte) {
	t.Helper()
	setHeader(t, ps, vda)
	tail, err := ps.Page(tailVDA)
	if err != nil {
		t.Fatalf("Page(%d): %v", tailVDA, err)
	}
	page, err := ps.Page(vda)
	if err != nil {
		t.Fatalf("Page(%d): %v", vda, err)
	}

	tailRDA, err := ps.RDAOf(tailVDA)
	if err != nil {
		t.Fatalf("RDAOf(%d): %v", tailVDA, err)
	}
	vdaRDA, err := ps.RDAOf(vda)
	if err != nil {
		t.Fatalf("RDAOf(%d): %v", vda, err)
	}

	tail.Label.NextRDA = vdaRDA
	page.Label = Label{
		NextRDA:        0,
		PrevRDA:        tailRDA,
		NumBytes:       uint16(len(content)),
		FilePageNumber: tail.Label.FilePageNumber + 1,
		Version:        tail.Label.Version,
		SerialNumber:   tail.Label.SerialNumber,
	}
	copy(page.Data[:], content)
}

// addDirEntry writes one directory entry record into a directory page's
// data at byte offset off, returning the offset just past the entry.
func addDirEntry(data *[512]byte, off int, valid bool, sn SerialNumber, version uint16, leaderVDA uint32, name string) int {
	bodyLen := 10 + 1 + len(name)
	if bodyLen%2 != 0 {
		bodyLen++
	}
	lengthWords := uint16(1 + bodyLen/2)

	word := lengthWords
	if valid {
		word |= 1 << validityBit
	}
	data[off] = byte(word >> 8)
	data[off+1] = byte(word)

	putBE16 := func(o int, v uint16) {
		data[o] = byte(v >> 8)
		data[o+1] = byte(v)
	}
	putBE16(off+2, sn.Word1)
	putBE16(off+4, sn.Word2)
	putBE16(off+6, version)
	putBE16(off+8, 0)
	putBE16(off+10, uint16(leaderVDA))
	writePascalString(data, off+12, name)

	return off + 2 + bodyLen
}
