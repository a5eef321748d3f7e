package altofs

import "fmt"

// Cursor is an open file position: a (VDA, file-page-index, in-page
// offset) triple over a PageStore, plus a sticky error flag. Once err is
// set the cursor refuses further I/O until reopened.
type Cursor struct {
	store *PageStore
	entry FileEntry
	pos   Position
	err   error

	// prevVDA is the VDA of the last real page the cursor sat on (a data
	// page, or the leader if no data page has been visited yet). It is
	// what Write links a freshly allocated page after when the chain
	// needs to grow past its current end, including the zero-data-page
	// case where pos.VDA is already 0 from Open.
	prevVDA uint32
}

// Entry returns the file entry this cursor was opened against.
func (c *Cursor) Entry() FileEntry { return c.entry }

// Position returns the cursor's current position.
func (c *Cursor) Position() Position { return c.pos }

// Err returns the sticky error, if any, set by a prior failed operation.
func (c *Cursor) Err() error { return c.err }

// Open initializes a cursor over entry. When includeLeader is false (the
// normal case) the cursor starts at the first data page, file_page_number
// 1. When includeLeader is true the cursor starts at the leader page
// itself, file_page_number 0, offset 0, so a Read immediately returns the
// leader's data area.
func Open(store *PageStore, entry FileEntry, includeLeader bool) (*Cursor, error) {
	if entry.LeaderVDA >= store.NumPages() {
		err := fmt.Errorf("%w: leader_vda %d >= L %d", ErrInvalidArgument, entry.LeaderVDA, store.NumPages())
		return &Cursor{store: store, entry: entry, err: err}, err
	}
	leader, err := store.Page(entry.LeaderVDA)
	if err != nil {
		return &Cursor{store: store, entry: entry, err: err}, err
	}

	c := &Cursor{store: store, entry: entry, prevVDA: entry.LeaderVDA}
	if includeLeader {
		c.pos = Position{VDA: entry.LeaderVDA, PageNumber: 0, InPageOffset: 0}
		return c, nil
	}

	if leader.Label.NextRDA == 0 {
		c.pos = Position{VDA: 0, PageNumber: 0, InPageOffset: 0}
		return c, nil
	}
	firstVDA, err := store.Geometry.RDAToVDA(leader.Label.NextRDA)
	if err != nil {
		c.err = fmt.Errorf("%w: leader next_rda: %v", ErrFormat, err)
		return c, c.err
	}
	c.pos = Position{VDA: firstVDA, PageNumber: 1, InPageOffset: 0}
	return c, nil
}

// invalidate sticks err onto the cursor and returns it.
func (c *Cursor) invalidate(err error) error {
	c.err = err
	return err
}

// Read copies up to length bytes from the file into dst (if dst is nil,
// bytes are skipped, allowing the caller to meter length without copying).
// It returns the number of bytes actually read and terminates early when
// the chain ends; reads never fault at end of file.
func (c *Cursor) Read(dst []byte, length int) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	total := 0
	for length > 0 {
		if c.pos.VDA == 0 {
			break
		}
		if c.pos.VDA >= c.store.NumPages() {
			return total, c.invalidate(fmt.Errorf("%w: vda %d out of range", ErrFormat, c.pos.VDA))
		}
		page, err := c.store.Page(c.pos.VDA)
		if err != nil {
			return total, c.invalidate(err)
		}
		if page.Label.FilePageNumber != c.pos.PageNumber {
			return total, c.invalidate(fmt.Errorf("%w: page %d file_page_number %d != cursor %d", ErrFormat, c.pos.VDA, page.Label.FilePageNumber, c.pos.PageNumber))
		}
		if c.pos.InPageOffset > int(page.Label.NumBytes) {
			return total, c.invalidate(fmt.Errorf("%w: offset %d > nbytes %d on page %d", ErrFormat, c.pos.InPageOffset, page.Label.NumBytes, c.pos.VDA))
		}

		if c.pos.InPageOffset < int(page.Label.NumBytes) {
			n := min(length, int(page.Label.NumBytes)-c.pos.InPageOffset)
			if dst != nil {
				copy(dst[total:total+n], page.Data[c.pos.InPageOffset:c.pos.InPageOffset+n])
			}
			c.pos.InPageOffset += n
			total += n
			length -= n
			continue
		}

		if page.Label.NextRDA == 0 {
			c.prevVDA = c.pos.VDA
			c.pos.VDA = 0
			c.pos.PageNumber = 0
			break
		}
		nextVDA, err := c.store.Geometry.RDAToVDA(page.Label.NextRDA)
		if err != nil {
			return total, c.invalidate(fmt.Errorf("%w: page %d next_rda: %v", ErrFormat, c.pos.VDA, err))
		}
		c.prevVDA = c.pos.VDA
		c.pos.VDA = nextVDA
		c.pos.InPageOffset = 0
		c.pos.PageNumber++
	}
	return total, nil
}

// allocateAndLink grows the chain with a fresh free page linked
// immediately after the page at afterVDA (a data page, or the leader when
// the file has no data pages yet), copying serial number and version from
// it and setting file_page_number to one past it. It returns the new
// page's VDA.
func (c *Cursor) allocateAndLink(afterVDA uint32) (uint32, error) {
	after, err := c.store.Page(afterVDA)
	if err != nil {
		return 0, err
	}
	newVDA, err := FindFreePage(c.store)
	if err != nil {
		return 0, err
	}
	newPage, err := c.store.Page(newVDA)
	if err != nil {
		return 0, err
	}
	afterRDA, err := c.store.RDAOf(afterVDA)
	if err != nil {
		return 0, err
	}
	newRDA, err := c.store.RDAOf(newVDA)
	if err != nil {
		return 0, err
	}

	after.Label.NextRDA = newRDA
	newPage.Header.Word0 = 0
	newPage.Header.RDA = newRDA
	newPage.Label = Label{
		PrevRDA:        afterRDA,
		NextRDA:        0,
		FilePageNumber: after.Label.FilePageNumber + 1,
		Version:        after.Label.Version,
		SerialNumber:   after.Label.SerialNumber,
	}
	return newVDA, nil
}

// Write copies up to length bytes from src into the file, mirroring Read's
// traversal. When the current page has unused room it may raise nbytes up
// to PageDataSize. When the chain ends and extend is true, a free page is
// allocated and linked in; otherwise the write stops short.
func (c *Cursor) Write(src []byte, length int, extend bool) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	total := 0
	for length > 0 {
		if c.pos.VDA == 0 {
			if !extend {
				break
			}
			newVDA, err := c.allocateAndLink(c.prevVDA)
			if err != nil {
				return total, c.invalidate(err)
			}
			newPage, err := c.store.Page(newVDA)
			if err != nil {
				return total, c.invalidate(err)
			}
			c.pos.VDA = newVDA
			c.pos.PageNumber = newPage.Label.FilePageNumber
			c.pos.InPageOffset = 0
			continue
		}
		if c.pos.VDA >= c.store.NumPages() {
			return total, c.invalidate(fmt.Errorf("%w: vda %d out of range", ErrFormat, c.pos.VDA))
		}
		page, err := c.store.Page(c.pos.VDA)
		if err != nil {
			return total, c.invalidate(err)
		}
		if page.Label.FilePageNumber != c.pos.PageNumber {
			return total, c.invalidate(fmt.Errorf("%w: page %d file_page_number %d != cursor %d", ErrFormat, c.pos.VDA, page.Label.FilePageNumber, c.pos.PageNumber))
		}
		if c.pos.InPageOffset > int(page.Label.NumBytes) {
			return total, c.invalidate(fmt.Errorf("%w: offset %d > nbytes %d on page %d", ErrFormat, c.pos.InPageOffset, page.Label.NumBytes, c.pos.VDA))
		}

		if c.pos.InPageOffset < PageDataSize {
			n := min(length, PageDataSize-c.pos.InPageOffset)
			copy(page.Data[c.pos.InPageOffset:c.pos.InPageOffset+n], src[total:total+n])
			c.pos.InPageOffset += n
			if uint16(c.pos.InPageOffset) > page.Label.NumBytes {
				page.Label.NumBytes = uint16(c.pos.InPageOffset)
			}
			total += n
			length -= n
			continue
		}

		if page.Label.NextRDA != 0 {
			nextVDA, err := c.store.Geometry.RDAToVDA(page.Label.NextRDA)
			if err != nil {
				return total, c.invalidate(fmt.Errorf("%w: page %d next_rda: %v", ErrFormat, c.pos.VDA, err))
			}
			c.prevVDA = c.pos.VDA
			c.pos.VDA = nextVDA
			c.pos.InPageOffset = 0
			c.pos.PageNumber++
			continue
		}

		if !extend {
			c.prevVDA = c.pos.VDA
			c.pos.VDA = 0
			c.pos.PageNumber = 0
			break
		}

		newVDA, err := c.allocateAndLink(c.pos.VDA)
		if err != nil {
			return total, c.invalidate(err)
		}
		c.prevVDA = c.pos.VDA
		c.pos.VDA = newVDA
		c.pos.InPageOffset = 0
		c.pos.PageNumber++
	}
	return total, nil
}

// Trim truncates the file at the cursor's current position: the current
// page's nbytes is set to the in-page offset (nulling next_rda if that
// leaves the page not full), and every page beyond it in the chain is
// marked free.
func (c *Cursor) Trim() error {
	if c.err != nil {
		return c.err
	}
	if c.pos.VDA == 0 {
		return nil
	}
	page, err := c.store.Page(c.pos.VDA)
	if err != nil {
		return c.invalidate(err)
	}
	page.Label.NumBytes = uint16(c.pos.InPageOffset)
	next := page.Label.NextRDA
	if page.Label.NumBytes < PageDataSize {
		page.Label.NextRDA = 0
	}

	for next != 0 {
		vda, err := c.store.Geometry.RDAToVDA(next)
		if err != nil {
			return c.invalidate(fmt.Errorf("%w: trimming chain: %v", ErrFormat, err))
		}
		p, err := c.store.Page(vda)
		if err != nil {
			return c.invalidate(err)
		}
		next = p.Label.NextRDA
		p.Label.Version = VersionFree
		p.Label.NextRDA = 0
		p.Label.PrevRDA = 0
	}
	return nil
}
