package altofs

import "fmt"

// CheckIntegrity walks every page once, accumulating diagnostics through
// reporter and continuing past each error to produce a complete report. It
// returns true only if no page failed any check.
func CheckIntegrity(ps *PageStore, reporter Reporter) bool {
	if reporter == nil {
		reporter = NullReporter{}
	}
	ok := true
	fail := func(format string, args ...any) {
		ok = false
		reporter.Error(format, args...)
	}

	for vda := uint32(0); vda < ps.NumPages(); vda++ {
		p := &ps.pages[vda]

		expectedRDA, err := ps.RDAOf(vda)
		if err != nil {
			fail("page %d: computing expected RDA: %v", vda, err)
			continue
		}
		if p.Header.Word0 != 0 || p.Header.RDA != expectedRDA {
			fail("page %d: header (%#04x,%#04x) != expected (0,%#04x)", vda, p.Header.Word0, p.Header.RDA, expectedRDA)
		}

		if p.Label.IsFree() {
			continue
		}
		if p.Label.IsBad() {
			if !p.Label.SerialNumber.Equal(badSentinel) {
				fail("page %d: bad-sector marker has serial number %+v, want %+v", vda, p.Label.SerialNumber, badSentinel)
			}
			continue
		}
		if p.Label.Version == 0 {
			fail("page %d: version is 0 (invalid)", vda)
			continue
		}
		if p.Label.NumBytes > PageDataSize {
			fail("page %d: nbytes %d > %d", vda, p.Label.NumBytes, PageDataSize)
		}

		if p.Label.PrevRDA != 0 {
			prevVDA, err := ps.Geometry.RDAToVDA(p.Label.PrevRDA)
			if err != nil {
				fail("page %d: prev_rda %#04x invalid: %v", vda, p.Label.PrevRDA, err)
			} else if prev, err := ps.Page(prevVDA); err != nil {
				fail("page %d: resolving predecessor vda %d: %v", vda, prevVDA, err)
			} else {
				if !prev.Label.SerialNumber.Equal(p.Label.SerialNumber) {
					fail("page %d: serial number mismatch with predecessor %d", vda, prevVDA)
				}
				if prev.Label.FilePageNumber+1 != p.Label.FilePageNumber {
					fail("page %d: file_page_number %d != predecessor %d + 1", vda, p.Label.FilePageNumber, prev.Label.FilePageNumber)
				}
				if vda != 0 {
					if prevSelfRDA, err := ps.RDAOf(vda); err != nil || prev.Label.NextRDA != prevSelfRDA {
						fail("page %d: predecessor %d's next_rda does not point back here", vda, prevVDA)
					}
				}
			}
		} else {
			// Leader page.
			if p.Label.FilePageNumber != 0 {
				fail("page %d: leader file_page_number %d != 0", vda, p.Label.FilePageNumber)
			}
			if p.Label.NumBytes != PageDataSize {
				fail("page %d: leader nbytes %d != %d", vda, p.Label.NumBytes, PageDataSize)
			}
			nameLen := int(p.Data[offFilename])
			if nameLen <= 0 || nameLen >= 40 {
				fail("page %d: leader filename length %d not in (0,40)", vda, nameLen)
			}
		}

		if p.Label.NextRDA != 0 {
			if p.Label.NumBytes != PageDataSize {
				fail("page %d: next_rda set but nbytes %d != %d", vda, p.Label.NumBytes, PageDataSize)
			}
			nextVDA, err := ps.Geometry.RDAToVDA(p.Label.NextRDA)
			if err != nil {
				fail("page %d: next_rda %#04x invalid: %v", vda, p.Label.NextRDA, err)
			} else if next, err := ps.Page(nextVDA); err != nil {
				fail("page %d: resolving successor vda %d: %v", vda, nextVDA, err)
			} else {
				if !next.Label.SerialNumber.Equal(p.Label.SerialNumber) {
					fail("page %d: serial number mismatch with successor %d", vda, nextVDA)
				}
				if next.Label.FilePageNumber != p.Label.FilePageNumber+1 {
					fail("page %d: successor %d file_page_number %d != %d + 1", vda, nextVDA, next.Label.FilePageNumber, p.Label.FilePageNumber)
				}
				if vda != 0 {
					if selfRDA, err := ps.RDAOf(vda); err != nil || next.Label.PrevRDA != selfRDA {
						fail("page %d: successor %d's prev_rda does not point back here", vda, nextVDA)
					}
				}
			}
		}
	}
	if !ok {
		return false
	}
	return true
}

// checkErr is a convenience wrapper CheckIntegrity never itself needs, kept
// here so callers composing their own reporters have a typed error to
// return when they want one instead of a bool.
func checkErr(ok bool) error {
	if ok {
		return nil
	}
	return fmt.Errorf("%w: integrity check failed", ErrFormat)
}
