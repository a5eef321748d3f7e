package altofs

import "fmt"

// FindFreePage performs a linear scan of the store for the first free
// page and returns its VDA. VDA 0 is never returned even if free: it
// doubles as the chain terminator sentinel, so handing it out as new file
// storage would make the resulting chain indistinguishable from an empty
// one. Returns ErrExhausted if no free page exists.
func FindFreePage(ps *PageStore) (uint32, error) {
	for vda := uint32(1); vda < ps.NumPages(); vda++ {
		if ps.pages[vda].Label.IsFree() {
			return vda, nil
		}
	}
	return 0, fmt.Errorf("%w: no free page available", ErrExhausted)
}
