package altofs

const (
	// PageDataSize is the number of payload bytes per page (one Alto sector).
	PageDataSize = 512

	// metaWords is the number of 16-bit words preceding a page's data in the
	// on-disk image format: page_vda, header (2 words), label (7 words).
	metaWords = 10

	// recordDiscardBytes is the per-page leading bytes discarded on load and
	// synthesized on save (as the VDA's low and high bytes).
	recordDiscardBytes = 2

	// VersionFree marks a page as free (no live file occupies it).
	VersionFree uint16 = 0xFFFF
	// VersionBad marks a page as a bad-sector placeholder.
	VersionBad uint16 = 0xFFFE

	// SNDirectory is the bit in serial number word 1 distinguishing a
	// directory file from a regular file.
	SNDirectory uint16 = 0x8000

	// MaxFilenameChars is the maximum filename length, excluding the
	// length-prefix byte, a leader's filename field may hold.
	MaxFilenameChars = 39

	// altoEpochOffset converts a signed 32-bit Alto timestamp to Unix
	// seconds: unixSeconds = int32(altoWord) + altoEpochOffset.
	altoEpochOffset = 2117503696

	// DefaultNumCylinders, DefaultNumHeads, DefaultNumSectors describe the
	// standard Alto geometry used when none is specified: 203 cylinders, 2
	// heads, 12 sectors, yielding 4872 pages.
	DefaultNumCylinders = 203
	DefaultNumHeads     = 2
	DefaultNumSectors   = 12
)

// RecordSize is the total on-disk byte length of one page's serialized
// record: discard bytes + meta words + data.
const RecordSize = recordDiscardBytes + metaWords*2 + PageDataSize
