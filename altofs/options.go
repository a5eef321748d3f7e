package altofs

// Options configures how an image is interpreted and opened.
type Options struct {
	Geometry Geometry // disk geometry used to translate VDA <-> RDA
}

// DefaultOptions returns Options with the standard Alto disk geometry.
func DefaultOptions() *Options {
	return &Options{
		Geometry: DefaultGeometry(),
	}
}
