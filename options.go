package stegano

type Option func(*Stegano) error

// WithOpaqueOutput sets the alpha of every output pixel to fully opaque.
// By default alpha is copied from the source image.
func WithOpaqueOutput() Option {
	return func(s *Stegano) error {
		s.opaque = true
		return nil
	}
}
