package stegano

type PayloadCore interface {
	// Len returns the number of bits the payload occupies in the image.
	Len() int
}

// EmbedPayload is a bit sequence to be written into pixel LSBs.
type EmbedPayload interface {
	GetBit(at int) uint8
	PayloadCore
}

// ExtractPayload consumes pixel LSBs in scan order. PutBit returns true when
// no more bits are needed; Bytes reports the recovered message.
type ExtractPayload interface {
	PutBit(bit uint8) (done bool)
	Bytes() ([]byte, error)
}
