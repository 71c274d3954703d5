package lsb

type EmbedMark interface {
	GetBit(int) uint8
	BitMark
}

type BitMark interface {
	Len() int
}

// ExtractMark receives LSBs in scan order. PutBit returns true once the
// mark has read everything it needs.
type ExtractMark interface {
	PutBit(uint8) bool
}
