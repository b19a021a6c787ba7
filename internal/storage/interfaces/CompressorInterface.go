package interfaces

// CompressorInterface transforms snapshot bytes on their way to and from disk.
// Close releases any background workers; the compressor is unusable after it.
type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
	Close() error
}
