package types

// ChunkHit is one raw result from a single branch (vector or keyword) of
// the chunk index, before fusion.
type ChunkHit struct {
	SecurityCode string
	ChunkNumber  int
	Text         string
	Score        float64
}
