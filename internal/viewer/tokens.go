package viewer

// TokenState tracks the generation counters for the two cancellable batch
// families: folder scans and thumbnail batches. Starting a new batch
// increments the family's counter, which soft-invalidates every outstanding
// result of the previous batch — workers keep running, but their events fail
// the token comparison on arrival and are dropped.
//
// TokenState is owned by the control goroutine and needs no locking.
type TokenState struct {
	scan  uint64
	thumb uint64
}

// BeginScan starts a new scan generation and returns its token.
func (t *TokenState) BeginScan() uint64 {
	t.scan++
	return t.scan
}

// IsCurrentScan reports whether token belongs to the active scan generation.
func (t *TokenState) IsCurrentScan(token uint64) bool {
	return token == t.scan
}

// BeginThumbBatch starts a new thumbnail batch generation and returns its
// token.
func (t *TokenState) BeginThumbBatch() uint64 {
	t.thumb++
	return t.thumb
}

// IsCurrentThumbBatch reports whether token belongs to the active thumbnail
// batch generation.
func (t *TokenState) IsCurrentThumbBatch(token uint64) bool {
	return token == t.thumb
}
