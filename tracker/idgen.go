package tracker

// idGenerator holds a counter for generating the next incremental ID number
type idGenerator struct {
	next uint64
}

// getNext returns the next ID, starting from zero
func (g *idGenerator) getNext() uint64 {
	id := g.next
	g.next++
	return id
}
