package object

// Group is an unordered set of live sprites. Members are removed by marking
// them destroyed and compacting, so iteration never sees a shrinking slice.
type Group struct {
	members []*Sprite
}

// NewGroup creates an empty group.
func NewGroup() *Group {
	return &Group{}
}

// Add inserts a sprite.
func (g *Group) Add(s *Sprite) {
	g.members = append(g.members, s)
}

// Len returns the number of members not marked destroyed.
func (g *Group) Len() int {
	n := 0
	for _, s := range g.members {
		if !s.IsDestroyed() {
			n++
		}
	}
	return n
}

// Each calls fn for every member not marked destroyed. Members destroyed by
// fn are skipped for the rest of the pass.
func (g *Group) Each(fn func(s *Sprite)) {
	for _, s := range g.members {
		if !s.IsDestroyed() {
			fn(s)
		}
	}
}

// Members returns a snapshot of the live members.
func (g *Group) Members() []*Sprite {
	live := make([]*Sprite, 0, len(g.members))
	g.Each(func(s *Sprite) { live = append(live, s) })
	return live
}

// Advance draws every member, then moves it one tick. Expired members are
// removed before Advance returns.
func (g *Group) Advance(r Renderer) {
	g.Each(func(s *Sprite) {
		s.Draw(r)
		if s.Update() {
			s.MarkDestroyed()
		}
	})
	g.Compact()
}

// Compact drops destroyed members in place.
func (g *Group) Compact() {
	kept := g.members[:0]
	for _, s := range g.members {
		if !s.IsDestroyed() {
			kept = append(kept, s)
		}
	}
	// Clear the tail so dropped sprites can be collected.
	for i := len(kept); i < len(g.members); i++ {
		g.members[i] = nil
	}
	g.members = kept
}

// Clear removes every member.
func (g *Group) Clear() {
	clear(g.members)
	g.members = g.members[:0]
}
