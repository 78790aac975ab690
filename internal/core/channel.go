package core

// Channel is one chat room the session tracks, keyed by its
// protocol-lexical name (leading sigil preserved). The tags hold the
// room-state snapshot taken when the channel was first referenced and
// merged in place on later room-state lines. The session owns at most
// one instance per name.
type Channel struct {
	Name string

	tags map[string]string
}

func newChannel(name string, tags map[string]string) *Channel {
	ch := &Channel{Name: name, tags: make(map[string]string, len(tags))}
	ch.mergeTags(tags)
	return ch
}

// mergeTags overwrites existing keys and adds new ones; keys absent
// from the incoming set survive.
func (c *Channel) mergeTags(tags map[string]string) {
	for k, v := range tags {
		c.tags[k] = v
	}
}

// Tag returns one room-state tag value.
func (c *Channel) Tag(name string) (string, bool) {
	v, ok := c.tags[name]
	return v, ok
}

// Tags returns a copy of the room-state tags.
func (c *Channel) Tags() map[string]string {
	out := make(map[string]string, len(c.tags))
	for k, v := range c.tags {
		out[k] = v
	}
	return out
}
