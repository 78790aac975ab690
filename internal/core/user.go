package core

// User is another participant as observed within a single channel. It
// is not a global identity: the same person seen in two channels yields
// two instances, and instances are not reused across messages.
type User struct {
	Login   string
	Channel *Channel

	tags map[string]string
}

func newUser(login string, ch *Channel, tags map[string]string) *User {
	return &User{Login: login, Channel: ch, tags: tags}
}

// Tag returns one display tag value (color, badges, ...).
func (u *User) Tag(name string) (string, bool) {
	v, ok := u.tags[name]
	return v, ok
}

// DisplayName returns the server-provided display name, falling back to
// the login.
func (u *User) DisplayName() string {
	if v, ok := u.tags["display-name"]; ok && v != "" {
		return v
	}
	return u.Login
}

// UserState is the authenticated user's status within one channel
// (moderator and subscriber flags, badges). It is created on the first
// per-channel state line and merged in place on subsequent ones.
type UserState struct {
	Channel *Channel

	tags map[string]string
}

func newUserState(ch *Channel, tags map[string]string) *UserState {
	st := &UserState{Channel: ch, tags: make(map[string]string, len(tags))}
	st.merge(tags)
	return st
}

func (s *UserState) merge(tags map[string]string) {
	for k, v := range tags {
		s.tags[k] = v
	}
}

// Tag returns one state tag value.
func (s *UserState) Tag(name string) (string, bool) {
	v, ok := s.tags[name]
	return v, ok
}

// IsMod reports whether the authenticated user moderates the channel.
func (s *UserState) IsMod() bool {
	return s.tags["mod"] == "1"
}

// IsSubscriber reports whether the authenticated user is subscribed to
// the channel.
func (s *UserState) IsSubscriber() bool {
	return s.tags["subscriber"] == "1"
}

// ClientUser is the identity the session is logged in as. It exists
// only after the server's global-user-state line and is replaced, never
// updated, when another one arrives. Per-channel status lives in the
// states map, keyed by channel name, one entry per channel.
type ClientUser struct {
	User

	states map[string]*UserState
}

func newClientUser(login string, tags map[string]string) *ClientUser {
	return &ClientUser{
		User:   User{Login: login, tags: tags},
		states: make(map[string]*UserState),
	}
}

// State returns the per-channel status for a channel name, if known.
func (u *ClientUser) State(channel string) (*UserState, bool) {
	st, ok := u.states[channel]
	return st, ok
}

// mergeState creates or merge-updates the state entry for ch.
func (u *ClientUser) mergeState(ch *Channel, tags map[string]string) *UserState {
	if st, ok := u.states[ch.Name]; ok {
		st.merge(tags)
		return st
	}
	st := newUserState(ch, tags)
	u.states[ch.Name] = st
	return st
}

func (u *ClientUser) dropState(channel string) {
	delete(u.states, channel)
}
