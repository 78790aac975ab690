package core

// commandKind is the closed classification of inbound command tokens.
// Dispatch is total: every token maps to a kind, unknown ones included.
type commandKind int

const (
	// cmdUnknown covers every token without a dedicated transition; it
	// is surfaced as an unhandled-command event, never dropped.
	cmdUnknown commandKind = iota
	// cmdPing is a server keep-alive probe, answered immediately.
	cmdPing
	// cmdWelcome is numeric 001; it carries the nick the server
	// assigned to the session.
	cmdWelcome
	// cmdNoop covers recognized but semantically uninteresting lines:
	// the capability ack and the registration/names/MOTD numerics.
	cmdNoop
	// cmdPrivmsg is a chat message addressed to a channel.
	cmdPrivmsg
	cmdJoin
	cmdPart
	cmdGlobalUserState
	cmdUserState
	cmdRoomState
)

func classify(command string) commandKind {
	switch command {
	case "PING":
		return cmdPing
	case "001":
		return cmdWelcome
	case "CAP", "002", "003", "004", "353", "366", "372", "375", "376":
		return cmdNoop
	case "PRIVMSG":
		return cmdPrivmsg
	case "JOIN":
		return cmdJoin
	case "PART":
		return cmdPart
	case "GLOBALUSERSTATE":
		return cmdGlobalUserState
	case "USERSTATE":
		return cmdUserState
	case "ROOMSTATE":
		return cmdRoomState
	default:
		return cmdUnknown
	}
}
