package trovochat

import "strings"

// BadgeKind enumerates the well-known badge kinds. Custom badges map to
// BadgeOther instead of failing the parse.
type BadgeKind uint8

const (
	BadgeOther BadgeKind = iota
	BadgeAdmin
	BadgeBits
	BadgeBroadcaster
	BadgeGlobalMod
	BadgeModerator
	BadgeSubscriber
	BadgeStaff
	BadgeTurbo
	BadgePremium
	BadgeVIP
	BadgePartner
)

func (k BadgeKind) String() string {
	switch k {
	case BadgeAdmin:
		return "admin"
	case BadgeBits:
		return "bits"
	case BadgeBroadcaster:
		return "broadcaster"
	case BadgeGlobalMod:
		return "global_mod"
	case BadgeModerator:
		return "moderator"
	case BadgeSubscriber:
		return "subscriber"
	case BadgeStaff:
		return "staff"
	case BadgeTurbo:
		return "turbo"
	case BadgePremium:
		return "premium"
	case BadgeVIP:
		return "vip"
	case BadgePartner:
		return "partner"
	}
	return "other"
}

// Badge is one badge attached to a message. Name keeps the raw kind string
// so BadgeOther badges stay distinguishable.
type Badge struct {
	Kind    BadgeKind
	Name    string
	Version string
}

func badgeKindFromName(name string) BadgeKind {
	switch name {
	case "admin":
		return BadgeAdmin
	case "bits":
		return BadgeBits
	case "broadcaster":
		return BadgeBroadcaster
	case "global_mod":
		return BadgeGlobalMod
	case "moderator":
		return BadgeModerator
	case "subscriber":
		return BadgeSubscriber
	case "staff":
		return BadgeStaff
	case "turbo":
		return BadgeTurbo
	case "premium":
		return BadgePremium
	case "vip":
		return BadgeVIP
	case "partner":
		return BadgePartner
	}
	return BadgeOther
}

// parseBadges decodes a `badges` tag value, a comma-separated list of
// `kind/version` pairs. Entries without a version are skipped.
func parseBadges(input string) []Badge {
	if input == "" {
		return nil
	}
	var badges []Badge
	for _, part := range strings.Split(input, ",") {
		name, version, ok := strings.Cut(part, "/")
		if !ok || name == "" {
			continue
		}
		badges = append(badges, Badge{
			Kind:    badgeKindFromName(name),
			Name:    name,
			Version: version,
		})
	}
	return badges
}
