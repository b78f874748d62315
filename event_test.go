package trovochat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifyLine(t *testing.T, line string) Event {
	t.Helper()
	msg, err := ParseMessage(line)
	require.NoError(t, err)
	return classify(msg)
}

func TestClassify_PrivateMessage(t *testing.T) {
	line := `@badges=broadcaster/1,subscriber/12;color=#1E90FF;display-name=Shaken;emotes=25:0-4,6-10 ` +
		`:shaken!shaken@shaken.tmi.trovo.tv PRIVMSG #museun :Kappa Kappa and more`
	ev := classifyLine(t, line)

	pm, ok := ev.(PrivateMessage)
	require.True(t, ok, "expected a PrivateMessage, got %T", ev)
	assert.Equal(t, "#museun", pm.Channel)
	assert.Equal(t, "shaken", pm.Login)
	assert.Equal(t, "Shaken", pm.DisplayName)
	assert.Equal(t, "Kappa Kappa and more", pm.Text)
	assert.Equal(t, rgb(0x1E, 0x90, 0xFF), pm.Color)

	require.Len(t, pm.Badges, 2)
	assert.Equal(t, BadgeBroadcaster, pm.Badges[0].Kind)
	assert.Equal(t, "1", pm.Badges[0].Version)
	assert.Equal(t, BadgeSubscriber, pm.Badges[1].Kind)
	assert.Equal(t, "12", pm.Badges[1].Version)

	require.Len(t, pm.Emotes, 1)
	assert.Equal(t, 25, pm.Emotes[0].ID)
	assert.Equal(t, []EmoteRange{{0, 4}, {6, 10}}, pm.Emotes[0].Ranges)
}

func TestClassify_JoinPart(t *testing.T) {
	join, ok := classifyLine(t, ":museun!museun@museun.tmi.trovo.tv JOIN #shaken").(Join)
	require.True(t, ok)
	assert.Equal(t, "#shaken", join.Channel)
	assert.Equal(t, "museun", join.Login)

	part, ok := classifyLine(t, ":museun!museun@museun.tmi.trovo.tv PART #shaken").(Part)
	require.True(t, ok)
	assert.Equal(t, "#shaken", part.Channel)
	assert.Equal(t, "museun", part.Login)
}

func TestClassify_UserState(t *testing.T) {
	line := `@badges=moderator/1;color=#8A2BE2;display-name=Bot :tmi.trovo.tv USERSTATE #shaken`
	us, ok := classifyLine(t, line).(UserState)
	require.True(t, ok)
	assert.Equal(t, "#shaken", us.Channel)
	assert.Equal(t, "Bot", us.DisplayName)
	require.Len(t, us.Badges, 1)
	assert.Equal(t, BadgeModerator, us.Badges[0].Kind)
}

func TestClassify_Ping(t *testing.T) {
	ping, ok := classifyLine(t, "PING :tmi.trovo.tv").(Ping)
	require.True(t, ok)
	assert.Equal(t, "tmi.trovo.tv", ping.Token)
}

func TestClassify_Capabilities(t *testing.T) {
	ack, ok := classifyLine(t, ":tmi.trovo.tv CAP * ACK :trovo.tv/tags").(CapabilityAck)
	require.True(t, ok)
	assert.Equal(t, CapTags, ack.Capability)
	assert.True(t, ack.Known)

	nak, ok := classifyLine(t, ":tmi.trovo.tv CAP * NAK :trovo.tv/membership").(CapabilityNak)
	require.True(t, ok)
	assert.Equal(t, CapMembership, nak.Capability)
	assert.True(t, nak.Known)

	unknown, ok := classifyLine(t, ":tmi.trovo.tv CAP * NAK :foobar").(CapabilityNak)
	require.True(t, ok)
	assert.False(t, unknown.Known)
}

func TestClassify_UnknownCommand(t *testing.T) {
	ev := classifyLine(t, ":tmi.trovo.tv HOSTTARGET #shaken :museun 10")
	unknown, ok := ev.(Unknown)
	require.True(t, ok, "unmatched commands are a normal outcome, got %T", ev)
	assert.Equal(t, "HOSTTARGET", unknown.Message.Command)
}

func TestParseBadges(t *testing.T) {
	badges := parseBadges("broadcaster/1,subscriber/12")
	require.Len(t, badges, 2)
	assert.Equal(t, BadgeBroadcaster, badges[0].Kind)
	assert.Equal(t, BadgeSubscriber, badges[1].Kind)

	custom := parseBadges("glitchcon2020/1")
	require.Len(t, custom, 1)
	assert.Equal(t, BadgeOther, custom[0].Kind)
	assert.Equal(t, "glitchcon2020", custom[0].Name)
	assert.Equal(t, "1", custom[0].Version)

	assert.Nil(t, parseBadges(""))
}

func TestParseEmotes(t *testing.T) {
	emotes := parseEmotes("25:0-4,6-10", 10)
	require.Len(t, emotes, 1)
	assert.Equal(t, 25, emotes[0].ID)
	assert.Equal(t, []EmoteRange{{Start: 0, End: 4}, {Start: 6, End: 10}}, emotes[0].Ranges)

	multi := parseEmotes("25:0-4/33:6-10", 12)
	require.Len(t, multi, 2)
	assert.Equal(t, 33, multi[1].ID)
}

func TestParseEmotes_MalformedDegrades(t *testing.T) {
	for _, input := range []string{
		"25:0-4,banana",
		"25:4-0",     // inverted range
		"25:0-20",    // past the end of the text
		"notanid:0-4",
		"25",
	} {
		assert.Nil(t, parseEmotes(input, 10), "input %q", input)
	}
	assert.Nil(t, parseEmotes("", 10))
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, rgb(0xFF, 0x00, 0x00), ParseColor("#FF0000"))
	assert.Equal(t, rgb(0xFF, 0x00, 0x00), ParseColor("FF0000"))
	assert.Equal(t, rgb(0x1E, 0x90, 0xFF), ParseColor("DodgerBlue"))
	assert.Equal(t, "#B22222", ParseColor("Firebrick").String())

	for _, input := range []string{"", "#GG0000", "#FFF", "purple-ish"} {
		c := ParseColor(input)
		assert.False(t, c.Valid, "input %q", input)
		assert.Equal(t, "", c.String())
	}
}
