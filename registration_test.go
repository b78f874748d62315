package trovochat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func beginTestRegistration(t *testing.T, cfg *UserConfig) (*registration, []string) {
	t.Helper()
	r := newRegistration()
	var sent []string
	require.NoError(t, r.begin(cfg, func(line []byte) error {
		sent = append(sent, string(line))
		return nil
	}))
	return r, sent
}

func observeLine(t *testing.T, r *registration, line string) *Ready {
	t.Helper()
	msg, err := ParseMessage(line)
	require.NoError(t, err)
	return r.observe(msg, classify(msg))
}

func TestRegistration_Begin(t *testing.T) {
	cfg, err := NewUserConfig("Shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, sent := beginTestRegistration(t, cfg)

	assert.Equal(t, []string{
		"PASS oauth:abcdef\r\n",
		"NICK shaken\r\n",
		"CAP REQ :trovo.tv/membership\r\n",
		"CAP REQ :trovo.tv/commands\r\n",
		"CAP REQ :trovo.tv/tags\r\n",
	}, sent)
	assert.True(t, r.negotiating())

	assert.ErrorIs(t, r.begin(cfg, func([]byte) error { return nil }),
		ErrAlreadyRegistered)
}

func TestRegistration_HappyPath(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	// Acknowledgements arrive out of request order and the identity frame
	// lands before the last one; nothing completes early.
	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/tags"))
	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/membership"))
	assert.Nil(t, observeLine(t, r,
		"@user-id=12345;display-name=Shaken;color=#FF0000 :tmi.trovo.tv GLOBALUSERSTATE"))
	assert.True(t, r.negotiating())

	ready := observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/commands")
	require.NotNil(t, ready)
	assert.Equal(t, "12345", ready.User.ID)
	assert.Equal(t, "Shaken", ready.User.DisplayName)
	assert.Equal(t, rgb(0xFF, 0x00, 0x00), ready.User.Color)
	assert.ElementsMatch(t,
		[]Capability{CapTags, CapMembership, CapCommands}, ready.User.Caps)
	assert.False(t, r.negotiating())

	user, err := r.wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "12345", user.ID)
}

func TestRegistration_TagsGrantedWaitsForIdentity(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	for _, c := range []string{"membership", "commands", "tags"} {
		assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/"+c))
	}
	// With tags granted the numeric welcome alone is not enough.
	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv 001 shaken :Welcome, GLHF!"))
	assert.True(t, r.negotiating())

	ready := observeLine(t, r, "@user-id=12345 :tmi.trovo.tv GLOBALUSERSTATE")
	require.NotNil(t, ready)
	assert.Equal(t, "12345", ready.User.ID)
	assert.Equal(t, "shaken", ready.User.Name)
}

func TestRegistration_NakExcludesCapability(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/membership"))
	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/commands"))
	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * NAK :trovo.tv/tags"))
	assert.True(t, r.negotiating(), "a nak alone does not finish registration")

	// Without tags there is no identity frame coming; the numeric welcome
	// completes the handshake.
	ready := observeLine(t, r, ":tmi.trovo.tv 001 shaken :Welcome, GLHF!")
	require.NotNil(t, ready)
	assert.Equal(t, "shaken", ready.User.Name)
	assert.Equal(t, "shaken", ready.User.ID, "id falls back to the assigned name")
	assert.ElementsMatch(t,
		[]Capability{CapMembership, CapCommands}, ready.User.Caps)
}

func TestRegistration_NoCapsRequested(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef", WithCapabilities())
	require.NoError(t, err)
	r, sent := beginTestRegistration(t, cfg)
	assert.Len(t, sent, 2, "only PASS and NICK go out")

	ready := observeLine(t, r, ":tmi.trovo.tv 001 shaken :Welcome, GLHF!")
	require.NotNil(t, ready)
	assert.Empty(t, ready.User.Caps)
}

func TestRegistration_UnknownCapabilityIgnored(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef",
		WithCapabilities(CapCommands))
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv CAP * ACK :example.org/other"))
	assert.True(t, r.negotiating())

	ready := observeLine(t, r, ":tmi.trovo.tv CAP * ACK :trovo.tv/commands")
	assert.Nil(t, ready)
	ready = observeLine(t, r, ":tmi.trovo.tv 001 shaken :Welcome, GLHF!")
	require.NotNil(t, ready)
	assert.Equal(t, []Capability{CapCommands}, ready.User.Caps)
}

func TestRegistration_AuthFailure(t *testing.T) {
	for _, text := range []string{
		"Improperly formatted auth",
		"Login authentication failed",
	} {
		cfg, err := NewUserConfig("shaken", "bad-token")
		require.NoError(t, err)
		r, _ := beginTestRegistration(t, cfg)

		assert.Nil(t, observeLine(t, r, ":tmi.trovo.tv NOTICE * :"+text))
		assert.False(t, r.negotiating())

		_, err = r.wait(context.Background())
		assert.ErrorIs(t, err, ErrInvalidRegistration, "notice %q", text)
	}
}

func TestRegistration_ChannelNoticeIsNotFailure(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	assert.Nil(t, observeLine(t, r,
		":tmi.trovo.tv NOTICE #museun :Login authentication failed"))
	assert.True(t, r.negotiating(), "only notices targeting '*' abort the handshake")
}

func TestRegistration_StreamClosedBeforeWelcome(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	r.streamClosed()
	_, err = r.wait(context.Background())
	assert.ErrorIs(t, err, ErrInvalidRegistration)
}

func TestRegistration_WaitHonorsContext(t *testing.T) {
	cfg, err := NewUserConfig("shaken", "oauth:abcdef")
	require.NoError(t, err)
	r, _ := beginTestRegistration(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = r.wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
