package chat

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	bookerID = uuid.MustParse("1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	talentID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")
)

func TestChannelKeyIsDeterministic(t *testing.T) {
	key := ChannelKey(bookerID, talentID, "  Wedding   Reception ")
	assert.Equal(t, "chat:1b4e28ba-2fa1-11d2-883f-0016d3cca427:7c9e6679-7425-40de-944b-e07fc1f90ae7:wedding-reception", key)
	assert.Equal(t, key, ChannelKey(bookerID, talentID, "wedding reception"))
	assert.NotEqual(t, key, ChannelKey(talentID, bookerID, "wedding reception"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "événement-privé", Slug("ÉVÉNEMENT Privé"))
	assert.Equal(t, "corporate-gala", Slug("Corporate:Gala"))
	assert.Equal(t, "birthday", Slug("--Birthday--"))
	assert.Equal(t, "general", Slug("   "))
}

func TestParseChannelKey(t *testing.T) {
	key := ChannelKey(bookerID, talentID, "Birthday")
	ch, err := ParseChannelKey(key)
	require.NoError(t, err)
	assert.Equal(t, bookerID, ch.BookerID)
	assert.Equal(t, talentID, ch.TalentID)
	assert.Equal(t, "birthday", ch.Slug)
	assert.True(t, ch.IsParticipant(bookerID))
	assert.True(t, ch.IsParticipant(talentID))
	assert.False(t, ch.IsParticipant(uuid.New()))

	for _, bad := range []string{"", "chat:x:y:z", "room:" + bookerID.String() + ":" + talentID.String() + ":a", "chat:" + bookerID.String() + ":" + talentID.String() + ":", "chat:" + bookerID.String() + ":" + talentID.String()} {
		_, err := ParseChannelKey(bad)
		assert.ErrorIs(t, err, ErrInvalidChannel, bad)
	}
}
