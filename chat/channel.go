package chat

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const keyPrefix = "chat"

var ErrInvalidChannel = errors.New("invalid channel key")

// Slug lower-cases an event type and joins its words with dashes.
func Slug(eventType string) string {
	lower := cases.Lower(language.Und).String(eventType)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '-'
	})
	if len(fields) == 0 {
		return "general"
	}
	return strings.Join(fields, "-")
}

// ChannelKey names the chat channel between a booker and a talent for one event type.
// The same inputs always produce the same key.
func ChannelKey(bookerID, talentID uuid.UUID, eventType string) string {
	return fmt.Sprintf("%s:%s:%s:%s", keyPrefix, bookerID, talentID, Slug(eventType))
}

type Channel struct {
	Key      string
	BookerID uuid.UUID
	TalentID uuid.UUID
	Slug     string
}

func ParseChannelKey(key string) (Channel, error) {
	parts := strings.Split(key, ":")
	if len(parts) != 4 || parts[0] != keyPrefix || parts[3] == "" {
		return Channel{}, fmt.Errorf("%q: %w", key, ErrInvalidChannel)
	}
	bookerID, err := uuid.Parse(parts[1])
	if err != nil {
		return Channel{}, fmt.Errorf("%q: booker id: %w", key, ErrInvalidChannel)
	}
	talentID, err := uuid.Parse(parts[2])
	if err != nil {
		return Channel{}, fmt.Errorf("%q: talent id: %w", key, ErrInvalidChannel)
	}
	return Channel{Key: key, BookerID: bookerID, TalentID: talentID, Slug: parts[3]}, nil
}

// IsParticipant is true for the booker and the talent encoded in the key.
func (c Channel) IsParticipant(userID uuid.UUID) bool {
	return userID == c.BookerID || userID == c.TalentID
}
