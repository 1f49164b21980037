package services

import (
	"context"
	"fmt"

	"github.com/anjiri1684/talent_booking/chat"
	"github.com/anjiri1684/talent_booking/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxChatPage = 200

// SaveChatMessage appends a message to the channel log. A message whose id already
// exists in the channel is not stored again and saved is false.
func SaveChatMessage(ctx context.Context, db *gorm.DB, channelKey string, msg chat.Message) (chat.Message, bool, error) {
	row := models.ChatMessage{
		ID:         msg.ID,
		ChannelKey: channelKey,
		SenderID:   msg.SenderID,
		Content:    msg.Content,
		CreatedAt:  msg.CreatedAt,
	}
	res := db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return msg, false, fmt.Errorf("save chat message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return msg, false, nil
	}
	msg.Seq = row.Seq
	return msg, true, nil
}

// ListChatMessages returns messages after sinceSeq in log order.
func ListChatMessages(ctx context.Context, db *gorm.DB, channelKey string, sinceSeq int64, limit int) ([]chat.Message, error) {
	if limit <= 0 || limit > maxChatPage {
		limit = maxChatPage
	}
	var rows []models.ChatMessage
	if err := db.WithContext(ctx).
		Where("channel_key = ? AND seq > ?", channelKey, sinceSeq).
		Order("seq ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	msgs := make([]chat.Message, 0, len(rows))
	for _, r := range rows {
		msgs = append(msgs, chat.Message{
			ID:        r.ID,
			Content:   r.Content,
			SenderID:  r.SenderID,
			CreatedAt: r.CreatedAt,
			Seq:       r.Seq,
		})
	}
	return msgs, nil
}

func DeleteChannelMessages(ctx context.Context, db *gorm.DB, channelKeys []string) (int64, error) {
	if len(channelKeys) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).Where("channel_key IN ?", channelKeys).Delete(&models.ChatMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete chat messages: %w", res.Error)
	}
	return res.RowsAffected, nil
}
