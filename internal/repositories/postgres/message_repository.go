package postgres

import (
	"gradpolls/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(message *models.DirectMessage) error {
	return r.db.Create(message).Error
}

// History returns the full thread between two users, oldest first.
func (r *MessageRepository) History(userID, otherID uint) ([]models.DirectMessage, error) {
	var messages []models.DirectMessage
	err := r.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flags everything the other user sent to the reader as read.
func (r *MessageRepository) MarkRead(readerID, otherID uint) error {
	return r.db.Model(&models.DirectMessage{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ?", otherID, readerID, false).
		Update("read", true).Error
}

// UnreadCounts returns, per sender, how many unread messages await the user.
func (r *MessageRepository) UnreadCounts(userID uint) (map[uint]int64, error) {
	var rows []struct {
		SenderID uint
		Count    int64
	}
	err := r.db.Model(&models.DirectMessage{}).
		Select("sender_id, COUNT(*) AS count").
		Where("recipient_id = ? AND read = ?", userID, false).
		Group("sender_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.SenderID] = row.Count
	}
	return counts, nil
}

// PinConversation reports whether a new pin was created; false means the
// thread was already pinned.
func (r *MessageRepository) PinConversation(userID, otherID uint) (bool, error) {
	pin := models.PinnedConversation{UserID: userID, ConversationWithID: otherID}
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&pin)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *MessageRepository) UnpinConversation(userID, otherID uint) (bool, error) {
	res := r.db.
		Where("user_id = ? AND conversation_with_id = ?", userID, otherID).
		Delete(&models.PinnedConversation{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *MessageRepository) PinnedSet(userID uint) (map[uint]bool, error) {
	var ids []uint
	err := r.db.Model(&models.PinnedConversation{}).
		Where("user_id = ?", userID).
		Pluck("conversation_with_id", &ids).Error
	if err != nil {
		return nil, err
	}
	pinned := make(map[uint]bool, len(ids))
	for _, id := range ids {
		pinned[id] = true
	}
	return pinned, nil
}
