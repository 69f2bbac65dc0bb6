package schema

import "time"

// KeyValueStore holds small pieces of node state keyed by name, such as the
// emitter block cursor of each network
type KeyValueStore struct {
	Key       string    `gorm:"column:key;primaryKey;type:varchar(255)"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (KeyValueStore) TableName() string {
	return "key_value_store"
}
