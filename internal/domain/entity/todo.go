package entity

import "time"

// Todo is a row of the todos table. Completed and CreatedAt stay nil when the
// table was provisioned without those columns, and are then omitted from JSON.
type Todo struct {
	ID        int64      `json:"id" gorm:"column:id;primaryKey"`
	Text      string     `json:"text" gorm:"column:text"`
	Completed *bool      `json:"completed,omitempty" gorm:"column:completed"`
	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"column:created_at"`
}

func (Todo) TableName() string {
	return "todos"
}

// IsCompleted reports false for todos without a completed column.
func (t Todo) IsCompleted() bool {
	return t.Completed != nil && *t.Completed
}
