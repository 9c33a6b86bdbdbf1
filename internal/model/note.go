package model

import "time"

// Note заметка пользователя, хранится целиком в notes.json.
type Note struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	Tags        []string  `json:"tags"`
	Category    string    `json:"category"`
	Comments    []Comment `json:"comments"`
	UserID      int64     `json:"userId"`
	LinkedNotes []int64   `json:"linkedNotes"`
	IsFavorite  bool      `json:"isFavorite,omitempty"`
	Archived    bool      `json:"archived,omitempty"`
	Deleted     bool      `json:"deleted,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// HasTag точное совпадение тега.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Links сообщает, ссылается ли заметка на id.
func (n *Note) Links(id int64) bool {
	for _, l := range n.LinkedNotes {
		if l == id {
			return true
		}
	}
	return false
}

// Comment комментарий к заметке.
// ID API никогда не присваивает: комментарий адресуется по имени автора.
type Comment struct {
	ID      int64  `json:"id,omitempty"`
	User    string `json:"user"`
	Comment string `json:"comment"`
	Likes   int    `json:"likes"`
}
