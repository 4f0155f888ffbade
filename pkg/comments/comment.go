package comments

import (
	"campusalert/pkg/user"
	"errors"
	"strings"
	"time"
)

var ErrEmptyComment = errors.New("comment is empty")

type Comment struct {
	ID      string          `json:"id"`
	Author  *user.User      `json:"author"`
	Content string          `json:"content"`
	Created time.Time       `json:"created"`
	Likes   int             `json:"likes"`
	LikedBy map[string]bool `json:"-"`
}

// New builds a comment; whitespace-only text is rejected.
func New(id string, author *user.User, content string, now time.Time) (*Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}

	return &Comment{
		ID:      id,
		Author:  author,
		Content: content,
		Created: now,
		Likes:   0,
		LikedBy: map[string]bool{},
	}, nil
}

// ToggleLike returns a copy of c with userID's like added or withdrawn.
func (c *Comment) ToggleLike(userID string) *Comment {
	res := *c
	res.LikedBy = make(map[string]bool, len(c.LikedBy)+1)
	for u := range c.LikedBy {
		res.LikedBy[u] = true
	}

	if res.LikedBy[userID] {
		delete(res.LikedBy, userID)
		if res.Likes > 0 {
			res.Likes--
		}
	} else {
		res.LikedBy[userID] = true
		res.Likes++
	}

	return &res
}

func (c *Comment) LikedByUser(userID string) bool {
	return c.LikedBy[userID]
}
