package posts

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/comments"
	"campusalert/pkg/user"
	"time"
)

type Location struct {
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
	Address string  `json:"address"`
}

type Post struct {
	ID       string              `json:"id"`
	Author   *user.User          `json:"author"`
	Content  string              `json:"content"`
	Images   []string            `json:"images"`
	Videos   []string            `json:"videos"`
	Location Location            `json:"location"`
	Category *catalog.Category   `json:"category"`
	Hashtags []string            `json:"hashtags"`
	Created  time.Time           `json:"created"`
	Likes    int                 `json:"likes"`
	LikedBy  map[string]bool     `json:"-"`
	Comments []*comments.Comment `json:"comments"`
	// Status is the classification at the time the record was built.
	// Responses recompute it with Classify.
	Status Status `json:"status"`
}

// clone copies p deeply enough that the copy's slices and like set can be
// replaced without touching p. Comment records are shared.
func (p *Post) clone() *Post {
	res := *p

	res.Comments = make([]*comments.Comment, len(p.Comments))
	copy(res.Comments, p.Comments)

	res.LikedBy = make(map[string]bool, len(p.LikedBy)+1)
	for u := range p.LikedBy {
		res.LikedBy[u] = true
	}

	return &res
}

func (p *Post) LikedByUser(userID string) bool {
	return p.LikedBy[userID]
}

func (p *Post) toggleLike(userID string) *Post {
	res := p.clone()
	if res.LikedBy[userID] {
		delete(res.LikedBy, userID)
		if res.Likes > 0 {
			res.Likes--
		}
	} else {
		res.LikedBy[userID] = true
		res.Likes++
	}

	return res
}
