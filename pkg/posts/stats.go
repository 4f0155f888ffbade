package posts

import "time"

type Stats struct {
	Total int `json:"total"`
	New   int `json:"new"`
	Old   int `json:"old"`
	Today int `json:"today"`
}

type ProfileStats struct {
	Stats
	Likes     int `json:"likes"`
	Locations int `json:"locations"`
}

func Summarize(posts []*Post, now time.Time) Stats {
	var s Stats
	for _, p := range posts {
		s.Total++

		age := AgeInDays(p.Created, now)
		if age <= FreshDays {
			s.New++
		} else {
			s.Old++
		}
		if age == 0 {
			s.Today++
		}
	}

	return s
}

func ByAuthor(posts []*Post, userID string) []*Post {
	res := make([]*Post, 0)
	for _, p := range posts {
		if p.Author != nil && p.Author.ID == userID {
			res = append(res, p)
		}
	}

	return res
}

// SummarizeUser aggregates over the posts authored by userID.
func SummarizeUser(posts []*Post, userID string, now time.Time) ProfileStats {
	own := ByAuthor(posts, userID)

	addresses := make(map[string]struct{}, len(own))
	likes := 0
	for _, p := range own {
		likes += p.Likes
		addresses[p.Location.Address] = struct{}{}
	}

	return ProfileStats{
		Stats:     Summarize(own, now),
		Likes:     likes,
		Locations: len(addresses),
	}
}
