package posts

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/comments"
	"campusalert/pkg/location"
	"campusalert/pkg/media"
	"campusalert/pkg/user"
	"context"
	"fmt"
	"strings"
)

// Draft is what a user fills in on the report form.
type Draft struct {
	Content    string
	CategoryID string
	Address    string
	Hashtags   string
	// Point is nil when the client supplied no coordinates.
	Point *location.Point
	Media []*media.Attachment
}

type FieldError struct {
	Field string
	Msg   string
}

type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Msg)
	}

	return "invalid report: " + strings.Join(parts, ", ")
}

type CategoryLookup interface {
	Category(id string) (*catalog.Category, bool)
}

type MediaStore interface {
	Put(a *media.Attachment) (string, error)
	Delete(ref string)
}

type PlaceSynthesizer interface {
	Near() location.Point
}

type PostAdder interface {
	Add(ctx context.Context, p *Post) error
}

type Submitter struct {
	Categories CategoryLookup
	Media      MediaStore
	Places     PlaceSynthesizer
	Posts      PostAdder
	Clock      Clock
	NewID      func() string
}

// Validate checks the required fields and resolves the category.
func (s *Submitter) Validate(d *Draft) (*catalog.Category, error) {
	var fields []FieldError

	if strings.TrimSpace(d.Content) == "" {
		fields = append(fields, FieldError{Field: "content", Msg: "is required"})
	}

	var category *catalog.Category
	if d.CategoryID == "" {
		fields = append(fields, FieldError{Field: "category", Msg: "is required"})
	} else if c, ok := s.Categories.Category(d.CategoryID); ok {
		category = c
	} else {
		fields = append(fields, FieldError{Field: "category", Msg: "is unknown"})
	}

	if strings.TrimSpace(d.Address) == "" {
		fields = append(fields, FieldError{Field: "address", Msg: "is required"})
	}

	for _, a := range d.Media {
		if a.Kind() != media.Other && len(a.Data) == 0 {
			fields = append(fields, FieldError{Field: "media", Msg: "cannot be empty"})
			break
		}
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	return category, nil
}

// Build turns a valid draft into a new post. The attachments are written to
// the media store; the post itself is not stored.
func (s *Submitter) Build(author *user.User, d *Draft) (*Post, error) {
	category, err := s.Validate(d)
	if err != nil {
		return nil, err
	}

	images, videos, err := s.storeMedia(d.Media)
	if err != nil {
		return nil, err
	}

	point := s.Places.Near()
	if d.Point != nil {
		point = *d.Point
	}

	now := s.Clock()
	return &Post{
		ID:       s.NewID(),
		Author:   author,
		Content:  d.Content,
		Images:   images,
		Videos:   videos,
		Location: Location{Lat: point.Lat, Lng: point.Lng, Address: d.Address},
		Category: category,
		Hashtags: ParseHashtags(d.Hashtags),
		Created:  now,
		Likes:    0,
		LikedBy:  map[string]bool{},
		Comments: []*comments.Comment{},
		Status:   Classify(now, now),
	}, nil
}

// Submit builds the post and prepends it to the store.
func (s *Submitter) Submit(ctx context.Context, author *user.User, d *Draft) (*Post, error) {
	p, err := s.Build(author, d)
	if err != nil {
		return nil, err
	}

	err = s.Posts.Add(ctx, p)
	if err != nil {
		s.dropMedia(p.Images)
		s.dropMedia(p.Videos)
		return nil, fmt.Errorf("add post: %w", err)
	}

	return p, nil
}

func (s *Submitter) storeMedia(attachments []*media.Attachment) ([]string, []string, error) {
	images := []string{}
	videos := []string{}

	for _, a := range attachments {
		kind := a.Kind()
		if kind == media.Other {
			continue
		}

		ref, err := s.Media.Put(a)
		if err != nil {
			s.dropMedia(images)
			s.dropMedia(videos)
			return nil, nil, fmt.Errorf("store %s: %w", a.Name, err)
		}

		if kind == media.Image {
			images = append(images, ref)
		} else {
			videos = append(videos, ref)
		}
	}

	return images, videos, nil
}

func (s *Submitter) dropMedia(refs []string) {
	for _, ref := range refs {
		s.Media.Delete(ref)
	}
}

// ParseHashtags keeps the whitespace-separated tokens that start with '#'.
func ParseHashtags(text string) []string {
	res := []string{}
	for _, tok := range strings.Fields(text) {
		if strings.HasPrefix(tok, "#") {
			res = append(res, tok)
		}
	}

	return res
}
