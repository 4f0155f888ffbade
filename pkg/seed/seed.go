package seed

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/comments"
	"campusalert/pkg/posts"
	"campusalert/pkg/user"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed posts.yaml
var defaultPosts []byte

type Lookup interface {
	Category(id string) (*catalog.Category, bool)
	User(id string) (*user.User, bool)
}

type document struct {
	Posts []postRecord `yaml:"posts"`
}

type postRecord struct {
	ID       string          `yaml:"id"`
	Author   string          `yaml:"author"`
	Category string          `yaml:"category"`
	Content  string          `yaml:"content"`
	Images   []string        `yaml:"images"`
	Videos   []string        `yaml:"videos"`
	Location posts.Location  `yaml:"location"`
	Hashtags []string        `yaml:"hashtags"`
	Created  string          `yaml:"created"`
	Likes    int             `yaml:"likes"`
	Comments []commentRecord `yaml:"comments"`
}

type commentRecord struct {
	ID      string `yaml:"id"`
	Author  string `yaml:"author"`
	Content string `yaml:"content"`
	Created string `yaml:"created"`
	Likes   int    `yaml:"likes"`
}

// Load returns the built-in mock reports, or the ones in path when it is set.
func Load(path string, lookup Lookup, now time.Time) ([]*posts.Post, error) {
	data := defaultPosts
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
	}

	return Parse(data, lookup, now)
}

// Parse decodes a YAML seed document. Timestamps that do not parse are
// reported as *posts.ParseError.
func Parse(data []byte, lookup Lookup, now time.Time) ([]*posts.Post, error) {
	var doc document
	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	res := make([]*posts.Post, 0, len(doc.Posts))
	for _, rec := range doc.Posts {
		p, err := rec.post(lookup, now)
		if err != nil {
			return nil, fmt.Errorf("seed post %s: %w", rec.ID, err)
		}
		res = append(res, p)
	}

	return res, nil
}

func (rec postRecord) post(lookup Lookup, now time.Time) (*posts.Post, error) {
	author, ok := lookup.User(rec.Author)
	if !ok {
		return nil, fmt.Errorf("unknown user %q", rec.Author)
	}

	category, ok := lookup.Category(rec.Category)
	if !ok {
		return nil, fmt.Errorf("unknown category %q", rec.Category)
	}

	created, err := posts.ParseTimestamp(rec.Created)
	if err != nil {
		return nil, err
	}

	cs := make([]*comments.Comment, 0, len(rec.Comments))
	for _, cr := range rec.Comments {
		c, err := cr.comment(lookup)
		if err != nil {
			return nil, fmt.Errorf("comment %s: %w", cr.ID, err)
		}
		cs = append(cs, c)
	}

	return &posts.Post{
		ID:       rec.ID,
		Author:   author,
		Content:  rec.Content,
		Images:   orEmpty(rec.Images),
		Videos:   orEmpty(rec.Videos),
		Location: rec.Location,
		Category: category,
		Hashtags: orEmpty(rec.Hashtags),
		Created:  created,
		Likes:    rec.Likes,
		LikedBy:  map[string]bool{},
		Comments: cs,
		Status:   posts.Classify(created, now),
	}, nil
}

func (cr commentRecord) comment(lookup Lookup) (*comments.Comment, error) {
	author, ok := lookup.User(cr.Author)
	if !ok {
		return nil, fmt.Errorf("unknown user %q", cr.Author)
	}

	created, err := posts.ParseTimestamp(cr.Created)
	if err != nil {
		return nil, err
	}

	c, err := comments.New(cr.ID, author, cr.Content, created)
	if err != nil {
		return nil, err
	}
	c.Likes = cr.Likes

	return c, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
