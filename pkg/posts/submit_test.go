package posts

import (
	"campusalert/pkg/catalog"
	"campusalert/pkg/location"
	"campusalert/pkg/media"
	"context"
	"errors"
	"math"
	"math/rand"
	"reflect"
	"strings"
	"testing"
	"time"
)

var testCatalog = catalog.Default()

func newTestSubmitter(repo *MemoryPostsRepo) *Submitter {
	n := 0
	return &Submitter{
		Categories: testCatalog,
		Media:      media.NewMemoryStore("/media/"),
		Places:     location.NewSynthesizer(location.Reference, rand.NewSource(7)),
		Posts:      repo,
		Clock:      func() time.Time { return now },
		NewID: func() string {
			n++
			return "generated-" + string(rune('0'+n))
		},
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	repo := NewRepo(testPosts())
	s := newTestSubmitter(repo)
	category := testCatalog.Categories()[0]

	p, err := s.Submit(ctx, ahmad, &Draft{
		Content:    "Lubang di Blok B",
		CategoryID: category.ID,
		Address:    "Blok B",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.ID != "generated-1" || p.Author != ahmad || p.Category != category {
		t.Errorf("unexpected identity fields: %+v", p)
	}
	if p.Status != StatusNew || p.Likes != 0 || len(p.Comments) != 0 {
		t.Errorf("expected new post with no likes or comments, but was %+v", p)
	}
	if !reflect.DeepEqual(p.Hashtags, []string{}) {
		t.Errorf("expected no hashtags, but was %v", p.Hashtags)
	}
	if !p.Created.Equal(now) {
		t.Errorf("expected created %v but was %v", now, p.Created)
	}
	if p.Location.Address != "Blok B" {
		t.Errorf("unexpected address %q", p.Location.Address)
	}
	if math.Abs(p.Location.Lat-location.Reference.Lat) > location.MaxJitter ||
		math.Abs(p.Location.Lng-location.Reference.Lng) > location.MaxJitter {
		t.Errorf("synthesized location %v too far from reference", p.Location)
	}

	all, _ := repo.GetAll(ctx)
	if len(all) != 5 || all[0] != p {
		t.Errorf("expected submitted post prepended, but store is %v", ids(all))
	}
}

func TestSubmitUsesSuppliedPoint(t *testing.T) {
	s := newTestSubmitter(NewRepo(nil))
	point := &location.Point{Lat: 2.1, Lng: 102.4}

	p, err := s.Build(ahmad, &Draft{Content: "x", CategoryID: "1", Address: "Blok B", Point: point})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Location.Lat != 2.1 || p.Location.Lng != 102.4 {
		t.Errorf("expected supplied coordinates, but was %v", p.Location)
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name   string
		draft  *Draft
		fields []string
	}{
		{"Empty", &Draft{}, []string{"content", "category", "address"}},
		{"BlankContent", &Draft{Content: "   ", CategoryID: "1", Address: "Blok B"}, []string{"content"}},
		{"UnknownCategory", &Draft{Content: "x", CategoryID: "99", Address: "Blok B"}, []string{"category"}},
		{"MissingAddress", &Draft{Content: "x", CategoryID: "1", Address: " "}, []string{"address"}},
		{"EmptyImage", &Draft{Content: "x", CategoryID: "1", Address: "Blok B", Media: []*media.Attachment{
			{ContentType: "image/png", Name: "a.png"},
		}}, []string{"media"}},
	}

	for i, c := range cases {
		repo := NewRepo(testPosts())
		s := newTestSubmitter(repo)

		_, err := s.Submit(context.Background(), ahmad, c.draft)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("test #%d %s fail, expected validation error, but was %v", i, c.name, err)
		}

		fields := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			fields = append(fields, f.Field)
		}
		if !reflect.DeepEqual(fields, c.fields) {
			t.Errorf("test #%d %s fail, expected fields %v but was %v", i, c.name, c.fields, fields)
		}

		all, _ := repo.GetAll(context.Background())
		if len(all) != 4 {
			t.Errorf("test #%d %s fail, store was modified", i, c.name)
		}
	}
}

func TestSubmitMedia(t *testing.T) {
	s := newTestSubmitter(NewRepo(nil))

	p, err := s.Build(ahmad, &Draft{
		Content:    "Longkang tersumbat",
		CategoryID: "3",
		Address:    "Blok D",
		Media: []*media.Attachment{
			{ContentType: "image/jpeg", Name: "a.jpg", Data: []byte("jpeg")},
			{ContentType: "video/mp4", Name: "b.mp4", Data: []byte("mp4")},
			{ContentType: "application/pdf", Name: "c.pdf", Data: []byte("pdf")},
			{ContentType: "image/png", Name: "d.png", Data: []byte("png")},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(p.Images) != 2 || len(p.Videos) != 1 {
		t.Fatalf("expected 2 images and 1 video, but was %v, %v", p.Images, p.Videos)
	}
	for _, ref := range append(p.Images, p.Videos...) {
		if !strings.HasPrefix(ref, "/media/") {
			t.Errorf("unexpected media reference %q", ref)
		}
	}
}

type failingAdder struct{}

func (failingAdder) Add(ctx context.Context, p *Post) error {
	return errors.New("store is closed")
}

type recordingMediaStore struct {
	limit int
	puts  int
	live  map[string]bool
}

func (s *recordingMediaStore) Put(a *media.Attachment) (string, error) {
	if s.puts == s.limit {
		return "", errors.New("disk full")
	}
	s.puts++
	ref := "/media/" + a.Name
	s.live[ref] = true
	return ref, nil
}

func (s *recordingMediaStore) Delete(ref string) {
	delete(s.live, ref)
}

func TestSubmitDropsMediaOnFailure(t *testing.T) {
	attachments := []*media.Attachment{
		{ContentType: "image/jpeg", Name: "a.jpg", Data: []byte("jpeg")},
		{ContentType: "video/mp4", Name: "b.mp4", Data: []byte("mp4")},
	}

	cases := []struct {
		name  string
		limit int
		posts PostAdder
	}{
		{"StoreFails", 1, NewRepo(nil)},
		{"AddFails", 2, failingAdder{}},
	}

	for i, c := range cases {
		store := &recordingMediaStore{limit: c.limit, live: map[string]bool{}}
		s := newTestSubmitter(NewRepo(nil))
		s.Media = store
		s.Posts = c.posts

		_, err := s.Submit(context.Background(), ahmad, &Draft{
			Content: "x", CategoryID: "1", Address: "Blok B", Media: attachments,
		})
		if err == nil {
			t.Fatalf("test #%d %s fail, expected error", i, c.name)
		}
		if store.puts == 0 {
			t.Errorf("test #%d %s fail, expected media to be written before the failure", i, c.name)
		}
		if len(store.live) != 0 {
			t.Errorf("test #%d %s fail, expected no stored media, but was %v", i, c.name, store.live)
		}
	}
}

func TestParseHashtags(t *testing.T) {
	cases := []struct {
		in       string
		expected []string
	}{
		{"", []string{}},
		{"#Penting random #BlokA", []string{"#Penting", "#BlokA"}},
		{"  #a\t#b\nc  ", []string{"#a", "#b"}},
		{"no tags here", []string{}},
	}

	for i, c := range cases {
		if res := ParseHashtags(c.in); !reflect.DeepEqual(res, c.expected) {
			t.Errorf("test #%d fail, expected: %v, but was: %v", i, c.expected, res)
		}
	}
}
