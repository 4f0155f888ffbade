package posts

import (
	"campusalert/pkg/comments"
	"context"
	"errors"
	"sync"
)

var (
	ErrNotFound        = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// MemoryPostsRepo is the process-wide post store. The slice it holds is
// never modified after publication: every write builds a new slice (and a
// new record for the post it touches) and swaps it in, so a snapshot handed
// to a reader stays valid.
type MemoryPostsRepo struct {
	mu   sync.RWMutex
	data []*Post
}

func NewRepo(seed []*Post) *MemoryPostsRepo {
	data := make([]*Post, len(seed))
	copy(data, seed)
	return &MemoryPostsRepo{data: data}
}

// GetAll returns the current snapshot, newest first. Callers must not modify it.
func (repo *MemoryPostsRepo) GetAll(ctx context.Context) ([]*Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return repo.data, nil
}

func (repo *MemoryPostsRepo) GetByID(ctx context.Context, id string) (*Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, p := range repo.data {
		if p.ID == id {
			return p, nil
		}
	}

	return nil, ErrNotFound
}

func (repo *MemoryPostsRepo) GetByAuthorID(ctx context.Context, authorID string) ([]*Post, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()
	return ByAuthor(repo.data, authorID), nil
}

// Add prepends p.
func (repo *MemoryPostsRepo) Add(ctx context.Context, p *Post) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	data := make([]*Post, 0, len(repo.data)+1)
	data = append(data, p)
	data = append(data, repo.data...)
	repo.data = data

	return nil
}

// AddComment appends c to the comments of post postID.
func (repo *MemoryPostsRepo) AddComment(ctx context.Context, postID string, c *comments.Comment) (*Post, error) {
	return repo.replace(postID, func(p *Post) (*Post, error) {
		res := p.clone()
		res.Comments = append(res.Comments, c)
		return res, nil
	})
}

func (repo *MemoryPostsRepo) ToggleLike(ctx context.Context, postID, userID string) (*Post, error) {
	return repo.replace(postID, func(p *Post) (*Post, error) {
		return p.toggleLike(userID), nil
	})
}

func (repo *MemoryPostsRepo) ToggleCommentLike(ctx context.Context, postID, commentID, userID string) (*Post, error) {
	return repo.replace(postID, func(p *Post) (*Post, error) {
		res := p.clone()
		for i, c := range res.Comments {
			if c.ID == commentID {
				res.Comments[i] = c.ToggleLike(userID)
				return res, nil
			}
		}

		return nil, ErrCommentNotFound
	})
}

func (repo *MemoryPostsRepo) replace(postID string, update func(*Post) (*Post, error)) (*Post, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for i, p := range repo.data {
		if p.ID != postID {
			continue
		}

		updated, err := update(p)
		if err != nil {
			return nil, err
		}

		data := make([]*Post, len(repo.data))
		copy(data, repo.data)
		data[i] = updated
		repo.data = data

		return updated, nil
	}

	return nil, ErrNotFound
}
