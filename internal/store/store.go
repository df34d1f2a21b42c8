package store

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"corkboard/internal/models"
)

var (
	ErrNotFound      = errors.New("record not found")
	ErrUsernameTaken = errors.New("username already taken")
)

const (
	PostsFile = "topics.json"
	UsersFile = "users.json"
)

// Store holds both collections in memory and mirrors every mutation to the
// JSON files before the caller gets its answer back (write-through). A single
// mutex is the only mutation entry point; there are no partial updates.
type Store struct {
	mu sync.RWMutex

	postsPath string
	usersPath string

	posts []models.Post
	users []models.User

	nextPostID int
	nextUserID int
}

// Open loads topics.json and users.json from dir, creating the directory and
// seeding empty collections if they do not exist yet.
func Open(dir string) *Store {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatalf("Failed to create data dir %s: %v", dir, err)
	}

	s := &Store{
		postsPath: filepath.Join(dir, PostsFile),
		usersPath: filepath.Join(dir, UsersFile),
	}
	loadJSON(s.postsPath, &s.posts, []models.Post{})
	loadJSON(s.usersPath, &s.users, []models.User{})

	s.nextPostID = 1
	for _, p := range s.posts {
		if p.ID >= s.nextPostID {
			s.nextPostID = p.ID + 1
		}
	}
	s.nextUserID = 1
	for _, u := range s.users {
		if u.ID >= s.nextUserID {
			s.nextUserID = u.ID + 1
		}
	}

	log.Printf("Store opened: %d posts, %d users", len(s.posts), len(s.users))
	return s
}

// loadJSON reads a JSON array into dst. A missing file is seeded with def;
// any other failure is logged and dst is left at def without touching disk.
func loadJSON[T any](path string, dst *[]T, def []T) {
	*dst = def

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			saveJSON(path, def)
		} else {
			log.Printf("Failed to read %s: %v", path, err)
		}
		return
	}

	var loaded []T
	if err := json.Unmarshal(raw, &loaded); err != nil {
		log.Printf("Failed to parse %s: %v", path, err)
		return
	}
	*dst = loaded
}

// saveJSON rewrites the whole file as pretty-printed JSON so it stays
// human-editable. Failures are logged only; the in-memory state already moved
// on and the next successful save re-converges the file.
func saveJSON[T any](path string, collection []T) {
	data, err := json.MarshalIndent(collection, "", "  ")
	if err != nil {
		log.Printf("Failed to serialize %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("Failed to write %s: %v", path, err)
	}
}

// Posts returns a copy of the post collection.
func (s *Store) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

func (s *Store) FindPost(id int) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

func (s *Store) CreatePost(title, description string, author int) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	post := models.Post{
		ID:          s.nextPostID,
		Title:       title,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
		Author:      author,
	}
	s.nextPostID++
	s.posts = append(s.posts, post)
	saveJSON(s.postsPath, s.posts)
	return post
}

func (s *Store) UpdatePost(id int, title, description string) (models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Title = title
			s.posts[i].Description = description
			s.posts[i].UpdatedAt = time.Now()
			saveJSON(s.postsPath, s.posts)
			return s.posts[i], nil
		}
	}
	return models.Post{}, ErrNotFound
}

func (s *Store) DeletePost(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts = append(s.posts[:i], s.posts[i+1:]...)
			saveJSON(s.postsPath, s.posts)
			return nil
		}
	}
	return ErrNotFound
}

func (s *Store) FindUser(id int) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) FindUserByUsername(username string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return models.User{}, false
}

func (s *Store) UserCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// CreateUser registers a new user. passwordHash is stored as-is; hashing is
// the caller's concern.
func (s *Store) CreateUser(username, passwordHash, nickname string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return models.User{}, ErrUsernameTaken
		}
	}

	user := models.User{
		ID:       s.nextUserID,
		Username: username,
		Password: passwordHash,
		Nickname: nickname,
	}
	s.nextUserID++
	s.users = append(s.users, user)
	saveJSON(s.usersPath, s.users)
	return user, nil
}
