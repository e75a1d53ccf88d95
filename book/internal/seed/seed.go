// Package seed loads a book catalog described in YAML into a store.
package seed

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"taletrail/book/pkg/model"
)

// Catalog is the seed file layout.
type Catalog struct {
	Countries []Country  `yaml:"countries"`
	Genres    []string   `yaml:"genres"`
	Books     []Book     `yaml:"books"`
	Users     []User     `yaml:"users"`
	Ratings   []Rating   `yaml:"ratings"`
	Favorites []Favorite `yaml:"favorites"`
}

// Country is a seeded country.
type Country struct {
	Code      string   `yaml:"code"`
	Name      string   `yaml:"name"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
}

// Book is a seeded book. Key names the book inside the catalog and
// defaults to the title.
type Book struct {
	Key             string   `yaml:"key"`
	Title           string   `yaml:"title"`
	Author          string   `yaml:"author"`
	Description     string   `yaml:"description"`
	PublicationYear int      `yaml:"year"`
	ISBN            string   `yaml:"isbn"`
	CoverImageURL   string   `yaml:"cover"`
	Country         string   `yaml:"country"`
	Genres          []string `yaml:"genres"`
}

func (b Book) key() string {
	if b.Key != "" {
		return b.Key
	}
	return b.Title
}

// User is a seeded user with a plaintext password.
type User struct {
	Username string `yaml:"username"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

// Rating is a seeded rating referencing a user name and a book key.
type Rating struct {
	User   string `yaml:"user"`
	Book   string `yaml:"book"`
	Rating int    `yaml:"rating"`
	Review string `yaml:"review"`
}

// Favorite is a seeded favorite referencing a user name and a book key.
type Favorite struct {
	User string `yaml:"user"`
	Book string `yaml:"book"`
}

// Result maps catalog names to the ids assigned by the store.
type Result struct {
	Countries map[string]int64
	Genres    map[string]int64
	Books     map[string]int64
	Users     map[string]int64
}

// Store is the subset of the repository used for seeding.
type Store interface {
	CreateCountry(ctx context.Context, c *model.Country) error
	CreateGenre(ctx context.Context, g *model.Genre) error
	CreateBook(ctx context.Context, b *model.Book) error
	AssignGenres(ctx context.Context, bookID int64, genreIDs []int64) error
	CreateUser(ctx context.Context, u *model.User) error
	UpsertRating(ctx context.Context, r *model.Rating) (*model.RatingSummary, error)
	AddFavorite(ctx context.Context, userID int64, bookID int64, at time.Time) error
}

// Load decodes a catalog from YAML.
func Load(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := yaml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// Seeder writes catalogs into a store.
type Seeder struct {
	store      Store
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// New creates a seeder hashing passwords with the given bcrypt cost.
func New(store Store, bcryptCost int, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, bcryptCost: bcryptCost, now: time.Now, logger: logger}
}

// Apply inserts the catalog. Ratings are written in order, each one a second
// after the previous, so "latest" orderings are deterministic.
func (s *Seeder) Apply(ctx context.Context, c *Catalog) (*Result, error) {
	res := &Result{
		Countries: map[string]int64{},
		Genres:    map[string]int64{},
		Books:     map[string]int64{},
		Users:     map[string]int64{},
	}
	for _, cc := range c.Countries {
		m := &model.Country{Code: cc.Code, Name: cc.Name, Latitude: cc.Latitude, Longitude: cc.Longitude}
		if err := s.store.CreateCountry(ctx, m); err != nil {
			return nil, fmt.Errorf("country %s: %w", cc.Code, err)
		}
		res.Countries[cc.Code] = m.ID
	}
	for _, name := range c.Genres {
		g := &model.Genre{Name: name}
		if err := s.store.CreateGenre(ctx, g); err != nil {
			return nil, fmt.Errorf("genre %s: %w", name, err)
		}
		res.Genres[name] = g.ID
	}
	for _, b := range c.Books {
		if err := s.createBook(ctx, res, b); err != nil {
			return nil, fmt.Errorf("book %s: %w", b.key(), err)
		}
	}
	for _, u := range c.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("hash password of %s: %w", u.Username, err)
		}
		m := &model.User{Username: u.Username, Email: u.Email, PasswordHash: string(hash)}
		if err := s.store.CreateUser(ctx, m); err != nil {
			return nil, fmt.Errorf("user %s: %w", u.Username, err)
		}
		res.Users[u.Username] = m.ID
	}

	at := s.now().UTC()
	for i, r := range c.Ratings {
		userID, bookID, err := res.lookup(r.User, r.Book)
		if err != nil {
			return nil, fmt.Errorf("rating %d: %w", i, err)
		}
		if _, err := s.store.UpsertRating(ctx, &model.Rating{
			UserID:     userID,
			BookID:     bookID,
			Value:      r.Rating,
			ReviewText: r.Review,
			CreatedAt:  at.Add(time.Duration(i) * time.Second),
		}); err != nil {
			return nil, fmt.Errorf("rating %d: %w", i, err)
		}
	}
	for i, f := range c.Favorites {
		userID, bookID, err := res.lookup(f.User, f.Book)
		if err != nil {
			return nil, fmt.Errorf("favorite %d: %w", i, err)
		}
		if err := s.store.AddFavorite(ctx, userID, bookID, at.Add(time.Duration(i)*time.Second)); err != nil {
			return nil, fmt.Errorf("favorite %d: %w", i, err)
		}
	}
	s.logger.Info("Seeded catalog",
		zap.Int("countries", len(res.Countries)),
		zap.Int("genres", len(res.Genres)),
		zap.Int("books", len(res.Books)),
		zap.Int("users", len(res.Users)),
		zap.Int("ratings", len(c.Ratings)),
		zap.Int("favorites", len(c.Favorites)),
	)
	return res, nil
}

func (s *Seeder) createBook(ctx context.Context, res *Result, b Book) error {
	m := &model.Book{
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		PublicationYear: b.PublicationYear,
		ISBN:            b.ISBN,
		CoverImageURL:   b.CoverImageURL,
	}
	if b.Country != "" {
		id, ok := res.Countries[b.Country]
		if !ok {
			return fmt.Errorf("unknown country %q", b.Country)
		}
		m.CountryID = &id
	}
	if err := s.store.CreateBook(ctx, m); err != nil {
		return err
	}
	res.Books[b.key()] = m.ID
	if len(b.Genres) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(b.Genres))
	for _, name := range b.Genres {
		id, ok := res.Genres[name]
		if !ok {
			return fmt.Errorf("unknown genre %q", name)
		}
		ids = append(ids, id)
	}
	return s.store.AssignGenres(ctx, m.ID, ids)
}

func (r *Result) lookup(user, book string) (int64, int64, error) {
	userID, ok := r.Users[user]
	if !ok {
		return 0, 0, fmt.Errorf("unknown user %q", user)
	}
	bookID, ok := r.Books[book]
	if !ok {
		return 0, 0, fmt.Errorf("unknown book %q", book)
	}
	return userID, bookID, nil
}
