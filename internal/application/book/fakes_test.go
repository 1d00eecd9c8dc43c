package book

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	apperrors "github.com/xiebiao/locallibrary/pkg/errors"
)

// fakeStore 内存版存储,四个仓储共享同一份数据
// fail按"集合.操作"注入错误,如 fail["authors.Count"]
type fakeStore struct {
	mu        sync.Mutex
	authors   map[string]*author.Author
	genres    map[string]*genre.Genre
	books     map[string]*book.Book
	instances map[string]*bookinstance.BookInstance
	fail      map[string]error
	saves     int
	seq       int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		authors:   make(map[string]*author.Author),
		genres:    make(map[string]*genre.Genre),
		books:     make(map[string]*book.Book),
		instances: make(map[string]*bookinstance.BookInstance),
		fail:      make(map[string]error),
	}
}

func (s *fakeStore) err(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail[op]
}

func (s *fakeStore) addAuthor(id, first, family string) *author.Author {
	a := author.NewAuthor(first, family, nil, nil)
	a.ID = id
	s.authors[id] = a
	return a
}

func (s *fakeStore) addGenre(id, name string) *genre.Genre {
	g := genre.NewGenre(name)
	g.ID = id
	s.genres[id] = g
	return g
}

func (s *fakeStore) addBook(id, title, authorID string, genreIDs ...string) *book.Book {
	b := book.NewBook(title, authorID, "summary of "+title, "9780306406157", genreIDs)
	b.ID = id
	s.books[id] = b
	return b
}

func (s *fakeStore) addInstance(id, bookID string, status bookinstance.Status) {
	bi := bookinstance.NewBookInstance(bookID, "imprint "+id, status, nil)
	bi.ID = id
	s.instances[id] = bi
}

func (s *fakeStore) storedBook(id string) *book.Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[id]
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func newTestAggregator(s *fakeStore) *Aggregator {
	return NewAggregator(fakeBooks{s}, fakeAuthors{s}, fakeGenres{s}, fakeInstances{s})
}

// ---- book.Repository ----

type fakeBooks struct{ s *fakeStore }

func (r fakeBooks) Count(ctx context.Context, filter book.Filter) (int64, error) {
	list, err := r.Find(ctx, filter)
	return int64(len(list)), err
}

func (r fakeBooks) Find(ctx context.Context, filter book.Filter, opts ...book.QueryOption) ([]*book.Book, error) {
	if err := r.s.err("books.Find"); err != nil {
		return nil, err
	}
	o := book.ApplyOptions(opts...)

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*book.Book
	for _, b := range r.s.books {
		if filter.AuthorID != "" && b.AuthorID != filter.AuthorID {
			continue
		}
		if filter.GenreID != "" && !b.HasGenreID(filter.GenreID) {
			continue
		}
		out = append(out, r.view(b, o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r fakeBooks) FindByID(ctx context.Context, id string, opts ...book.QueryOption) (*book.Book, error) {
	if err := r.s.err("books.FindByID"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.books[id]
	if !ok {
		return nil, book.ErrBookNotFound
	}
	return r.view(b, book.ApplyOptions(opts...)), nil
}

func (r fakeBooks) Save(ctx context.Context, b *book.Book) error {
	if err := r.s.err("books.Save"); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == "" {
		r.s.seq++
		b.ID = fmt.Sprintf("book-%d", r.s.seq)
	}
	stored := *b
	stored.Author = nil
	stored.Genres = nil
	stored.GenreIDs = append([]string{}, b.GenreIDs...)
	r.s.books[b.ID] = &stored
	r.s.saves++
	return nil
}

// view 复制一份并按选项投影、填充(调用方持有锁)
func (r fakeBooks) view(b *book.Book, o book.QueryOptions) *book.Book {
	cp := *b
	cp.GenreIDs = append([]string{}, b.GenreIDs...)
	if !o.Selects(book.FieldSummary) {
		cp.Summary = ""
	}
	if !o.Selects(book.FieldISBN) {
		cp.ISBN = ""
	}
	if !o.Selects(book.FieldGenre) {
		cp.GenreIDs = nil
	}
	if o.PopulateAuthor {
		if a, ok := r.s.authors[b.AuthorID]; ok {
			ac := *a
			cp.Author = &ac
		}
	}
	if o.PopulateGenres {
		for _, gid := range b.GenreIDs {
			if g, ok := r.s.genres[gid]; ok {
				gc := *g
				cp.Genres = append(cp.Genres, &gc)
			}
		}
	}
	return &cp
}

// ---- author.Repository ----

type fakeAuthors struct{ s *fakeStore }

func (r fakeAuthors) Count(ctx context.Context, filter author.Filter) (int64, error) {
	if err := r.s.err("authors.Count"); err != nil {
		return 0, err
	}
	list, err := r.Find(ctx, filter)
	return int64(len(list)), err
}

func (r fakeAuthors) Find(ctx context.Context, filter author.Filter) ([]*author.Author, error) {
	if err := r.s.err("authors.Find"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*author.Author
	for _, a := range r.s.authors {
		if filter.FamilyName != "" && a.FamilyName != filter.FamilyName {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FamilyName < out[j].FamilyName })
	return out, nil
}

func (r fakeAuthors) FindByID(ctx context.Context, id string) (*author.Author, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.authors[id]
	if !ok {
		return nil, author.ErrAuthorNotFound
	}
	cp := *a
	return &cp, nil
}

func (r fakeAuthors) Save(ctx context.Context, a *author.Author) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.authors[a.ID] = a
	return nil
}

// ---- genre.Repository ----

type fakeGenres struct{ s *fakeStore }

func (r fakeGenres) Count(ctx context.Context, filter genre.Filter) (int64, error) {
	list, err := r.Find(ctx, filter)
	return int64(len(list)), err
}

func (r fakeGenres) Find(ctx context.Context, filter genre.Filter) ([]*genre.Genre, error) {
	if err := r.s.err("genres.Find"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*genre.Genre
	for _, g := range r.s.genres {
		if filter.Name != "" && g.Name != filter.Name {
			continue
		}
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeGenres) FindByID(ctx context.Context, id string) (*genre.Genre, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.genres[id]
	if !ok {
		return nil, genre.ErrGenreNotFound
	}
	cp := *g
	return &cp, nil
}

func (r fakeGenres) Save(ctx context.Context, g *genre.Genre) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.genres[g.ID] = g
	return nil
}

// ---- bookinstance.Repository ----

type fakeInstances struct{ s *fakeStore }

func (r fakeInstances) Count(ctx context.Context, filter bookinstance.Filter) (int64, error) {
	list, err := r.Find(ctx, filter)
	return int64(len(list)), err
}

func (r fakeInstances) Find(ctx context.Context, filter bookinstance.Filter) ([]*bookinstance.BookInstance, error) {
	if err := r.s.err("instances.Find"); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*bookinstance.BookInstance
	for _, bi := range r.s.instances {
		if filter.BookID != "" && bi.BookID != filter.BookID {
			continue
		}
		if filter.Status != "" && bi.Status != filter.Status {
			continue
		}
		cp := *bi
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r fakeInstances) FindByID(ctx context.Context, id string) (*bookinstance.BookInstance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	bi, ok := r.s.instances[id]
	if !ok {
		return nil, bookinstance.ErrBookInstanceNotFound
	}
	cp := *bi
	return &cp, nil
}

func (r fakeInstances) Save(ctx context.Context, bi *bookinstance.BookInstance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.instances[bi.ID] = bi
	return nil
}

// ---- EventPublisher ----

type publishedEvent struct {
	routingKey string
	event      BookEvent
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, message any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{routingKey: routingKey, event: message.(BookEvent)})
	return nil
}

// storeFailure 模拟存储层错误
func storeFailure(msg string) error {
	return apperrors.WrapStore(fmt.Errorf("connection reset"), msg)
}

// seedLibrary 三个分类、两个作者、一本属于G1和G3的图书
func seedLibrary() *fakeStore {
	s := newFakeStore()
	s.addAuthor("a1", "Patrick", "Rothfuss")
	s.addAuthor("a2", "Ursula", "Le Guin")
	s.addGenre("g1", "Fantasy")
	s.addGenre("g2", "Poetry")
	s.addGenre("g3", "Science Fiction")
	s.addBook("b1", "The Name of the Wind", "a1", "g1", "g3")
	s.addInstance("i1", "b1", bookinstance.StatusAvailable)
	s.addInstance("i2", "b1", bookinstance.StatusLoaned)
	return s
}

func checkedIDs(genres []GenreView) []string {
	var ids []string
	for _, g := range genres {
		if g.Checked {
			ids = append(ids, g.ID)
		}
	}
	return ids
}
