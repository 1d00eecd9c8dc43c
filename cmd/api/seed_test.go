package main

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
)

// recorder 记录写入的实体,按顺序分配ID
type recorder struct {
	seq       int
	authors   []*author.Author
	genres    []*genre.Genre
	books     []*book.Book
	instances []*bookinstance.BookInstance
	failBooks error
}

func (r *recorder) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

type passTx struct{ calls int }

func (t *passTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.calls++
	return fn(ctx)
}

type recAuthors struct{ r *recorder }

func (f recAuthors) Count(context.Context, author.Filter) (int64, error) { return 0, nil }
func (f recAuthors) Find(context.Context, author.Filter) ([]*author.Author, error) { return nil, nil }
func (f recAuthors) FindByID(context.Context, string) (*author.Author, error) { return nil, author.ErrAuthorNotFound }
func (f recAuthors) Save(_ context.Context, a *author.Author) error {
	a.ID = f.r.nextID("author")
	f.r.authors = append(f.r.authors, a)
	return nil
}

type recGenres struct{ r *recorder }

func (f recGenres) Count(context.Context, genre.Filter) (int64, error) { return 0, nil }
func (f recGenres) Find(context.Context, genre.Filter) ([]*genre.Genre, error) { return nil, nil }
func (f recGenres) FindByID(context.Context, string) (*genre.Genre, error) { return nil, genre.ErrGenreNotFound }
func (f recGenres) Save(_ context.Context, g *genre.Genre) error {
	g.ID = f.r.nextID("genre")
	f.r.genres = append(f.r.genres, g)
	return nil
}

type recBooks struct{ r *recorder }

func (f recBooks) Count(context.Context, book.Filter) (int64, error) { return 0, nil }
func (f recBooks) Find(context.Context, book.Filter, ...book.QueryOption) ([]*book.Book, error) {
	return nil, nil
}
func (f recBooks) FindByID(context.Context, string, ...book.QueryOption) (*book.Book, error) {
	return nil, book.ErrBookNotFound
}
func (f recBooks) Save(_ context.Context, b *book.Book) error {
	if f.r.failBooks != nil {
		return f.r.failBooks
	}
	b.ID = f.r.nextID("book")
	f.r.books = append(f.r.books, b)
	return nil
}

type recInstances struct{ r *recorder }

func (f recInstances) Count(context.Context, bookinstance.Filter) (int64, error) { return 0, nil }
func (f recInstances) Find(context.Context, bookinstance.Filter) ([]*bookinstance.BookInstance, error) {
	return nil, nil
}
func (f recInstances) FindByID(context.Context, string) (*bookinstance.BookInstance, error) {
	return nil, bookinstance.ErrBookInstanceNotFound
}
func (f recInstances) Save(_ context.Context, bi *bookinstance.BookInstance) error {
	bi.ID = f.r.nextID("instance")
	f.r.instances = append(f.r.instances, bi)
	return nil
}

func newTestSeeder(r *recorder, tx transactor) *seeder {
	return &seeder{
		tx:        tx,
		authors:   recAuthors{r},
		genres:    recGenres{r},
		books:     recBooks{r},
		instances: recInstances{r},
	}
}

func TestSeeder_Run(t *testing.T) {
	r := &recorder{}
	tx := &passTx{}

	stats, err := newTestSeeder(r, tx).run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, tx.calls)
	assert.Equal(t, seedStats{
		Authors:   len(seedAuthors),
		Genres:    len(seedGenres),
		Books:     len(seedBooks),
		Instances: len(seedInstances),
	}, stats)

	t.Run("图书引用已保存的作者和分类ID", func(t *testing.T) {
		first := r.books[0]
		assert.Equal(t, r.authors[0].ID, first.AuthorID)
		assert.Equal(t, []string{r.genres[0].ID}, first.GenreIDs)

		last := r.books[len(r.books)-1]
		assert.Empty(t, last.GenreIDs)
	})

	t.Run("副本引用已保存的图书ID", func(t *testing.T) {
		for _, bi := range r.instances {
			assert.Contains(t, []string{
				r.books[0].ID, r.books[1].ID, r.books[2].ID, r.books[3].ID,
				r.books[4].ID, r.books[5].ID, r.books[6].ID,
			}, bi.BookID)
			assert.True(t, bi.Status.IsValid())
		}
		require.NotNil(t, r.instances[1].DueBack)
		assert.Equal(t, "2020-10-10", r.instances[1].DueBack.Format("2006-01-02"))
	})

	t.Run("作者生卒日期", func(t *testing.T) {
		asimov := r.authors[2]
		assert.Equal(t, "1920 - 1992", asimov.Lifespan())
		assert.Nil(t, r.authors[3].DateOfBirth)
	})
}

func TestSeeder_RunFailure(t *testing.T) {
	boom := errors.New("duplicate entry")
	r := &recorder{failBooks: boom}

	stats, err := newTestSeeder(r, &passTx{}).run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, seedStats{}, stats)
	assert.Empty(t, r.instances)
}

func TestParseSeedDate(t *testing.T) {
	d, err := parseSeedDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseSeedDate("1973-06-06")
	require.NoError(t, err)
	assert.Equal(t, 1973, d.Year())

	_, err = parseSeedDate("06/06/1973")
	assert.Error(t, err)
}
