package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/locallibrary/internal/domain/author"
	"github.com/xiebiao/locallibrary/internal/domain/book"
	"github.com/xiebiao/locallibrary/internal/domain/bookinstance"
	"github.com/xiebiao/locallibrary/internal/domain/genre"
	"github.com/xiebiao/locallibrary/internal/infrastructure/persistence/mysql"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "写入示例作者、分类、图书和馆藏副本",
		Long: `在一个事务中写入示例数据,任何一条失败则全部回滚。

分类名称唯一,对已有数据的库重复执行会因分类重名而失败。`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closer, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer closer.Close()

			db, err := mysql.NewDB(cfg)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}

			s := &seeder{
				tx:        mysql.NewTxManager(db),
				authors:   mysql.NewAuthorRepository(db),
				genres:    mysql.NewGenreRepository(db),
				books:     mysql.NewBookRepository(db),
				instances: mysql.NewBookInstanceRepository(db),
			}
			stats, err := s.run(cmd.Context())
			if err != nil {
				return err
			}

			logger.Info("示例数据写入完成",
				"authors", stats.Authors,
				"genres", stats.Genres,
				"books", stats.Books,
				"book_instances", stats.Instances,
			)
			return nil
		},
	}
}

// transactor 由mysql.TxManager实现
type transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type seeder struct {
	tx        transactor
	authors   author.Repository
	genres    genre.Repository
	books     book.Repository
	instances bookinstance.Repository
}

type seedStats struct {
	Authors   int
	Genres    int
	Books     int
	Instances int
}

type seedAuthor struct {
	first, family string
	born, died    string
}

type seedBook struct {
	title, summary, isbn string
	author               int   // seedAuthors下标
	genres               []int // seedGenres下标
}

type seedInstance struct {
	book    int // seedBooks下标
	imprint string
	status  bookinstance.Status
	dueBack string
}

var seedAuthors = []seedAuthor{
	{first: "Patrick", family: "Rothfuss", born: "1973-06-06"},
	{first: "Ben", family: "Bova", born: "1932-11-08"},
	{first: "Isaac", family: "Asimov", born: "1920-01-02", died: "1992-04-06"},
	{first: "Bob", family: "Billings"},
	{first: "Jim", family: "Jones", born: "1971-12-16"},
}

var seedGenres = []string{"Fantasy", "Science Fiction", "French Poetry"}

var seedBooks = []seedBook{
	{
		title:   "The Name of the Wind (The Kingkiller Chronicle, #1)",
		summary: "I have stolen princesses back from sleeping barrow kings. I burned down the town of Trebon.",
		isbn:    "9781473211896",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "The Wise Man's Fear (The Kingkiller Chronicle, #2)",
		summary: "Picking up the tale of Kvothe Kingkiller once again, we follow him into exile.",
		isbn:    "9788401352836",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "The Slow Regard of Silent Things (Kingkiller Chronicle)",
		summary: "Deep below the University, there is a dark place.",
		isbn:    "9780756411336",
		author:  0,
		genres:  []int{0},
	},
	{
		title:   "Apes and Angels",
		summary: "Humankind headed out to the stars not for conquest, nor exploration, nor even for curiosity.",
		isbn:    "9780765379528",
		author:  1,
		genres:  []int{1},
	},
	{
		title:   "Death Wave",
		summary: "In Ben Bova's previous novel New Earth, Jordan Kell led the first human mission beyond the solar system.",
		isbn:    "9780765379504",
		author:  1,
		genres:  []int{1},
	},
	{
		title:   "Test Book 1",
		summary: "Summary of test book 1",
		isbn:    "ISBN111111",
		author:  4,
		genres:  []int{0, 1},
	},
	{
		title:   "Test Book 2",
		summary: "Summary of test book 2",
		isbn:    "ISBN222222",
		author:  4,
	},
}

var seedInstances = []seedInstance{
	{book: 0, imprint: "London Gollancz, 2014.", status: bookinstance.StatusAvailable},
	{book: 1, imprint: "Gollancz, 2011.", status: bookinstance.StatusLoaned, dueBack: "2020-10-10"},
	{book: 2, imprint: "Gollancz, 2015.", status: bookinstance.StatusMaintenance},
	{book: 3, imprint: "New York Tom Doherty Associates, 2016.", status: bookinstance.StatusAvailable},
	{book: 3, imprint: "New York Tom Doherty Associates, 2016.", status: bookinstance.StatusAvailable},
	{book: 4, imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: bookinstance.StatusAvailable},
	{book: 4, imprint: "New York, NY Tom Doherty Associates, LLC, 2015.", status: bookinstance.StatusReserved},
	{book: 5, imprint: "Imprint XXX2", status: bookinstance.StatusAvailable},
	{book: 6, imprint: "Imprint XXX3", status: bookinstance.StatusLoaned},
}

// run 在一个事务中写入全部示例数据
// 顺序:作者、分类 → 图书(引用前两者的ID) → 副本(引用图书ID)
func (s *seeder) run(ctx context.Context) (seedStats, error) {
	var stats seedStats

	err := s.tx.Transaction(ctx, func(ctx context.Context) error {
		stats = seedStats{}

		authorIDs := make([]string, 0, len(seedAuthors))
		for _, sa := range seedAuthors {
			born, err := parseSeedDate(sa.born)
			if err != nil {
				return err
			}
			died, err := parseSeedDate(sa.died)
			if err != nil {
				return err
			}
			a := author.NewAuthor(sa.first, sa.family, born, died)
			if err := s.authors.Save(ctx, a); err != nil {
				return err
			}
			authorIDs = append(authorIDs, a.ID)
			stats.Authors++
		}

		genreIDs := make([]string, 0, len(seedGenres))
		for _, name := range seedGenres {
			g := genre.NewGenre(name)
			if err := s.genres.Save(ctx, g); err != nil {
				return err
			}
			genreIDs = append(genreIDs, g.ID)
			stats.Genres++
		}

		bookIDs := make([]string, 0, len(seedBooks))
		for _, sb := range seedBooks {
			ids := make([]string, 0, len(sb.genres))
			for _, gi := range sb.genres {
				ids = append(ids, genreIDs[gi])
			}
			b := book.NewBook(sb.title, authorIDs[sb.author], sb.summary, sb.isbn, ids)
			if err := s.books.Save(ctx, b); err != nil {
				return err
			}
			bookIDs = append(bookIDs, b.ID)
			stats.Books++
		}

		for _, si := range seedInstances {
			due, err := parseSeedDate(si.dueBack)
			if err != nil {
				return err
			}
			bi := bookinstance.NewBookInstance(bookIDs[si.book], si.imprint, si.status, due)
			if err := s.instances.Save(ctx, bi); err != nil {
				return err
			}
			stats.Instances++
		}
		return nil
	})
	if err != nil {
		return seedStats{}, fmt.Errorf("写入示例数据失败: %w", err)
	}
	return stats, nil
}

// parseSeedDate 空串表示没有日期
func parseSeedDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("示例日期格式错误 %q: %w", s, err)
	}
	return &t, nil
}
