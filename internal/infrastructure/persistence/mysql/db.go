package mysql

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/locallibrary/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数（MaxOpenConns、MaxIdleConns、ConnMaxLifetime）
// 3. 开发环境开启SQL日志，生产环境关闭
// 4. 不创建外键约束：作者、分类的引用允许悬空，填充时表现为缺失
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = logger.Info // 开发环境打印SQL
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	slog.Info("数据库连接成功", "host", cfg.Database.Host, "dbname", cfg.Database.DBName)
	return db, nil
}

// AutoMigrate 自动迁移表结构
// 学习要点：
// 1. AutoMigrate只会创建表、添加字段，不会删除或修改现有字段
// 2. book_genres需要先SetupJoinTable，many2many才会使用自定义的连接表模型
func AutoMigrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&BookModel{}, "Genres", &BookGenreModel{}); err != nil {
		return fmt.Errorf("设置图书分类连接表失败: %w", err)
	}
	return db.AutoMigrate(
		&AuthorModel{},
		&GenreModel{},
		&BookModel{},
		&BookGenreModel{},
		&BookInstanceModel{},
	)
}

// AuthorModel GORM作者模型
// 设计说明：
// 1. 这是infrastructure层的数据模型，包含GORM tag
// 2. domain/author/entity.go是领域实体，不依赖GORM
// 3. Repository负责两者之间的转换
type AuthorModel struct {
	ID          string     `gorm:"primaryKey;size:36"`
	FirstName   string     `gorm:"size:100;not null;comment:名"`
	FamilyName  string     `gorm:"index;size:100;not null;comment:姓"`
	DateOfBirth *time.Time `gorm:"comment:出生日期"`
	DateOfDeath *time.Time `gorm:"comment:去世日期"`
	CreatedAt   time.Time  `gorm:"comment:创建时间"`
	UpdatedAt   time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// GenreModel GORM分类模型（名称唯一）
type GenreModel struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      string    `gorm:"uniqueIndex;size:100;not null;comment:分类名称"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (GenreModel) TableName() string {
	return "genres"
}

// BookModel GORM图书模型
// 设计说明:
// 1. AuthorID是多对一引用,Author只在Preload时有值
// 2. 分类是多对多,通过book_genres连接表保存
// 3. 保存时总是Omit关联,连接表由仓储自己维护(整体替换)
// 4. 标题和ISBN存的是转义后的值(一个字符最多变成6个),用text不限长,标题索引取前缀
type BookModel struct {
	ID        string       `gorm:"primaryKey;size:36"`
	Title     string       `gorm:"type:text;not null;index:idx_books_title,length:191;comment:书名"`
	AuthorID  string       `gorm:"index;size:36;not null;comment:作者ID"`
	Author    *AuthorModel `gorm:"foreignKey:AuthorID"`
	Summary   string       `gorm:"type:text;comment:简介"`
	ISBN      string       `gorm:"type:text;comment:ISBN"`
	Genres    []GenreModel `gorm:"many2many:book_genres;joinForeignKey:BookID;joinReferences:GenreID"`
	CreatedAt time.Time    `gorm:"comment:创建时间"`
	UpdatedAt time.Time    `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// BookGenreModel 图书-分类连接表
type BookGenreModel struct {
	BookID  string `gorm:"primaryKey;size:36"`
	GenreID string `gorm:"primaryKey;size:36;index"`
}

// TableName 指定表名
func (BookGenreModel) TableName() string {
	return "book_genres"
}

// BookInstanceModel GORM馆藏副本模型
type BookInstanceModel struct {
	ID        string     `gorm:"primaryKey;size:36"`
	BookID    string     `gorm:"index;size:36;not null;comment:图书ID"`
	Imprint   string     `gorm:"size:200;not null;comment:版本说明"`
	Status    string     `gorm:"index;size:20;not null;default:Maintenance;comment:状态"`
	DueBack   *time.Time `gorm:"comment:预计归还时间"`
	CreatedAt time.Time  `gorm:"comment:创建时间"`
	UpdatedAt time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookInstanceModel) TableName() string {
	return "book_instances"
}
