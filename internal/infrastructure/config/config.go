package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀(LIBRARY_DATABASE_PASSWORD → database.password)
const EnvPrefix = "LIBRARY"

// Config 全局配置结构
// 设计说明：使用Viper管理配置，支持YAML文件、环境变量覆盖；配置文件缺失时使用默认值
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Log        LogConfig        `mapstructure:"log"`
	Validation ValidationConfig `mapstructure:"validation"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	MQ         MQConfig         `mapstructure:"mq"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr 监听地址
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"` // serve启动时自动建表
}

// DSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=true&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) DSN() string {
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
	Output string `mapstructure:"output"` // stdout | stderr | /path/to/file
}

// ValidationConfig 表单校验策略
type ValidationConfig struct {
	TitleMin   int `mapstructure:"title_min"`
	TitleMax   int `mapstructure:"title_max"`
	SummaryMax int `mapstructure:"summary_max"`
}

type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"` // OTLP gRPC，host:port
}

type MQConfig struct {
	Enabled              bool          `mapstructure:"enabled"`
	URL                  string        `mapstructure:"url"`
	Exchange             string        `mapstructure:"exchange"`
	ExchangeType         string        `mapstructure:"exchange_type"`
	BreakerFailures      int           `mapstructure:"breaker_failures"`       // 连续失败多少次后熔断
	BreakerTimeout       time.Duration `mapstructure:"breaker_timeout"`        // 熔断持续时间
	BreakerInterval      time.Duration `mapstructure:"breaker_interval"`       // 关闭状态的统计窗口，0表示不清零
	BreakerProbeRequests int           `mapstructure:"breaker_probe_requests"` // 半开状态放行的探测消息数
}

// setDefaults 默认值（配置文件和环境变量都没有时生效）
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.host", "127.0.0.1")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "locallibrary")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("validation.title_min", 3)
	v.SetDefault("validation.title_max", 100)
	v.SetDefault("validation.summary_max", 500)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "locallibrary")
	v.SetDefault("tracing.endpoint", "localhost:4317")

	v.SetDefault("mq.enabled", false)
	v.SetDefault("mq.url", "")
	v.SetDefault("mq.exchange", "library.events")
	v.SetDefault("mq.exchange_type", "topic")
	v.SetDefault("mq.breaker_failures", 5)
	v.SetDefault("mq.breaker_timeout", 30*time.Second)
	v.SetDefault("mq.breaker_interval", time.Minute)
	v.SetDefault("mq.breaker_probe_requests", 1)
}

// Load 加载配置
// 支持：
// 1. path非空时读取指定文件，否则查找./config/config.yaml、./config.yaml（找不到不报错）
// 2. 环境变量覆盖（如LIBRARY_DATABASE_PASSWORD）
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	v := cfg.Validation
	if v.TitleMin < 0 || v.TitleMax < v.TitleMin {
		return fmt.Errorf("无效的标题长度范围: [%d, %d]", v.TitleMin, v.TitleMax)
	}
	if v.SummaryMax <= 0 {
		return fmt.Errorf("无效的简介最大长度: %d", v.SummaryMax)
	}

	if cfg.MQ.Enabled && cfg.MQ.URL == "" {
		return fmt.Errorf("启用消息队列时必须配置mq.url")
	}
	if cfg.MQ.BreakerFailures <= 0 {
		return fmt.Errorf("无效的熔断阈值: %d", cfg.MQ.BreakerFailures)
	}
	if cfg.MQ.BreakerInterval < 0 {
		return fmt.Errorf("无效的熔断统计窗口: %s", cfg.MQ.BreakerInterval)
	}
	if cfg.MQ.BreakerProbeRequests <= 0 {
		return fmt.Errorf("无效的熔断探测数: %d", cfg.MQ.BreakerProbeRequests)
	}

	return nil
}
