package config

// ==================== 基础配置 ====================

// AppConfig 应用基础配置
type AppConfig struct {
	Env    string `yaml:"env" mapstructure:"env"`
	Name   string `yaml:"name" mapstructure:"name"`
	NodeID string `yaml:"node_id" mapstructure:"node_id"`
}

// LogConfig 日志配置
type LogConfig struct {
	Format       string        `yaml:"format" mapstructure:"format"`
	Level        string        `yaml:"level" mapstructure:"level"`
	ReportCaller bool          `yaml:"report_caller" mapstructure:"report_caller"`
	File         LogFileConfig `yaml:"file" mapstructure:"file"`
}

// LogFileConfig 日志文件配置
type LogFileConfig struct {
	Enabled      bool   `yaml:"enabled" mapstructure:"enabled"`
	Dir          string `yaml:"dir" mapstructure:"dir"`
	Filename     string `yaml:"filename" mapstructure:"filename"`
	MaxAgeDays   int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	RotationDays int    `yaml:"rotation_days" mapstructure:"rotation_days"`
}

// ==================== 基础设施配置 ====================

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Db       int    `yaml:"db" mapstructure:"db"`
}

// ==================== 错误展示配置 ====================

// LookupConfig 错误码查找表来源
//
// Source 取值: "embedded" | "file" | "redis"
type LookupConfig struct {
	Source        string   `yaml:"source" mapstructure:"source"`
	Path          string   `yaml:"path" mapstructure:"path"`
	RedisKey      string   `yaml:"redis_key" mapstructure:"redis_key"`
	NamedPrefixes []string `yaml:"named_prefixes" mapstructure:"named_prefixes"`
	SupportHref   string   `yaml:"support_href" mapstructure:"support_href"`
	SupportLabel  string   `yaml:"support_label" mapstructure:"support_label"`
}

// WorkerConfig Kafka 重编码 worker 配置
type WorkerConfig struct {
	Enabled         *bool    `yaml:"enabled" mapstructure:"enabled"` // 默认 true
	InputTopic      string   `yaml:"input_topic" mapstructure:"input_topic"`
	OutputTopic     string   `yaml:"output_topic" mapstructure:"output_topic"`
	ConsumerGroup   string   `yaml:"consumer_group" mapstructure:"consumer_group"`
	ShowIcon        *bool    `yaml:"show_icon" mapstructure:"show_icon"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ==================== 可观测性配置 ====================

// TracingConfig 分布式追踪配置
type TracingConfig struct {
	Exporter     string            `yaml:"exporter" mapstructure:"exporter"`
	Endpoint     string            `yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName  string            `yaml:"service_name" mapstructure:"service_name"`
	Insecure     bool              `yaml:"insecure" mapstructure:"insecure"`
	SampleRatio  float64           `yaml:"sample_ratio" mapstructure:"sample_ratio"`
	ResourceTags map[string]string `yaml:"resource_tags" mapstructure:"resource_tags"`
}

// MetricsConfig 指标暴露配置
type MetricsConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
	Path string `yaml:"path" mapstructure:"path"`
}
