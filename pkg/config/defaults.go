package config

// ==================== LogConfig 默认值 ====================

// ApplyDefaults 应用日志配置默认值
func (l *LogConfig) ApplyDefaults() {
	if l.Format == "" {
		l.Format = "json"
	}
	if l.Level == "" {
		l.Level = "info"
	}
	if l.File.Dir == "" {
		l.File.Dir = "./logs"
	}
	if l.File.MaxAgeDays <= 0 {
		l.File.MaxAgeDays = 7
	}
	if l.File.RotationDays <= 0 {
		l.File.RotationDays = 1
	}
}

// ==================== LookupConfig 默认值 ====================

// ApplyDefaults 应用查找表配置默认值
func (l *LookupConfig) ApplyDefaults() {
	if l.Source == "" {
		switch {
		case l.Path != "":
			l.Source = "file"
		case l.RedisKey != "":
			l.Source = "redis"
		default:
			l.Source = "embedded"
		}
	}
	if l.Source == "redis" && l.RedisKey == "" {
		l.RedisKey = "errdisplay:lookup"
	}
	if len(l.NamedPrefixes) == 0 {
		l.NamedPrefixes = []string{"learndash"}
	}
}

// ==================== WorkerConfig 默认值 ====================

// ApplyDefaults 应用 worker 配置默认值
func (w *WorkerConfig) ApplyDefaults() {
	if w.InputTopic == "" {
		w.InputTopic = "errdisplay.events"
	}
	if w.OutputTopic == "" {
		w.OutputTopic = "errdisplay.recoded"
	}
	if w.ConsumerGroup == "" {
		w.ConsumerGroup = "errdisplay-recoder"
	}
	if w.Enabled == nil {
		enabled := true
		w.Enabled = &enabled
	}
	if w.ShowIcon == nil {
		show := true
		w.ShowIcon = &show
	}
	if w.ShutdownTimeout <= 0 {
		w.ShutdownTimeout = 10
	}
}

// ==================== TracingConfig 默认值 ====================

// ApplyDefaults 应用 Tracing 配置默认值
func (t *TracingConfig) ApplyDefaults() {
	if t.Exporter == "" {
		t.Exporter = "disabled"
	}
	if t.ServiceName == "" {
		t.ServiceName = "errdisplay"
	}
	if t.SampleRatio <= 0 {
		t.SampleRatio = 1.0
	}
}

// ==================== MetricsConfig 默认值 ====================

// ApplyDefaults 应用 Metrics 配置默认值
func (m *MetricsConfig) ApplyDefaults() {
	if m.Path == "" {
		m.Path = "/metrics"
	}
}
