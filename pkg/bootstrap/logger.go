package bootstrap

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/errdisplay/pkg/config"
)

// LoggerOptions 日志初始化选项
type LoggerOptions struct {
	// ServiceName 服务名称，用于日志文件命名
	ServiceName string
	// AddContainerHook 是否添加容器ID钩子
	AddContainerHook bool
	// Stdout 控制台输出，默认 os.Stdout
	Stdout io.Writer
}

// containerHook 添加容器ID到日志
type containerHook struct {
	containerID string
}

func (h *containerHook) Levels() []log.Level {
	return log.AllLevels
}

func (h *containerHook) Fire(entry *log.Entry) error {
	entry.Data["container_id"] = h.containerID
	return nil
}

// detectContainerID 检测容器ID
func detectContainerID() string {
	if hostname, err := os.Hostname(); err == nil && hostname != "" {
		return hostname
	}
	if data, err := os.ReadFile("/etc/hostname"); err == nil {
		if hostname := strings.TrimSpace(string(data)); hostname != "" {
			return hostname
		}
	}
	return "unknown"
}

// InitLoggerWithOptions 使用完整选项初始化日志
func InitLoggerWithOptions(cfg config.LogConfig, opts LoggerOptions) error {
	switch cfg.Format {
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	default:
		log.SetFormatter(&log.JSONFormatter{})
	}

	if lvl, err := log.ParseLevel(cfg.Level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.SetLevel(log.InfoLevel)
		log.Warnf("invalid log level %q, fallback to info", cfg.Level)
	}

	log.SetReportCaller(cfg.ReportCaller)

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	log.SetOutput(stdout)

	if cfg.File.Enabled {
		writer, err := newFileWriter(cfg.File, opts.ServiceName)
		if err != nil {
			return err
		}
		log.SetOutput(io.MultiWriter(stdout, writer))
	}

	// 重复初始化时不累积钩子
	log.StandardLogger().ReplaceHooks(make(log.LevelHooks))
	if opts.AddContainerHook {
		log.AddHook(&containerHook{containerID: detectContainerID()})
	}

	return nil
}

// newFileWriter 创建按天滚动的日志文件
func newFileWriter(fileCfg config.LogFileConfig, serviceName string) (io.Writer, error) {
	logDir := fileCfg.Dir
	if logDir == "" {
		logDir = "./logs"
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		log.Errorf("create log dir failed: %v", err)
		return nil, err
	}

	filename := fileCfg.Filename
	if filename == "" {
		filename = serviceName
	}
	if filename == "" {
		filename = "errdisplay"
	}

	maxAge := fileCfg.MaxAgeDays
	if maxAge <= 0 {
		maxAge = 7
	}
	rotationDays := fileCfg.RotationDays
	if rotationDays <= 0 {
		rotationDays = 1
	}

	writer, err := rotatelogs.New(
		filepath.Join(logDir, filename+".%Y%m%d.log"),
		rotatelogs.WithLinkName(filepath.Join(logDir, filename+".log")),
		rotatelogs.WithMaxAge(time.Duration(maxAge)*24*time.Hour),
		rotatelogs.WithRotationTime(time.Duration(rotationDays)*24*time.Hour),
	)
	if err != nil {
		log.Errorf("setup log file output failed: %v", err)
		return nil, err
	}
	return writer, nil
}
