package bootstrap

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Goden-Gun/errdisplay/pkg/codes"
	"github.com/Goden-Gun/errdisplay/pkg/config"
)

// InitLookup 按配置加载错误码查找表，进程启动时调用一次
// redis 可为 nil，仅 source=redis 时需要
func InitLookup(ctx context.Context, cfg config.LookupConfig, redis codes.HashReader) (*codes.Table, error) {
	cfg.ApplyDefaults()

	var (
		table *codes.Table
		err   error
	)
	switch cfg.Source {
	case "embedded":
		table = codes.Default()
	case "file":
		table, err = codes.LoadFile(cfg.Path)
	case "redis":
		table, err = codes.LoadRedis(ctx, redis, cfg.RedisKey)
	default:
		return nil, fmt.Errorf("unknown lookup source %q", cfg.Source)
	}
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"source": cfg.Source, "codes": table.Len()}).Info("lookup table loaded")
	return table, nil
}
