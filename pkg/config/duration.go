package config

import "time"

// Duration 以秒为单位的时长配置
type Duration int64

// Duration 返回 time.Duration 值
func (d Duration) Duration() time.Duration {
	return time.Duration(d) * time.Second
}

// Seconds 返回秒数
func (d Duration) Seconds() int64 {
	return int64(d)
}
