/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\middleware\logger.go
 * @Description: go-logrelay 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package middleware

import (
	"time"

	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logger"
)

// RelayLogger 直接使用 go-logger.ILogger
type RelayLogger = logger.ILogger

// NewRelayLogger 创建新的中继日志器，基于 go-logger
func NewRelayLogger(config *logger.Logger) RelayLogger {
	return config
}

// NewDefaultRelayLogger 创建默认配置的中继日志器
func NewDefaultRelayLogger() RelayLogger {
	return logger.NewLogger().
		WithLevel(logger.DEBUG).
		WithPrefix("[LOGRELAY] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.RFC3339Nano)
}

// NewNoOpLogger 创建空日志实例
func NewNoOpLogger() RelayLogger {
	return logger.NewEmptyLogger()
}

// 全局日志器
var (
	// DefaultLogger 默认日志器实例
	DefaultLogger RelayLogger = NewDefaultRelayLogger()

	// NoOpLoggerInstance 空日志器实例
	NoOpLoggerInstance RelayLogger = NewNoOpLogger()
)

// SetDefaultLogger 设置默认日志器
func SetDefaultLogger(l RelayLogger) {
	DefaultLogger = l
}

// InitLogger 根据配置初始化日志器
func InitLogger(config *wscconfig.WSC) RelayLogger {
	if config.Logging == nil || !config.Logging.Enabled {
		return NewDefaultRelayLogger()
	}

	return config.Logging.ToLoggerInstance()
}
