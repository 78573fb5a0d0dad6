/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\enums.go
 * @Description: 枚举类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "github.com/kamalyes/go-toolbox/pkg/errorx"

// LogLevel 日志级别（Android logcat 级别字符映射到结构化枚举）
type LogLevel string

const (
	LogLevelInfo    LogLevel = "Info"    // I - 信息
	LogLevelWarning LogLevel = "Warning" // W - 警告
	LogLevelVerbose LogLevel = "Verbose" // V - 详细
	LogLevelError   LogLevel = "Error"   // E - 错误
	LogLevelDebug   LogLevel = "Debug"   // D - 调试
	LogLevelWTF     LogLevel = "WTF"     // A - What a Terrible Failure
)

// String 实现Stringer接口
func (l LogLevel) String() string {
	return string(l)
}

// IsValid 检查日志级别是否有效
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelInfo, LogLevelWarning, LogLevelVerbose,
		LogLevelError, LogLevelDebug, LogLevelWTF:
		return true
	default:
		return false
	}
}

// logLevelChars logcat 级别字符到 LogLevel 的完整映射
var logLevelChars = map[byte]LogLevel{
	'I': LogLevelInfo,
	'W': LogLevelWarning,
	'V': LogLevelVerbose,
	'E': LogLevelError,
	'D': LogLevelDebug,
	'A': LogLevelWTF,
}

// ParseLogLevelChar 解析 logcat 级别字符
// 映射表对 {I,W,V,E,D,A} 完备，其余字符一律返回错误
func ParseLogLevelChar(c byte) (LogLevel, error) {
	level, ok := logLevelChars[c]
	if !ok {
		return "", errorx.NewError(ErrTypeUnknownLogLevel, "unknown log level char: %c", c)
	}
	return level, nil
}

// ClientRole 连接角色
type ClientRole string

const (
	ClientRoleUnknown  ClientRole = ""         // 首条消息到达前未知
	ClientRoleProducer ClientRole = "producer" // 移动端生产者（推送原始日志）
	ClientRoleObserver ClientRole = "observer" // Web端观察者（订阅解析结果）
)

// String 实现Stringer接口
func (r ClientRole) String() string {
	return string(r)
}

// DisconnectReason 断开原因
type DisconnectReason string

const (
	DisconnectReasonReadError      DisconnectReason = "read_error"      // 读取错误
	DisconnectReasonDecodeError    DisconnectReason = "decode_error"    // 消息解码失败
	DisconnectReasonHandlerError   DisconnectReason = "handler_error"   // 处理器失败
	DisconnectReasonCloseMessage   DisconnectReason = "close_message"   // 对端正常关闭
	DisconnectReasonServerShutdown DisconnectReason = "server_shutdown" // 服务关闭
)

// String 实现Stringer接口
func (r DisconnectReason) String() string {
	return string(r)
}
