/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\errors.go
 * @Description: 日志中继错误定义 - 基于errorx.BaseError模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 错误类型定义，基于errorx.ErrorType
type ErrorType = errorx.ErrorType

// 日志中继错误码常量定义
// 使用 83xxx 区间，避免与其他包冲突
const (
	// 解析错误 (83000-83099) - 不可重试，单次 logDump 级别
	ErrTypeMalformedLogLine ErrorType = 83001 // 日志行头部不匹配
	ErrTypeUnknownLogLevel  ErrorType = 83002 // 未知日志级别字符
	ErrTypeEmptyLogDump     ErrorType = 83003 // 日志内容为空
	ErrTypeBadTimestamp     ErrorType = 83004 // 时间戳解析失败

	// 消息路由错误 (83100-83199) - 连接级别致命
	ErrTypeDecodeFailure     ErrorType = 83101 // 消息信封解码失败
	ErrTypeMissingField      ErrorType = 83102 // 消息缺少必需字段
	ErrTypeSessionNotStarted ErrorType = 83103 // 会话元数据未就绪

	// 连接与注册表错误 (83200-83299)
	ErrTypeClientClosed     ErrorType = 83201 // 连接已关闭
	ErrTypeSendBufferFull   ErrorType = 83202 // 观察者发送缓冲区已满
	ErrTypeRegistryNotFound ErrorType = 83203 // API Key 未注册任何观察者

	// 仓库与分布式错误 (83300-83399)
	ErrTypeRepositoryNotSet ErrorType = 83301 // 仓库未设置
	ErrTypePubSubNotSet     ErrorType = 83302 // PubSub 未设置
)

// init 初始化所有错误类型注册
// 注意：在运行多个测试包时，可能会看到 "ErrorType XXX is already registered" 的警告信息
// 这是正常现象，errorx包内部会忽略重复注册
func init() {
	// 注册解析错误
	errorx.RegisterError(ErrTypeMalformedLogLine, "malformed log line: %s")
	errorx.RegisterError(ErrTypeUnknownLogLevel, "unknown log level char: %s")
	errorx.RegisterError(ErrTypeEmptyLogDump, "log dump contains no entries")
	errorx.RegisterError(ErrTypeBadTimestamp, "bad log timestamp: %s")

	// 注册消息路由错误
	errorx.RegisterError(ErrTypeDecodeFailure, "failed to decode message envelope")
	errorx.RegisterError(ErrTypeMissingField, "message missing required field: %s")
	errorx.RegisterError(ErrTypeSessionNotStarted, "session metadata missing field: %s")

	// 注册连接与注册表错误
	errorx.RegisterError(ErrTypeClientClosed, "client connection closed")
	errorx.RegisterError(ErrTypeSendBufferFull, "observer send buffer is full")
	errorx.RegisterError(ErrTypeRegistryNotFound, "no observers registered for api key: %s")

	// 注册仓库与分布式错误
	errorx.RegisterError(ErrTypeRepositoryNotSet, "repository is not set: %s")
	errorx.RegisterError(ErrTypePubSubNotSet, "pubsub is not set")
}

// 错误变量定义
var (
	ErrEmptyLogDump   = errorx.NewError(ErrTypeEmptyLogDump)
	ErrDecodeFailure  = errorx.NewError(ErrTypeDecodeFailure)
	ErrClientClosed   = errorx.NewError(ErrTypeClientClosed)
	ErrSendBufferFull = errorx.NewError(ErrTypeSendBufferFull)
	ErrPubSubNotSet   = errorx.NewError(ErrTypePubSubNotSet)
)

// IsParseError 判断是否为解析错误（单次 logDump 级别，不应断开连接）
func IsParseError(err error) bool {
	if err == nil {
		return false
	}
	if errxErr, ok := err.(interface{ GetType() ErrorType }); ok {
		switch errxErr.GetType() {
		case ErrTypeMalformedLogLine, ErrTypeUnknownLogLevel,
			ErrTypeEmptyLogDump, ErrTypeBadTimestamp:
			return true
		}
	}
	return false
}

// IsConnectionFatal 判断错误是否应终止连接的接收循环
func IsConnectionFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsParseError(err)
}
