/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_models.go
 * @Description: Models模块类型导出 - 保持向后兼容
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/models"
)

// ==================== 基础类型 ====================
type (
	IDGenerator   = models.IDGenerator
	HubStats      = models.HubStats
	FanoutMessage = models.FanoutMessage
)

// ==================== 枚举类型 ====================
type (
	LogLevel         = models.LogLevel
	ClientRole       = models.ClientRole
	DisconnectReason = models.DisconnectReason
	ErrorType        = models.ErrorType
)

// ==================== 枚举常量 - LogLevel ====================
const (
	LogLevelInfo    = models.LogLevelInfo
	LogLevelWarning = models.LogLevelWarning
	LogLevelVerbose = models.LogLevelVerbose
	LogLevelError   = models.LogLevelError
	LogLevelDebug   = models.LogLevelDebug
	LogLevelWTF     = models.LogLevelWTF
)

// ==================== 枚举常量 - ClientRole ====================
const (
	ClientRoleUnknown  = models.ClientRoleUnknown
	ClientRoleProducer = models.ClientRoleProducer
	ClientRoleObserver = models.ClientRoleObserver
)

// ==================== 枚举常量 - DisconnectReason ====================
const (
	DisconnectReasonReadError      = models.DisconnectReasonReadError
	DisconnectReasonDecodeError    = models.DisconnectReasonDecodeError
	DisconnectReasonHandlerError   = models.DisconnectReasonHandlerError
	DisconnectReasonCloseMessage   = models.DisconnectReasonCloseMessage
	DisconnectReasonServerShutdown = models.DisconnectReasonServerShutdown
)

// ==================== 消息类型常量 ====================
const (
	MessageTypeStartSession  = models.MessageTypeStartSession
	MessageTypeLogDump       = models.MessageTypeLogDump
	MessageTypeEndSession    = models.MessageTypeEndSession
	MessageTypeAssociateUser = models.MessageTypeAssociateUser
	MessageTypeDeviceMetrics = models.MessageTypeDeviceMetrics
	MessageTypeLogData       = models.MessageTypeLogData
)

// ==================== 信封/会话字段常量 ====================
const (
	EnvelopeFieldMessageType = models.EnvelopeFieldMessageType
	EnvelopeFieldRawLogData  = models.EnvelopeFieldRawLogData
	SessionFieldAPIKey       = models.SessionFieldAPIKey
	SessionFieldDeviceName   = models.SessionFieldDeviceName
	SessionFieldAppName      = models.SessionFieldAppName
	SessionFieldOSType       = models.SessionFieldOSType
)

// ==================== 错误类型常量 ====================
const (
	ErrTypeMalformedLogLine  = models.ErrTypeMalformedLogLine
	ErrTypeUnknownLogLevel   = models.ErrTypeUnknownLogLevel
	ErrTypeEmptyLogDump      = models.ErrTypeEmptyLogDump
	ErrTypeBadTimestamp      = models.ErrTypeBadTimestamp
	ErrTypeDecodeFailure     = models.ErrTypeDecodeFailure
	ErrTypeMissingField      = models.ErrTypeMissingField
	ErrTypeSessionNotStarted = models.ErrTypeSessionNotStarted
	ErrTypeClientClosed      = models.ErrTypeClientClosed
	ErrTypeSendBufferFull    = models.ErrTypeSendBufferFull
	ErrTypeRegistryNotFound  = models.ErrTypeRegistryNotFound
	ErrTypeRepositoryNotSet  = models.ErrTypeRepositoryNotSet
	ErrTypePubSubNotSet      = models.ErrTypePubSubNotSet
)

// ==================== 结构体类型 ====================
type (
	Client          = models.Client
	LogEntry        = models.LogEntry
	Envelope        = models.Envelope
	LogDataMessage  = models.LogDataMessage
	Session         = models.Session
	LogRecord       = models.LogRecord
	SessionRecord   = models.SessionRecord
	DeviceAppRecord = models.DeviceAppRecord
	LiveSession     = models.LiveSession
)

// ==================== 错误变量 ====================
var (
	ErrEmptyLogDump   = models.ErrEmptyLogDump
	ErrDecodeFailure  = models.ErrDecodeFailure
	ErrClientClosed   = models.ErrClientClosed
	ErrSendBufferFull = models.ErrSendBufferFull
	ErrPubSubNotSet   = models.ErrPubSubNotSet
)

// ==================== 函数导出 ====================
var (
	ParseLogLevelChar = models.ParseLogLevelChar
	DecodeEnvelope    = models.DecodeEnvelope
	NewLogDataMessage = models.NewLogDataMessage
	NewSession        = models.NewSession
	NewClient         = models.NewClient
	NewLogRecord      = models.NewLogRecord
	NewLiveSession    = models.NewLiveSession
	IsParseError      = models.IsParseError
	IsConnectionFatal = models.IsConnectionFatal
)
