/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\envelope.go
 * @Description: 线上消息信封 - JSON 编解码与类型分发
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// 信封通用字段 key
const (
	EnvelopeFieldMessageType = "messageType" // 消息类型字段
	EnvelopeFieldRawLogData  = "rawLogData"  // 原始日志文本字段
)

// 入站消息类型
const (
	MessageTypeStartSession  = "startSession"  // 会话开始，填充会话元数据
	MessageTypeLogDump       = "logDump"       // 原始日志转储
	MessageTypeEndSession    = "endSession"    // 会话结束
	MessageTypeAssociateUser = "associateUser" // 观察者按 API Key 注册
	MessageTypeDeviceMetrics = "deviceMetrics" // 设备指标，原样转发
)

// 出站消息类型
const (
	MessageTypeLogData = "logData" // 解析后的结构化日志
)

// Envelope 解码后的线上消息
// Fields 保留完整解码结果（startSession 全量拷贝、deviceMetrics 原样广播依赖它），
// Raw 保留原始字节以便逐字转发
type Envelope struct {
	MessageType string
	Fields      map[string]any
	Raw         []byte
}

// DecodeEnvelope 解码一条入站文本消息
// 信封必须是 JSON 对象；messageType 缺失时返回空串（由路由器按未知类型忽略）
func DecodeEnvelope(data []byte) (*Envelope, error) {
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errorx.WrapError("failed to decode message envelope", err)
	}

	env := &Envelope{
		Fields: fields,
		Raw:    data,
	}
	if messageType, ok := fields[EnvelopeFieldMessageType].(string); ok {
		env.MessageType = messageType
	}
	return env, nil
}

// GetString 读取信封的字符串字段
func (e *Envelope) GetString(key string) (string, bool) {
	value, ok := e.Fields[key].(string)
	return value, ok
}

// RequireString 读取必需的字符串字段，缺失即错误（快速失败）
func (e *Envelope) RequireString(key string) (string, error) {
	value, ok := e.Fields[key].(string)
	if !ok || value == "" {
		return "", errorx.NewError(ErrTypeMissingField, "message missing required field: %s", key)
	}
	return value, nil
}

// LogDataMessage 推送给观察者的解析结果
type LogDataMessage struct {
	MessageType string     `json:"messageType"`
	OSType      string     `json:"osType"`
	LogEntries  []LogEntry `json:"logEntries"`
}

// NewLogDataMessage 构造 logData 出站消息
func NewLogDataMessage(osType string, entries []LogEntry) *LogDataMessage {
	return &LogDataMessage{
		MessageType: MessageTypeLogData,
		OSType:      osType,
		LogEntries:  entries,
	}
}

// Encode 序列化为线上 JSON
func (m *LogDataMessage) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errorx.WrapError("failed to marshal logData message", err)
	}
	return data, nil
}
