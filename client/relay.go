/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\client\relay.go
 * @Description: 中继客户端 - 日志会话领域方法（生产端/观察端）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-toolbox/pkg/json"
)

// sendEnvelope 按消息类型编码并发送一条信封消息
func (r *Relay) sendEnvelope(messageType string, fields map[string]any) error {
	payload := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		payload[k] = v
	}
	payload[models.EnvelopeFieldMessageType] = messageType
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return r.SendTextMessage(string(data))
}

// StartSession 作为生产端开启一个日志会话
// 参数 extra: 附加的会话元数据字段，可传 nil
func (r *Relay) StartSession(apiKey, deviceName, appName, osType string, extra map[string]any) error {
	fields := make(map[string]any, len(extra)+4)
	for k, v := range extra {
		fields[k] = v
	}
	fields[models.SessionFieldAPIKey] = apiKey
	fields[models.SessionFieldDeviceName] = deviceName
	fields[models.SessionFieldAppName] = appName
	fields[models.SessionFieldOSType] = osType
	return r.sendEnvelope(models.MessageTypeStartSession, fields)
}

// SendLogDump 发送一段原始日志文本（logcat 输出片段）
func (r *Relay) SendLogDump(rawLogData string) error {
	return r.sendEnvelope(models.MessageTypeLogDump, map[string]any{
		models.EnvelopeFieldRawLogData: rawLogData,
	})
}

// EndSession 结束当前日志会话
func (r *Relay) EndSession() error {
	return r.sendEnvelope(models.MessageTypeEndSession, nil)
}

// AssociateUser 作为观察端绑定到指定 API 密钥并接收其日志流
func (r *Relay) AssociateUser(apiKey string) error {
	return r.sendEnvelope(models.MessageTypeAssociateUser, map[string]any{
		models.SessionFieldAPIKey: apiKey,
	})
}

// SendDeviceMetrics 发送设备指标消息（原样透传给观察端）
func (r *Relay) SendDeviceMetrics(fields map[string]any) error {
	return r.sendEnvelope(models.MessageTypeDeviceMetrics, fields)
}

// OnLogData 设置接收到结构化日志消息的回调
// 仅当消息可解析为 logData 时触发，其余文本消息将被忽略
func (r *Relay) OnLogData(f func(message *models.LogDataMessage)) {
	r.OnTextMessageReceived(func(message string) {
		var logData models.LogDataMessage
		if err := json.Unmarshal([]byte(message), &logData); err != nil {
			return
		}
		if logData.MessageType != models.MessageTypeLogData {
			return
		}
		f(&logData)
	})
}
