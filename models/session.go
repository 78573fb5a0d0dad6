/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\session.go
 * @Description: 生产者连接的会话元数据
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"time"

	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// startSession 消息中映射到固定字段的 key
const (
	SessionFieldAPIKey     = "apiKey"
	SessionFieldDeviceName = "deviceName"
	SessionFieldAppName    = "appName"
	SessionFieldOSType     = "osType"
)

// Session 会话元数据
// 每个生产者连接持有一份，由该连接的接收循环独占，无需加锁
type Session struct {
	SessionID  string         `json:"sessionId"`       // 服务端生成的会话ID（持久化与在线状态用）
	APIKey     string         `json:"apiKey"`          // 关联生产者与观察者的标识
	DeviceName string         `json:"deviceName"`      // 设备名
	AppName    string         `json:"appName"`         // 应用名
	OSType     string         `json:"osType"`          // 操作系统类型（如 Android）
	StartTime  time.Time      `json:"startTime"`       // 会话开始时间
	Extra      map[string]any `json:"extra,omitempty"` // 前向兼容的扩展属性
}

// NewSession 创建空会话，连接接收循环启动时调用
func NewSession() *Session {
	return &Session{
		Extra: make(map[string]any),
	}
}

// ApplyStartMessage 将 startSession 消息的全部字段写入会话
// 已知字段写入对应结构体字段，其余进入 Extra；重复调用时后写覆盖先写
func (s *Session) ApplyStartMessage(fields map[string]any, now time.Time) {
	for key, value := range fields {
		text, isText := value.(string)
		switch key {
		case EnvelopeFieldMessageType:
			// 信封标识，不属于会话属性
		case SessionFieldAPIKey:
			if isText {
				s.APIKey = text
			}
		case SessionFieldDeviceName:
			if isText {
				s.DeviceName = text
			}
		case SessionFieldAppName:
			if isText {
				s.AppName = text
			}
		case SessionFieldOSType:
			if isText {
				s.OSType = text
			}
		default:
			if s.Extra == nil {
				s.Extra = make(map[string]any)
			}
			s.Extra[key] = value
		}
	}
	s.StartTime = now
}

// Started 判断会话是否已由 startSession 建立
func (s *Session) Started() bool {
	return !s.StartTime.IsZero()
}

// RequireDumpFields 校验 logDump/endSession 处理所需的全部元数据
// 任一字段缺失即返回错误，调用方随之终止连接（快速失败）
func (s *Session) RequireDumpFields() error {
	switch {
	case s.OSType == "":
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", SessionFieldOSType)
	case s.APIKey == "":
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", SessionFieldAPIKey)
	case s.DeviceName == "":
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", SessionFieldDeviceName)
	case s.AppName == "":
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", SessionFieldAppName)
	case s.StartTime.IsZero():
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", "startTime")
	}
	return nil
}

// RequireAPIKey 校验 deviceMetrics 转发所需的 API Key
func (s *Session) RequireAPIKey() error {
	if s.APIKey == "" {
		return errorx.NewError(ErrTypeSessionNotStarted, "session metadata missing field: %s", SessionFieldAPIKey)
	}
	return nil
}
