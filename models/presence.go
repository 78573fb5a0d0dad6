/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\presence.go
 * @Description: 在线采集会话模型 - Redis 分布式在线状态用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "time"

// LiveSession 在线采集会话信息，存储于 Redis 供跨节点查询
type LiveSession struct {
	SessionID  string    `json:"session_id"`  // 会话ID
	APIKey     string    `json:"api_key"`     // API Key
	DeviceName string    `json:"device_name"` // 设备名称
	AppName    string    `json:"app_name"`    // 应用名称
	OSType     string    `json:"os_type"`     // 操作系统类型
	NodeID     string    `json:"node_id"`     // 所在节点ID
	ClientIP   string    `json:"client_ip"`   // 客户端IP
	StartedAt  time.Time `json:"started_at"`  // 会话开始时间
	LastBeatAt time.Time `json:"last_beat_at"` // 最后心跳时间
}

// NewLiveSession 由会话元数据构建在线会话信息
func NewLiveSession(sessionID string, session *Session, client *Client) *LiveSession {
	live := &LiveSession{
		SessionID:  sessionID,
		StartedAt:  time.Now(),
		LastBeatAt: time.Now(),
	}
	if session != nil {
		live.APIKey = session.APIKey
		live.DeviceName = session.DeviceName
		live.AppName = session.AppName
		live.OSType = session.OSType
		if !session.StartTime.IsZero() {
			live.StartedAt = session.StartTime
		}
	}
	if client != nil {
		live.NodeID = client.NodeID
		live.ClientIP = client.GetClientIP()
	}
	return live
}
