/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\record.go
 * @Description: 日志与会话持久化模型 - 用于记录历史日志和会话信息
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package models

import (
	"time"

	"github.com/kamalyes/go-sqlbuilder"
)

// LogRecord 日志条目持久化模型 - 每条结构化日志落一行
type LogRecord struct {
	// ========== 基础标识信息 ==========
	ID        uint64 `gorm:"primaryKey;autoIncrement;comment:自增主键" json:"id"`
	SessionID string `gorm:"column:session_id;size:64;not null;index;comment:会话ID" json:"session_id"`
	APIKey    string `gorm:"column:api_key;size:64;not null;index;comment:API Key" json:"api_key"`

	// ========== 设备与应用信息 ==========
	DeviceName string `gorm:"column:device_name;size:128;index;comment:设备名称" json:"device_name"`
	AppName    string `gorm:"column:app_name;size:128;index;comment:应用名称" json:"app_name"`
	OSType     string `gorm:"column:os_type;size:20;comment:操作系统类型(Android/iOS)" json:"os_type"`

	// ========== 日志内容 ==========
	LogTime time.Time `gorm:"column:log_time;index;not null;comment:日志时间(设备侧)" json:"log_time"`
	LogType string    `gorm:"column:log_type;size:10;index;comment:日志级别(Info/Warning/Verbose/Error/Debug/WTF)" json:"log_type"`
	Tag     string    `gorm:"column:tag;size:255;index;comment:日志Tag" json:"tag"`
	Text    string    `gorm:"column:text;type:text;comment:日志正文(可能多行)" json:"text"`

	// ========== 元数据 ==========
	Metadata sqlbuilder.MapAny `gorm:"column:metadata;type:json;comment:扩展元数据JSON" json:"metadata,omitempty"`

	// ========== 系统字段 ==========
	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
}

// TableName 指定表名
func (LogRecord) TableName() string {
	return "relay_log_records"
}

// TableComment 表注释
func (LogRecord) TableComment() string {
	return "设备日志记录表-存储解析归一化后的结构化日志条目"
}

// NewLogRecord 由会话与日志条目构建持久化记录
func NewLogRecord(sessionID string, session *Session, entry *LogEntry) *LogRecord {
	record := &LogRecord{
		SessionID: sessionID,
		LogTime:   entry.Time,
		LogType:   entry.LogType.String(),
		Tag:       entry.Tag,
		Text:      entry.Text,
	}
	if session != nil {
		record.APIKey = session.APIKey
		record.DeviceName = session.DeviceName
		record.AppName = session.AppName
		record.OSType = session.OSType
	}
	return record
}

// SessionRecord 会话持久化模型 - 记录每次采集会话的生命周期
type SessionRecord struct {
	// ========== 基础标识信息 ==========
	ID        uint64 `gorm:"primaryKey;autoIncrement;comment:自增主键" json:"id"`
	SessionID string `gorm:"column:session_id;size:64;uniqueIndex;not null;comment:会话ID(唯一)" json:"session_id"`
	APIKey    string `gorm:"column:api_key;size:64;not null;index;comment:API Key" json:"api_key"`

	// ========== 服务器节点信息 ==========
	NodeID string `gorm:"column:node_id;size:100;index;comment:服务器节点ID" json:"node_id"`

	// ========== 设备与应用信息 ==========
	DeviceName string `gorm:"column:device_name;size:128;index;comment:设备名称" json:"device_name"`
	AppName    string `gorm:"column:app_name;size:128;index;comment:应用名称" json:"app_name"`
	OSType     string `gorm:"column:os_type;size:20;comment:操作系统类型(Android/iOS)" json:"os_type"`
	ClientIP   string `gorm:"column:client_ip;size:45;comment:客户端IP地址" json:"client_ip"`

	// ========== 会话时间信息 ==========
	StartedAt time.Time  `gorm:"column:started_at;index;not null;comment:会话开始时间" json:"started_at"`
	EndedAt   *time.Time `gorm:"column:ended_at;index;comment:会话结束时间" json:"ended_at,omitempty"`
	EndReason string     `gorm:"column:end_reason;size:50;comment:结束原因(end_session/read_error/decode_error/server_shutdown等)" json:"end_reason,omitempty"`

	// ========== 统计信息 ==========
	LogCount  int64 `gorm:"column:log_count;default:0;comment:接收日志条数" json:"log_count"`
	DumpCount int64 `gorm:"column:dump_count;default:0;comment:接收logDump消息数" json:"dump_count"`

	// ========== 元数据 ==========
	Extra sqlbuilder.MapAny `gorm:"column:extra;type:json;comment:startSession携带的额外字段JSON" json:"extra,omitempty"`

	// ========== 系统字段 ==========
	CreatedAt time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:记录更新时间" json:"updated_at"`
}

// TableName 指定表名
func (SessionRecord) TableName() string {
	return "relay_session_records"
}

// TableComment 表注释
func (SessionRecord) TableComment() string {
	return "采集会话记录表-记录每次设备日志采集会话的完整生命周期"
}

// IsOver 会话是否已结束
func (s *SessionRecord) IsOver() bool {
	return s.EndedAt != nil
}

// DeviceAppRecord 设备-应用登记模型 - 记录API Key下出现过的设备与应用组合
type DeviceAppRecord struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement;comment:自增主键" json:"id"`
	APIKey     string    `gorm:"column:api_key;size:64;not null;uniqueIndex:uk_key_device_app;comment:API Key" json:"api_key"`
	DeviceName string    `gorm:"column:device_name;size:128;not null;uniqueIndex:uk_key_device_app;comment:设备名称" json:"device_name"`
	AppName    string    `gorm:"column:app_name;size:128;not null;uniqueIndex:uk_key_device_app;comment:应用名称" json:"app_name"`
	OSType     string    `gorm:"column:os_type;size:20;comment:操作系统类型" json:"os_type"`
	FirstSeen  time.Time `gorm:"column:first_seen;not null;comment:首次出现时间" json:"first_seen"`
	LastSeen   time.Time `gorm:"column:last_seen;index;not null;comment:最近出现时间" json:"last_seen"`
	CreatedAt  time.Time `gorm:"autoCreateTime;comment:记录创建时间" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;comment:记录更新时间" json:"updated_at"`
}

// TableName 指定表名
func (DeviceAppRecord) TableName() string {
	return "relay_device_apps"
}

// TableComment 表注释
func (DeviceAppRecord) TableComment() string {
	return "设备应用登记表-记录API Key下出现过的设备与应用组合"
}
