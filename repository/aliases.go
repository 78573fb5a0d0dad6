/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\repository\aliases.go
 * @Description: 类型别名 - 为 models 包中的类型创建别名，便于在 repository 层使用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import "github.com/kamalyes/go-logrelay/models"

// 类型别名 - 持久化相关
type (
	// Client 客户端连接信息
	Client = models.Client

	// Session 会话元数据
	Session = models.Session

	// LogEntry 结构化日志条目
	LogEntry = models.LogEntry

	// LogRecord 日志持久化记录
	LogRecord = models.LogRecord

	// SessionRecord 会话持久化记录
	SessionRecord = models.SessionRecord

	// DeviceAppRecord 设备应用登记记录
	DeviceAppRecord = models.DeviceAppRecord

	// LiveSession 在线采集会话信息
	LiveSession = models.LiveSession
)
