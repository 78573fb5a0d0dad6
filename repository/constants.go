/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\repository\constants.go
 * @Description: Repository 层常量定义 - 统一管理 Redis key 前缀和查询常量
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

const (
	// ============================================================================
	// Redis Key 前缀常量
	// ============================================================================

	// DefaultPresenceKeyPrefix 在线会话状态默认 key 前缀
	DefaultPresenceKeyPrefix = "relay:presence:"

	// ============================================================================
	// 查询常量
	// ============================================================================

	// QuerySessionIDWhere 按会话ID查询条件
	QuerySessionIDWhere = "session_id = ?"

	// QueryAPIKeyWhere 按 API Key 查询条件
	QueryAPIKeyWhere = "api_key = ?"

	// OrderByLogTimeAsc 按日志时间升序
	OrderByLogTimeAsc = "log_time ASC"

	// OrderByLogTimeDesc 按日志时间降序
	OrderByLogTimeDesc = "log_time DESC"

	// OrderByStartedAtDesc 按会话开始时间降序
	OrderByStartedAtDesc = "started_at DESC"
)
