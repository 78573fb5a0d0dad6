/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_repository.go
 * @Description: Repository 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/repository"
)

// ============================================================================
// Repository 类型导出
// ============================================================================

type (
	LogRecordRepository     = repository.LogRecordRepository
	SessionRecordRepository = repository.SessionRecordRepository
	PresenceRepository      = repository.PresenceRepository
	LogQueryOptions         = repository.LogQueryOptions
	SessionQueryOptions     = repository.SessionQueryOptions
)

// ============================================================================
// Repository 函数导出
// ============================================================================

var (
	NewLogRecordRepository     = repository.NewLogRecordRepository
	NewSessionRecordRepository = repository.NewSessionRecordRepository
	NewRedisPresenceRepository = repository.NewRedisPresenceRepository
)
