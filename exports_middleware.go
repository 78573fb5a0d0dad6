/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_middleware.go
 * @Description: Middleware 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/middleware"
)

// ============================================================================
// Middleware 类型导出
// ============================================================================

type (
	RelayLogger = middleware.RelayLogger
)

// ============================================================================
// Middleware 函数导出
// ============================================================================

var (
	NewRelayLogger        = middleware.NewRelayLogger
	NewDefaultRelayLogger = middleware.NewDefaultRelayLogger
	NewNoOpLogger         = middleware.NewNoOpLogger
	SetDefaultLogger      = middleware.SetDefaultLogger
	InitLogger            = middleware.InitLogger
)
