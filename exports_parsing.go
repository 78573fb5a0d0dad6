/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_parsing.go
 * @Description: Parsing 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/parsing"
)

// ============================================================================
// Parsing 类型导出
// ============================================================================

type (
	Parser = parsing.Parser
)

// 常量导出
const (
	LogMarkerPrefix = parsing.LogMarkerPrefix
)

// ============================================================================
// Parsing 函数导出
// ============================================================================

var (
	NewParser = parsing.NewParser
)
