/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_client.go
 * @Description: Client 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/client"
)

// ============================================================================
// Client 类型导出
// ============================================================================

type (
	Relay     = client.Relay
	WebSocket = client.WebSocket
)

// ============================================================================
// Client 函数导出
// ============================================================================

var (
	New          = client.New
	NewWebSocket = client.NewWebSocket
)

// ============================================================================
// Relay 方法导出 - 这些方法通过 Relay 实例调用
// ============================================================================

// 注意：以下是 Relay 类型的方法列表，通过 Relay 实例调用
// 例如：r := logrelay.New(url); go r.Connect()

// 配置方法：
// - SetConfig(config *wscconfig.WSC): 设置配置

// 回调设置方法：
// - OnConnected(f func()): 连接成功回调
// - OnConnectError(f func(err error)): 连接错误回调
// - OnDisconnected(f func(err error)): 断开连接回调
// - OnClose(f func(code int, text string)): 关闭连接回调
// - OnTextMessageSent(f func(message string)): 文本消息发送回调
// - OnSentError(f func(err error)): 发送错误回调
// - OnTextMessageReceived(f func(message string)): 文本消息接收回调
// - OnLogData(f func(message *LogDataMessage)): 结构化日志接收回调

// 会话方法：
// - StartSession(apiKey, deviceName, appName, osType, extra): 开启日志会话
// - SendLogDump(rawLogData string): 发送原始日志片段
// - EndSession(): 结束会话
// - AssociateUser(apiKey string): 观察端绑定 API 密钥
// - SendDeviceMetrics(fields map[string]any): 发送设备指标

// 连接方法：
// - Connect(): 发起连接（失败自动重试）
// - Close() / CloseWithMsg(msg string): 主动关闭
// - Closed() bool: 连接状态
