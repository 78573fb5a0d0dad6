/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\exports_hub.go
 * @Description: Hub 包的类型和函数导出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package logrelay

import (
	"github.com/kamalyes/go-logrelay/hub"
)

// ============================================================================
// Hub 类型导出
// ============================================================================

type (
	Hub                     = hub.Hub
	Registry                = hub.Registry
	Router                  = hub.Router
	HandlerFunc             = hub.HandlerFunc
	AssociationPolicy       = hub.AssociationPolicy
	DirectAssociationPolicy = hub.DirectAssociationPolicy
)

// 常量导出
const (
	FanoutChannel = hub.FanoutChannel
)

// ============================================================================
// Hub 函数导出
// ============================================================================

var (
	NewHub      = hub.NewHub
	NewRegistry = hub.NewRegistry
	NewRouter   = hub.NewRouter
)

// ============================================================================
// Hub 方法导出 - 这些方法通过 Hub 实例调用
// ============================================================================

// 注意：以下是 Hub 类型的方法列表，通过 Hub 实例调用
// 例如：h := logrelay.NewHub(config); http.HandleFunc("/ws", h.ServeWS)

// HTTP WebSocket 升级方法：
// - ServeWS(w http.ResponseWriter, r *http.Request): 升级并托管一条连接
// - ConfigureUpgrader() *websocket.Upgrader: 按配置构造升级器
// - CreateClientFromRequest(r, conn) *Client: 从请求构造客户端

// 连接管理方法：
// - HandleConnection(client *Client): 阻塞处理一条连接的读写与清理
// - Shutdown(timeout time.Duration) error: 优雅关闭

// 协作组件注入方法：
// - SetLogRecordRepository / SetSessionRecordRepository / SetPresenceRepository
// - SetPubSub(pubsub *cachex.PubSub): 跨节点扇出
// - SetAssociationPolicy(policy AssociationPolicy): 自定义扇出目标选取
// - SetIDGenerator(generator IDGenerator): 自定义 ID 生成

// 分布式方法：
// - SubscribeFanout(ctx context.Context) error: 订阅跨节点扇出通道

// 统计方法：
// - GetStats() *HubStats: 运行时统计快照
