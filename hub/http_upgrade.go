/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\http_upgrade.go
 * @Description: HTTP WebSocket 升级处理
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-toolbox/pkg/metadata"
)

// ============================================================================
// WebSocket 升级器配置
// ============================================================================

// ConfigureUpgrader 配置 WebSocket 升级器
// 根据 Hub 配置创建升级器，支持自定义缓冲区大小和 Origin 检查
func (h *Hub) ConfigureUpgrader() *websocket.Upgrader {
	upgrader := &websocket.Upgrader{
		ReadBufferSize:  h.config.MessageBufferSize,
		WriteBufferSize: h.config.MessageBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return true // 默认允许所有来源
		},
	}

	// 自定义 Origin 检查
	if len(h.config.WebSocketOrigins) > 0 {
		upgrader.CheckOrigin = h.createOriginChecker()
	}

	return upgrader
}

// createOriginChecker 创建 Origin 检查器
// 根据配置的允许来源列表检查请求的 Origin
func (h *Hub) createOriginChecker() func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		for _, allowedOrigin := range h.config.WebSocketOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				return true
			}
		}
		return false
	}
}

// ============================================================================
// 客户端创建
// ============================================================================

// CreateClientFromRequest 从 HTTP 请求创建 WebSocket 客户端
// 提取请求元数据并创建 Client 实例，角色在首条消息到达前保持未知
func (h *Hub) CreateClientFromRequest(r *http.Request, conn *websocket.Conn) *Client {
	clientID := h.idGenerator.GenerateRequestID()

	// 使用 metadata 提取所有请求元数据
	requestMeta := metadata.ExtractRequestMetadata(r)

	client := NewClient(clientID, conn, h.config.MessageBufferSize).
		WithRole(ClientRoleUnknown).
		WithClientIP(requestMeta.ClientIP).
		WithNodeID(h.nodeID).
		WithContext(r.Context())

	for key, value := range requestMeta.ToMap() {
		client.WithMetadata(key, value)
	}

	return client
}

// ============================================================================
// HTTP 入口
// ============================================================================

// ServeWS 处理 WebSocket 升级请求，连接接管后阻塞直到连接结束
// 生产者与观察者走同一入口，角色由首条消息决定
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	if h.shutdown.Load() {
		http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
		return
	}

	upgrader := h.ConfigureUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorKV("WebSocket升级失败", "error", err, "remote_addr", r.RemoteAddr)
		return
	}

	client := h.CreateClientFromRequest(r, conn)
	h.logger.InfoKV("连接已建立",
		"client_id", client.ID,
		"client_ip", client.GetClientIP(),
		"node_id", h.nodeID,
	)

	h.HandleConnection(client)
}
