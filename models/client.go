/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\client.go
 * @Description: 连接客户端模型 - 生产者与观察者共用
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// Client 一条 WebSocket 连接
// 身份是引用身份：线上协议不分配连接ID，ID 仅用于日志与记录持久化
type Client struct {
	ID          string          `json:"id"`           // 连接ID（服务端生成）
	Role        ClientRole      `json:"role"`         // 角色（首条消息到达后确定）
	ClientIP    string          `json:"client_ip"`    // 客户端IP
	NodeID      string          `json:"node_id"`      // 所在节点ID
	Conn        *websocket.Conn `json:"-"`            // WebSocket连接（不序列化）
	SendChan    chan []byte     `json:"-"`            // 发送通道（不序列化）
	ConnectedAt time.Time       `json:"connected_at"` // 连接时间
	LastSeen    time.Time       `json:"last_seen"`    // 最后活跃时间
	Metadata    map[string]any  `json:"metadata"`     // 请求元数据
	Context     context.Context `json:"-"`            // 上下文（不序列化）
	closed      atomic.Bool     `json:"-"`            // channel关闭标志（不序列化）
	CloseMu     sync.Mutex      `json:"-"`            // 保护channel关闭的互斥锁（不序列化）
}

// NewClient 创建新的客户端实例
func NewClient(id string, conn *websocket.Conn, sendBufferSize int) *Client {
	now := time.Now()
	return &Client{
		ID:          id,
		Conn:        conn,
		SendChan:    make(chan []byte, sendBufferSize),
		ConnectedAt: now,
		LastSeen:    now,
		Metadata:    make(map[string]any),
		Context:     context.Background(),
	}
}

// WithRole 设置连接角色
func (c *Client) WithRole(role ClientRole) *Client {
	c.Role = role
	return c
}

// WithClientIP 设置客户端IP
func (c *Client) WithClientIP(ip string) *Client {
	c.ClientIP = ip
	return c
}

// WithNodeID 设置所在节点ID
func (c *Client) WithNodeID(nodeID string) *Client {
	c.NodeID = nodeID
	return c
}

// WithMetadata 设置元数据
func (c *Client) WithMetadata(key string, value any) *Client {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	return c
}

// WithContext 设置上下文
func (c *Client) WithContext(ctx context.Context) *Client {
	c.Context = ctx
	return c
}

// GetClientIP 获取客户端IP地址
func (c *Client) GetClientIP() string {
	if c.ClientIP != "" {
		return c.ClientIP
	}
	if c.Conn != nil {
		if remoteAddr := c.Conn.RemoteAddr(); remoteAddr != nil {
			if host, _, err := net.SplitHostPort(remoteAddr.String()); err == nil {
				return host
			}
			return remoteAddr.String()
		}
	}
	return "unknown"
}

// IsClosed 检查客户端channel是否已关闭
func (c *Client) IsClosed() bool {
	return c.closed.Load()
}

// MarkClosed 标记客户端channel为已关闭
func (c *Client) MarkClosed() {
	c.closed.Store(true)
}

// TrySend 尝试向客户端发送数据，已关闭或缓冲区满则返回false
// 非阻塞：慢观察者不得拖住生产者的扇出循环
func (c *Client) TrySend(data []byte) bool {
	c.CloseMu.Lock()
	defer c.CloseMu.Unlock()

	if c.IsClosed() || c.SendChan == nil {
		return false
	}

	select {
	case c.SendChan <- data:
		return true
	default:
		return false
	}
}
