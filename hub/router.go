/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\router.go
 * @Description: 消息路由 - messageType 分发表与连接接收循环
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"bytes"
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// HandlerFunc 入站消息处理函数
// session 由连接的接收循环独占持有，处理器内无需加锁
type HandlerFunc func(ctx context.Context, env *Envelope, client *Client, session *Session) error

// Router 消息路由器，按 messageType 分发入站消息
type Router struct {
	handlers map[string]HandlerFunc
	logger   RelayLogger
}

// NewRouter 创建消息路由器
func NewRouter(logger RelayLogger) *Router {
	return &Router{
		handlers: make(map[string]HandlerFunc),
		logger:   logger,
	}
}

// Register 登记消息类型处理器，重复登记时后写覆盖先写
func (r *Router) Register(messageType string, handler HandlerFunc) {
	r.handlers[messageType] = handler
}

// HandlerFor 获取消息类型的处理器
func (r *Router) HandlerFor(messageType string) (HandlerFunc, bool) {
	handler, ok := r.handlers[messageType]
	return handler, ok
}

// Dispatch 分发入站消息
// 未知 messageType 记日志后忽略，不终止连接（前向兼容新消息类型）
func (r *Router) Dispatch(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	handler, ok := r.handlers[env.MessageType]
	if !ok {
		r.logger.WarnKV("收到未知消息类型，已忽略",
			"message_type", env.MessageType,
			"client_id", client.ID,
		)
		return nil
	}
	return handler(ctx, env, client, session)
}

// ============================================================================
// 连接接收循环
// ============================================================================

// HandleConnection 接管一条已升级的 WebSocket 连接，阻塞直到连接结束
// 会话元数据在此创建并贯穿连接全程，断开时统一清理
func (h *Hub) HandleConnection(client *Client) {
	h.activeClientsCount.Add(1)

	syncx.Go(h.ctx).
		OnPanic(func(r any) {
			h.logger.ErrorKV("客户端写入协程 panic", "panic", r, "client_id", client.ID)
		}).
		Exec(func() {
			h.handleClientWrite(client)
		})

	session := NewSession()
	h.handleClientRead(client, session)
}

// handleClientWrite 处理客户端消息写入
func (h *Hub) handleClientWrite(client *Client) {
	h.wg.Add(1)
	defer h.wg.Done()
	defer func() {
		h.logger.DebugKV("客户端写入协程结束", "client_id", client.ID)
	}()

	for {
		select {
		case message, ok := <-client.SendChan:
			if !ok {
				h.logger.DebugKV("客户端发送通道关闭", "client_id", client.ID)
				return
			}

			if client.Conn != nil {
				client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
					h.logger.ErrorKV("客户端消息写入失败",
						"client_id", client.ID,
						"error", err,
					)
					return
				}
			}
		case <-h.ctx.Done():
			h.logger.DebugKV("客户端写入协程因Hub关闭而结束", "client_id", client.ID)
			return
		}
	}
}

// handleClientRead 处理客户端消息读取
// 退出路径唯一：无论对端关闭、读取失败、解码失败还是处理器致命错误，
// 都经由 cleanupClient 做且仅做一次清理
func (h *Hub) handleClientRead(client *Client, session *Session) {
	h.wg.Add(1)
	defer h.wg.Done()

	var reason DisconnectReason = DisconnectReasonReadError
	defer func() {
		h.cleanupClient(client, session, reason)
	}()

	h.logger.DebugKV("客户端读取协程启动", "client_id", client.ID, "client_ip", client.GetClientIP())

	for {
		_, data, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				reason = DisconnectReasonCloseMessage
			} else if h.shutdown.Load() {
				reason = DisconnectReasonServerShutdown
			}
			h.logger.InfoKV("客户端连接读取结束",
				"client_id", client.ID,
				"reason", reason.String(),
				"error", err,
			)
			return
		}

		// 空帧与纯空白帧直接跳过
		if len(bytes.TrimSpace(data)) == 0 {
			continue
		}

		client.LastSeen = time.Now()
		h.messagesReceived.Add(1)

		env, err := DecodeEnvelope(data)
		if err != nil {
			// 无法解码的消息视为协议破坏，终止连接
			h.logger.ErrorKV("消息解码失败，终止连接",
				"client_id", client.ID,
				"error", err,
			)
			reason = DisconnectReasonDecodeError
			return
		}

		if err := h.router.Dispatch(client.Context, env, client, session); err != nil {
			if IsParseError(err) {
				// 单次 logDump 解析失败不致命，连接继续服务
				h.logger.WarnKV("消息处理出现解析错误，连接继续",
					"client_id", client.ID,
					"message_type", env.MessageType,
					"error", err,
				)
				continue
			}
			h.logger.ErrorKV("消息处理失败，终止连接",
				"client_id", client.ID,
				"message_type", env.MessageType,
				"error", err,
			)
			reason = DisconnectReasonHandlerError
			return
		}
	}
}

// cleanupClient 连接断开时的统一清理
// 幂等：closed 标志保证发送通道只关闭一次
func (h *Hub) cleanupClient(client *Client, session *Session, reason DisconnectReason) {
	client.CloseMu.Lock()
	alreadyClosed := client.IsClosed()
	if !alreadyClosed {
		client.MarkClosed()
		close(client.SendChan)
	}
	client.CloseMu.Unlock()

	if alreadyClosed {
		return
	}

	h.activeClientsCount.Add(-1)

	// 观察者从注册表摘除；知道 key 时走快路径
	h.registry.Remove(client, session.APIKey)

	// 生产者会话落库与在线状态清理（尽力而为，不阻塞清理路径）
	if client.Role == ClientRoleProducer && session.SessionID != "" {
		h.finishSession(session, string(reason))
	}

	if client.Conn != nil {
		client.Conn.Close()
	}

	h.logger.InfoKV("客户端连接已清理",
		"client_id", client.ID,
		"role", client.Role.String(),
		"reason", reason.String(),
	)
}

// finishSession 会话结束时的持久化与在线状态收尾
func (h *Hub) finishSession(session *Session, reason string) {
	sessionID := session.SessionID
	session.SessionID = ""

	syncx.Go(context.Background()).
		OnPanic(func(r any) {
			h.logger.ErrorKV("会话收尾 panic", "panic", r, "session_id", sessionID)
		}).
		Exec(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if h.sessionRecordRepo != nil {
				if err := h.sessionRecordRepo.MarkEnded(ctx, sessionID, reason, time.Now()); err != nil {
					h.logger.ErrorKV("标记会话结束失败", "session_id", sessionID, "error", err)
				}
			}
			if h.presenceRepo != nil {
				if err := h.presenceRepo.SetSessionOver(ctx, sessionID); err != nil {
					h.logger.ErrorKV("清理会话在线状态失败", "session_id", sessionID, "error", err)
				}
			}
		})
}
