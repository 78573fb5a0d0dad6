/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\client\client.go
 * @Description: 中继客户端 - 带指数退避重连的 WebSocket 客户端
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-toolbox/pkg/safe"
)

// 错误别名
var (
	ErrConnectionClosed  = models.ErrClientClosed
	ErrMessageBufferFull = models.ErrSendBufferFull
)

// Relay 结构体表示日志中继客户端
// 封装了 WebSocket 连接的管理、断线重连及其相关操作
type Relay struct {
	mu        sync.Mutex     // 互斥锁，用于保护并发访问
	Config    *wscconfig.WSC // 配置信息，用于配置客户端的参数
	WebSocket *WebSocket     // 底层 WebSocket 连接，负责实际的网络通信

	// 连接相关的回调函数
	onConnected    atomic.Value // 连接成功回调 func()
	onConnectError atomic.Value // 连接错误回调 func(error)
	onDisconnected atomic.Value // 连接断开回调 func(error)
	onClose        atomic.Value // 连接关闭回调 func(int, string)

	// 消息相关的回调函数
	onTextMessageSent     atomic.Value // 文本消息发送成功回调 func(string)
	onSentError           atomic.Value // 消息发送错误回调 func(error)
	onTextMessageReceived atomic.Value // 接收到文本消息回调 func(string)
}

// New 创建一个新的中继客户端
// 参数 url: 中继服务端的 WebSocket 地址
func New(url string) *Relay {
	return &Relay{
		Config:    safe.MergeWithDefaults[wscconfig.WSC](nil, wscconfig.Default()), // 使用safe合并默认配置
		WebSocket: NewWebSocket(url),
	}
}

// SetConfig 设置客户端配置
func (r *Relay) SetConfig(config *wscconfig.WSC) {
	r.Config = config
}

// OnConnected 设置连接成功的回调
func (r *Relay) OnConnected(f func()) {
	r.onConnected.Store(f)
}

// OnConnectError 设置连接出错的回调
func (r *Relay) OnConnectError(f func(err error)) {
	r.onConnectError.Store(f)
}

// OnDisconnected 设置连接断开的回调
func (r *Relay) OnDisconnected(f func(err error)) {
	r.onDisconnected.Store(f)
}

// OnClose 设置连接关闭的回调
func (r *Relay) OnClose(f func(code int, text string)) {
	r.onClose.Store(f)
}

// OnTextMessageSent 设置发送文本消息成功的回调
func (r *Relay) OnTextMessageSent(f func(message string)) {
	r.onTextMessageSent.Store(f)
}

// OnSentError 设置发送消息出错的回调
func (r *Relay) OnSentError(f func(err error)) {
	r.onSentError.Store(f)
}

// OnTextMessageReceived 设置接收到文本消息的回调
func (r *Relay) OnTextMessageReceived(f func(message string)) {
	r.onTextMessageReceived.Store(f)
}

// Closed 返回连接状态
func (r *Relay) Closed() bool {
	r.WebSocket.connMu.RLock()
	defer r.WebSocket.connMu.RUnlock()
	return !r.WebSocket.isConnected
}

// Connect 发起连接，失败时按指数退避持续重试直到成功
func (r *Relay) Connect() {
	// 初始化/重置发送通道以及其关闭控制结构（支持断线重连后的再次关闭）
	r.WebSocket.sendChanMu.Lock()
	r.WebSocket.sendChan = make(chan *wsMsg, r.Config.MessageBufferSize) // 缓冲（替换引用）
	r.WebSocket.sendChanOnce = sync.Once{}
	atomic.StoreInt32(&r.WebSocket.sendChanClosed, 0)
	r.WebSocket.sendChanMu.Unlock()
	b := &backoff.Backoff{
		Min:    r.Config.MinRecTime,
		Max:    r.Config.MaxRecTime,
		Factor: r.Config.RecFactor,
		Jitter: true,
	}
	for {
		var err error
		nextRec := b.Duration()
		r.WebSocket.Conn, r.WebSocket.HttpResponse, err =
			r.WebSocket.Dialer.Dial(r.WebSocket.Url, r.WebSocket.RequestHeader)
		if err != nil {
			if f := r.onConnectError.Load(); f != nil {
				f.(func(error))(err)
			}
			// 重试
			time.Sleep(nextRec)
			continue
		}
		// 变更连接状态
		r.WebSocket.connMu.Lock()
		r.WebSocket.isConnected = true
		r.WebSocket.connMu.Unlock()
		// 连接成功回调
		if f := r.onConnected.Load(); f != nil {
			f.(func())()
		}
		// 设置支持接受的消息最大长度
		r.WebSocket.Conn.SetReadLimit(r.Config.MaxMessageSize)
		// 设置关闭处理
		r.setupHandlers()
		// 启动读写协程
		go r.readMessages()
		go r.writeMessages()
		return
	}
}

// setupHandlers 设置连接关闭的处理函数
func (r *Relay) setupHandlers() {
	defaultCloseHandler := r.WebSocket.Conn.CloseHandler()
	r.WebSocket.Conn.SetCloseHandler(func(code int, text string) error {
		result := defaultCloseHandler(code, text)
		r.clean()
		if f := r.onClose.Load(); f != nil {
			f.(func(int, string))(code, text)
		}
		return result
	})
}

// readMessages 启动读消息的协程
func (r *Relay) readMessages() {
	for {
		messageType, message, err := r.WebSocket.Conn.ReadMessage()
		if err != nil {
			// 异常断线重连
			if f := r.onDisconnected.Load(); f != nil {
				f.(func(error))(err)
			}
			r.closeAndRecConn()
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		// 处理消息时加锁
		r.mu.Lock()
		if f := r.onTextMessageReceived.Load(); f != nil {
			f.(func(string))(string(message))
		}
		r.mu.Unlock()
	}
}

// writeMessages 启动写消息的协程
// 不断从发送通道中读取消息并写入 WebSocket 连接
func (r *Relay) writeMessages() {
	// 捕获当前的 sendChan 引用（读锁保护期间读取）
	r.WebSocket.sendChanMu.RLock()
	sendChan := r.WebSocket.sendChan
	r.WebSocket.sendChanMu.RUnlock()
	for msg := range sendChan {
		if err := r.send(msg.t, msg.msg); err != nil {
			if f := r.onSentError.Load(); f != nil {
				f.(func(error))(err)
			}
			continue
		}

		if msg.t == websocket.TextMessage {
			r.mu.Lock()
			if f := r.onTextMessageSent.Load(); f != nil {
				f.(func(string))(string(msg.msg))
			}
			r.mu.Unlock()
		}
	}
}

// SendTextMessage 发送文本消息
func (r *Relay) SendTextMessage(message string) error {
	if r.Closed() {
		return ErrConnectionClosed
	}
	// 读锁保护 sendChan 指针与关闭标志一致性
	r.WebSocket.sendChanMu.RLock()
	defer r.WebSocket.sendChanMu.RUnlock()
	if atomic.LoadInt32(&r.WebSocket.sendChanClosed) == 1 {
		return ErrConnectionClosed
	}
	select {
	case r.WebSocket.sendChan <- &wsMsg{
		t:   websocket.TextMessage,
		msg: []byte(message),
	}:
	default:
		return ErrMessageBufferFull
	}
	return nil
}

// SendBinaryMessage 发送二进制消息
func (r *Relay) SendBinaryMessage(data []byte) error {
	if r.Closed() {
		return ErrConnectionClosed
	}
	r.WebSocket.sendChanMu.RLock()
	defer r.WebSocket.sendChanMu.RUnlock()
	if atomic.LoadInt32(&r.WebSocket.sendChanClosed) == 1 {
		return ErrConnectionClosed
	}
	select {
	case r.WebSocket.sendChan <- &wsMsg{
		t:   websocket.BinaryMessage,
		msg: data,
	}:
	default:
		return ErrMessageBufferFull
	}
	return nil
}

// send 发送消息到连接端
func (r *Relay) send(messageType int, data []byte) error {
	r.WebSocket.sendMu.Lock()
	defer r.WebSocket.sendMu.Unlock()

	// 使用读锁保护连接状态和 Conn 的访问
	r.WebSocket.connMu.RLock()
	if !r.WebSocket.isConnected {
		r.WebSocket.connMu.RUnlock()
		return ErrConnectionClosed
	}
	conn := r.WebSocket.Conn
	r.WebSocket.connMu.RUnlock()

	// 设置写超时
	_ = conn.SetWriteDeadline(time.Now().Add(r.Config.WriteTimeout))
	return conn.WriteMessage(messageType, data)
}

// closeAndRecConn 处理断线重连
func (r *Relay) closeAndRecConn() {
	if r.Closed() {
		return
	}
	r.clean()
	go r.Connect()
}

// Close 主动关闭连接
func (r *Relay) Close() {
	r.CloseWithMsg("")
}

// CloseWithMsg 主动关闭连接并附带消息
func (r *Relay) CloseWithMsg(msg string) {
	if r.Closed() {
		return
	}
	_ = r.send(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, msg))
	r.clean()
	if f := r.onClose.Load(); f != nil {
		f.(func(int, string))(websocket.CloseNormalClosure, msg)
	}
}

// clean 清理资源
func (r *Relay) clean() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Closed() {
		return
	}
	r.WebSocket.connMu.Lock()
	r.WebSocket.isConnected = false
	_ = r.WebSocket.Conn.Close()
	// 原子关闭 sendChan（写锁保护）
	r.WebSocket.sendChanMu.Lock()
	r.WebSocket.sendChanOnce.Do(func() {
		atomic.StoreInt32(&r.WebSocket.sendChanClosed, 1)
		close(r.WebSocket.sendChan)
	})
	r.WebSocket.sendChanMu.Unlock()
	r.WebSocket.connMu.Unlock()
}
