/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\client\websocket.go
 * @Description: WebSocket 底层连接封装
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// wsMsg 结构体表示 WebSocket 消息
type wsMsg struct {
	t   int    // 消息类型
	msg []byte // 消息内容
}

// WebSocket 结构体表示底层 WebSocket 连接
type WebSocket struct {
	Url            string            // 连接 URL
	Conn           *websocket.Conn   // WebSocket 连接
	Dialer         *websocket.Dialer // WebSocket 拨号器
	RequestHeader  http.Header       // 请求头
	HttpResponse   *http.Response    // 响应体
	isConnected    bool              // 是否已连接
	connMu         *sync.RWMutex     // 连接状态锁
	sendMu         *sync.Mutex       // 发送消息锁
	sendChan       chan *wsMsg       // 发送消息缓冲池
	sendChanMu     sync.RWMutex      // 发送通道引用锁（重连时替换引用）
	sendChanOnce   sync.Once         // 发送通道关闭控制
	sendChanClosed int32             // 发送通道关闭标志
}

// NewWebSocket 创建一个新的 WebSocket 连接
func NewWebSocket(url string) *WebSocket {
	return &WebSocket{
		Url:           url,
		Dialer:        websocket.DefaultDialer,
		RequestHeader: http.Header{},
		isConnected:   false,
		connMu:        &sync.RWMutex{},
		sendMu:        &sync.Mutex{},
		sendChan:      make(chan *wsMsg, 256), // 初始化发送消息缓冲池
	}
}

// WithDialer 设置自定义的 WebSocket 拨号器
func (ws *WebSocket) WithDialer(dialer *websocket.Dialer) *WebSocket {
	ws.Dialer = dialer
	return ws
}

// WithRequestHeader 设置请求头
func (ws *WebSocket) WithRequestHeader(header http.Header) *WebSocket {
	ws.RequestHeader = header
	return ws
}

// WithSendBufferSize 设置发送消息缓冲池大小
func (ws *WebSocket) WithSendBufferSize(size int) *WebSocket {
	if size > 0 {
		ws.sendChan = make(chan *wsMsg, size)
	}
	return ws
}

// WithCustomURL 设置自定义 URL
func (ws *WebSocket) WithCustomURL(url string) *WebSocket {
	ws.Url = url
	return ws
}
