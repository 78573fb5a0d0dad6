/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\hub_test.go
 * @Description: Hub 端到端测试 - 生产者上报与观察者扇出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	wscconfig "github.com/kamalyes/go-config/pkg/wsc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestHubServer 创建测试用 Hub 与 HTTP 服务
func newTestHubServer(t *testing.T) (*Hub, *httptest.Server, string) {
	t.Helper()

	hub := NewHub(&wscconfig.WSC{MessageBufferSize: 64})
	server := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(func() {
		server.Close()
		hub.Shutdown(2 * time.Second)
	})

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	return hub, server, url
}

// dialTestWS 建立测试 WebSocket 连接
func dialTestWS(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err, "Dial should succeed")
	t.Cleanup(func() { conn.Close() })
	return conn
}

// sendJSON 发送 JSON 消息
func sendJSON(t *testing.T, conn *websocket.Conn, payload map[string]any) {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

// readJSON 读取一条 JSON 消息，超时视为失败
func readJSON(t *testing.T, conn *websocket.Conn, timeout time.Duration) map[string]any {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(timeout))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err, "Should receive a message before deadline")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

// associateObserver 观察者关联并等待注册表生效
func associateObserver(t *testing.T, hub *Hub, conn *websocket.Conn, apiKey string) {
	t.Helper()

	sendJSON(t, conn, map[string]any{"messageType": "associateUser", "apiKey": apiKey})
	require.Eventually(t, func() bool {
		return hub.GetRegistry().HasObservers(apiKey)
	}, 2*time.Second, 10*time.Millisecond, "Observer should appear in registry")
}

// TestEndToEndLogRelay 测试生产者上报到观察者下发的完整链路
func TestEndToEndLogRelay(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "Pixel 9",
		"appName":     "demo-app",
		"osType":      "Android",
	})

	// 前两行头部五元组一致，应合并为一个条目
	rawLogData := "03-12 13:45:30.123 1795 1825 E AndroidRuntime: FATAL EXCEPTION: main\n" +
		"03-12 13:45:30.123 1795 1825 E AndroidRuntime: java.lang.NullPointerException\n" +
		"03-12 13:45:31.000 100 200 I WifiService: acquireWifiLockLocked"
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  rawLogData,
	})

	received := readJSON(t, observer, 3*time.Second)
	assert.Equal(t, "logData", received["messageType"])
	assert.Equal(t, "Android", received["osType"])

	entries, ok := received["logEntries"].([]any)
	require.True(t, ok, "logEntries should be an array")
	require.Len(t, entries, 2, "Two merged lines plus one distinct line should produce 2 entries")

	first, ok := entries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Error", first["logType"])
	assert.Equal(t, "AndroidRuntime", first["tag"])
	assert.Equal(t, "FATAL EXCEPTION: main\njava.lang.NullPointerException", first["text"])

	second, ok := entries[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Info", second["logType"])
	assert.Equal(t, "WifiService", second["tag"])
}

// TestDeviceMetricsForwardedVerbatim 测试设备指标原样转发
func TestDeviceMetricsForwardedVerbatim(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d",
		"appName":     "a",
		"osType":      "Android",
	})

	sendJSON(t, producer, map[string]any{
		"messageType": "deviceMetrics",
		"cpuUsage":    12.5,
		"memUsage":    40,
	})

	received := readJSON(t, observer, 3*time.Second)
	assert.Equal(t, "deviceMetrics", received["messageType"])
	assert.Equal(t, 12.5, received["cpuUsage"])
	assert.Equal(t, float64(40), received["memUsage"])
}

// TestDeviceMetricsWithoutSessionIsFatal 测试缺少会话元数据时指标消息终止连接
func TestDeviceMetricsWithoutSessionIsFatal(t *testing.T) {
	_, _, url := newTestHubServer(t)

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "deviceMetrics",
		"temp":        40,
	})

	producer.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := producer.ReadMessage()
	assert.Error(t, err, "Server should terminate connection on missing apiKey")
}

// TestLogDumpWithoutSessionIsFatal 测试未 startSession 直接 logDump 终止连接
func TestLogDumpWithoutSessionIsFatal(t *testing.T) {
	_, _, url := newTestHubServer(t)

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "03-12 13:45:30.123 1 2 I Tag: text",
	})

	producer.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := producer.ReadMessage()
	assert.Error(t, err, "Server should terminate connection when session is not started")
}

// TestLogDumpParseErrorKeepsConnection 测试解析失败不影响连接后续服务
func TestLogDumpParseErrorKeepsConnection(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d",
		"appName":     "a",
		"osType":      "Android",
	})

	// 无法解析的内容仅丢弃本次上报
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "this is not a logcat line",
	})

	// 连接应存活，后续正常上报照常下发
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "03-12 13:45:30.123 1 2 I Tag: still alive",
	})

	received := readJSON(t, observer, 3*time.Second)
	assert.Equal(t, "logData", received["messageType"])
	entries := received["logEntries"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "still alive", entries[0].(map[string]any)["text"])
}

// TestMalformedJSONIsFatal 测试无法解码的消息终止连接
func TestMalformedJSONIsFatal(t *testing.T) {
	_, _, url := newTestHubServer(t)

	conn := dialTestWS(t, url)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "Server should terminate connection on undecodable message")
}

// TestUnknownMessageTypeIgnored 测试未知消息类型被忽略且连接存活
func TestUnknownMessageTypeIgnored(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	conn := dialTestWS(t, url)
	sendJSON(t, conn, map[string]any{"messageType": "totallyUnknown", "x": 1})

	// 连接仍可正常关联
	associateObserver(t, hub, conn, "k1")
}

// TestObserverDisconnectCleansRegistry 测试观察者断开后的注册表清理
func TestObserverDisconnectCleansRegistry(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	observer.Close()

	require.Eventually(t, func() bool {
		_, keys := hub.GetRegistry().Counts()
		return keys == 0
	}, 3*time.Second, 10*time.Millisecond, "Registry should compact after observer disconnect")
}

// TestProducerDisconnectDoesNotAffectObserver 测试生产者断开不影响观察者
func TestProducerDisconnectDoesNotAffectObserver(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d",
		"appName":     "a",
		"osType":      "Android",
	})
	producer.Close()

	require.Eventually(t, func() bool {
		return hub.GetStats().TotalClients == 1
	}, 3*time.Second, 10*time.Millisecond)
	assert.True(t, hub.GetRegistry().HasObservers("k1"), "Observer should survive producer disconnect")

	// 新的生产者上报仍能到达该观察者
	producer2 := dialTestWS(t, url)
	sendJSON(t, producer2, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d2",
		"appName":     "a",
		"osType":      "Android",
	})
	sendJSON(t, producer2, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "03-12 13:45:30.123 1 2 I Tag: after reconnect",
	})

	received := readJSON(t, observer, 3*time.Second)
	assert.Equal(t, "logData", received["messageType"])
}

// TestFanoutReachesMultipleObservers 测试同一 key 下多个观察者都收到下发
func TestFanoutReachesMultipleObservers(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observerA := dialTestWS(t, url)
	associateObserver(t, hub, observerA, "k1")
	observerB := dialTestWS(t, url)
	sendJSON(t, observerB, map[string]any{"messageType": "associateUser", "apiKey": "k1"})
	require.Eventually(t, func() bool {
		observers, _ := hub.GetRegistry().Counts()
		return observers == 2
	}, 2*time.Second, 10*time.Millisecond)

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d",
		"appName":     "a",
		"osType":      "Android",
	})
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "03-12 13:45:30.123 1 2 I Tag: broadcast",
	})

	for _, observer := range []*websocket.Conn{observerA, observerB} {
		received := readJSON(t, observer, 3*time.Second)
		assert.Equal(t, "logData", received["messageType"])
	}
}

// TestFanoutIsKeyScoped 测试扇出只到达相同 key 的观察者
func TestFanoutIsKeyScoped(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observerK1 := dialTestWS(t, url)
	associateObserver(t, hub, observerK1, "k1")
	observerK2 := dialTestWS(t, url)
	associateObserver(t, hub, observerK2, "k2")

	producer := dialTestWS(t, url)
	sendJSON(t, producer, map[string]any{
		"messageType": "startSession",
		"apiKey":      "k1",
		"deviceName":  "d",
		"appName":     "a",
		"osType":      "Android",
	})
	sendJSON(t, producer, map[string]any{
		"messageType": "logDump",
		"rawLogData":  "03-12 13:45:30.123 1 2 I Tag: only k1",
	})

	received := readJSON(t, observerK1, 3*time.Second)
	assert.Equal(t, "logData", received["messageType"])

	observerK2.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	_, _, err := observerK2.ReadMessage()
	assert.Error(t, err, "Observer of another key should receive nothing")
}

// TestHubStats 测试运行统计
func TestHubStats(t *testing.T) {
	hub, _, url := newTestHubServer(t)

	observer := dialTestWS(t, url)
	associateObserver(t, hub, observer, "k1")

	stats := hub.GetStats()
	assert.Equal(t, hub.GetNodeID(), stats.NodeID)
	assert.Equal(t, 1, stats.TotalClients)
	assert.Equal(t, 1, stats.ObserverClients)
	assert.Equal(t, 1, stats.ObservedKeys)
}
