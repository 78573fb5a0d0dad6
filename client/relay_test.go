/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\client\relay_test.go
 * @Description: 中继客户端测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/kamalyes/go-logrelay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newEchoTestServer 创建一个把收到的文本消息投递到通道的测试服务端
func newEchoTestServer(t *testing.T, received chan<- string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("Upgrade error: %v", err)
			return
		}
		defer conn.Close()

		for {
			msgType, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType == websocket.TextMessage {
				received <- string(msg)
			}
		}
	}))
}

// connectTestClient 连接客户端并等待连接成功
func connectTestClient(t *testing.T, url string) *Relay {
	t.Helper()
	client := New(url)
	t.Cleanup(client.Close)

	connected := make(chan bool)
	client.OnConnected(func() {
		connected <- true
	})

	go client.Connect()

	select {
	case <-connected:
	case <-time.After(2 * time.Second):
		t.Fatal("Connection timeout")
	}
	return client
}

// readEnvelope 从通道读取一条消息并解码为字段表
func readEnvelope(t *testing.T, received <-chan string) map[string]any {
	t.Helper()
	select {
	case msg := <-received:
		var fields map[string]any
		require.NoError(t, json.Unmarshal([]byte(msg), &fields), "Envelope should be valid JSON")
		return fields
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for message")
		return nil
	}
}

// TestSendTextMessage 测试发送文本消息
func TestSendTextMessage(t *testing.T) {
	received := make(chan string, 1)
	server := newEchoTestServer(t, received)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := connectTestClient(t, url)

	err := client.SendTextMessage("test message")
	assert.NoError(t, err, "SendTextMessage should succeed")

	select {
	case msg := <-received:
		assert.Equal(t, "test message", msg, "Should receive correct message")
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for message")
	}
}

// TestSendMessage_WhenClosed 测试连接关闭后发送消息
func TestSendMessage_WhenClosed(t *testing.T) {
	received := make(chan string, 1)
	server := newEchoTestServer(t, received)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := connectTestClient(t, url)

	client.Close()
	time.Sleep(100 * time.Millisecond)

	err := client.SendTextMessage("test")
	assert.Equal(t, ErrConnectionClosed, err, "SendTextMessage after close should return ErrConnectionClosed")

	err = client.SendBinaryMessage([]byte("test"))
	assert.Equal(t, ErrConnectionClosed, err, "SendBinaryMessage after close should return ErrConnectionClosed")
}

// TestStartSessionEnvelope 测试开启会话的信封编码
func TestStartSessionEnvelope(t *testing.T) {
	received := make(chan string, 1)
	server := newEchoTestServer(t, received)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := connectTestClient(t, url)

	err := client.StartSession("k1", "Pixel 9", "demo-app", "Android", map[string]any{"appVersion": "1.4.2"})
	require.NoError(t, err, "StartSession should succeed")

	fields := readEnvelope(t, received)
	assert.Equal(t, models.MessageTypeStartSession, fields[models.EnvelopeFieldMessageType], "Should carry startSession type")
	assert.Equal(t, "k1", fields[models.SessionFieldAPIKey], "Should carry apiKey")
	assert.Equal(t, "Pixel 9", fields[models.SessionFieldDeviceName], "Should carry deviceName")
	assert.Equal(t, "demo-app", fields[models.SessionFieldAppName], "Should carry appName")
	assert.Equal(t, "Android", fields[models.SessionFieldOSType], "Should carry osType")
	assert.Equal(t, "1.4.2", fields["appVersion"], "Should carry extra metadata")
}

// TestSendLogDumpEnvelope 测试日志片段的信封编码
func TestSendLogDumpEnvelope(t *testing.T) {
	received := make(chan string, 1)
	server := newEchoTestServer(t, received)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := connectTestClient(t, url)

	raw := "03-12 13:45:30.123 1 2 I Tag: hello"
	require.NoError(t, client.SendLogDump(raw), "SendLogDump should succeed")

	fields := readEnvelope(t, received)
	assert.Equal(t, models.MessageTypeLogDump, fields[models.EnvelopeFieldMessageType], "Should carry logDump type")
	assert.Equal(t, raw, fields[models.EnvelopeFieldRawLogData], "Should carry raw log text")
}

// TestAssociateUserAndEndSessionEnvelopes 测试观察端绑定与结束会话的信封编码
func TestAssociateUserAndEndSessionEnvelopes(t *testing.T) {
	received := make(chan string, 2)
	server := newEchoTestServer(t, received)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := connectTestClient(t, url)

	require.NoError(t, client.AssociateUser("k1"), "AssociateUser should succeed")
	fields := readEnvelope(t, received)
	assert.Equal(t, models.MessageTypeAssociateUser, fields[models.EnvelopeFieldMessageType], "Should carry associateUser type")
	assert.Equal(t, "k1", fields[models.SessionFieldAPIKey], "Should carry apiKey")

	require.NoError(t, client.EndSession(), "EndSession should succeed")
	fields = readEnvelope(t, received)
	assert.Equal(t, models.MessageTypeEndSession, fields[models.EnvelopeFieldMessageType], "Should carry endSession type")
}

// TestOnLogDataFiltersMessages 测试日志消息回调只接收 logData 消息
func TestOnLogDataFiltersMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("Upgrade error: %v", err)
			return
		}
		defer conn.Close()

		// 先发一条非 logData 消息，再发一条 logData 消息
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"messageType":"deviceMetrics","battery":88}`))
		msg := models.NewLogDataMessage("Android", []models.LogEntry{
			{Time: time.Date(2026, 3, 12, 13, 45, 30, 123000000, time.UTC), LogType: models.LogLevelError, Tag: "AndroidRuntime", Text: "boom"},
		})
		data, err := msg.Encode()
		if err != nil {
			t.Logf("Encode error: %v", err)
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, data)
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := New(url)
	defer client.Close()

	logData := make(chan *models.LogDataMessage, 2)
	client.OnLogData(func(message *models.LogDataMessage) {
		logData <- message
	})

	go client.Connect()

	select {
	case msg := <-logData:
		require.Len(t, msg.LogEntries, 1, "Should carry one entry")
		assert.Equal(t, models.LogLevelError, msg.LogEntries[0].LogType, "Should keep log level")
		assert.Equal(t, "AndroidRuntime", msg.LogEntries[0].Tag, "Should keep tag")
	case <-time.After(2 * time.Second):
		t.Fatal("Timeout waiting for logData message")
	}

	// 不应再有第二条（deviceMetrics 已被过滤）
	select {
	case msg := <-logData:
		t.Fatalf("Unexpected extra logData message: %+v", msg)
	case <-time.After(200 * time.Millisecond):
	}
}

// TestReconnectAfterServerDrop 测试服务端断开后的自动重连
func TestReconnectAfterServerDrop(t *testing.T) {
	connCount := make(chan int, 4)
	count := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		count++
		connCount <- count
		if count == 1 {
			// 第一条连接立即断开，触发客户端重连
			conn.Close()
			return
		}
		defer conn.Close()
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	client := New(url)
	defer client.Close()

	go client.Connect()

	deadline := time.After(5 * time.Second)
	for {
		select {
		case n := <-connCount:
			if n >= 2 {
				return
			}
		case <-deadline:
			t.Fatal("Timeout waiting for reconnect")
		}
	}
}
