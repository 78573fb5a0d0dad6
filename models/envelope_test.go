/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\envelope_test.go
 * @Description: 消息信封编解码测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDecodeEnvelope 测试信封解码
func TestDecodeEnvelope(t *testing.T) {
	raw := []byte(`{"messageType":"startSession","apiKey":"k1","deviceName":"Pixel 9"}`)
	env, err := DecodeEnvelope(raw)
	require.NoError(t, err, "Valid JSON object should decode")

	assert.Equal(t, MessageTypeStartSession, env.MessageType, "Should extract messageType")
	assert.Equal(t, raw, env.Raw, "Should keep raw bytes")

	value, ok := env.GetString(SessionFieldAPIKey)
	assert.True(t, ok)
	assert.Equal(t, "k1", value, "GetString should read string fields")
}

// TestDecodeEnvelope_MalformedJSON 测试非法 JSON 解码失败
func TestDecodeEnvelope_MalformedJSON(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`{not json`))
	require.Error(t, err, "Malformed JSON should fail")
	assert.True(t, IsConnectionFatal(err), "Decode failure should be connection fatal")
}

// TestDecodeEnvelope_MissingMessageType 测试缺失 messageType 的信封
func TestDecodeEnvelope_MissingMessageType(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"apiKey":"k1"}`))
	require.NoError(t, err, "Object without messageType still decodes")
	assert.Empty(t, env.MessageType, "MessageType should be empty")
}

// TestRequireString 测试必需字段校验
func TestRequireString(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"messageType":"logDump","rawLogData":"line","count":3}`))
	require.NoError(t, err)

	value, err := env.RequireString(EnvelopeFieldRawLogData)
	require.NoError(t, err)
	assert.Equal(t, "line", value)

	_, err = env.RequireString("missing")
	require.Error(t, err, "Missing field should error")

	_, err = env.RequireString("count")
	require.Error(t, err, "Non-string field should error")
}

// TestLogDataMessageEncode 测试 logData 出站消息编码
func TestLogDataMessageEncode(t *testing.T) {
	entries := []LogEntry{
		{Time: time.Date(2026, 3, 12, 13, 45, 30, 0, time.UTC), LogType: LogLevelInfo, Tag: "WifiService", Text: "connected"},
	}
	msg := NewLogDataMessage("Android", entries)
	data, err := msg.Encode()
	require.NoError(t, err)

	var decoded LogDataMessage
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, MessageTypeLogData, decoded.MessageType, "Should carry logData type")
	assert.Equal(t, "Android", decoded.OSType, "Should carry osType")
	require.Len(t, decoded.LogEntries, 1)
	assert.Equal(t, "WifiService", decoded.LogEntries[0].Tag)
}

// TestLogEntryAppendText 测试多行文本合并
func TestLogEntryAppendText(t *testing.T) {
	entry := LogEntry{Text: "FATAL EXCEPTION: main"}
	entry.AppendText("java.lang.NullPointerException")
	assert.Equal(t, "FATAL EXCEPTION: main\njava.lang.NullPointerException", entry.Text,
		"Merged lines should be joined with a newline")
}
