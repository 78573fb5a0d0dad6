/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\parsing\parser_test.go
 * @Description: logcat 解析器测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package parsing

import (
	"testing"
	"time"

	"github.com/kamalyes/go-logrelay/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestParser 创建时钟固定在2026年的解析器，保证年份注入可断言
func newTestParser() *Parser {
	p := NewParser()
	p.Now = func() time.Time {
		return time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	}
	return p
}

// TestParseSingleLine 测试单行日志解析
func TestParseSingleLine(t *testing.T) {
	p := newTestParser()

	entries, err := p.Parse("03-12 13:45:30.123 1795 1825 I WifiService: acquireWifiLockLocked")
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, time.Date(2026, 3, 12, 13, 45, 30, 123000000, time.UTC), entry.Time, "Year should be injected from current clock")
	assert.Equal(t, models.LogLevelInfo, entry.LogType)
	assert.Equal(t, "WifiService", entry.Tag)
	assert.Equal(t, "acquireWifiLockLocked", entry.Text)
}

// TestParseLogLevels 测试所有日志级别字符的映射
func TestParseLogLevels(t *testing.T) {
	p := newTestParser()

	cases := map[string]models.LogLevel{
		"I": models.LogLevelInfo,
		"W": models.LogLevelWarning,
		"V": models.LogLevelVerbose,
		"E": models.LogLevelError,
		"D": models.LogLevelDebug,
		"A": models.LogLevelWTF,
	}

	for char, want := range cases {
		entries, err := p.Parse("03-12 13:45:30.123 100 200 " + char + " SomeTag: text")
		require.NoError(t, err, "Level char %s should parse", char)
		require.Len(t, entries, 1)
		assert.Equal(t, want, entries[0].LogType, "Level char %s should map to %s", char, want)
	}
}

// TestParseMergesSameEventLines 测试同事件行合并
func TestParseMergesSameEventLines(t *testing.T) {
	p := newTestParser()

	raw := "03-12 13:45:30.123 1795 1825 E AndroidRuntime: FATAL EXCEPTION: main\n" +
		"03-12 13:45:30.123 1795 1825 E AndroidRuntime: java.lang.NullPointerException\n" +
		"03-12 13:45:31.000 1795 1825 E AndroidRuntime: unrelated later line"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2, "Two physical lines with identical headers should merge")

	assert.Equal(t, "FATAL EXCEPTION: main\njava.lang.NullPointerException", entries[0].Text)
	assert.Equal(t, "unrelated later line", entries[1].Text)
}

// TestParseMergeChainsAcrossRuns 测试3行以上连续同事件的链式合并
func TestParseMergeChainsAcrossRuns(t *testing.T) {
	p := newTestParser()

	raw := "03-12 13:45:30.123 1 2 W Tag: line one\n" +
		"03-12 13:45:30.123 1 2 W Tag: line two\n" +
		"03-12 13:45:30.123 1 2 W Tag: line three"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, entries, 1, "A run of N matching lines should produce exactly one entry")
	assert.Equal(t, "line one\nline two\nline three", entries[0].Text)
}

// TestParseNoMergeOnHeaderDrift 测试头部五元组任一字段不同即不合并
func TestParseNoMergeOnHeaderDrift(t *testing.T) {
	p := newTestParser()

	raw := "03-12 13:45:30.123 1 2 W Tag: first\n" +
		"03-12 13:45:30.124 1 2 W Tag: time drift\n" +
		"03-12 13:45:30.124 9 2 W Tag: pid drift\n" +
		"03-12 13:45:30.124 9 2 E Tag: level drift\n" +
		"03-12 13:45:30.124 9 2 E Other: tag drift"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	assert.Len(t, entries, 5, "Each header drift should start a new entry")
}

// TestParseStripsMarkerLines 测试任意位置的缓冲区头标记行被剔除
func TestParseStripsMarkerLines(t *testing.T) {
	p := newTestParser()

	raw := "--------- beginning of /dev/log/system\n" +
		"--------- beginning of /dev/log/main\n" +
		"03-12 13:45:30.123 1 2 I Tag: first\n" +
		"--------- beginning of /dev/log/crash\n" +
		"03-12 13:45:31.000 1 2 I Tag: second"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2, "Marker lines should never appear as entries")
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "second", entries[1].Text)
}

// TestParsePreservesOrder 测试条目顺序与原始输入一致
func TestParsePreservesOrder(t *testing.T) {
	p := newTestParser()

	raw := "03-12 13:45:30.100 1 2 I Tag: a\n" +
		"03-12 13:45:30.200 1 2 I Tag: b\n" +
		"03-12 13:45:30.300 1 2 I Tag: c"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Text)
	assert.Equal(t, "b", entries[1].Text)
	assert.Equal(t, "c", entries[2].Text)
}

// TestParseHandlesCRLFAndTrailingNewline 测试\r\n换行与末尾空行
func TestParseHandlesCRLFAndTrailingNewline(t *testing.T) {
	p := newTestParser()

	raw := "03-12 13:45:30.123 1 2 I Tag: first\r\n" +
		"03-12 13:45:31.000 1 2 I Tag: second\n"

	entries, err := p.Parse(raw)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "first", entries[0].Text)
	assert.Equal(t, "second", entries[1].Text)
}

// TestParseEmptyDump 测试空输入与纯标记输入
func TestParseEmptyDump(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("")
	assert.ErrorIs(t, err, models.ErrEmptyLogDump)

	_, err = p.Parse("--------- beginning of /dev/log/main\n")
	assert.ErrorIs(t, err, models.ErrEmptyLogDump, "Marker-only input should be treated as empty")
}

// TestParseMalformedLine 测试无法匹配头部结构的行
func TestParseMalformedLine(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("this is not a logcat line")
	require.Error(t, err)
	assert.True(t, models.IsParseError(err), "Malformed line should be a parse-class error")
}

// TestParseUnknownLevelChar 测试未知日志级别字符
func TestParseUnknownLevelChar(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("03-12 13:45:30.123 1 2 X Tag: text")
	require.Error(t, err)
	assert.True(t, models.IsParseError(err))
}

// TestParseBadTimestamp 测试时间字段非法
func TestParseBadTimestamp(t *testing.T) {
	p := newTestParser()

	_, err := p.Parse("13-45 99:99:99.123 1 2 I Tag: text")
	require.Error(t, err)
	assert.True(t, models.IsParseError(err))
}

// TestParseToMessage 测试封装为logData下发消息
func TestParseToMessage(t *testing.T) {
	p := newTestParser()

	msg, err := p.ParseToMessage("Android", "03-12 13:45:30.123 1 2 I Tag: hello")
	require.NoError(t, err)
	assert.Equal(t, models.MessageTypeLogData, msg.MessageType)
	assert.Equal(t, "Android", msg.OSType)
	require.Len(t, msg.LogEntries, 1)
	assert.Equal(t, "hello", msg.LogEntries[0].Text)
}
