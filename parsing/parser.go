/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\parsing\parser.go
 * @Description: logcat 原始文本解析器 - 归一化与同事件行合并
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package parsing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-toolbox/pkg/errorx"
)

// ============ 常量定义 ============

const (
	// LogMarkerPrefix logcat 缓冲区头标记行，不是日志条目，需整行剔除
	LogMarkerPrefix = "beginning of /dev/log/"

	// logTimeLayout 设备侧时间格式（年份由解析时注入）
	logTimeLayout = "2006-01-02 15:04:05.999999"
)

// logLinePattern 单行日志结构: <时间> <pid> <tid> <级别字符> <tag>: <正文>
var logLinePattern = regexp.MustCompile(`^(.*) (\d*) (\d*) (.) (.*?): ((?:.*\n*)*)`)

// ============ 中间解析结果 ============

// rawLine 单行解析中间结果
// ProcessID/ThreadID 仅参与同事件合并判定，不进入下发的 LogEntry
type rawLine struct {
	Time      time.Time
	ProcessID string
	ThreadID  string
	LogType   models.LogLevel
	Tag       string
	Text      string
}

// sameEvent 判断两行是否属于同一日志事件（软启发式，比较头部五元组）
func (r *rawLine) sameEvent(other *rawLine) bool {
	return r.Time.Equal(other.Time) &&
		r.ProcessID == other.ProcessID &&
		r.ThreadID == other.ThreadID &&
		r.LogType == other.LogType &&
		r.Tag == other.Tag
}

// ============ 解析器 ============

// Parser logcat 文本解析器，无内部状态，可并发使用
type Parser struct {
	Now func() time.Time // 时钟（可注入，年份注入与测试用）
}

// NewParser 创建解析器实例
func NewParser() *Parser {
	return &Parser{Now: time.Now}
}

// Parse 将换行分隔的原始日志文本解析为有序 LogEntry 序列
// 连续且头部五元组完全相同的行合并为单个条目，正文以换行连接
func (p *Parser) Parse(rawLogData string) ([]models.LogEntry, error) {
	lines := splitLines(rawLogData)

	// 标记行可能出现在任意位置，统一剔除
	substantive := lines[:0]
	for _, line := range lines {
		if strings.Contains(line, LogMarkerPrefix) {
			continue
		}
		substantive = append(substantive, line)
	}

	if len(substantive) == 0 {
		return nil, models.ErrEmptyLogDump
	}

	year := p.Now().Year()

	prev, err := p.parseRawLine(substantive[0], year)
	if err != nil {
		return nil, err
	}
	entries := []models.LogEntry{prev.toEntry()}

	for _, line := range substantive[1:] {
		current, err := p.parseRawLine(line, year)
		if err != nil {
			return nil, err
		}
		if current.sameEvent(prev) {
			// 同一事件被拆成多个物理行，正文并入前一条目
			entries[len(entries)-1].AppendText(current.Text)
		} else {
			entries = append(entries, current.toEntry())
		}
		// 合并判定始终基于紧邻的上一原始行，保证 3 行以上的连续段正确链式合并
		prev = current
	}

	return entries, nil
}

// ParseToMessage 解析原始日志并封装为下发给观察者的 logData 消息
func (p *Parser) ParseToMessage(osType string, rawLogData string) (*models.LogDataMessage, error) {
	entries, err := p.Parse(rawLogData)
	if err != nil {
		return nil, err
	}
	return models.NewLogDataMessage(osType, entries), nil
}

// parseRawLine 解析单行原始日志
func (p *Parser) parseRawLine(line string, year int) (*rawLine, error) {
	matches := logLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return nil, errorx.NewError(models.ErrTypeMalformedLogLine, "malformed log line: %q", line)
	}

	logType, err := models.ParseLogLevelChar(matches[4][0])
	if err != nil {
		return nil, err
	}

	logTime, err := parseLogTime(matches[1], year)
	if err != nil {
		return nil, err
	}

	return &rawLine{
		Time:      logTime,
		ProcessID: matches[2],
		ThreadID:  matches[3],
		LogType:   logType,
		Tag:       matches[5],
		Text:      matches[6],
	}, nil
}

// toEntry 转换为下发条目，丢弃 ProcessID/ThreadID
func (r *rawLine) toEntry() models.LogEntry {
	return models.LogEntry{
		Time:    r.Time,
		LogType: r.LogType,
		Tag:     r.Tag,
		Text:    r.Text,
	}
}

// parseLogTime 设备侧时间不含年份，拼入当前年份后再解析
func parseLogTime(raw string, year int) (time.Time, error) {
	dateWithYear := strconv.Itoa(year) + "-" + strings.TrimSpace(raw)
	logTime, err := time.Parse(logTimeLayout, dateWithYear)
	if err != nil {
		return time.Time{}, errorx.NewError(models.ErrTypeBadTimestamp, "bad log timestamp: %q", raw)
	}
	return logTime, nil
}

// splitLines 按换行拆分，兼容 \r\n，末尾的单个空行不算数据行
func splitLines(raw string) []string {
	lines := strings.Split(raw, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
