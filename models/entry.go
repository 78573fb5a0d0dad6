/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\entry.go
 * @Description: 结构化日志条目模型
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

import "time"

// LogEntry 结构化日志条目
// 字段使用 camelCase JSON key，与移动端/Web端既有线上协议保持一致
type LogEntry struct {
	Time    time.Time `json:"time"`    // 条目时间（年份由解析时注入）
	LogType LogLevel  `json:"logType"` // 日志级别
	Tag     string    `json:"tag"`     // logcat tag
	Text    string    `json:"text"`    // 文本内容（合并多行时以换行连接）
}

// AppendText 追加被拆分到下一物理行的文本
func (e *LogEntry) AppendText(text string) {
	e.Text += "\n" + text
}
