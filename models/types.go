/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\models\types.go
 * @Description: 基础类型定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package models

// IDGenerator ID生成器接口
// 用于生成会话ID、连接ID等唯一标识符
type IDGenerator interface {
	GenerateTraceID() string
	GenerateSpanID() string
	GenerateRequestID() string
	GenerateCorrelationID() string
}

// HubStats Hub统计信息结构体
type HubStats struct {
	// 连接统计
	TotalClients    int `json:"total_clients"`    // 总连接数
	ProducerClients int `json:"producer_clients"` // 生产者连接数
	ObserverClients int `json:"observer_clients"` // 观察者连接数
	ObservedKeys    int `json:"observed_keys"`    // 存在观察者的 API Key 数

	// 消息统计
	MessagesReceived int64 `json:"messages_received"` // 已接收消息数
	MessagesFanout   int64 `json:"messages_fanout"`   // 已扇出消息数
	EntriesParsed    int64 `json:"entries_parsed"`    // 已解析日志条数
	DroppedSends     int64 `json:"dropped_sends"`     // 因缓冲区满被丢弃的下发数

	// 运行信息
	NodeID        string `json:"node_id"`        // 节点ID
	UptimeSeconds int64  `json:"uptime_seconds"` // 运行时长(秒)
}
