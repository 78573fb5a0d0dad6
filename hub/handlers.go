/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\hub\handlers.go
 * @Description: 入站消息处理器 - startSession/logDump/endSession/associateUser/deviceMetrics
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */

package hub

import (
	"context"
	"time"

	"github.com/kamalyes/go-logrelay/models"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// ============================================================================
// 生产者消息处理器
// ============================================================================

// handleStartSession 处理会话开始
// 消息的全部字段写入会话元数据，连接随之确定为生产者角色
func (h *Hub) handleStartSession(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	session.ApplyStartMessage(env.Fields, time.Now())
	session.SessionID = h.idGenerator.GenerateRequestID()
	client.Role = ClientRoleProducer

	h.logger.InfoKV("采集会话开始",
		"client_id", client.ID,
		"session_id", session.SessionID,
		"api_key", session.APIKey,
		"device_name", session.DeviceName,
		"app_name", session.AppName,
		"os_type", session.OSType,
	)

	h.persistSessionStart(client, session)
	return nil
}

// persistSessionStart 会话开始的落库与在线状态标记（尽力而为，不阻塞接收循环）
func (h *Hub) persistSessionStart(client *Client, session *Session) {
	if h.sessionRecordRepo == nil && h.presenceRepo == nil {
		return
	}

	record := &models.SessionRecord{
		SessionID:  session.SessionID,
		APIKey:     session.APIKey,
		NodeID:     h.nodeID,
		DeviceName: session.DeviceName,
		AppName:    session.AppName,
		OSType:     session.OSType,
		ClientIP:   client.GetClientIP(),
		StartedAt:  session.StartTime,
		Extra:      session.Extra,
	}
	live := models.NewLiveSession(session.SessionID, session, client)

	syncx.Go(h.ctx).
		OnPanic(func(r any) {
			h.logger.ErrorKV("会话开始持久化 panic", "panic", r, "session_id", record.SessionID)
		}).
		Exec(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if h.sessionRecordRepo != nil {
				if err := h.sessionRecordRepo.Create(ctx, record); err != nil {
					h.logger.ErrorKV("会话记录创建失败", "session_id", record.SessionID, "error", err)
				}
			}
			if h.presenceRepo != nil {
				if err := h.presenceRepo.SetSessionLive(ctx, live); err != nil {
					h.logger.ErrorKV("会话在线状态标记失败", "session_id", record.SessionID, "error", err)
				}
			}
		})
}

// handleLogDump 处理原始日志上报
// 解析归一化后按会话的 API Key 扇出给全部观察者；解析失败仅影响本次上报
func (h *Hub) handleLogDump(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	if err := session.RequireDumpFields(); err != nil {
		return err
	}

	rawLogData, err := env.RequireString(models.EnvelopeFieldRawLogData)
	if err != nil {
		return err
	}

	entries, err := h.parser.Parse(rawLogData)
	if err != nil {
		return err
	}
	h.entriesParsed.Add(int64(len(entries)))

	h.persistLogDump(session, entries)

	message := NewLogDataMessage(session.OSType, entries)
	data, err := message.Encode()
	if err != nil {
		return err
	}

	h.fanout(ctx, session.APIKey, data)

	h.logger.DebugKV("日志上报已扇出",
		"client_id", client.ID,
		"api_key", session.APIKey,
		"entry_count", len(entries),
	)
	return nil
}

// persistLogDump 日志条目落库与会话统计累加（尽力而为，不阻塞接收循环）
func (h *Hub) persistLogDump(session *Session, entries []LogEntry) {
	if h.logRecordRepo == nil && h.sessionRecordRepo == nil {
		return
	}

	sessionID := session.SessionID
	sessionCopy := *session

	syncx.Go(h.ctx).
		OnPanic(func(r any) {
			h.logger.ErrorKV("日志持久化 panic", "panic", r, "session_id", sessionID)
		}).
		Exec(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if h.logRecordRepo != nil {
				if err := h.logRecordRepo.StoreEntries(ctx, sessionID, &sessionCopy, entries); err != nil {
					h.logger.ErrorKV("日志落库失败", "session_id", sessionID, "error", err)
				}
			}
			if h.sessionRecordRepo != nil && sessionID != "" {
				if err := h.sessionRecordRepo.AddCounts(ctx, sessionID, int64(len(entries)), 1); err != nil {
					h.logger.ErrorKV("会话统计累加失败", "session_id", sessionID, "error", err)
				}
			}
		})
}

// handleEndSession 处理会话结束
// 仅收尾持久化与在线状态，连接保持打开，后续可再次 startSession
func (h *Hub) handleEndSession(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	if err := session.RequireDumpFields(); err != nil {
		return err
	}

	sessionID := session.SessionID
	session.SessionID = ""

	h.logger.InfoKV("采集会话结束",
		"client_id", client.ID,
		"session_id", sessionID,
		"api_key", session.APIKey,
	)

	if h.sessionRecordRepo == nil && h.presenceRepo == nil {
		return nil
	}

	deviceApp := &models.DeviceAppRecord{
		APIKey:     session.APIKey,
		DeviceName: session.DeviceName,
		AppName:    session.AppName,
		OSType:     session.OSType,
		FirstSeen:  session.StartTime,
		LastSeen:   time.Now(),
	}

	syncx.Go(h.ctx).
		OnPanic(func(r any) {
			h.logger.ErrorKV("会话结束持久化 panic", "panic", r, "session_id", sessionID)
		}).
		Exec(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if h.sessionRecordRepo != nil {
				if sessionID != "" {
					if err := h.sessionRecordRepo.MarkEnded(ctx, sessionID, "end_session", time.Now()); err != nil {
						h.logger.ErrorKV("标记会话结束失败", "session_id", sessionID, "error", err)
					}
				}
				if err := h.sessionRecordRepo.UpsertDeviceApp(ctx, deviceApp); err != nil {
					h.logger.ErrorKV("设备应用登记失败", "api_key", deviceApp.APIKey, "error", err)
				}
			}
			if h.presenceRepo != nil && sessionID != "" {
				if err := h.presenceRepo.SetSessionOver(ctx, sessionID); err != nil {
					h.logger.ErrorKV("清理会话在线状态失败", "session_id", sessionID, "error", err)
				}
			}
		})

	return nil
}

// ============================================================================
// 观察者消息处理器
// ============================================================================

// handleAssociateUser 处理观察者关联
// 连接挂入注册表后开始接收该 API Key 下全部生产者的解析结果
func (h *Hub) handleAssociateUser(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	apiKey, err := env.RequireString(models.SessionFieldAPIKey)
	if err != nil {
		return err
	}

	// 一条连接同一时刻只关联一个 key，重复关联视为换绑
	if session.APIKey != "" && session.APIKey != apiKey {
		h.registry.Remove(client, session.APIKey)
	}

	client.Role = ClientRoleObserver
	session.APIKey = apiKey
	h.registry.Attach(apiKey, client)

	h.logger.InfoKV("观察者已关联",
		"client_id", client.ID,
		"api_key", apiKey,
	)
	return nil
}

// handleDeviceMetrics 处理设备指标
// 原始消息不重新解析，原样转发给 API Key 下全部观察者
func (h *Hub) handleDeviceMetrics(ctx context.Context, env *Envelope, client *Client, session *Session) error {
	if err := session.RequireAPIKey(); err != nil {
		return err
	}

	h.fanout(ctx, session.APIKey, env.Raw)

	h.logger.DebugKV("设备指标已转发",
		"client_id", client.ID,
		"api_key", session.APIKey,
	)
	return nil
}

// ============================================================================
// 扇出
// ============================================================================

// fanout 将消息下发给 API Key 下的全部观察者并发布到其他节点
// 对单个观察者的发送非阻塞，缓冲区满即丢弃该观察者的本条消息
func (h *Hub) fanout(ctx context.Context, apiKey string, data []byte) {
	h.fanoutLocal(apiKey, data)
	h.publishFanout(ctx, apiKey, data)
}

// fanoutLocal 仅下发给本节点的观察者，目标由关联策略决定
func (h *Hub) fanoutLocal(apiKey string, data []byte) {
	observers := h.policy.FindAssociatedClients(apiKey, h.registry)
	if len(observers) == 0 {
		return
	}

	for _, observer := range observers {
		if observer.TrySend(data) {
			h.messagesFanout.Add(1)
			continue
		}
		h.droppedSends.Add(1)
		h.logger.WarnKV("观察者发送缓冲区满，消息丢弃",
			"client_id", observer.ID,
			"api_key", apiKey,
		)
	}
}
