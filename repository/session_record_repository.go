/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-03-12 00:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-03-12 00:00:00
 * @FilePath: \go-logrelay\repository\session_record_repository.go
 * @Description: 采集会话记录管理 - 使用 GORM 数据库持久化
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package repository

import (
	"context"
	"time"

	sqlbuilder "github.com/kamalyes/go-sqlbuilder/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionQueryOptions 会话查询条件
type SessionQueryOptions struct {
	APIKey     string // API Key
	DeviceName string // 设备名称
	AppName    string // 应用名称
	NodeID     string // 节点ID
	OnlyActive bool   // 仅查询未结束的会话
	Limit      int    // 返回条数限制
	Offset     int    // 偏移量
}

// SessionRecordRepository 采集会话记录仓库接口
type SessionRecordRepository interface {
	// Create 创建会话记录
	Create(ctx context.Context, record *SessionRecord) error

	// MarkEnded 标记会话结束
	MarkEnded(ctx context.Context, sessionID string, reason string, endedAt time.Time) error

	// AddCounts 累加会话统计（日志条数与logDump消息数）
	AddCounts(ctx context.Context, sessionID string, logCount int64, dumpCount int64) error

	// FindBySessionID 根据会话ID查找
	FindBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error)

	// Query 按条件查询会话
	Query(ctx context.Context, opts *SessionQueryOptions) ([]*SessionRecord, error)

	// UpsertDeviceApp 登记设备应用组合（已存在则仅刷新最近出现时间）
	UpsertDeviceApp(ctx context.Context, record *DeviceAppRecord) error

	// ListDeviceApps 查询 API Key 下出现过的设备应用组合
	ListDeviceApps(ctx context.Context, apiKey string) ([]*DeviceAppRecord, error)

	// CleanupOld 清理旧会话记录
	CleanupOld(ctx context.Context, before time.Time) (int64, error)

	// GetDB 获取底层 GORM DB（用于复杂查询）
	GetDB() *gorm.DB
}

// SessionRecordGormRepository GORM 实现
type SessionRecordGormRepository struct {
	db *gorm.DB
}

// NewSessionRecordRepository 创建会话记录仓库
func NewSessionRecordRepository(db *gorm.DB) SessionRecordRepository {
	return &SessionRecordGormRepository{db: db}
}

// Create 创建会话记录
func (r *SessionRecordGormRepository) Create(ctx context.Context, record *SessionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// MarkEnded 标记会话结束
func (r *SessionRecordGormRepository) MarkEnded(ctx context.Context, sessionID string, reason string, endedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&SessionRecord{}).
		Where(QuerySessionIDWhere, sessionID).
		Updates(map[string]any{
			"ended_at":   endedAt,
			"end_reason": reason,
		}).Error
}

// AddCounts 累加会话统计
func (r *SessionRecordGormRepository) AddCounts(ctx context.Context, sessionID string, logCount int64, dumpCount int64) error {
	return r.db.WithContext(ctx).
		Model(&SessionRecord{}).
		Where(QuerySessionIDWhere, sessionID).
		Updates(map[string]any{
			"log_count":  gorm.Expr("log_count + ?", logCount),
			"dump_count": gorm.Expr("dump_count + ?", dumpCount),
		}).Error
}

// FindBySessionID 根据会话ID查找
func (r *SessionRecordGormRepository) FindBySessionID(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var record SessionRecord
	err := r.db.WithContext(ctx).
		Where(QuerySessionIDWhere, sessionID).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// Query 按条件查询会话
func (r *SessionRecordGormRepository) Query(ctx context.Context, opts *SessionQueryOptions) ([]*SessionRecord, error) {
	query := r.db.WithContext(ctx).Model(&SessionRecord{})

	if opts != nil {
		// 使用 go-sqlbuilder 构建过滤条件
		sqlQuery := sqlbuilder.NewQuery().
			AddFilterIfNotEmpty("api_key", opts.APIKey).
			AddFilterIfNotEmpty("device_name", opts.DeviceName).
			AddFilterIfNotEmpty("app_name", opts.AppName).
			AddFilterIfNotEmpty("node_id", opts.NodeID)

		query = sqlbuilder.ApplyFilters(query, sqlQuery.Filters)

		if opts.OnlyActive {
			query = query.Where("ended_at IS NULL")
		}
		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
	}

	var records []*SessionRecord
	err := query.Order(OrderByStartedAtDesc).Find(&records).Error
	return records, err
}

// UpsertDeviceApp 登记设备应用组合
func (r *SessionRecordGormRepository) UpsertDeviceApp(ctx context.Context, record *DeviceAppRecord) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "api_key"}, {Name: "device_name"}, {Name: "app_name"}},
			DoUpdates: clause.Assignments(map[string]any{
				"last_seen": record.LastSeen,
				"os_type":   record.OSType,
			}),
		}).
		Create(record).Error
}

// ListDeviceApps 查询 API Key 下出现过的设备应用组合
func (r *SessionRecordGormRepository) ListDeviceApps(ctx context.Context, apiKey string) ([]*DeviceAppRecord, error) {
	var records []*DeviceAppRecord
	err := r.db.WithContext(ctx).
		Where(QueryAPIKeyWhere, apiKey).
		Order("last_seen DESC").
		Find(&records).Error
	return records, err
}

// CleanupOld 清理旧会话记录
func (r *SessionRecordGormRepository) CleanupOld(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("started_at < ? AND ended_at IS NOT NULL", before).
		Delete(&SessionRecord{})
	return result.RowsAffected, result.Error
}

// GetDB 获取底层 GORM DB
func (r *SessionRecordGormRepository) GetDB() *gorm.DB {
	return r.db
}
