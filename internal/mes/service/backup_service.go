package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/wmarfa/production-db/internal/config"
	"github.com/wmarfa/production-db/internal/mes/entity"
)

const restoreLockKey = "production-db:restore:lock"

// Snapshot 全库快照。四个集合按外键依赖顺序排列，
// 保留全部主键和时间戳，可逐字节还原成等价行集。
type Snapshot struct {
	Products           []entity.Product             `json:"products"`
	DailyPerformance   []entity.DailyPerformance    `json:"daily_performance"`
	AssyPerformance    []entity.AssemblyPerformance `json:"assy_performance"`
	PackingPerformance []entity.PackingPerformance  `json:"packing_performance"`
}

// BackupService 备份/恢复协调器。
// 恢复会清空全部四张表再重灌，与在线写入并发执行不安全；
// 进程内用互斥锁串行，配置了Redis时再加跨进程抢占锁。
type BackupService struct {
	db     *gorm.DB
	rdb    *redis.Client
	minio  *minio.Client
	cfg    config.BackupConfig
	logger *zap.Logger
	mu     sync.Mutex
}

func NewBackupService(db *gorm.DB, rdb *redis.Client, minioClient *minio.Client, cfg config.BackupConfig, logger *zap.Logger) *BackupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BackupService{db: db, rdb: rdb, minio: minioClient, cfg: cfg, logger: logger}
}

// Backup 导出全库快照，按依赖顺序读：产品→日报头→装配行→包装行。
// 与Restore共用互斥锁，四张表在同一事务内读取——快照必须是同一时刻的
// 完整视图，否则行项可能引用快照里不存在的头表，恢复时整体失败。
func (s *BackupService) Backup(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := &Snapshot{
		Products:           []entity.Product{},
		DailyPerformance:   []entity.DailyPerformance{},
		AssyPerformance:    []entity.AssemblyPerformance{},
		PackingPerformance: []entity.PackingPerformance{},
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("id ASC").Find(&snapshot.Products).Error; err != nil {
			return fmt.Errorf("backup products: %w", err)
		}
		if err := tx.Order("id ASC").Find(&snapshot.DailyPerformance).Error; err != nil {
			return fmt.Errorf("backup daily_performance: %w", err)
		}
		if err := tx.Order("id ASC").Find(&snapshot.AssyPerformance).Error; err != nil {
			return fmt.Errorf("backup assy_performance: %w", err)
		}
		if err := tx.Order("id ASC").Find(&snapshot.PackingPerformance).Error; err != nil {
			return fmt.Errorf("backup packing_performance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

// 快照必须至少带一个已知集合键，缺省的集合恢复后为空
var snapshotKeys = []string{"products", "daily_performance", "assy_performance", "packing_performance"}

// ParseSnapshot 解析并校验快照。任何破坏性语句执行前完成，
// 解析失败或没有任何已知集合键时拒绝。
func ParseSnapshot(raw []byte) (*Snapshot, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	known := false
	for _, key := range snapshotKeys {
		if _, ok := top[key]; ok {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: no recognized collections", ErrBadSnapshot)
	}
	var snapshot Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return &snapshot, nil
}

// Restore 整库替换恢复：一个事务内先清空（行项→头表→产品），
// 再按父先子后的顺序重灌，保留原始ID。任何失败整体回滚，
// 恢复前的数据集原样保留。
func (s *BackupService) Restore(ctx context.Context, raw []byte) error {
	snapshot, err := ParseSnapshot(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rdb != nil {
		ok, err := s.rdb.SetNX(ctx, restoreLockKey, "1", 5*time.Minute).Result()
		if err != nil {
			s.logger.Warn("redis restore lock unavailable", zap.Error(err))
		} else if !ok {
			return ErrRestoreBusy
		} else {
			defer s.rdb.Del(context.Background(), restoreLockKey)
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"packing_performance", "assy_performance", "daily_performance", "products"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("truncate %s: %w", table, err)
			}
		}
		if len(snapshot.Products) > 0 {
			if err := tx.CreateInBatches(&snapshot.Products, 200).Error; err != nil {
				return fmt.Errorf("restore products: %w", err)
			}
		}
		if len(snapshot.DailyPerformance) > 0 {
			if err := tx.Omit("AssemblyLines", "PackingLines").CreateInBatches(&snapshot.DailyPerformance, 200).Error; err != nil {
				return fmt.Errorf("restore daily_performance: %w", err)
			}
		}
		if len(snapshot.AssyPerformance) > 0 {
			if err := tx.Omit("Product").CreateInBatches(&snapshot.AssyPerformance, 200).Error; err != nil {
				return fmt.Errorf("restore assy_performance: %w", err)
			}
		}
		if len(snapshot.PackingPerformance) > 0 {
			if err := tx.Omit("Product").CreateInBatches(&snapshot.PackingPerformance, 200).Error; err != nil {
				return fmt.Errorf("restore packing_performance: %w", err)
			}
		}
		return nil
	})
}

// RunScheduled 定时备份入口：导出快照，配置了MinIO时上传
func (s *BackupService) RunScheduled(ctx context.Context) error {
	snapshot, err := s.Backup(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if s.minio == nil || s.cfg.Bucket == "" {
		s.logger.Info("scheduled backup done, no object storage configured",
			zap.Int("bytes", len(data)))
		return nil
	}
	objectName := fmt.Sprintf("backups/production-db-%s.json", time.Now().Format("20060102-150405"))
	_, err = s.minio.PutObject(ctx, s.cfg.Bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload snapshot: %w", err)
	}
	s.logger.Info("scheduled backup uploaded",
		zap.String("object", objectName),
		zap.Int("bytes", len(data)))
	return nil
}
