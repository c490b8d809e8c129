package service

import (
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wmarfa/production-db/internal/config"
	"github.com/wmarfa/production-db/internal/mes/repository"
)

// 错误定义（handler层映射到HTTP状态码）
var (
	ErrValidation        = errors.New("validation failed")
	ErrProductReferenced = errors.New("product is referenced by performance lines")
	ErrBadSnapshot       = errors.New("invalid backup snapshot")
	ErrRestoreBusy       = errors.New("another restore is in progress")
)

// Services 服务集合
type Services struct {
	Product     *ProductService
	Performance *PerformanceService
	Dashboard   *DashboardService
	Backup      *BackupService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}

	// 初始化MinIO客户端（未配置时备份只落库内快照，不上传）
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio init failed, snapshot upload disabled", zap.Error(err))
			minioClient = nil
		}
	}

	return &Services{
		Product:     NewProductService(repos.Product),
		Performance: NewPerformanceService(repos.Performance.DB(), repos.Performance),
		Dashboard:   NewDashboardService(repos.Performance, repos.Product, logger),
		Backup:      NewBackupService(repos.Performance.DB(), rdb, minioClient, cfg.Backup, logger),
	}
}
