package store

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Dao interface {
	DB() *gorm.DB
	// 保存训练记录。RunId为空时自动生成
	SaveTrainingRun(run *TrainingRun) error
	// 按时间倒序查询最近limit条记录
	QueryRecentTrainingRuns(limit int) ([]*TrainingRun, error)
	QueryTrainingRunById(runId string) (*TrainingRun, error)
	Close() error
}

var ErrRunNotFound = fmt.Errorf("不存在此训练记录")

type daoImpl struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ Dao = &daoImpl{}

// NewDao 连接数据库并建表。driver为sqlite时dsn为文件路径，为mysql时为host:port形式的DSN
func NewDao(driver, dsn string, l *zap.Logger) (Dao, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSqlite, "":
		if dsn == "" {
			dsn = DefaultSqliteFile
		}
		dialector = sqlite.Open(dsn)
	case DriverMysql:
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("不支持的数据库驱动%s，可选值：sqlite, mysql", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(zap.NewStdLog(l), logger.Config{
			LogLevel: logger.Silent,
		}),
	})
	if err != nil {
		return nil, errors.Wrap(err, "连接数据库错误")
	}

	if err = db.AutoMigrate(&TrainingRunDO{}); err != nil {
		return nil, errors.Wrap(err, "创建表格时出现异常")
	}

	return &daoImpl{
		db:     db,
		logger: l.Named("dao"),
	}, nil
}

func (d *daoImpl) DB() *gorm.DB {
	return d.db
}

func (d *daoImpl) SaveTrainingRun(run *TrainingRun) error {
	if run.RunId == "" {
		run.RunId = uuid.New().String()
	}

	do := fromTrainingRun(run)
	d.logger.Debug("正在保存训练记录", zap.String("runId", run.RunId))
	if err := d.db.Create(do).Error; err != nil {
		return errors.Wrap(err, fmt.Sprintf("保存训练记录%s出错", run.RunId))
	}
	run.CreatedAt = do.CreatedAt
	return nil
}

func (d *daoImpl) QueryRecentTrainingRuns(limit int) ([]*TrainingRun, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("查询数量必须为正数，现在为%d", limit)
	}

	doarr := make([]*TrainingRunDO, 0, limit)
	err := d.db.Order("created_at desc").Order("id desc").Limit(limit).Find(&doarr).Error
	if err != nil {
		return nil, errors.Wrap(err, "查询训练记录出错")
	}

	result := make([]*TrainingRun, len(doarr))
	for i, do := range doarr {
		result[i] = do.toTrainingRun()
	}
	return result, nil
}

func (d *daoImpl) QueryTrainingRunById(runId string) (*TrainingRun, error) {
	do := &TrainingRunDO{}
	err := d.db.Where(&TrainingRunDO{RunId: runId}).First(do).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrRunNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("查询训练记录%s出错", runId))
	}
	return do.toTrainingRun(), nil
}

func (d *daoImpl) Close() error {
	s, err := d.db.DB()
	if err != nil {
		return errors.Wrap(err, "获取数据库连接出错")
	}
	return s.Close()
}
