// Package repository 提供结果行的 Postgres 持久化。
// 仅在配置了 DSN 时启用，供批量测试集中汇总结果。
package repository

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"

	"github.com/paiban/roster/internal/resultsheet"
	"github.com/paiban/roster/pkg/errors"
)

// ResultRepository 求解结果仓库
type ResultRepository struct {
	db *sql.DB
}

// Open 建立数据库连接并确保结果表存在
func Open(dsn string) (*ResultRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "打开数据库连接失败")
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	r := &ResultRepository{db: db}
	if err := r.ensureSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return r, nil
}

// Close 关闭数据库连接
func (r *ResultRepository) Close() error {
	return r.db.Close()
}

// ensureSchema 建表
func (r *ResultRepository) ensureSchema(ctx context.Context) error {
	const query = `
		CREATE TABLE IF NOT EXISTS solve_results (
			id            BIGSERIAL PRIMARY KEY,
			run_id        TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL,
			instance      TEXT NOT NULL,
			algorithm     TEXT NOT NULL,
			rand_seed     BIGINT NOT NULL,
			gen_count     INTEGER NOT NULL,
			iter_count    BIGINT NOT NULL,
			duration_sec  DOUBLE PRECISION NOT NULL,
			feasible      BOOLEAN NOT NULL,
			check_obj_diff DOUBLE PRECISION NOT NULL,
			obj_value     DOUBLE PRECISION NOT NULL,
			acc_obj_value DOUBLE PRECISION NOT NULL,
			solution      TEXT NOT NULL
		)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "创建结果表失败")
	}
	return nil
}

// SaveResult 插入一条结果行
func (r *ResultRepository) SaveResult(ctx context.Context, row resultsheet.Row) error {
	const query = `
		INSERT INTO solve_results (
			run_id, created_at, instance, algorithm, rand_seed,
			gen_count, iter_count, duration_sec, feasible,
			check_obj_diff, obj_value, acc_obj_value, solution
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.ExecContext(ctx, query,
		row.RunID, row.Time, row.Instance, row.Algorithm, row.RandSeed,
		row.GenCount, row.IterCount, row.Duration.Seconds(), row.Feasible,
		row.CheckObjDiff, row.ObjValue, row.AccObjValue, row.Solution,
	)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "写入结果行失败")
	}
	return nil
}
