package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"sumerplus/internal/model"
)

var (
	// ErrDriverConfigNotFound 车号没有司机配置
	ErrDriverConfigNotFound = errors.New("driver config not found")
	// ErrInvalidDriverConfig 司机配置字段不合法
	ErrInvalidDriverConfig = errors.New("invalid driver config")
)

// ValidateDriverConfig 校验：车号 > 0、司机名非空、费率 > 0
func ValidateDriverConfig(cfg model.DriverConfig) error {
	switch {
	case cfg.UnitNumber <= 0:
		return fmt.Errorf("%w: unit_number must be a positive integer", ErrInvalidDriverConfig)
	case strings.TrimSpace(cfg.DriverName) == "":
		return fmt.Errorf("%w: driver_name is required", ErrInvalidDriverConfig)
	case cfg.RatePerMile <= 0:
		return fmt.Errorf("%w: rate_per_mile must be greater than 0", ErrInvalidDriverConfig)
	}
	return nil
}

// UpsertDriverConfig 新增或更新司机配置
func (s *Store) UpsertDriverConfig(ctx context.Context, cfg model.DriverConfig) error {
	if err := ValidateDriverConfig(cfg); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO driver_config (unit_number, driver_name, driver_email, company, rate_per_mile)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(unit_number) DO UPDATE SET
			driver_name = excluded.driver_name,
			driver_email = excluded.driver_email,
			company = excluded.company,
			rate_per_mile = excluded.rate_per_mile,
			updated_at = CURRENT_TIMESTAMP
	`, cfg.UnitNumber, strings.TrimSpace(cfg.DriverName), nullString(cfg.DriverEmail), nullString(cfg.Company), cfg.RatePerMile)
	if err != nil {
		return fmt.Errorf("failed to upsert driver config: %w", err)
	}
	return nil
}

// GetDriverConfig 按车号读取司机配置
func (s *Store) GetDriverConfig(ctx context.Context, unit int) (*model.DriverConfig, error) {
	var (
		cfg     model.DriverConfig
		email   sql.NullString
		company sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT unit_number, driver_name, driver_email, company, rate_per_mile
		FROM driver_config WHERE unit_number = ?
	`, unit).Scan(&cfg.UnitNumber, &cfg.DriverName, &email, &company, &cfg.RatePerMile)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDriverConfigNotFound
		}
		return nil, fmt.Errorf("failed to query driver config: %w", err)
	}
	cfg.DriverEmail = email.String
	cfg.Company = company.String
	return &cfg, nil
}

// ListDriverConfigs 全部司机配置，按车号（字符串）索引
func (s *Store) ListDriverConfigs(ctx context.Context) (map[string]model.DriverTerms, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT unit_number, driver_name, driver_email, company, rate_per_mile
		FROM driver_config ORDER BY unit_number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list driver configs: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.DriverTerms)
	for rows.Next() {
		var (
			cfg     model.DriverConfig
			email   sql.NullString
			company sql.NullString
		)
		if err := rows.Scan(&cfg.UnitNumber, &cfg.DriverName, &email, &company, &cfg.RatePerMile); err != nil {
			return nil, fmt.Errorf("failed to scan driver config: %w", err)
		}
		cfg.DriverEmail = email.String
		cfg.Company = company.String
		out[strconv.Itoa(cfg.UnitNumber)] = cfg.Terms()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate driver configs: %w", err)
	}
	return out, nil
}

// DriverTermsOrEmpty 读取全部司机配置；失败时记录日志并返回空表
func (s *Store) DriverTermsOrEmpty(ctx context.Context) map[string]model.DriverTerms {
	out, err := s.ListDriverConfigs(ctx)
	if err != nil {
		log.Printf("[store] driver configs unavailable: %v", err)
		return map[string]model.DriverTerms{}
	}
	return out
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
