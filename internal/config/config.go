// Package config 提供配置管理：YAML 文件、环境变量与内联配置串，
// 优先级为 内联串 > 环境变量 > 文件 > 默认值
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/roster"
)

// Config 应用配置
type Config struct {
	Log    logger.Config `yaml:"log"`
	Solver roster.Config `yaml:"solver"`
	// SheetPath CSV 结果表路径，为空则不写
	SheetPath string `yaml:"sheet_path"`
	// DSN Postgres 连接串，为空则不持久化
	DSN string `yaml:"dsn"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Log:    logger.DefaultConfig(),
		Solver: roster.DefaultConfig(),
	}
}

// Load 读取配置：可选的 YAML 文件，然后应用环境变量覆盖
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig,
				fmt.Sprintf("读取配置文件 '%s' 失败", path))
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig,
				fmt.Sprintf("解析配置文件 '%s' 失败", path))
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	c.Log.Level = getEnv("ROSTER_LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("ROSTER_LOG_FORMAT", c.Log.Format)
	c.SheetPath = getEnv("ROSTER_SHEET_PATH", c.SheetPath)
	c.DSN = getEnv("ROSTER_DSN", c.DSN)
	c.Solver.Algorithm = getEnv("ROSTER_ALGORITHM", c.Solver.Algorithm)
	c.Solver.ModeSeq = getEnv("ROSTER_MODE_SEQ", c.Solver.ModeSeq)
	c.Solver.InvariantCheck = getEnvBool("ROSTER_INVARIANT_CHECK", c.Solver.InvariantCheck)
}

// ApplyInline 应用内联配置串，形如 "algorithm=TabuSearchLoop;mode_seq=ARBCS"
func (c *Config) ApplyInline(inline string) error {
	if inline == "" {
		return nil
	}
	for _, pair := range strings.Split(inline, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("内联配置项 '%s' 缺少 '='", pair))
		}
		if err := c.setInline(strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return nil
}

// setInline 设置单个内联配置项
func (c *Config) setInline(key, value string) error {
	switch key {
	case "algorithm":
		c.Solver.Algorithm = value
	case "mode_seq":
		if _, ok := roster.ModeSeqPatterns[value]; !ok {
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("未知模式序列 '%s'", value))
		}
		c.Solver.ModeSeq = value
	case "day_tabu_coefficient":
		return setFloat(&c.Solver.DayTabuCoefficient, key, value)
	case "shift_tabu_coefficient":
		return setFloat(&c.Solver.ShiftTabuCoefficient, key, value)
	case "init_perturb_strength":
		return setFloat(&c.Solver.InitPerturbStrength, key, value)
	case "max_perturb_strength":
		return setFloat(&c.Solver.MaxPerturbStrength, key, value)
	case "perturb_strength_delta":
		return setFloat(&c.Solver.PerturbStrengthDelta, key, value)
	case "perturb_origin_select":
		return setFloat(&c.Solver.PerturbOriginSelect, key, value)
	case "use_block_swap":
		return setBool(&c.Solver.UseBlockSwap, key, value)
	case "block_swap":
		switch value {
		case "orgn":
			c.Solver.BlockSwap = roster.BlockSwapOrgn
		case "fast":
			c.Solver.BlockSwap = roster.BlockSwapFast
		case "part":
			c.Solver.BlockSwap = roster.BlockSwapPart
		case "rand":
			c.Solver.BlockSwap = roster.BlockSwapRand
		default:
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("未知块交换变体 '%s'", value))
		}
	case "block_swap_tabu":
		switch value {
		case "no":
			c.Solver.BlockSwapTabu = roster.BlockSwapTabuNo
		case "weak":
			c.Solver.BlockSwapTabu = roster.BlockSwapTabuWeak
		case "avg":
			c.Solver.BlockSwapTabu = roster.BlockSwapTabuAvg
		case "strong":
			c.Solver.BlockSwapTabu = roster.BlockSwapTabuStrong
		default:
			return errors.New(errors.CodeInvalidConfig,
				fmt.Sprintf("未知块交换禁忌强度 '%s'", value))
		}
	case "block_swap_radius":
		return setInt(&c.Solver.BlockSwapRadius, key, value)
	case "ar_chain_budget":
		return setInt(&c.Solver.ARChainBudget, key, value)
	case "max_no_improve_coef":
		return setFloat(&c.Solver.MaxNoImproveCoef, key, value)
	case "invariant_check":
		return setBool(&c.Solver.InvariantCheck, key, value)
	default:
		return errors.New(errors.CodeInvalidConfig, fmt.Sprintf("未知配置项 '%s'", key))
	}
	return nil
}

func setFloat(dst *float64, key, value string) error {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return errors.InvalidInput(key, value)
	}
	*dst = f
	return nil
}

func setInt(dst *int, key, value string) error {
	i, err := strconv.Atoi(value)
	if err != nil {
		return errors.InvalidInput(key, value)
	}
	*dst = i
	return nil
}

func setBool(dst *bool, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return errors.InvalidInput(key, value)
	}
	*dst = b
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
