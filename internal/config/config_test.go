package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paiban/roster/pkg/roster"
)

func TestApplyInline(t *testing.T) {
	tests := []struct {
		name    string
		inline  string
		check   func(*Config) bool
		wantErr bool
	}{
		{"算法", "algorithm=RandomWalk",
			func(c *Config) bool { return c.Solver.Algorithm == roster.AlgorithmRandomWalk }, false},
		{"模式序列", "mode_seq=ACSR",
			func(c *Config) bool { return c.Solver.ModeSeq == "ACSR" }, false},
		{"多项", "algorithm=TabuSearchRand;ar_chain_budget=8;init_perturb_strength=0.3",
			func(c *Config) bool {
				return c.Solver.Algorithm == roster.AlgorithmTabuSearchRand &&
					c.Solver.ARChainBudget == 8 &&
					c.Solver.InitPerturbStrength == 0.3
			}, false},
		{"块交换变体", "block_swap=orgn;block_swap_tabu=strong",
			func(c *Config) bool {
				return c.Solver.BlockSwap == roster.BlockSwapOrgn &&
					c.Solver.BlockSwapTabu == roster.BlockSwapTabuStrong
			}, false},
		{"未知模式序列", "mode_seq=XXXX", nil, true},
		{"未知键", "no_such_key=1", nil, true},
		{"缺少等号", "algorithm", nil, true},
		{"数值非法", "ar_chain_budget=abc", nil, true},
		{"空串", "", func(c *Config) bool { return true }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			err := cfg.ApplyInline(tt.inline)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyInline(%q) 错误 = %v，期望出错 = %v", tt.inline, err, tt.wantErr)
			}
			if err == nil && !tt.check(cfg) {
				t.Errorf("配置未按预期更新: %+v", cfg.Solver)
			}
		})
	}
}

func TestLoad_YAML与环境变量(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
log:
  level: debug
solver:
  algorithm: IterativeLocalSearch
  mode_seq: ARLCS
sheet_path: /tmp/results.csv
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() 失败: %v", err)
	}
	if cfg.Log.Level != "debug" || cfg.Solver.Algorithm != roster.AlgorithmIterativeLocalSearch ||
		cfg.Solver.ModeSeq != "ARLCS" || cfg.SheetPath != "/tmp/results.csv" {
		t.Errorf("YAML 配置未生效: %+v", cfg)
	}

	// 环境变量覆盖文件
	t.Setenv("ROSTER_ALGORITHM", roster.AlgorithmTabuSearchLoop)
	cfg, err = Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Solver.Algorithm != roster.AlgorithmTabuSearchLoop {
		t.Error("环境变量未覆盖文件配置")
	}
}

func TestLoad_文件损坏(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("solver: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("损坏的配置文件应报错")
	}
}
