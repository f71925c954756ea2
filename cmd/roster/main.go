// Roster 护士排班求解器
// 主程序入口

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/paiban/roster/internal/batch"
	"github.com/paiban/roster/internal/config"
	"github.com/paiban/roster/internal/loader"
	"github.com/paiban/roster/internal/repository"
	"github.com/paiban/roster/internal/resultsheet"
	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 单次求解的命令行参数
var (
	flagID         string
	flagConfig     string
	flagConfigFile string
	flagSce        string
	flagHis        string
	flagWeek       string
	flagSol        string
	flagTimeout    float64
	flagRand       int64
	flagCusIn      string
	flagCusOut     string
	flagSheet      string
	flagDSN        string
)

// 批量测试的命令行参数
var (
	flagBatchDir       string
	flagBatchOut       string
	flagBatchInstances string
	flagBatchH0        int
	flagBatchWeeks     string
	flagBatchSeed      int64
	flagBatchWorkers   int
	flagBatchTimeouts  string
)

func main() {
	root := &cobra.Command{
		Use:           "roster",
		Short:         "INRC-II 护士排班求解器",
		Version:       fmt.Sprintf("%s (build %s, commit %s)", Version, BuildTime, GitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runSolve,
	}

	root.Flags().StringVar(&flagID, "id", "", "运行标识，缺省自动生成")
	root.Flags().StringVar(&flagConfig, "config", "", "内联配置串，形如 key=value;key=value")
	root.Flags().StringVar(&flagConfigFile, "configFile", "", "YAML 配置文件路径")
	root.Flags().StringVar(&flagSce, "sce", "", "场景文件路径")
	root.Flags().StringVar(&flagHis, "his", "", "历史文件路径")
	root.Flags().StringVar(&flagWeek, "week", "", "周数据文件路径")
	root.Flags().StringVar(&flagSol, "sol", "", "解文件输出路径")
	root.Flags().Float64Var(&flagTimeout, "timeout", 60, "求解时限（秒）")
	root.Flags().Int64Var(&flagRand, "rand", 0, "随机种子")
	root.Flags().StringVar(&flagCusIn, "cusIn", "", "上周内部状态快照路径")
	root.Flags().StringVar(&flagCusOut, "cusOut", "", "写给下周的内部状态快照路径")
	root.Flags().StringVar(&flagSheet, "sheet", "", "CSV 结果表路径")
	root.Flags().StringVar(&flagDSN, "dsn", "", "Postgres 连接串")
	_ = root.MarkFlagRequired("sce")
	_ = root.MarkFlagRequired("week")

	batchCmd := &cobra.Command{
		Use:   "batch",
		Short: "在工作池上批量求解标准算例",
		RunE:  runBatch,
	}
	batchCmd.Flags().StringVar(&flagBatchDir, "dir", ".", "算例数据目录")
	batchCmd.Flags().StringVar(&flagBatchOut, "out", "", "解文件输出目录")
	batchCmd.Flags().StringVar(&flagBatchInstances, "instances", "", "算例名称列表，逗号分隔，缺省全部")
	batchCmd.Flags().IntVar(&flagBatchH0, "h0", 0, "初始历史文件编号")
	batchCmd.Flags().StringVar(&flagBatchWeeks, "weeks", "", "周数据文件编号列表，逗号分隔")
	batchCmd.Flags().Int64Var(&flagBatchSeed, "seed", 0, "随机种子基数")
	batchCmd.Flags().IntVar(&flagBatchWorkers, "workers", 4, "并行工作数")
	batchCmd.Flags().StringVar(&flagBatchTimeouts, "timeoutTable", "", "时限表文件路径")
	batchCmd.Flags().StringVar(&flagConfig, "config", "", "内联配置串")
	batchCmd.Flags().StringVar(&flagConfigFile, "configFile", "", "YAML 配置文件路径")
	batchCmd.Flags().StringVar(&flagSheet, "sheet", "", "CSV 结果表路径")
	batchCmd.Flags().StringVar(&flagDSN, "dsn", "", "Postgres 连接串")
	root.AddCommand(batchCmd)

	if err := root.Execute(); err != nil {
		logger.WithError(err).Msg("执行失败")
		os.Exit(errors.ExitCode(err))
	}
}

// loadConfig 组装配置：文件、环境变量、内联串
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfigFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyInline(flagConfig); err != nil {
		return nil, err
	}
	if flagSheet != "" {
		cfg.SheetPath = flagSheet
	}
	if flagDSN != "" {
		cfg.DSN = flagDSN
	}
	return cfg, nil
}

// runSolve 单周求解
func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log)

	if flagHis == "" && flagCusIn == "" {
		return errors.InvalidInput("his", "必须提供历史文件或状态快照")
	}

	p, err := loader.LoadProblem(flagSce, flagHis, flagWeek, flagCusIn)
	if err != nil {
		return err
	}
	p.RandSeed = flagRand
	p.Timeout = time.Duration(flagTimeout * float64(time.Second))

	runID := flagID
	if runID == "" {
		runID = uuid.New().String()
	}

	solver, row, solveErr := batch.SolveProblem(cfg, runID, p)
	optima := solver.Optima()

	if flagSol != "" {
		if err := loader.WriteSolution(flagSol, p, optima.Assign); err != nil {
			return err
		}
	}
	if flagCusOut != "" {
		sln := solver.BestSolution()
		if err := loader.WriteCustomOutput(flagCusOut, p.Names.ScenarioName, sln.GenHistory()); err != nil {
			return err
		}
	}
	if cfg.SheetPath != "" {
		if err := resultsheet.Append(cfg.SheetPath, row); err != nil {
			return err
		}
	}
	if cfg.DSN != "" {
		repo, err := repository.Open(cfg.DSN)
		if err != nil {
			return err
		}
		defer repo.Close()
		if err := repo.SaveResult(context.Background(), row); err != nil {
			return err
		}
	}

	fmt.Printf("objValue: %g\n", row.ObjValue)
	if solveErr != nil {
		return solveErr
	}
	if !row.Feasible {
		return errors.Infeasible("最终解不满足全部硬约束")
	}
	return nil
}

// runBatch 批量求解
func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.Log)

	timeouts := batch.DefaultTimeoutTable()
	if flagBatchTimeouts != "" {
		timeouts, err = batch.LoadTimeoutTable(flagBatchTimeouts)
		if err != nil {
			return err
		}
	}

	instances := batch.Instances
	if flagBatchInstances != "" {
		instances = nil
		for _, name := range strings.Split(flagBatchInstances, ",") {
			inst, ok := batch.InstanceByName(strings.TrimSpace(name))
			if !ok {
				return errors.InvalidInput("instances", name)
			}
			instances = append(instances, inst)
		}
	}

	var repo *repository.ResultRepository
	if cfg.DSN != "" {
		repo, err = repository.Open(cfg.DSN)
		if err != nil {
			return err
		}
		defer repo.Close()
	}

	var tasks []batch.Task
	for _, inst := range instances {
		weeks, err := parseWeeks(flagBatchWeeks, inst.WeekNum)
		if err != nil {
			return err
		}
		tasks = append(tasks, batch.Task{
			Instance: inst,
			H0:       flagBatchH0,
			WeekData: weeks,
			Seed:     flagBatchSeed,
		})
	}

	runner := &batch.Runner{
		DataDir:   flagBatchDir,
		OutDir:    flagBatchOut,
		SheetPath: cfg.SheetPath,
		Cfg:       cfg,
		Timeouts:  timeouts,
		Workers:   flagBatchWorkers,
		Repo:      repo,
	}
	return runner.Run(context.Background(), tasks)
}

// parseWeeks 解析周数据编号列表；为空时默认 0..weekNum-1
func parseWeeks(s string, weekNum int) ([]int, error) {
	if s == "" {
		weeks := make([]int, weekNum)
		for i := range weeks {
			weeks[i] = i
		}
		return weeks, nil
	}
	var weeks []int
	for _, part := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, errors.InvalidInput("weeks", part)
		}
		weeks = append(weeks, w)
	}
	return weeks, nil
}
