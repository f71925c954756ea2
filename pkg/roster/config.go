package roster

import "github.com/paiban/roster/pkg/model"

// MoveMode 邻域移动种类标签
type MoveMode int

const (
	ModeAdd MoveMode = iota
	ModeChange
	ModeSwap
	ModeRemove
	ModeBlockSwap
	ModeARLoop
	ModeARRand
	ModeARBoth
)

// moveModeNames 移动种类名称
var moveModeNames = map[MoveMode]string{
	ModeAdd:       "Add",
	ModeChange:    "Change",
	ModeSwap:      "Swap",
	ModeRemove:    "Remove",
	ModeBlockSwap: "BlockSwap",
	ModeARLoop:    "ARLoop",
	ModeARRand:    "ARRand",
	ModeARBoth:    "ARBoth",
}

// String 返回移动种类名称
func (m MoveMode) String() string {
	return moveModeNames[m]
}

// ModeSeqPatterns 模式序列表：按序尝试的移动种类
var ModeSeqPatterns = map[string][]MoveMode{
	"ACSR":  {ModeAdd, ModeChange, ModeSwap, ModeRemove},
	"ASCR":  {ModeAdd, ModeSwap, ModeChange, ModeRemove},
	"ARLCS": {ModeARLoop, ModeChange, ModeSwap},
	"ARRCS": {ModeARRand, ModeChange, ModeSwap},
	"ARBCS": {ModeARBoth, ModeChange, ModeSwap},
}

// 求解算法名称
const (
	AlgorithmRandomWalk            = "RandomWalk"
	AlgorithmIterativeLocalSearch  = "IterativeLocalSearch"
	AlgorithmTabuSearchLoop        = "TabuSearchLoop"
	AlgorithmTabuSearchRand        = "TabuSearchRand"
	AlgorithmTabuSearchPossibility = "TabuSearchPossibility"
)

// SolveAlgorithmNames 全部可用算法
var SolveAlgorithmNames = []string{
	AlgorithmRandomWalk,
	AlgorithmIterativeLocalSearch,
	AlgorithmTabuSearchLoop,
	AlgorithmTabuSearchRand,
	AlgorithmTabuSearchPossibility,
}

// BlockSwapVariant 块交换的搜索方式
type BlockSwapVariant int

const (
	BlockSwapOrgn BlockSwapVariant = iota // 枚举所有 (lo,hi)
	BlockSwapFast                         // 首改进
	BlockSwapPart                         // 限定在选中日所在块附近
	BlockSwapRand                         // 随机采样
)

// BlockSwapTabuStrength 块交换的禁忌强度
type BlockSwapTabuStrength int

const (
	BlockSwapTabuNo BlockSwapTabuStrength = iota
	BlockSwapTabuWeak
	BlockSwapTabuAvg
	BlockSwapTabuStrong
)

// 搜索常量
const (
	// CheckTimeIntervalMaskInIter 每 (mask+1) 次迭代检查一次截止时间
	CheckTimeIntervalMaskInIter = (1 << 10) - 1
	// MaxInitAssignAttempts 贪心构造的重启上限，超过后进入修复
	MaxInitAssignAttempts = 64
	// MinTabuBase 禁忌期基数下限
	MinTabuBase = 6
	// TabuBaseToAmp 禁忌期振幅系数：amp = 1 + base/TabuBaseToAmp
	TabuBaseToAmp = 4
)

// Config 求解器参数
type Config struct {
	Algorithm string  `yaml:"algorithm"`
	ModeSeq   string  `yaml:"mode_seq"`

	// 禁忌期系数，base = coef × 对应表大小
	DayTabuCoefficient   float64 `yaml:"day_tabu_coefficient"`
	ShiftTabuCoefficient float64 `yaml:"shift_tabu_coefficient"`

	// 扰动参数
	InitPerturbStrength  float64 `yaml:"init_perturb_strength"`
	MaxPerturbStrength   float64 `yaml:"max_perturb_strength"`
	PerturbStrengthDelta float64 `yaml:"perturb_strength_delta"`
	// PerturbOriginSelect 以该概率从全局最优出发扰动，否则从局部最优出发
	PerturbOriginSelect float64 `yaml:"perturb_origin_select"`

	// 块交换参数
	UseBlockSwap  bool                  `yaml:"use_block_swap"`
	BlockSwap     BlockSwapVariant      `yaml:"block_swap"`
	BlockSwapTabu BlockSwapTabuStrength `yaml:"block_swap_tabu"`
	BlockSwapRadius int                 `yaml:"block_swap_radius"`

	// AR 链参数
	ARChainBudget int `yaml:"ar_chain_budget"`

	// MaxNoImproveCoef 无改进代数上限相对于护士×天数的系数
	MaxNoImproveCoef float64 `yaml:"max_no_improve_coef"`

	// InvariantCheck 每次 apply 后重新计算目标值并核对（调试用）
	InvariantCheck bool `yaml:"invariant_check"`
}

// DefaultConfig 默认求解参数
func DefaultConfig() Config {
	return Config{
		Algorithm:            AlgorithmTabuSearchLoop,
		ModeSeq:              "ARBCS",
		DayTabuCoefficient:   0.4,
		ShiftTabuCoefficient: 0.8,
		InitPerturbStrength:  0.2,
		MaxPerturbStrength:   0.6,
		PerturbStrengthDelta: 0.01,
		PerturbOriginSelect:  0.4,
		UseBlockSwap:         true,
		BlockSwap:            BlockSwapPart,
		BlockSwapTabu:        BlockSwapTabuAvg,
		BlockSwapRadius:      1,
		ARChainBudget:        16,
		MaxNoImproveCoef:     1.0,
		InvariantCheck:       false,
	}
}

// modeSeq 返回配置的模式序列，未知名称退回 ARBCS
func (c *Config) modeSeq() []MoveMode {
	if seq, ok := ModeSeqPatterns[c.ModeSeq]; ok {
		return seq
	}
	return ModeSeqPatterns["ARBCS"]
}

// tabuTenure 由基数与振幅采样一个具体禁忌期
func tabuTenure(rng randSource, base, amp model.IterCount) model.IterCount {
	if amp <= 0 {
		return base
	}
	return base - amp + model.IterCount(rng.Int63n(int64(2*amp+1)))
}

// randSource 抽象出采样所需的随机接口，便于测试
type randSource interface {
	Int63n(n int64) int64
	Intn(n int) int
	Float64() float64
}
