package roster

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/paiban/roster/pkg/errors"
	"github.com/paiban/roster/pkg/logger"
	"github.com/paiban/roster/pkg/model"
)

// InitialAssignProducer 可插拔的初始解生成器。
// 返回的分配表须满足 H1..H4；报告不可行时返回 false，
// 求解器退回内置的贪心构造。
type InitialAssignProducer interface {
	GenAssign(p *model.Problem) (model.Assign, bool)
}

// Solver 一次求解的驱动器：持有问题、参数、随机源与当前最优
type Solver struct {
	problem *model.Problem
	cfg     Config
	rng     *rand.Rand
	log     *logger.SolverLogger

	startTime time.Time
	deadline  time.Time

	// nurseNumOfSkill[skill] 掌握该技能的护士数
	nurseNumOfSkill []int
	// nurseWithSkill[skill][skillNum-1] 掌握该技能且共有 skillNum 项技能的护士
	nurseWithSkill [][][]model.NurseID

	// initProducer 可选的外部初始解生成器（如精确求解器）
	initProducer InitialAssignProducer

	sln             *Solution
	optima          Output
	iterCount       int64
	generationCount int
}

// SetInitialAssignProducer 挂接外部初始解生成器
func (s *Solver) SetInitialAssignProducer(producer InitialAssignProducer) {
	s.initProducer = producer
}

// NewSolver 创建求解器。随机种子取自 problem.RandSeed，
// 所有随机决策共用同一随机源。
func NewSolver(problem *model.Problem, cfg Config, log *logger.SolverLogger) *Solver {
	if log == nil {
		log = logger.NewSolverLogger("", problem.Names.ScenarioName)
	}
	return &Solver{
		problem: problem,
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(problem.RandSeed)),
		log:     log,
	}
}

// Init 构建辅助数据并生成初始解；贪心失败时转入修复
func (s *Solver) Init() error {
	s.startTime = time.Now()
	s.deadline = s.startTime.Add(s.problem.Timeout)
	s.log.StartSolve(s.cfg.Algorithm, s.problem.Scenario.NurseNum, s.problem.RandSeed, s.problem.Timeout)

	s.initAssistData()
	s.sln = NewSolution(s)

	if s.initProducer != nil {
		if assign, ok := s.initProducer.GenAssign(s.problem); ok && CheckFeasibility(s.problem, assign) {
			s.sln.RebuildFrom(assign)
			s.optima = s.sln.GenOutput()
			return nil
		}
	}

	if !s.sln.GenInitAssign() {
		if err := s.sln.Repair(s.deadline); err != nil {
			s.sln.EvaluateObjValue()
			s.optima = s.sln.GenOutput()
			return err
		}
	} else {
		s.sln.EvaluateObjValue()
	}
	s.optima = s.sln.GenOutput()
	return nil
}

// initAssistData 初始化护士-技能关系表
func (s *Solver) initAssistData() {
	p := s.problem
	s.nurseNumOfSkill = make([]int, p.Scenario.SkillTypeNum)
	s.nurseWithSkill = make([][][]model.NurseID, p.Scenario.SkillTypeNum)
	for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
		skills := p.Scenario.Nurses[nurse].Skills
		skillNum := len(skills)
		for _, skill := range skills {
			s.nurseNumOfSkill[skill]++
			for len(s.nurseWithSkill[skill]) < skillNum {
				s.nurseWithSkill[skill] = append(s.nurseWithSkill[skill], nil)
			}
			s.nurseWithSkill[skill][skillNum-1] = append(s.nurseWithSkill[skill][skillNum-1], nurse)
		}
	}
}

// Solve 按配置的算法搜索直至截止时间
func (s *Solver) Solve() error {
	switch s.cfg.Algorithm {
	case AlgorithmRandomWalk:
		s.randomWalk()
	case AlgorithmIterativeLocalSearch:
		s.iterativeLocalSearch()
	case AlgorithmTabuSearchLoop, AlgorithmTabuSearchRand, AlgorithmTabuSearchPossibility:
		s.tabuSearch()
	default:
		return errors.New(errors.CodeInvalidConfig, fmt.Sprintf("未知算法 '%s'", s.cfg.Algorithm))
	}
	feasible := CheckFeasibility(s.problem, s.optima.Assign)
	s.log.SolveComplete(time.Since(s.startTime), s.iterCount, s.generationCount,
		float64(s.optima.ObjValue)/float64(model.Amp), feasible)
	return nil
}

// Optima 当前最优快照
func (s *Solver) Optima() Output {
	return s.optima
}

// IterCount 已执行的迭代数
func (s *Solver) IterCount() int64 {
	return s.iterCount
}

// GenerationCount 已执行的扰动代数
func (s *Solver) GenerationCount() int {
	return s.generationCount
}

// BestSolution 以全局最优分配重建一个解，用于导出下一周历史
func (s *Solver) BestSolution() *Solution {
	sln := NewSolution(s)
	sln.RebuildFrom(s.optima.Assign)
	return sln
}

// FindTimeOffset 最优解发现时刻相对求解开始的时长
func (s *Solver) FindTimeOffset() time.Duration {
	return s.optima.FindTime.Sub(s.startTime)
}

// Check 校验最优解可行且增量目标值与独立重算一致
func (s *Solver) Check() bool {
	return CheckFeasibility(s.problem, s.optima.Assign) &&
		CheckObjValue(s.problem, s.optima.Assign) == s.optima.ObjValue
}

// timeout 判断是否越过截止时间，每 (mask+1) 次迭代检查一次
func (s *Solver) timeout() bool {
	if s.iterCount&CheckTimeIntervalMaskInIter != 0 {
		return false
	}
	return time.Now().After(s.deadline)
}

// updateOptima 发现更优解时刷新快照
func (s *Solver) updateOptima() bool {
	if s.sln.objValue < s.optima.ObjValue {
		s.optima = s.sln.GenOutput()
		s.log.NewOptima(s.iterCount, float64(s.optima.ObjValue)/float64(model.Amp))
		return true
	}
	return false
}

// assertInvariant 调试模式：apply 之后与从头重算对照
func (s *Solver) assertInvariant() {
	if !s.cfg.InvariantCheck {
		return
	}
	incremental := s.sln.objValue
	if check := CheckObjValue(s.problem, s.sln.assign); check != incremental {
		panic(fmt.Sprintf("增量目标值 %d 与重算值 %d 不一致", incremental, check))
	}
	s.sln.EvaluateObjValue()
	if s.sln.objValue != incremental {
		panic(fmt.Sprintf("增量目标值 %d 与分项汇总 %d 不一致", incremental, s.sln.objValue))
	}
}

// move 一个待执行的邻域移动
type move struct {
	mode    MoveMode
	weekday int
	nurse   model.NurseID
	nurse2  model.NurseID
	shift   model.ShiftID
	skill   model.SkillID
	low     int
	high    int
	delta   model.ObjValue
}

// moveSelector 最优移动筛选器。同增量的移动优先取缺员更严重的
// 格子，仍并列时水库采样均匀取一。
type moveSelector struct {
	rng     randSource
	best    move
	bestKey int
	found   bool
	ties    int
}

func newMoveSelector(rng randSource) *moveSelector {
	return &moveSelector{rng: rng}
}

// offer 提交一个候选移动。key 为缺员程度，越大越优先。
func (m *moveSelector) offer(mv move, key int) {
	if mv.delta >= model.ForbiddenMove {
		return
	}
	if !m.found || mv.delta < m.best.delta || (mv.delta == m.best.delta && key > m.bestKey) {
		m.best = mv
		m.bestKey = key
		m.found = true
		m.ties = 1
		return
	}
	if mv.delta == m.best.delta && key == m.bestKey {
		m.ties++
		if m.rng.Intn(m.ties) == 0 {
			m.best = mv
		}
	}
}

// missingKey Add/Change 目标槽位的缺员程度
func (s *Solution) missingKey(weekday int, shift model.ShiftID, skill model.SkillID) int {
	return s.missingNurseNums[weekday][shift][skill]
}

// tabuAllowed 禁忌判定与特赦：严格优于全局最优的移动放行
func (s *Solver) tabuAllowed(tabu bool, delta model.ObjValue) bool {
	if !tabu {
		return true
	}
	return s.sln.objValue+delta < s.optima.ObjValue
}

// findBestAdd 扫描全部可行 Add
func (s *Solver) findBestAdd(useTabu bool) (move, bool) {
	p := s.problem
	sel := newMoveSelector(s.rng)
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
			if s.sln.assign.IsWorking(nurse, weekday) {
				continue
			}
			for shift := model.ShiftID(0); int(shift) < p.Scenario.ShiftTypeNum; shift++ {
				for _, skill := range p.Scenario.Nurses[nurse].Skills {
					delta := s.sln.TryAddShift(weekday, nurse, shift, skill)
					if delta >= model.ForbiddenMove {
						continue
					}
					if useTabu && !s.tabuAllowed(s.sln.isShiftTabu(nurse, weekday, shift), delta) {
						continue
					}
					sel.offer(move{mode: ModeAdd, weekday: weekday, nurse: nurse,
						shift: shift, skill: skill, delta: delta},
						s.sln.missingKey(weekday, shift, skill))
				}
			}
		}
	}
	return sel.best, sel.found
}

// findBestRemove 扫描全部可行 Remove
func (s *Solver) findBestRemove(useTabu bool) (move, bool) {
	p := s.problem
	sel := newMoveSelector(s.rng)
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
			if !s.sln.assign.IsWorking(nurse, weekday) {
				continue
			}
			delta := s.sln.TryRemoveShift(weekday, nurse)
			if delta >= model.ForbiddenMove {
				continue
			}
			if useTabu && !s.tabuAllowed(s.sln.isDayTabu(nurse, weekday), delta) {
				continue
			}
			sel.offer(move{mode: ModeRemove, weekday: weekday, nurse: nurse, delta: delta}, 0)
		}
	}
	return sel.best, sel.found
}

// findBestChange 扫描全部可行 Change
func (s *Solver) findBestChange(useTabu bool) (move, bool) {
	p := s.problem
	sel := newMoveSelector(s.rng)
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for nurse := model.NurseID(0); int(nurse) < p.Scenario.NurseNum; nurse++ {
			if !s.sln.assign.IsWorking(nurse, weekday) {
				continue
			}
			for shift := model.ShiftID(0); int(shift) < p.Scenario.ShiftTypeNum; shift++ {
				for _, skill := range p.Scenario.Nurses[nurse].Skills {
					delta := s.sln.TryChangeShift(weekday, nurse, shift, skill)
					if delta >= model.ForbiddenMove {
						continue
					}
					if useTabu && !s.tabuAllowed(s.sln.isShiftTabu(nurse, weekday, shift), delta) {
						continue
					}
					sel.offer(move{mode: ModeChange, weekday: weekday, nurse: nurse,
						shift: shift, skill: skill, delta: delta},
						s.sln.missingKey(weekday, shift, skill))
				}
			}
		}
	}
	return sel.best, sel.found
}

// findBestSwap 扫描全部护士对的单日交换
func (s *Solver) findBestSwap(useTabu bool) (move, bool) {
	p := s.problem
	sel := newMoveSelector(s.rng)
	for weekday := model.WeekdayMon; weekday < model.WeekdaySize; weekday++ {
		for n1 := model.NurseID(0); int(n1) < p.Scenario.NurseNum; n1++ {
			for n2 := n1 + 1; int(n2) < p.Scenario.NurseNum; n2++ {
				delta := s.sln.TrySwapNurse(weekday, n1, n2)
				if delta >= model.ForbiddenMove {
					continue
				}
				if useTabu && !s.tabuAllowed(s.sln.swapTabu(weekday, n1, n2), delta) {
					continue
				}
				sel.offer(move{mode: ModeSwap, weekday: weekday, nurse: n1, nurse2: n2, delta: delta}, 0)
			}
		}
	}
	return sel.best, sel.found
}

// findBestBlockSwap 按配置的变体搜索块交换
func (s *Solver) findBestBlockSwap(useTabu bool) (move, bool) {
	p := s.problem
	sel := newMoveSelector(s.rng)
	offer := func(n1, n2 model.NurseID, low, high int) bool {
		delta := s.sln.TryBlockSwap(n1, n2, low, high)
		if delta >= model.ForbiddenMove {
			return false
		}
		mid := (low + high) / 2
		if useTabu && !s.tabuAllowed(s.sln.swapTabu(mid, n1, n2), delta) {
			return false
		}
		sel.offer(move{mode: ModeBlockSwap, nurse: n1, nurse2: n2, low: low, high: high, delta: delta}, 0)
		return delta < 0
	}

	switch s.cfg.BlockSwap {
	case BlockSwapOrgn, BlockSwapFast:
		firstImprove := s.cfg.BlockSwap == BlockSwapFast
		for n1 := model.NurseID(0); int(n1) < p.Scenario.NurseNum; n1++ {
			for n2 := n1 + 1; int(n2) < p.Scenario.NurseNum; n2++ {
				for low := model.WeekdayMon; low < model.WeekdaySize; low++ {
					for high := low; high < model.WeekdaySize; high++ {
						if offer(n1, n2, low, high) && firstImprove {
							return sel.best, sel.found
						}
					}
				}
			}
		}
	case BlockSwapPart:
		// 限定在选中日所在块附近
		weekday := s.rng.Intn(model.WeekdayNum) + 1
		radius := s.cfg.BlockSwapRadius
		for n1 := model.NurseID(0); int(n1) < p.Scenario.NurseNum; n1++ {
			c := &s.sln.consecutives[n1]
			low := c.DayLow[weekday] - radius
			high := c.DayHigh[weekday] + radius
			if low < model.WeekdayMon {
				low = model.WeekdayMon
			}
			if high > model.WeekdaySun {
				high = model.WeekdaySun
			}
			for n2 := model.NurseID(0); int(n2) < p.Scenario.NurseNum; n2++ {
				if n1 != n2 {
					offer(n1, n2, low, high)
				}
			}
		}
	case BlockSwapRand:
		for i := 0; i < p.Scenario.NurseNum; i++ {
			n1 := model.NurseID(s.rng.Intn(p.Scenario.NurseNum))
			n2 := model.NurseID(s.rng.Intn(p.Scenario.NurseNum))
			if n1 == n2 {
				continue
			}
			low := s.rng.Intn(model.WeekdayNum) + 1
			high := low + s.rng.Intn(model.WeekdaySize-low)
			offer(n1, n2, low, high)
		}
	}
	return sel.best, sel.found
}

// findBestMove 按移动种类分发
func (s *Solver) findBestMove(mode MoveMode, useTabu bool) (move, bool) {
	switch mode {
	case ModeAdd:
		return s.findBestAdd(useTabu)
	case ModeRemove:
		return s.findBestRemove(useTabu)
	case ModeChange:
		return s.findBestChange(useTabu)
	case ModeSwap:
		return s.findBestSwap(useTabu)
	case ModeBlockSwap:
		return s.findBestBlockSwap(useTabu)
	default:
		return move{}, false
	}
}

// applyMove 执行移动并登记禁忌
func (s *Solver) applyMove(mv move) {
	sln := s.sln
	switch mv.mode {
	case ModeAdd:
		sln.objValue += mv.delta
		sln.AddShift(mv.weekday, mv.nurse, mv.shift, mv.skill)
		sln.tabuAdd(mv.nurse, mv.weekday)
	case ModeRemove:
		oldShift := sln.assign[mv.nurse][mv.weekday].Shift
		sln.objValue += mv.delta
		sln.RemoveShift(mv.weekday, mv.nurse)
		sln.tabuRemove(mv.nurse, mv.weekday, oldShift)
	case ModeChange:
		oldShift := sln.assign[mv.nurse][mv.weekday].Shift
		sln.objValue += mv.delta
		sln.ChangeShift(mv.weekday, mv.nurse, mv.shift, mv.skill)
		sln.tabuChange(mv.nurse, mv.weekday, oldShift)
	case ModeSwap:
		old1 := sln.assign[mv.nurse][mv.weekday]
		old2 := sln.assign[mv.nurse2][mv.weekday]
		sln.ApplySwapNurse(mv.weekday, mv.nurse, mv.nurse2)
		sln.tabuSwap(mv.weekday, mv.nurse, mv.nurse2, old1, old2)
	case ModeBlockSwap:
		old1 := append([]model.SingleAssign(nil), sln.assign[mv.nurse]...)
		old2 := append([]model.SingleAssign(nil), sln.assign[mv.nurse2]...)
		sln.ApplyBlockSwap(mv.nurse, mv.nurse2, mv.low, mv.high)
		sln.tabuBlockSwap(mv.nurse, mv.nurse2, mv.low, mv.high, old1, old2)
	}
	s.assertInvariant()
}

// descendStep 执行一步下降：仅接受改进移动。返回是否有改进。
func (s *Solver) descendStep(mode MoveMode) bool {
	s.iterCount++
	s.sln.iterCount++
	switch mode {
	case ModeARLoop, ModeARRand, ModeARBoth:
		if delta := s.sln.ApplyARChain(mode); delta < model.ForbiddenMove {
			s.assertInvariant()
			return true
		}
		return false
	default:
		mv, ok := s.findBestMove(mode, false)
		if !ok || mv.delta >= 0 {
			return false
		}
		s.applyMove(mv)
		return true
	}
}

// localSearch 按模式序列下降到局部最优
func (s *Solver) localSearch(modeSeq []MoveMode) {
	fail := 0
	i := 0
	for fail < len(modeSeq) && !s.timeout() {
		if s.descendStep(modeSeq[i]) {
			fail = 0
			s.updateOptima()
		} else {
			fail++
		}
		i = (i + 1) % len(modeSeq)
	}
}

// randomWalk 基线算法：随机选择移动种类与槽位，可行即执行
func (s *Solver) randomWalk() {
	p := s.problem
	sln := s.sln
	for ; !s.timeout(); s.iterCount++ {
		weekday := s.rng.Intn(model.WeekdayNum) + 1
		nurse := model.NurseID(s.rng.Intn(p.Scenario.NurseNum))
		shift := model.ShiftID(s.rng.Intn(p.Scenario.ShiftTypeNum))
		skill := model.SkillID(s.rng.Intn(p.Scenario.SkillTypeNum))
		switch s.rng.Intn(3) {
		case 0:
			if delta := sln.TryAddShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.AddShift(weekday, nurse, shift, skill)
			}
		case 1:
			if delta := sln.TryChangeShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.ChangeShift(weekday, nurse, shift, skill)
			}
		default:
			if delta := sln.TryRemoveShift(weekday, nurse); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.RemoveShift(weekday, nurse)
			}
		}
		s.updateOptima()
	}
}

// perturb 随机扰动：步数与强度及问题规模成正比
func (s *Solver) perturb(strength float64) {
	p := s.problem
	sln := s.sln
	steps := int(strength * float64(p.Scenario.NurseNum*model.WeekdayNum))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i < steps; i++ {
		weekday := s.rng.Intn(model.WeekdayNum) + 1
		nurse := model.NurseID(s.rng.Intn(p.Scenario.NurseNum))
		shift := model.ShiftID(s.rng.Intn(p.Scenario.ShiftTypeNum))
		skill := model.SkillID(s.rng.Intn(p.Scenario.SkillTypeNum))
		switch s.rng.Intn(4) {
		case 0:
			if delta := sln.TryAddShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.AddShift(weekday, nurse, shift, skill)
			}
		case 1:
			if delta := sln.TryChangeShift(weekday, nurse, shift, skill); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.ChangeShift(weekday, nurse, shift, skill)
			}
		case 2:
			if delta := sln.TryRemoveShift(weekday, nurse); delta < model.ForbiddenMove {
				sln.objValue += delta
				sln.RemoveShift(weekday, nurse)
			}
		default:
			nurse2 := model.NurseID(s.rng.Intn(p.Scenario.NurseNum))
			sln.ApplySwapNurse(weekday, nurse, nurse2)
		}
	}
	s.updateOptima()
}

// restartOrigin 按概率决定扰动起点：全局最优或当前局部最优
func (s *Solver) restartOrigin() {
	if s.rng.Float64() < s.cfg.PerturbOriginSelect {
		s.sln.RebuildFrom(s.optima.Assign)
	}
}

// iterativeLocalSearch 迭代局部搜索：下降 + 自适应强度扰动
func (s *Solver) iterativeLocalSearch() {
	modeSeq := s.modeSeq()
	strength := s.cfg.InitPerturbStrength
	for !s.timeout() {
		prevOptima := s.optima.ObjValue
		s.localSearch(modeSeq)
		s.updateOptima()
		// 扰动强度仅在接受新的全局最优时复位
		if s.optima.ObjValue < prevOptima {
			strength = s.cfg.InitPerturbStrength
		} else {
			strength += s.cfg.PerturbStrengthDelta
			if strength > s.cfg.MaxPerturbStrength {
				strength = s.cfg.MaxPerturbStrength
			}
		}
		s.generationCount++
		s.restartOrigin()
		s.perturb(strength)
	}
}

// modeSeq 返回配置的模式序列，按需附加块交换
func (s *Solver) modeSeq() []MoveMode {
	seq := s.cfg.modeSeq()
	if s.cfg.UseBlockSwap {
		seq = append(append([]MoveMode(nil), seq...), ModeBlockSwap)
	}
	return seq
}

// tabuStep 执行一步禁忌搜索：取最优非禁忌（或特赦）移动，
// 即使恶化也执行。返回是否有移动被执行。
func (s *Solver) tabuStep(mode MoveMode) bool {
	s.iterCount++
	s.sln.iterCount++
	switch mode {
	case ModeARLoop, ModeARRand, ModeARBoth:
		if delta := s.sln.ApplyARChain(mode); delta < model.ForbiddenMove {
			s.assertInvariant()
			return true
		}
		return false
	default:
		mv, ok := s.findBestMove(mode, true)
		if !ok {
			return false
		}
		s.applyMove(mv)
		return true
	}
}

// tabuSearch 禁忌搜索外壳：内层禁忌下降，无改进达到阈值后扰动。
// Loop 变体按序轮转模式，Rand 均匀随机，Possibility 按近期成功率加权。
func (s *Solver) tabuSearch() {
	modeSeq := s.modeSeq()
	strength := s.cfg.InitPerturbStrength
	maxNoImprove := int64(s.cfg.MaxNoImproveCoef *
		float64(s.problem.Scenario.NurseNum*model.WeekdayNum))
	if maxNoImprove < 1 {
		maxNoImprove = 1
	}

	// Possibility 变体的成功权重
	weights := make([]float64, len(modeSeq))
	for i := range weights {
		weights[i] = 1
	}

	pickMode := func(step int64) int {
		switch s.cfg.Algorithm {
		case AlgorithmTabuSearchRand:
			return s.rng.Intn(len(modeSeq))
		case AlgorithmTabuSearchPossibility:
			total := 0.0
			for _, w := range weights {
				total += w
			}
			r := s.rng.Float64() * total
			for i, w := range weights {
				r -= w
				if r < 0 {
					return i
				}
			}
			return len(modeSeq) - 1
		default: // AlgorithmTabuSearchLoop
			return int(step) % len(modeSeq)
		}
	}

	for !s.timeout() {
		prevOptima := s.optima.ObjValue
		var noImprove int64
		for step := int64(0); noImprove < maxNoImprove && !s.timeout(); step++ {
			i := pickMode(step)
			moved := s.tabuStep(modeSeq[i])
			improved := s.updateOptima()
			if improved {
				noImprove = 0
				weights[i] += 1
			} else {
				noImprove++
				if weights[i] > 1 {
					weights[i] *= 0.99
				}
			}
			if !moved && s.cfg.Algorithm == AlgorithmTabuSearchLoop {
				// 当前模式已无可行移动，跳到下一模式
				continue
			}
		}

		// 扰动强度仅在接受新的全局最优时复位
		if s.optima.ObjValue < prevOptima {
			strength = s.cfg.InitPerturbStrength
		} else {
			strength += s.cfg.PerturbStrengthDelta
			if strength > s.cfg.MaxPerturbStrength {
				strength = s.cfg.MaxPerturbStrength
			}
		}
		s.generationCount++
		s.restartOrigin()
		s.perturb(strength)
	}
}
