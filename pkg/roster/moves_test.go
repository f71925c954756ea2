package roster

import (
	"math/rand"
	"testing"

	"github.com/paiban/roster/pkg/model"
)

func TestBlockSwap_试探不改动状态(t *testing.T) {
	p := newTestProblem(3, 2, 1, withDemand(0, 1))
	solver := newTestSolver(p)
	sln := solver.sln
	rng := rand.New(rand.NewSource(21))
	applyRandomMoves(t, solver, rng, 60)

	before := captureState(sln)
	for n1 := model.NurseID(0); n1 < 3; n1++ {
		for n2 := n1 + 1; n2 < 3; n2++ {
			for low := model.WeekdayMon; low < model.WeekdaySize; low++ {
				for high := low; high < model.WeekdaySize; high++ {
					sln.TryBlockSwap(n1, n2, low, high)
					if !statesEqual(before, captureState(sln)) {
						t.Fatalf("TryBlockSwap(%d,%d,%d,%d) 改动了状态", n1, n2, low, high)
					}
				}
			}
		}
	}
}

func TestBlockSwap_试探与执行一致(t *testing.T) {
	p := newTestProblem(3, 2, 2, withDemand(0, 1))
	solver := newTestSolver(p)
	sln := solver.sln
	rng := rand.New(rand.NewSource(22))
	applyRandomMoves(t, solver, rng, 60)

	for n1 := model.NurseID(0); n1 < 3; n1++ {
		for n2 := n1 + 1; n2 < 3; n2++ {
			for low := model.WeekdayMon; low <= model.WeekdayFri; low++ {
				high := low + 2
				want := sln.TryBlockSwap(n1, n2, low, high)
				if want >= model.ForbiddenMove {
					continue
				}
				objBefore := sln.objValue
				got := sln.ApplyBlockSwap(n1, n2, low, high)
				if got != want {
					t.Fatalf("试探增量 %d 与执行增量 %d 不一致", want, got)
				}
				if sln.objValue != objBefore+want {
					t.Fatalf("目标值未按增量更新")
				}
				if check := CheckObjValue(p, sln.assign); check != sln.objValue {
					t.Fatalf("块交换后增量目标值 %d 与重算 %d 不一致", sln.objValue, check)
				}
			}
		}
	}
}

func TestARChain_只提交改进(t *testing.T) {
	p := newTestProblem(4, 2, 1, withDemand(1, 2))
	solver := newTestSolver(p)
	sln := solver.sln
	if !sln.GenInitAssign() {
		t.Fatal("贪心构造失败")
	}
	sln.EvaluateObjValue()
	solver.optima = sln.GenOutput()

	for _, variant := range []MoveMode{ModeARLoop, ModeARRand, ModeARBoth} {
		t.Run(variant.String(), func(t *testing.T) {
			for i := 0; i < 20; i++ {
				before := sln.objValue
				delta := sln.ApplyARChain(variant)
				if delta >= model.ForbiddenMove {
					if sln.objValue != before {
						t.Fatalf("拒绝的链改动了目标值")
					}
					continue
				}
				if delta >= 0 {
					t.Fatalf("提交的链增量 %d 非负", delta)
				}
				if sln.objValue != before+delta {
					t.Fatalf("目标值未按链增量更新")
				}
				if check := CheckObjValue(p, sln.assign); check != sln.objValue {
					t.Fatalf("链执行后增量目标值 %d 与重算 %d 不一致", sln.objValue, check)
				}
			}
		})
	}
}

func TestTabu_期限与特赦(t *testing.T) {
	p := newTestProblem(2, 2, 1)
	solver := newTestSolver(p)
	sln := solver.sln

	sln.iterCount = 10
	sln.tabuAdd(0, model.WeekdayMon)
	if !sln.isDayTabu(0, model.WeekdayMon) {
		t.Error("刚登记的移动应处于禁忌期")
	}
	if sln.isDayTabu(1, model.WeekdayMon) {
		t.Error("未登记的移动不应禁忌")
	}

	// 推进迭代直到禁忌期结束
	expire := sln.dayTabu[0][model.WeekdayMon]
	sln.iterCount = expire + 1
	if sln.isDayTabu(0, model.WeekdayMon) {
		t.Error("禁忌期结束后仍被禁忌")
	}

	// 特赦：严格优于全局最优的移动放行
	solver.optima.ObjValue = sln.objValue + 100
	if !solver.tabuAllowed(true, -200) {
		t.Error("改进全局最优的禁忌移动应被特赦")
	}
	if solver.tabuAllowed(true, 100) {
		t.Error("未改进全局最优的禁忌移动不应放行")
	}
}

func TestTabu_期限采样范围(t *testing.T) {
	p := newTestProblem(2, 2, 1)
	solver := newTestSolver(p)
	sln := solver.sln

	for i := 0; i < 200; i++ {
		tenure := tabuTenure(solver.rng, sln.dayTabuBase, sln.dayTabuAmp)
		if tenure < sln.dayTabuBase-sln.dayTabuAmp || tenure > sln.dayTabuBase+sln.dayTabuAmp {
			t.Fatalf("禁忌期 %d 超出 [%d,%d]", tenure,
				sln.dayTabuBase-sln.dayTabuAmp, sln.dayTabuBase+sln.dayTabuAmp)
		}
	}
}
